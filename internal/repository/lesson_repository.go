package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/repository/models"
	"edu-classroom/internal/util"

	"github.com/jmoiron/sqlx"
)

const lessonColumns = `id, course_id, name, abstract, created_at, updated_at`

// LessonDatabaseAdapter implements domain.LessonRepository.
type LessonDatabaseAdapter struct {
	db *sqlx.DB
}

func NewLessonDatabaseAdapter(db *sqlx.DB) domain.LessonRepository {
	return &LessonDatabaseAdapter{db: db}
}

func toDomainLesson(m *models.Lesson) *domain.Lesson {
	return &domain.Lesson{
		ID:        m.ID,
		CourseID:  m.CourseID,
		Name:      m.Name,
		Abstract:  util.NullStringToString(m.Abstract),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (a *LessonDatabaseAdapter) CreateLesson(ctx context.Context, lesson *domain.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = util.NewULID()
	}
	now := time.Now()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO lessons (` + lessonColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		lesson.ID, lesson.CourseID, lesson.Name, util.StringToNullString(lesson.Abstract), lesson.CreatedAt, lesson.UpdatedAt)
	return mapWriteError(err, "lesson already exists", "failed to create lesson")
}

func (a *LessonDatabaseAdapter) GetLessonByID(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	var m models.Lesson
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = ?`
	if err := exec.GetContext(ctx, &m, exec.Rebind(query), lessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}
	return toDomainLesson(&m), nil
}

func (a *LessonDatabaseAdapter) ListLessonsByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error) {
	var rows []models.Lesson
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = ? ORDER BY created_at, id`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), courseID); err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	lessons := make([]*domain.Lesson, 0, len(rows))
	for i := range rows {
		lessons = append(lessons, toDomainLesson(&rows[i]))
	}
	return lessons, nil
}

// CountLessonsByCourse returns the live lesson count of a course.
func (a *LessonDatabaseAdapter) CountLessonsByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	exec := GetExecutor(ctx, a.db)
	if err := exec.GetContext(ctx, &count, exec.Rebind(`SELECT COUNT(*) FROM lessons WHERE course_id = ?`), courseID); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}

func (a *LessonDatabaseAdapter) UpdateLesson(ctx context.Context, lesson *domain.Lesson) error {
	lesson.UpdatedAt = time.Now()
	ok, err := execAffectingOne(ctx, GetExecutor(ctx, a.db),
		`UPDATE lessons SET name = ?, abstract = ?, updated_at = ? WHERE id = ?`,
		lesson.Name, util.StringToNullString(lesson.Abstract), lesson.UpdatedAt, lesson.ID)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("Lesson", lesson.ID)
	}
	return nil
}

func (a *LessonDatabaseAdapter) DeleteLesson(ctx context.Context, lessonID string) error {
	ok, err := execAffectingOne(ctx, GetExecutor(ctx, a.db), `DELETE FROM lessons WHERE id = ?`, lessonID)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("Lesson", lessonID)
	}
	return nil
}

func (a *LessonDatabaseAdapter) DeleteLessonsByCourse(ctx context.Context, courseID string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM lessons WHERE course_id = ?`), courseID); err != nil {
		return fmt.Errorf("failed to delete lessons of course: %w", err)
	}
	return nil
}
