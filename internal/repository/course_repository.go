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

const courseWithCountSelect = `SELECT c.id, c.name, c.abstract, c.created_at, c.updated_at, COUNT(l.id) AS lesson_count
	FROM courses c LEFT JOIN lessons l ON l.course_id = c.id`

const courseGroupBy = ` GROUP BY c.id, c.name, c.abstract, c.created_at, c.updated_at`

// CourseDatabaseAdapter implements domain.CourseRepository.
type CourseDatabaseAdapter struct {
	db *sqlx.DB
}

func NewCourseDatabaseAdapter(db *sqlx.DB) domain.CourseRepository {
	return &CourseDatabaseAdapter{db: db}
}

func toDomainCourse(m *models.CourseWithCount) *domain.Course {
	return &domain.Course{
		ID:          m.ID,
		Name:        m.Name,
		Abstract:    util.NullStringToString(m.Abstract),
		LessonCount: m.LessonCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (a *CourseDatabaseAdapter) CreateCourse(ctx context.Context, course *domain.Course) error {
	if course.ID == "" {
		course.ID = util.NewULID()
	}
	now := time.Now()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO courses (id, name, abstract, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		course.ID, course.Name, util.StringToNullString(course.Abstract), course.CreatedAt, course.UpdatedAt)
	return mapWriteError(err, "course already exists", "failed to create course")
}

// GetCourseByID returns the course with its live lesson count, or (nil, nil).
func (a *CourseDatabaseAdapter) GetCourseByID(ctx context.Context, courseID string) (*domain.Course, error) {
	var m models.CourseWithCount
	exec := GetExecutor(ctx, a.db)
	query := courseWithCountSelect + ` WHERE c.id = ?` + courseGroupBy
	if err := exec.GetContext(ctx, &m, exec.Rebind(query), courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}
	return toDomainCourse(&m), nil
}

func (a *CourseDatabaseAdapter) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	var rows []models.CourseWithCount
	query := courseWithCountSelect + courseGroupBy + ` ORDER BY c.created_at, c.id`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	courses := make([]*domain.Course, 0, len(rows))
	for i := range rows {
		courses = append(courses, toDomainCourse(&rows[i]))
	}
	return courses, nil
}

func (a *CourseDatabaseAdapter) UpdateCourse(ctx context.Context, course *domain.Course) error {
	course.UpdatedAt = time.Now()
	ok, err := execAffectingOne(ctx, GetExecutor(ctx, a.db),
		`UPDATE courses SET name = ?, abstract = ?, updated_at = ? WHERE id = ?`,
		course.Name, util.StringToNullString(course.Abstract), course.UpdatedAt, course.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("Course", course.ID)
	}
	return nil
}

func (a *CourseDatabaseAdapter) DeleteCourse(ctx context.Context, courseID string) error {
	ok, err := execAffectingOne(ctx, GetExecutor(ctx, a.db), `DELETE FROM courses WHERE id = ?`, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("Course", courseID)
	}
	return nil
}

func (a *CourseDatabaseAdapter) ExistsCourse(ctx context.Context, courseID string) (bool, error) {
	var count int
	exec := GetExecutor(ctx, a.db)
	if err := exec.GetContext(ctx, &count, exec.Rebind(`SELECT COUNT(*) FROM courses WHERE id = ?`), courseID); err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}
	return count > 0, nil
}
