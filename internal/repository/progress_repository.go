package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/repository/models"
	"edu-classroom/internal/util"

	"github.com/jmoiron/sqlx"
)

const progressColumns = `id, user_id, course_id, completed_lessons, total_lessons, percentage, status, created_at, updated_at`

// ProgressDatabaseAdapter implements domain.ProgressRepository.
type ProgressDatabaseAdapter struct {
	db *sqlx.DB
}

func NewProgressDatabaseAdapter(db *sqlx.DB) domain.ProgressRepository {
	return &ProgressDatabaseAdapter{db: db}
}

func toDomainProgress(m *models.Progress) *domain.Progress {
	return &domain.Progress{
		ID:               m.ID,
		UserID:           m.UserID,
		CourseID:         m.CourseID,
		CompletedLessons: m.CompletedLessons,
		TotalLessons:     m.TotalLessons,
		Percentage:       m.Percentage,
		Status:           domain.ProgressStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (a *ProgressDatabaseAdapter) CreateProgress(ctx context.Context, progress *domain.Progress) error {
	if progress.ID == "" {
		progress.ID = util.NewULID()
	}
	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO progress (` + progressColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		progress.ID, progress.UserID, progress.CourseID,
		progress.CompletedLessons, progress.TotalLessons, progress.Percentage, string(progress.Status),
		progress.CreatedAt, progress.UpdatedAt)
	return mapWriteError(err,
		fmt.Sprintf("Progress for user %s in course %s already exists", progress.UserID, progress.CourseID),
		"failed to create progress")
}

func (a *ProgressDatabaseAdapter) getOne(ctx context.Context, query, progressID string) (*domain.Progress, error) {
	var m models.Progress
	exec := GetExecutor(ctx, a.db)
	if err := exec.GetContext(ctx, &m, exec.Rebind(query), progressID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return toDomainProgress(&m), nil
}

func (a *ProgressDatabaseAdapter) GetProgressByID(ctx context.Context, progressID string) (*domain.Progress, error) {
	return a.getOne(ctx, `SELECT `+progressColumns+` FROM progress WHERE id = ?`, progressID)
}

// GetProgressForUpdate must run inside WithTransaction for the lock to hold
// until the write.
func (a *ProgressDatabaseAdapter) GetProgressForUpdate(ctx context.Context, progressID string) (*domain.Progress, error) {
	return a.getOne(ctx, `SELECT `+progressColumns+` FROM progress WHERE id = ? FOR UPDATE`, progressID)
}

func (a *ProgressDatabaseAdapter) ListProgressByUser(ctx context.Context, userID string) ([]*domain.Progress, error) {
	var rows []models.Progress
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = ? ORDER BY created_at, id`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	result := make([]*domain.Progress, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainProgress(&rows[i]))
	}
	return result, nil
}

// UpdateProgress writes counts, percentage, status and updated_at.
func (a *ProgressDatabaseAdapter) UpdateProgress(ctx context.Context, progress *domain.Progress) error {
	ok, err := execAffectingOne(ctx, GetExecutor(ctx, a.db),
		`UPDATE progress SET completed_lessons = ?, total_lessons = ?, percentage = ?, status = ?, updated_at = ? WHERE id = ?`,
		progress.CompletedLessons, progress.TotalLessons, progress.Percentage, string(progress.Status),
		progress.UpdatedAt, progress.ID)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("Progress", progress.ID)
	}
	return nil
}

func (a *ProgressDatabaseAdapter) DeleteProgressByCourse(ctx context.Context, courseID string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM progress WHERE course_id = ?`), courseID); err != nil {
		return fmt.Errorf("failed to delete progress of course: %w", err)
	}
	return nil
}

func (a *ProgressDatabaseAdapter) DeleteProgressByUser(ctx context.Context, userID string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM progress WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("failed to delete progress of user: %w", err)
	}
	return nil
}
