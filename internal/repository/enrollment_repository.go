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

const enrollmentColumns = `id, user_id, course_id, enrolled_at`

// EnrollmentDatabaseAdapter implements domain.EnrollmentRepository.
type EnrollmentDatabaseAdapter struct {
	db *sqlx.DB
}

func NewEnrollmentDatabaseAdapter(db *sqlx.DB) domain.EnrollmentRepository {
	return &EnrollmentDatabaseAdapter{db: db}
}

// CreateEnrollment inserts the row. The store's unique (user_id, course_id)
// index turns a concurrent duplicate into a Conflict.
func (a *EnrollmentDatabaseAdapter) CreateEnrollment(ctx context.Context, enrollment *domain.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = util.NewULID()
	}
	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO enrollments (` + enrollmentColumns + `) VALUES (?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		enrollment.ID, enrollment.UserID, enrollment.CourseID, enrollment.EnrolledAt)
	return mapWriteError(err,
		fmt.Sprintf("User %s is already enrolled in course %s", enrollment.UserID, enrollment.CourseID),
		"failed to create enrollment")
}

// GetEnrollment returns the (user, course) enrollment or (nil, nil).
func (a *EnrollmentDatabaseAdapter) GetEnrollment(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	var m models.Enrollment
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = ? AND course_id = ?`
	if err := exec.GetContext(ctx, &m, exec.Rebind(query), userID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &domain.Enrollment{
		ID:         m.ID,
		UserID:     m.UserID,
		CourseID:   m.CourseID,
		EnrolledAt: m.EnrolledAt,
	}, nil
}

// ListEnrollmentsByUser returns the user's enrollments joined with their course.
func (a *EnrollmentDatabaseAdapter) ListEnrollmentsByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	var rows []models.EnrollmentWithCourse
	exec := GetExecutor(ctx, a.db)
	query := `SELECT e.id, e.user_id, e.course_id, e.enrolled_at,
		c.name AS course_name, c.abstract AS course_abstract,
		c.created_at AS course_created_at, c.updated_at AS course_updated_at
		FROM enrollments e JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = ?
		ORDER BY e.enrolled_at, e.id`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	enrollments := make([]*domain.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, &domain.Enrollment{
			ID:         row.ID,
			UserID:     row.UserID,
			CourseID:   row.CourseID,
			EnrolledAt: row.EnrolledAt,
			Course: &domain.Course{
				ID:        row.CourseID,
				Name:      row.CourseName,
				Abstract:  util.NullStringToString(row.CourseAbstract),
				CreatedAt: row.CourseCreatedAt,
				UpdatedAt: row.CourseUpdatedAt,
			},
		})
	}
	return enrollments, nil
}

func (a *EnrollmentDatabaseAdapter) DeleteEnrollmentsByCourse(ctx context.Context, courseID string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM enrollments WHERE course_id = ?`), courseID); err != nil {
		return fmt.Errorf("failed to delete enrollments of course: %w", err)
	}
	return nil
}

func (a *EnrollmentDatabaseAdapter) DeleteEnrollmentsByUser(ctx context.Context, userID string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM enrollments WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("failed to delete enrollments of user: %w", err)
	}
	return nil
}
