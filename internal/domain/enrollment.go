package domain

import (
	"context"
	"time"
)

// Enrollment records that a user has joined a course. At most one exists
// per (UserID, CourseID) and it is never mutated after creation.
type Enrollment struct {
	ID         string
	UserID     string
	CourseID   string
	EnrolledAt time.Time

	// Course is populated by listings that join the course row.
	Course *Course
}

// EnrollmentRepository defines the interface for enrollment persistence.
// CreateEnrollment returns a CodeConflict DomainError when the
// (user, course) pair already exists.
type EnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, enrollment *Enrollment) error
	GetEnrollment(ctx context.Context, userID, courseID string) (*Enrollment, error)
	ListEnrollmentsByUser(ctx context.Context, userID string) ([]*Enrollment, error)
	DeleteEnrollmentsByCourse(ctx context.Context, courseID string) error
	DeleteEnrollmentsByUser(ctx context.Context, userID string) error
}
