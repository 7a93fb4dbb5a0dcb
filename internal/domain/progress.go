package domain

import (
	"context"
	"math"
	"time"
)

// ProgressStatus is the completion state of a Progress row.
type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "IN_PROGRESS"
	ProgressCompleted  ProgressStatus = "COMPLETED"
)

// Progress tracks lesson completion for one (UserID, CourseID) pair.
// TotalLessons is the snapshot supplied by the caller, not the live count.
type Progress struct {
	ID               string
	UserID           string
	CourseID         string
	CompletedLessons int
	TotalLessons     int
	Percentage       float64
	Status           ProgressStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewProgress returns the initial progress seeded alongside an enrollment.
func NewProgress(userID, courseID string, totalLessons int) *Progress {
	now := time.Now()
	return &Progress{
		UserID:       userID,
		CourseID:     courseID,
		TotalLessons: totalLessons,
		Percentage:   0,
		Status:       ProgressInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ComputePercentage returns min(100, completed/total*100), or 0 when total is 0.
// The value is not rounded.
func ComputePercentage(completedLessons, totalLessons int) float64 {
	if totalLessons <= 0 {
		return 0
	}
	pct := float64(completedLessons) / float64(totalLessons) * 100
	return math.Min(100, pct)
}

// StatusFor returns COMPLETED exactly when percentage is 100.
func StatusFor(percentage float64) ProgressStatus {
	if percentage == 100 {
		return ProgressCompleted
	}
	return ProgressInProgress
}

// Apply stores the raw counts and recomputes percentage and status.
// completedLessons is kept as given even when it exceeds totalLessons.
func (p *Progress) Apply(completedLessons, totalLessons int, now time.Time) {
	p.CompletedLessons = completedLessons
	p.TotalLessons = totalLessons
	p.Percentage = ComputePercentage(completedLessons, totalLessons)
	p.Status = StatusFor(p.Percentage)
	p.UpdatedAt = now
}

// ProgressRepository defines the interface for progress persistence.
// GetProgressByID and GetProgressForUpdate return (nil, nil) when no row matches.
type ProgressRepository interface {
	CreateProgress(ctx context.Context, progress *Progress) error
	GetProgressByID(ctx context.Context, progressID string) (*Progress, error)
	// GetProgressForUpdate locks the row until the surrounding transaction ends.
	GetProgressForUpdate(ctx context.Context, progressID string) (*Progress, error)
	ListProgressByUser(ctx context.Context, userID string) ([]*Progress, error)
	UpdateProgress(ctx context.Context, progress *Progress) error
	DeleteProgressByCourse(ctx context.Context, courseID string) error
	DeleteProgressByUser(ctx context.Context, userID string) error
}
