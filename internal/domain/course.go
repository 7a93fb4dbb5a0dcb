package domain

import (
	"context"
	"time"
)

// Course is a unit of study that owns an ordered set of lessons.
type Course struct {
	ID          string
	Name        string
	Abstract    string
	LessonCount int // live count, filled on reads that need it
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCourse creates a new Course instance
func NewCourse(name, abstract string) *Course {
	now := time.Now()
	return &Course{
		Name:      name,
		Abstract:  abstract,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Lesson belongs to exactly one course.
type Lesson struct {
	ID        string
	CourseID  string
	Name      string
	Abstract  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLesson creates a new Lesson instance
func NewLesson(courseID, name, abstract string) *Lesson {
	now := time.Now()
	return &Lesson{
		CourseID:  courseID,
		Name:      name,
		Abstract:  abstract,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CourseRepository defines the interface for course persistence.
// GetCourseByID returns (nil, nil) when no row matches.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *Course) error
	GetCourseByID(ctx context.Context, courseID string) (*Course, error)
	ListCourses(ctx context.Context) ([]*Course, error)
	UpdateCourse(ctx context.Context, course *Course) error
	DeleteCourse(ctx context.Context, courseID string) error
	ExistsCourse(ctx context.Context, courseID string) (bool, error)
}

// LessonRepository defines the interface for lesson persistence.
// GetLessonByID returns (nil, nil) when no row matches.
type LessonRepository interface {
	CreateLesson(ctx context.Context, lesson *Lesson) error
	GetLessonByID(ctx context.Context, lessonID string) (*Lesson, error)
	ListLessonsByCourse(ctx context.Context, courseID string) ([]*Lesson, error)
	CountLessonsByCourse(ctx context.Context, courseID string) (int, error)
	UpdateLesson(ctx context.Context, lesson *Lesson) error
	DeleteLesson(ctx context.Context, lessonID string) error
	DeleteLessonsByCourse(ctx context.Context, courseID string) error
}
