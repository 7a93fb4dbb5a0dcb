package models

import (
	"database/sql"
	"time"
)

// Enrollment represents a row of the enrollments table.
type Enrollment struct {
	ID         string    `db:"ID"`
	UserID     string    `db:"USER_ID"`
	CourseID   string    `db:"COURSE_ID"`
	EnrolledAt time.Time `db:"ENROLLED_AT"`
}

// EnrollmentWithCourse is an enrollment joined with its course columns.
type EnrollmentWithCourse struct {
	Enrollment
	CourseName      string         `db:"COURSE_NAME"`
	CourseAbstract  sql.NullString `db:"COURSE_ABSTRACT"`
	CourseCreatedAt time.Time      `db:"COURSE_CREATED_AT"`
	CourseUpdatedAt time.Time      `db:"COURSE_UPDATED_AT"`
}

// Progress represents a row of the progress table.
type Progress struct {
	ID               string    `db:"ID"`
	UserID           string    `db:"USER_ID"`
	CourseID         string    `db:"COURSE_ID"`
	CompletedLessons int       `db:"COMPLETED_LESSONS"`
	TotalLessons     int       `db:"TOTAL_LESSONS"`
	Percentage       float64   `db:"PERCENTAGE"`
	Status           string    `db:"STATUS"`
	CreatedAt        time.Time `db:"CREATED_AT"`
	UpdatedAt        time.Time `db:"UPDATED_AT"`
}
