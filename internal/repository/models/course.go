package models

import (
	"database/sql"
	"time"
)

// Course represents a row of the courses table.
type Course struct {
	ID        string         `db:"ID"`
	Name      string         `db:"NAME"`
	Abstract  sql.NullString `db:"ABSTRACT"` // Oracle stores '' as NULL
	CreatedAt time.Time      `db:"CREATED_AT"`
	UpdatedAt time.Time      `db:"UPDATED_AT"`
}

// CourseWithCount is a course row plus its live lesson count.
type CourseWithCount struct {
	Course
	LessonCount int `db:"LESSON_COUNT"`
}

// Lesson represents a row of the lessons table.
type Lesson struct {
	ID        string         `db:"ID"`
	CourseID  string         `db:"COURSE_ID"`
	Name      string         `db:"NAME"`
	Abstract  sql.NullString `db:"ABSTRACT"`
	CreatedAt time.Time      `db:"CREATED_AT"`
	UpdatedAt time.Time      `db:"UPDATED_AT"`
}
