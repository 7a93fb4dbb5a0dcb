package dto

import "time"

// CourseRequest is the body of course create and update.
// @Description Request body for creating or updating a course
type CourseRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Abstract string `json:"abstract" validate:"max=4000"`
}

// LessonRequest is the body of lesson create and update.
// @Description Request body for creating or updating a lesson
type LessonRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Abstract string `json:"abstract" validate:"max=4000"`
}

// CourseResponse is a course with its live lesson count.
// @Description Course summary
type CourseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Abstract    string    `json:"abstract"`
	LessonCount int       `json:"lessonCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CourseDetailResponse is a course with its lessons.
// @Description Course with lessons
type CourseDetailResponse struct {
	CourseResponse
	Lessons []LessonResponse `json:"lessons"`
}

// LessonResponse is the public shape of a lesson.
// @Description Lesson
type LessonResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Name      string    `json:"name"`
	Abstract  string    `json:"abstract"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
