package dto

import "time"

// EnrollCourseRequest is the input of enrollCourse.
// @Description Request body for enrolling a user in a course
type EnrollCourseRequest struct {
	UserID       string `json:"userId" validate:"required"`
	CourseID     string `json:"courseId" validate:"required"`
	TotalLessons *int   `json:"totalLessons" validate:"required,gte=0"`
}

// EnrollmentResponse is the externally visible enrollment; the internal id is omitted.
// @Description Enrollment
type EnrollmentResponse struct {
	UserID     string    `json:"userId"`
	CourseID   string    `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// EnrollmentWithCourseResponse is an enrollment enriched with its course.
// @Description Enrollment with course
type EnrollmentWithCourseResponse struct {
	EnrollmentResponse
	Course *CourseResponse `json:"course,omitempty"`
}

// UpdateProgressRequest is the input of updateProgress. UserID, when set,
// must match the owner of the progress row.
// @Description Request body for updating lesson progress
type UpdateProgressRequest struct {
	UserID           string `json:"userId"`
	CompletedLessons *int   `json:"completedLessons" validate:"required,gte=0"`
	TotalLessons     *int   `json:"totalLessons" validate:"required,gte=0"`
}

// ProgressResponse is the stored progress row.
// @Description Progress
type ProgressResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	CourseID         string    `json:"courseId"`
	CompletedLessons int       `json:"completedLessons"`
	TotalLessons     int       `json:"totalLessons"`
	Percentage       float64   `json:"percentage"`
	Status           string    `json:"status"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ProgressDetailResponse adds the course name and live lesson count.
// @Description Progress with course details
type ProgressDetailResponse struct {
	ProgressResponse
	CourseName  string `json:"courseName"`
	LessonCount int    `json:"lessonCount"`
}
