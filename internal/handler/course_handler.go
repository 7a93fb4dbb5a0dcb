package handler

import (
	"edu-classroom/internal/dto"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler serves the course catalogue and its lessons.
type CourseHandler struct {
	courseService service.CourseService
	body          *middleware.BodyParser
}

func NewCourseHandler(courseService service.CourseService, body *middleware.BodyParser) *CourseHandler {
	return &CourseHandler{courseService: courseService, body: body}
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.courseService.ListCourses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

// GetCourse godoc
// @Summary Get a course with its lessons
// @Tags courses
// @Security ApiKeyAuth
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CourseDetailResponse
// @Failure 404 {object} middleware.ErrorResponse "Course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := middleware.RequireParam(c, "courseId")
	if err != nil {
		return err
	}
	course, err := h.courseService.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(course)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.CourseRequest true "Course"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid request"
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	course, err := h.courseService.CreateCourse(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param body body dto.CourseRequest true "Course"
// @Success 200 {object} dto.CourseResponse
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Failure 404 {object} middleware.ErrorResponse "Course not found"
// @Router /courses/{courseId} [put]
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := middleware.RequireParam(c, "courseId")
	if err != nil {
		return err
	}
	var req dto.CourseRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	course, err := h.courseService.UpdateCourse(c.UserContext(), courseID, req)
	if err != nil {
		return err
	}
	return c.JSON(course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Removes the course together with its lessons, enrollments and progress.
// @Tags courses
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Success 204 "Deleted"
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Failure 404 {object} middleware.ErrorResponse "Course not found"
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := middleware.RequireParam(c, "courseId")
	if err != nil {
		return err
	}
	if err := h.courseService.DeleteCourse(c.UserContext(), courseID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListLessons godoc
// @Summary List the lessons of a course
// @Tags lessons
// @Security ApiKeyAuth
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} dto.LessonResponse
// @Failure 404 {object} middleware.ErrorResponse "Course not found"
// @Router /courses/{courseId}/lessons [get]
func (h *CourseHandler) ListLessons(c *fiber.Ctx) error {
	courseID, err := middleware.RequireParam(c, "courseId")
	if err != nil {
		return err
	}
	lessons, err := h.courseService.ListLessons(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(lessons)
}

// CreateLesson godoc
// @Summary Add a lesson to a course
// @Tags lessons
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param body body dto.LessonRequest true "Lesson"
// @Success 201 {object} dto.LessonResponse
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Failure 404 {object} middleware.ErrorResponse "Course not found"
// @Router /courses/{courseId}/lessons [post]
func (h *CourseHandler) CreateLesson(c *fiber.Ctx) error {
	courseID, err := middleware.RequireParam(c, "courseId")
	if err != nil {
		return err
	}
	var req dto.LessonRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	lesson, err := h.courseService.CreateLesson(c.UserContext(), courseID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lesson)
}

// GetLesson godoc
// @Summary Get a lesson
// @Tags lessons
// @Security ApiKeyAuth
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} dto.LessonResponse
// @Failure 404 {object} middleware.ErrorResponse "Lesson not found"
// @Router /lessons/{lessonId} [get]
func (h *CourseHandler) GetLesson(c *fiber.Ctx) error {
	lessonID, err := middleware.RequireParam(c, "lessonId")
	if err != nil {
		return err
	}
	lesson, err := h.courseService.GetLesson(c.UserContext(), lessonID)
	if err != nil {
		return err
	}
	return c.JSON(lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags lessons
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Param body body dto.LessonRequest true "Lesson"
// @Success 200 {object} dto.LessonResponse
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Failure 404 {object} middleware.ErrorResponse "Lesson not found"
// @Router /lessons/{lessonId} [put]
func (h *CourseHandler) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := middleware.RequireParam(c, "lessonId")
	if err != nil {
		return err
	}
	var req dto.LessonRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	lesson, err := h.courseService.UpdateLesson(c.UserContext(), lessonID, req)
	if err != nil {
		return err
	}
	return c.JSON(lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags lessons
// @Security ApiKeyAuth
// @Param lessonId path string true "Lesson ID"
// @Success 204 "Deleted"
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Failure 404 {object} middleware.ErrorResponse "Lesson not found"
// @Router /lessons/{lessonId} [delete]
func (h *CourseHandler) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := middleware.RequireParam(c, "lessonId")
	if err != nil {
		return err
	}
	if err := h.courseService.DeleteLesson(c.UserContext(), lessonID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
