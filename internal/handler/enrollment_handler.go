package handler

import (
	"edu-classroom/internal/dto"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentHandler exposes the enrollment registrar over HTTP.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	body              *middleware.BodyParser
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService, body *middleware.BodyParser) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService, body: body}
}

// EnrollCourse enrolls a user in a course and opens their progress record.
// @Summary Enroll in a course
// @Description Creates the enrollment and its progress row in one transaction. Users may only enroll themselves.
// @Tags enrollments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.EnrollCourseRequest true "Enrollment"
// @Success 201 {object} dto.EnrollmentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid request"
// @Failure 403 {object} middleware.ErrorResponse "Not allowed to enroll another user"
// @Failure 404 {object} middleware.ErrorResponse "User or course not found"
// @Failure 409 {object} middleware.ErrorResponse "Already enrolled"
// @Router /enrollments [post]
func (h *EnrollmentHandler) EnrollCourse(c *fiber.Ctx) error {
	var req dto.EnrollCourseRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	if err := middleware.AuthorizeOwner(c, req.UserID); err != nil {
		return err
	}

	enrollment, err := h.enrollmentService.EnrollCourse(c.UserContext(), req.UserID, req.CourseID, *req.TotalLessons)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

// ListEnrollments returns a user's enrollments with their courses.
// @Summary List a user's enrollments
// @Tags enrollments
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} dto.EnrollmentWithCourseResponse
// @Failure 403 {object} middleware.ErrorResponse "Not allowed"
// @Failure 404 {object} middleware.ErrorResponse "No enrollments"
// @Router /users/{userId}/enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *fiber.Ctx) error {
	userID, err := middleware.RequireParam(c, "userId")
	if err != nil {
		return err
	}
	if err := middleware.AuthorizeOwner(c, userID); err != nil {
		return err
	}

	enrollments, err := h.enrollmentService.ListEnrollments(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(enrollments)
}
