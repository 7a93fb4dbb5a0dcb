package handler

import (
	"edu-classroom/internal/dto"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProgressHandler exposes the progress tracker over HTTP.
type ProgressHandler struct {
	progressService service.ProgressService
	body            *middleware.BodyParser
}

func NewProgressHandler(progressService service.ProgressService, body *middleware.BodyParser) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, body: body}
}

// UpdateProgress records lesson completion for a progress row.
// @Summary Update progress
// @Description Recomputes percentage and status from the submitted counts.
// @Tags progress
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param progressId path string true "Progress ID"
// @Param body body dto.UpdateProgressRequest true "Lesson counts"
// @Success 200 {object} dto.ProgressResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid request"
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Progress not found"
// @Router /progress/{progressId} [put]
func (h *ProgressHandler) UpdateProgress(c *fiber.Ctx) error {
	progressID, err := middleware.RequireParam(c, "progressId")
	if err != nil {
		return err
	}
	var req dto.UpdateProgressRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	if req.UserID != "" {
		if err := middleware.AuthorizeOwner(c, req.UserID); err != nil {
			return err
		}
	}

	// Non-admins may only touch their own rows; admins are bound by the body's userId if given.
	actor := middleware.ActorFrom(c)
	expectedOwner := req.UserID
	if !actor.IsAdmin() {
		expectedOwner = actor.UserID
	}

	progress, err := h.progressService.UpdateProgress(c.UserContext(), progressID, expectedOwner, *req.CompletedLessons, *req.TotalLessons)
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

// GetProgress returns one progress row with its course name and live lesson count.
// @Summary Get progress
// @Tags progress
// @Security ApiKeyAuth
// @Produce json
// @Param progressId path string true "Progress ID"
// @Success 200 {object} dto.ProgressDetailResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Progress not found"
// @Router /progress/{progressId} [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	progressID, err := middleware.RequireParam(c, "progressId")
	if err != nil {
		return err
	}
	progress, err := h.progressService.GetProgress(c.UserContext(), progressID)
	if err != nil {
		return err
	}
	if err := middleware.AuthorizeOwner(c, progress.UserID); err != nil {
		return err
	}
	return c.JSON(progress)
}

// ListProgress returns every progress row of a user.
// @Summary List a user's progress
// @Tags progress
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} dto.ProgressResponse
// @Failure 403 {object} middleware.ErrorResponse "Not allowed"
// @Router /users/{userId}/progress [get]
func (h *ProgressHandler) ListProgress(c *fiber.Ctx) error {
	userID, err := middleware.RequireParam(c, "userId")
	if err != nil {
		return err
	}
	if err := middleware.AuthorizeOwner(c, userID); err != nil {
		return err
	}
	progress, err := h.progressService.ListProgress(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(progress)
}
