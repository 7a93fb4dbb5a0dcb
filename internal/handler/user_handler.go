package handler

import (
	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
	body        *middleware.BodyParser
}

func NewUserHandler(userService service.UserService, body *middleware.BodyParser) *UserHandler {
	return &UserHandler{userService: userService, body: body}
}

// GetMe retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	user, err := h.userService.GetUser(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// ListUsers lists every account.
// @Summary List users
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// UpdateUserRole changes a user's role.
// @Summary Update user role
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param body body dto.UpdateRoleRequest true "New role"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{userId}/role [put]
func (h *UserHandler) UpdateUserRole(c *fiber.Ctx) error {
	userID, err := middleware.RequireParam(c, "userId")
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateUserRole(c.UserContext(), userID, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// DeleteUser removes a user and everything they own.
// @Summary Delete user
// @Tags users
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 204 "Deleted"
// @Failure 403 {object} middleware.ErrorResponse "Admin only"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{userId} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := middleware.RequireParam(c, "userId")
	if err != nil {
		return err
	}
	if err := h.userService.DeleteUser(c.UserContext(), userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
