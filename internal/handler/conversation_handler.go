package handler

import (
	"edu-classroom/internal/dto"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ConversationHandler serves AI tutor threads. Ownership is checked in the service.
type ConversationHandler struct {
	conversationService service.ConversationService
	body                *middleware.BodyParser
}

func NewConversationHandler(conversationService service.ConversationService, body *middleware.BodyParser) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService, body: body}
}

// CreateConversation godoc
// @Summary Start a tutor conversation
// @Tags conversations
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateConversationRequest true "Conversation"
// @Success 201 {object} dto.ConversationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid request"
// @Router /conversations [post]
func (h *ConversationHandler) CreateConversation(c *fiber.Ctx) error {
	var req dto.CreateConversationRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	conv, err := h.conversationService.CreateConversation(c.UserContext(), middleware.ActorFrom(c), req.Title)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(conv)
}

// ListConversations godoc
// @Summary List a user's conversations
// @Tags conversations
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} dto.ConversationResponse
// @Failure 403 {object} middleware.ErrorResponse "Not allowed"
// @Router /users/{userId}/conversations [get]
func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := middleware.RequireParam(c, "userId")
	if err != nil {
		return err
	}
	convs, err := h.conversationService.ListConversations(c.UserContext(), middleware.ActorFrom(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(convs)
}

// GetConversation godoc
// @Summary Get a conversation with its messages
// @Tags conversations
// @Security ApiKeyAuth
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} dto.ConversationResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Conversation not found"
// @Router /conversations/{conversationId} [get]
func (h *ConversationHandler) GetConversation(c *fiber.Ctx) error {
	conversationID, err := middleware.RequireParam(c, "conversationId")
	if err != nil {
		return err
	}
	conv, err := h.conversationService.GetConversation(c.UserContext(), middleware.ActorFrom(c), conversationID)
	if err != nil {
		return err
	}
	return c.JSON(conv)
}

// DeleteConversation godoc
// @Summary Delete a conversation
// @Tags conversations
// @Security ApiKeyAuth
// @Param conversationId path string true "Conversation ID"
// @Success 204 "Deleted"
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Conversation not found"
// @Router /conversations/{conversationId} [delete]
func (h *ConversationHandler) DeleteConversation(c *fiber.Ctx) error {
	conversationID, err := middleware.RequireParam(c, "conversationId")
	if err != nil {
		return err
	}
	if err := h.conversationService.DeleteConversation(c.UserContext(), middleware.ActorFrom(c), conversationID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendMessage godoc
// @Summary Ask the tutor
// @Description Stores the message, asks the AI tutor and stores its reply.
// @Tags conversations
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Param body body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.ExchangeResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Conversation not found"
// @Failure 503 {object} middleware.ErrorResponse "Tutor unavailable"
// @Router /conversations/{conversationId}/messages [post]
func (h *ConversationHandler) SendMessage(c *fiber.Ctx) error {
	conversationID, err := middleware.RequireParam(c, "conversationId")
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	exchange, err := h.conversationService.SendMessage(c.UserContext(), middleware.ActorFrom(c), conversationID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(exchange)
}
