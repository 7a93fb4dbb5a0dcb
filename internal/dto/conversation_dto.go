package dto

import "time"

// CreateConversationRequest opens a new thread.
// @Description Request body for creating a conversation
type CreateConversationRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// SendMessageRequest posts a user message to a thread.
// @Description Request body for sending a message to the tutor
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// ConversationResponse is a thread, with messages when loaded.
// @Description Conversation
type ConversationResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Messages  []ChatMessageResponse `json:"messages,omitempty"`
}

// ChatMessageResponse is one message of a thread.
// @Description Message
type ChatMessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderType     string    `json:"senderType"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sentAt"`
}

// ExchangeResponse holds the stored user message and the tutor's reply.
// @Description User message and AI reply
type ExchangeResponse struct {
	UserMessage ChatMessageResponse `json:"userMessage"`
	AIMessage   ChatMessageResponse `json:"aiMessage"`
}
