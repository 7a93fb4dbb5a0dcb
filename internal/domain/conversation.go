package domain

import (
	"context"
	"time"
)

// SenderType tags who wrote a message.
type SenderType string

const (
	SenderUser SenderType = "USER"
	SenderAI   SenderType = "AI"
)

// Conversation is a user-owned chat thread with the tutor.
type Conversation struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Messages is filled by reads that load the thread, oldest first.
	Messages []*Message
}

// Message is one append-only entry of a conversation.
type Message struct {
	ID             string
	ConversationID string
	SenderType     SenderType
	Content        string
	SentAt         time.Time
}

// ConversationRepository defines the interface for conversation persistence.
// GetConversationByID returns (nil, nil) when no row matches.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conversation *Conversation) error
	GetConversationByID(ctx context.Context, conversationID string) (*Conversation, error)
	ListConversationsByUser(ctx context.Context, userID string) ([]*Conversation, error)
	TouchConversation(ctx context.Context, conversationID string, at time.Time) error
	DeleteConversation(ctx context.Context, conversationID string) error
	DeleteConversationsByUser(ctx context.Context, userID string) error
}

// MessageRepository defines the interface for message persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *Message) error
	// ListMessages returns messages ordered by SentAt then ID.
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)
	DeleteMessagesByConversation(ctx context.Context, conversationID string) error
	DeleteMessagesByUser(ctx context.Context, userID string) error
}
