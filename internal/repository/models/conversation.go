package models

import "time"

// Conversation represents a row of the conversations table.
type Conversation struct {
	ID        string    `db:"ID"`
	UserID    string    `db:"USER_ID"`
	Title     string    `db:"TITLE"`
	CreatedAt time.Time `db:"CREATED_AT"`
	UpdatedAt time.Time `db:"UPDATED_AT"`
}

// Message represents a row of the messages table.
type Message struct {
	ID             string    `db:"ID"`
	ConversationID string    `db:"CONVERSATION_ID"`
	SenderType     string    `db:"SENDER_TYPE"`
	Content        string    `db:"CONTENT"`
	SentAt         time.Time `db:"SENT_AT"`
}
