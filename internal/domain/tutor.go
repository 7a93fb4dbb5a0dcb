package domain

import "context"

// TutorTurn is one prior exchange handed to the tutor as context.
type TutorTurn struct {
	Sender  SenderType
	Content string
}

// Tutor produces the AI reply for a conversation. history is oldest first
// and ends with the user's newest message.
type Tutor interface {
	Reply(ctx context.Context, history []TutorTurn) (string, error)
}
