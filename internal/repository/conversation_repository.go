package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/repository/models"
	"edu-classroom/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	conversationColumns = `id, user_id, title, created_at, updated_at`
	messageColumns      = `id, conversation_id, sender_type, content, sent_at`
)

// ConversationDatabaseAdapter implements domain.ConversationRepository and
// domain.MessageRepository.
type ConversationDatabaseAdapter struct {
	db *sqlx.DB
}

func NewConversationDatabaseAdapter(db *sqlx.DB) *ConversationDatabaseAdapter {
	return &ConversationDatabaseAdapter{db: db}
}

var (
	_ domain.ConversationRepository = (*ConversationDatabaseAdapter)(nil)
	_ domain.MessageRepository      = (*ConversationDatabaseAdapter)(nil)
)

func toDomainConversation(m *models.Conversation) *domain.Conversation {
	return &domain.Conversation{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (a *ConversationDatabaseAdapter) CreateConversation(ctx context.Context, conversation *domain.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = util.NewULID()
	}
	now := time.Now()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	conversation.UpdatedAt = now

	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO conversations (` + conversationColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		conversation.ID, conversation.UserID, conversation.Title, conversation.CreatedAt, conversation.UpdatedAt)
	return mapWriteError(err, "conversation already exists", "failed to create conversation")
}

func (a *ConversationDatabaseAdapter) GetConversationByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var m models.Conversation
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ?`
	if err := exec.GetContext(ctx, &m, exec.Rebind(query), conversationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return toDomainConversation(&m), nil
}

// ListConversationsByUser returns the user's threads, most recently active first.
func (a *ConversationDatabaseAdapter) ListConversationsByUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	var rows []models.Conversation
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE user_id = ? ORDER BY updated_at DESC, id DESC`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	result := make([]*domain.Conversation, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainConversation(&rows[i]))
	}
	return result, nil
}

func (a *ConversationDatabaseAdapter) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`UPDATE conversations SET updated_at = ? WHERE id = ?`), at, conversationID); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

func (a *ConversationDatabaseAdapter) DeleteConversation(ctx context.Context, conversationID string) error {
	ok, err := execAffectingOne(ctx, GetExecutor(ctx, a.db), `DELETE FROM conversations WHERE id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("Conversation", conversationID)
	}
	return nil
}

func (a *ConversationDatabaseAdapter) DeleteConversationsByUser(ctx context.Context, userID string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM conversations WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("failed to delete conversations of user: %w", err)
	}
	return nil
}

func (a *ConversationDatabaseAdapter) CreateMessage(ctx context.Context, message *domain.Message) error {
	if message.ID == "" {
		message.ID = util.NewULID()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now()
	}
	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO messages (` + messageColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		message.ID, message.ConversationID, string(message.SenderType), message.Content, message.SentAt)
	return mapWriteError(err, "message already exists", "failed to create message")
}

// ListMessages returns the thread oldest first; ULID ids break timestamp ties.
func (a *ConversationDatabaseAdapter) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	var rows []models.Message
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = ? ORDER BY sent_at ASC, id ASC`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), conversationID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	result := make([]*domain.Message, 0, len(rows))
	for _, m := range rows {
		result = append(result, &domain.Message{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderType:     domain.SenderType(m.SenderType),
			Content:        m.Content,
			SentAt:         m.SentAt,
		})
	}
	return result, nil
}

func (a *ConversationDatabaseAdapter) DeleteMessagesByConversation(ctx context.Context, conversationID string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM messages WHERE conversation_id = ?`), conversationID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}

func (a *ConversationDatabaseAdapter) DeleteMessagesByUser(ctx context.Context, userID string) error {
	exec := GetExecutor(ctx, a.db)
	query := `DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE user_id = ?)`
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), userID); err != nil {
		return fmt.Errorf("failed to delete messages of user: %w", err)
	}
	return nil
}
