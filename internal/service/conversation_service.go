package service

import (
	"context"
	"strings"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
	"edu-classroom/internal/logger"
	"edu-classroom/internal/metrics"

	"go.uber.org/zap"
)

// ConversationService manages tutor chat threads. Every call checks that
// the actor owns the thread or is an admin.
type ConversationService interface {
	CreateConversation(ctx context.Context, actor domain.Actor, title string) (*dto.ConversationResponse, error)
	ListConversations(ctx context.Context, actor domain.Actor, userID string) ([]*dto.ConversationResponse, error)
	GetConversation(ctx context.Context, actor domain.Actor, conversationID string) (*dto.ConversationResponse, error)
	DeleteConversation(ctx context.Context, actor domain.Actor, conversationID string) error
	// SendMessage stores the user's message, asks the tutor, and stores the
	// reply. A tutor failure leaves the user's message in place.
	SendMessage(ctx context.Context, actor domain.Actor, conversationID, content string) (*dto.ExchangeResponse, error)
}

type conversationServiceImpl struct {
	txManager        domain.TransactionManager
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
	tutor            domain.Tutor
	now              func() time.Time
}

// NewConversationService creates a new instance of ConversationService.
func NewConversationService(
	txManager domain.TransactionManager,
	conversationRepo domain.ConversationRepository,
	messageRepo domain.MessageRepository,
	tutor domain.Tutor,
) ConversationService {
	return &conversationServiceImpl{
		txManager:        txManager,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		tutor:            tutor,
		now:              time.Now,
	}
}

func (s *conversationServiceImpl) CreateConversation(ctx context.Context, actor domain.Actor, title string) (*dto.ConversationResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("title")}
	}
	now := s.now()
	conv := &domain.Conversation{
		UserID:    actor.UserID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversationRepo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	logger.Get().Info("Conversation created", zap.String("conversationID", conv.ID), zap.String("userID", conv.UserID))
	return toConversationResponse(conv), nil
}

func (s *conversationServiceImpl) ListConversations(ctx context.Context, actor domain.Actor, userID string) ([]*dto.ConversationResponse, error) {
	if !actor.CanAccess(userID) {
		return nil, domain.NewForbiddenError("cannot list another user's conversations")
	}
	convs, err := s.conversationRepo.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list conversations", err)
	}
	out := make([]*dto.ConversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationResponse(c))
	}
	return out, nil
}

// loadOwned returns the conversation when it exists and the actor may use it.
func (s *conversationServiceImpl) loadOwned(ctx context.Context, actor domain.Actor, conversationID string) (*domain.Conversation, error) {
	conv, err := s.conversationRepo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get conversation", err)
	}
	if conv == nil {
		return nil, domain.NewNotFoundError("Conversation", conversationID)
	}
	if !actor.CanAccess(conv.UserID) {
		return nil, domain.NewForbiddenError("conversation belongs to another user")
	}
	return conv, nil
}

func (s *conversationServiceImpl) GetConversation(ctx context.Context, actor domain.Actor, conversationID string) (*dto.ConversationResponse, error) {
	conv, err := s.loadOwned(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messageRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list messages", err)
	}
	conv.Messages = msgs
	return toConversationResponse(conv), nil
}

func (s *conversationServiceImpl) DeleteConversation(ctx context.Context, actor domain.Actor, conversationID string) error {
	if _, err := s.loadOwned(ctx, actor, conversationID); err != nil {
		return err
	}
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.messageRepo.DeleteMessagesByConversation(txCtx, conversationID); err != nil {
			return err
		}
		return s.conversationRepo.DeleteConversation(txCtx, conversationID)
	})
	if err != nil {
		return err
	}
	logger.Get().Info("Conversation deleted", zap.String("conversationID", conversationID))
	return nil
}

func (s *conversationServiceImpl) SendMessage(ctx context.Context, actor domain.Actor, conversationID, content string) (*dto.ExchangeResponse, error) {
	appLogger := logger.Get()
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("content")}
	}
	if _, err := s.loadOwned(ctx, actor, conversationID); err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ConversationID: conversationID,
		SenderType:     domain.SenderUser,
		Content:        content,
		SentAt:         s.now(),
	}
	if err := s.messageRepo.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.messageRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load conversation history", err)
	}
	turns := make([]domain.TutorTurn, 0, len(history))
	for _, m := range history {
		turns = append(turns, domain.TutorTurn{Sender: m.SenderType, Content: m.Content})
	}

	reply, err := s.tutor.Reply(ctx, turns)
	if err != nil {
		metrics.TutorReplies.WithLabelValues("error").Inc()
		appLogger.Error("Tutor failed to reply", zap.Error(err), zap.String("conversationID", conversationID))
		if domain.ErrorCodeOf(err) == domain.CodeLLMServiceError {
			return nil, err
		}
		return nil, domain.NewLLMServiceError(err)
	}
	metrics.TutorReplies.WithLabelValues("ok").Inc()

	aiMsg := &domain.Message{
		ConversationID: conversationID,
		SenderType:     domain.SenderAI,
		Content:        reply,
		SentAt:         s.now(),
	}
	if err := s.messageRepo.CreateMessage(ctx, aiMsg); err != nil {
		return nil, err
	}
	if err := s.conversationRepo.TouchConversation(ctx, conversationID, aiMsg.SentAt); err != nil {
		appLogger.Warn("Failed to bump conversation timestamp", zap.Error(err), zap.String("conversationID", conversationID))
	}

	return &dto.ExchangeResponse{
		UserMessage: toChatMessageResponse(userMsg),
		AIMessage:   toChatMessageResponse(aiMsg),
	}, nil
}
