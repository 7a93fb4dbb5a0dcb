package service

import (
	"context"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
	"edu-classroom/internal/logger"

	"go.uber.org/zap"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]*dto.UserResponse, error)
	UpdateUserRole(ctx context.Context, userID string, role domain.Role) (*dto.UserResponse, error)
	// DeleteUser removes the user and everything they own in one transaction.
	DeleteUser(ctx context.Context, userID string) error
}

type userServiceImpl struct {
	txManager        domain.TransactionManager
	userRepo         domain.UserRepository
	enrollmentRepo   domain.EnrollmentRepository
	progressRepo     domain.ProgressRepository
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	txManager domain.TransactionManager,
	userRepo domain.UserRepository,
	enrollmentRepo domain.EnrollmentRepository,
	progressRepo domain.ProgressRepository,
	conversationRepo domain.ConversationRepository,
	messageRepo domain.MessageRepository,
) UserService {
	return &userServiceImpl{
		txManager:        txManager,
		userRepo:         userRepo,
		enrollmentRepo:   enrollmentRepo,
		progressRepo:     progressRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User", userID)
	}
	return ToUserResponse(user), nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}

func (s *userServiceImpl) UpdateUserRole(ctx context.Context, userID string, role domain.Role) (*dto.UserResponse, error) {
	if !role.Valid() {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("role", string(role))}
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User", userID)
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.Get().Info("User role updated", zap.String("userID", userID), zap.String("role", string(role)))
	return ToUserResponse(user), nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.userRepo.ExistsUser(txCtx, userID)
		if err != nil {
			return domain.NewInternalError("failed to check user", err)
		}
		if !exists {
			return domain.NewNotFoundError("User", userID)
		}
		if err := s.messageRepo.DeleteMessagesByUser(txCtx, userID); err != nil {
			return err
		}
		if err := s.conversationRepo.DeleteConversationsByUser(txCtx, userID); err != nil {
			return err
		}
		if err := s.progressRepo.DeleteProgressByUser(txCtx, userID); err != nil {
			return err
		}
		if err := s.enrollmentRepo.DeleteEnrollmentsByUser(txCtx, userID); err != nil {
			return err
		}
		return s.userRepo.DeleteUser(txCtx, userID)
	})
	if err != nil {
		return err
	}
	logger.Get().Info("User deleted", zap.String("userID", userID))
	return nil
}
