package service

import (
	"context"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
	"edu-classroom/internal/logger"
	"edu-classroom/internal/metrics"
	"edu-classroom/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressService tracks lesson completion for enrolled users.
type ProgressService interface {
	// UpdateProgress rewrites the counts of one progress row. When
	// expectedOwnerID is not empty it must match the row's user.
	UpdateProgress(ctx context.Context, progressID, expectedOwnerID string, completedLessons, totalLessons int) (*dto.ProgressResponse, error)
	GetProgress(ctx context.Context, progressID string) (*dto.ProgressDetailResponse, error)
	ListProgress(ctx context.Context, userID string) ([]*dto.ProgressResponse, error)
}

type progressServiceImpl struct {
	txManager    domain.TransactionManager
	progressRepo domain.ProgressRepository
	courseRepo   domain.CourseRepository
	lessonRepo   domain.LessonRepository
	validator    *validation.Validator
	now          func() time.Time
}

// NewProgressService creates a new instance of ProgressService.
func NewProgressService(
	txManager domain.TransactionManager,
	progressRepo domain.ProgressRepository,
	courseRepo domain.CourseRepository,
	lessonRepo domain.LessonRepository,
	validator *validation.Validator,
) ProgressService {
	return &progressServiceImpl{
		txManager:    txManager,
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		validator:    validator,
		now:          time.Now,
	}
}

// UpdateProgress locks the row, recomputes percentage and status, and writes
// it back within one transaction. Concurrent updates of the same row queue
// on the lock and the last committer wins.
func (s *progressServiceImpl) UpdateProgress(ctx context.Context, progressID, expectedOwnerID string, completedLessons, totalLessons int) (*dto.ProgressResponse, error) {
	if errs := s.validator.ValidateProgressInput(progressID, completedLessons, totalLessons); len(errs) > 0 {
		return nil, errs
	}

	var updated *domain.Progress
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		progress, err := s.progressRepo.GetProgressForUpdate(txCtx, progressID)
		if err != nil {
			return domain.NewInternalError("failed to load progress", err)
		}
		if progress == nil {
			return domain.NewNotFoundError("Progress", progressID)
		}
		if expectedOwnerID != "" && progress.UserID != expectedOwnerID {
			return domain.NewForbiddenError("progress belongs to another user")
		}

		progress.Apply(completedLessons, totalLessons, s.now())
		if err := s.progressRepo.UpdateProgress(txCtx, progress); err != nil {
			return err
		}
		updated = progress
		return nil
	})
	if err != nil {
		if domain.ErrorCodeOf(err) == domain.CodeInternal {
			logger.Get().Error("Failed to update progress", zap.Error(err), zap.String("progressID", progressID))
		}
		return nil, err
	}

	metrics.ProgressUpdates.WithLabelValues(string(updated.Status)).Inc()
	logger.Get().Info("Progress updated",
		zap.String("progressID", updated.ID),
		zap.Int("completedLessons", updated.CompletedLessons),
		zap.Int("totalLessons", updated.TotalLessons),
		zap.Float64("percentage", updated.Percentage),
		zap.String("status", string(updated.Status)))
	return toProgressResponse(updated), nil
}

// GetProgress returns the row with its course name and the live lesson
// count. The two lookups run concurrently.
func (s *progressServiceImpl) GetProgress(ctx context.Context, progressID string) (*dto.ProgressDetailResponse, error) {
	if errs := s.validator.ValidateID("progressId", progressID); len(errs) > 0 {
		return nil, errs
	}

	progress, err := s.progressRepo.GetProgressByID(ctx, progressID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get progress", err)
	}
	if progress == nil {
		return nil, domain.NewNotFoundError("Progress", progressID)
	}

	var (
		course    *domain.Course
		liveCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.courseRepo.GetCourseByID(gctx, progress.CourseID)
		if err != nil {
			return domain.NewInternalError("failed to get course", err)
		}
		course = c
		return nil
	})
	g.Go(func() error {
		n, err := s.lessonRepo.CountLessonsByCourse(gctx, progress.CourseID)
		if err != nil {
			return domain.NewInternalError("failed to count lessons", err)
		}
		liveCount = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.NewNotFoundError("Course", progress.CourseID)
	}

	return &dto.ProgressDetailResponse{
		ProgressResponse: *toProgressResponse(progress),
		CourseName:       course.Name,
		LessonCount:      liveCount,
	}, nil
}

func (s *progressServiceImpl) ListProgress(ctx context.Context, userID string) ([]*dto.ProgressResponse, error) {
	if errs := s.validator.ValidateID("userId", userID); len(errs) > 0 {
		return nil, errs
	}
	rows, err := s.progressRepo.ListProgressByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list progress", err)
	}
	out := make([]*dto.ProgressResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, toProgressResponse(p))
	}
	return out, nil
}
