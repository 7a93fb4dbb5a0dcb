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
)

// EnrollmentService registers users in courses and seeds their progress.
type EnrollmentService interface {
	EnrollCourse(ctx context.Context, userID, courseID string, totalLessons int) (*dto.EnrollmentResponse, error)
	ListEnrollments(ctx context.Context, userID string) ([]dto.EnrollmentWithCourseResponse, error)
}

type enrollmentServiceImpl struct {
	txManager      domain.TransactionManager
	userRepo       domain.UserRepository
	courseRepo     domain.CourseRepository
	lessonRepo     domain.LessonRepository
	enrollmentRepo domain.EnrollmentRepository
	progressRepo   domain.ProgressRepository
	validator      *validation.Validator
	now            func() time.Time
}

// NewEnrollmentService creates a new instance of EnrollmentService.
func NewEnrollmentService(
	txManager domain.TransactionManager,
	userRepo domain.UserRepository,
	courseRepo domain.CourseRepository,
	lessonRepo domain.LessonRepository,
	enrollmentRepo domain.EnrollmentRepository,
	progressRepo domain.ProgressRepository,
	validator *validation.Validator,
) EnrollmentService {
	return &enrollmentServiceImpl{
		txManager:      txManager,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		validator:      validator,
		now:            time.Now,
	}
}

// EnrollCourse checks the pair, then writes the enrollment and its initial
// progress in one transaction. Nothing is written when a check fails.
func (s *enrollmentServiceImpl) EnrollCourse(ctx context.Context, userID, courseID string, totalLessons int) (*dto.EnrollmentResponse, error) {
	resp, err := s.enroll(ctx, userID, courseID, totalLessons)
	metrics.EnrollmentOutcomes.WithLabelValues(enrollmentOutcome(err)).Inc()
	return resp, err
}

func (s *enrollmentServiceImpl) enroll(ctx context.Context, userID, courseID string, totalLessons int) (*dto.EnrollmentResponse, error) {
	appLogger := logger.Get()
	if errs := s.validator.ValidateEnrollInput(userID, courseID, totalLessons); len(errs) > 0 {
		return nil, errs
	}

	userExists, err := s.userRepo.ExistsUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check user", err)
	}
	if !userExists {
		return nil, domain.NewNotFoundError("User", userID)
	}

	courseExists, err := s.courseRepo.ExistsCourse(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check course", err)
	}
	if !courseExists {
		return nil, domain.NewNotFoundError("Course", courseID)
	}

	existing, err := s.enrollmentRepo.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check existing enrollment", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("User "+userID+" is already enrolled in course "+courseID, nil)
	}

	s.warnOnLessonDrift(ctx, courseID, totalLessons)

	now := s.now()
	enrollment := &domain.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: now,
	}
	progress := domain.NewProgress(userID, courseID, totalLessons)
	progress.CreatedAt = now
	progress.UpdatedAt = now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.enrollmentRepo.CreateEnrollment(txCtx, enrollment); err != nil {
			return err
		}
		return s.progressRepo.CreateProgress(txCtx, progress)
	})
	if err != nil {
		if domain.IsConflict(err) {
			appLogger.Info("Concurrent duplicate enrollment rejected",
				zap.String("userID", userID), zap.String("courseID", courseID))
			return nil, err
		}
		appLogger.Error("Failed to enroll user", zap.Error(err),
			zap.String("userID", userID), zap.String("courseID", courseID))
		if domain.ErrorCodeOf(err) != domain.CodeInternal {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to create enrollment", err)
	}

	appLogger.Info("User enrolled",
		zap.String("userID", userID),
		zap.String("courseID", courseID),
		zap.String("progressID", progress.ID),
		zap.Int("totalLessons", totalLessons))

	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

// warnOnLessonDrift logs when the caller's lesson count differs from the
// live one. The caller's value is stored regardless.
func (s *enrollmentServiceImpl) warnOnLessonDrift(ctx context.Context, courseID string, totalLessons int) {
	if s.lessonRepo == nil {
		return
	}
	live, err := s.lessonRepo.CountLessonsByCourse(ctx, courseID)
	if err != nil {
		logger.Get().Warn("Failed to count lessons for drift check", zap.Error(err), zap.String("courseID", courseID))
		return
	}
	if live != totalLessons {
		logger.Get().Warn("Supplied totalLessons differs from live lesson count",
			zap.String("courseID", courseID),
			zap.Int("totalLessons", totalLessons),
			zap.Int("liveLessonCount", live))
	}
}

func enrollmentOutcome(err error) string {
	if err == nil {
		return "created"
	}
	switch domain.ErrorCodeOf(err) {
	case domain.CodeConflict:
		return "conflict"
	case domain.CodeNotFound:
		return "not_found"
	case domain.CodeValidation:
		return "invalid"
	default:
		return "error"
	}
}

// ListEnrollments returns the user's enrollments with their courses. A user
// with no enrollments yields NotFound.
func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context, userID string) ([]dto.EnrollmentWithCourseResponse, error) {
	if errs := s.validator.ValidateID("userId", userID); len(errs) > 0 {
		return nil, errs
	}

	enrollments, err := s.enrollmentRepo.ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list enrollments", err)
	}
	if len(enrollments) == 0 {
		return nil, domain.NewNotFoundError("Enrollments for user", userID)
	}

	out := make([]dto.EnrollmentWithCourseResponse, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, dto.EnrollmentWithCourseResponse{
			EnrollmentResponse: toEnrollmentResponse(e),
			Course:             toCourseResponse(e.Course),
		})
	}
	return out, nil
}
