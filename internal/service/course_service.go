package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"edu-classroom/internal/cache"
	"edu-classroom/internal/config"
	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
	"edu-classroom/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCourseCacheTTL     = 10 * time.Minute
	defaultCourseListCacheTTL = 2 * time.Minute
	courseLoadTimeout         = 10 * time.Second
)

// CourseService manages courses and their lessons.
type CourseService interface {
	ListCourses(ctx context.Context) ([]*dto.CourseResponse, error)
	GetCourse(ctx context.Context, courseID string) (*dto.CourseDetailResponse, error)
	CreateCourse(ctx context.Context, req dto.CourseRequest) (*dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, courseID string, req dto.CourseRequest) (*dto.CourseResponse, error)
	// DeleteCourse removes the course's progress, enrollments, lessons and
	// the course itself in one transaction.
	DeleteCourse(ctx context.Context, courseID string) error

	ListLessons(ctx context.Context, courseID string) ([]dto.LessonResponse, error)
	GetLesson(ctx context.Context, lessonID string) (*dto.LessonResponse, error)
	CreateLesson(ctx context.Context, courseID string, req dto.LessonRequest) (*dto.LessonResponse, error)
	UpdateLesson(ctx context.Context, lessonID string, req dto.LessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, lessonID string) error
}

type courseServiceImpl struct {
	txManager      domain.TransactionManager
	courseRepo     domain.CourseRepository
	lessonRepo     domain.LessonRepository
	enrollmentRepo domain.EnrollmentRepository
	progressRepo   domain.ProgressRepository
	cache          domain.Cache
	courseTTL      time.Duration
	listTTL        time.Duration
	sfGroup        singleflight.Group
}

// NewCourseService creates a new instance of CourseService. cache may be nil.
func NewCourseService(
	txManager domain.TransactionManager,
	courseRepo domain.CourseRepository,
	lessonRepo domain.LessonRepository,
	enrollmentRepo domain.EnrollmentRepository,
	progressRepo domain.ProgressRepository,
	cache domain.Cache,
	cfg *config.Config,
) CourseService {
	courseTTL, listTTL := defaultCourseCacheTTL, defaultCourseListCacheTTL
	if cfg != nil {
		courseTTL = cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Course, defaultCourseCacheTTL)
		listTTL = cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.CourseList, defaultCourseListCacheTTL)
	}
	return &courseServiceImpl{
		txManager:      txManager,
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		cache:          cache,
		courseTTL:      courseTTL,
		listTTL:        listTTL,
	}
}

// readThrough serves key from the cache, or runs load once per key across
// concurrent callers and stores its JSON result. The shared load is detached
// from any single caller's cancellation and bounded by courseLoadTimeout.
func (s *courseServiceImpl) readThrough(ctx context.Context, key string, ttl time.Duration, out interface{}, load func(ctx context.Context) (interface{}, error)) error {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(cached), out); jsonErr == nil {
				logger.Get().Debug("Course cache hit", zap.String("key", key))
				return nil
			}
			logger.Get().Warn("Discarding undecodable course cache entry", zap.String("key", key))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Course cache read failed", zap.Error(err), zap.String("key", key))
		}
	}

	res, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), courseLoadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if s.cache != nil {
			if err := s.cache.Set(loadCtx, key, string(raw), ttl); err != nil {
				logger.Get().Warn("Course cache write failed", zap.Error(err), zap.String("key", key))
			}
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(res.([]byte), out)
}

func (s *courseServiceImpl) invalidate(ctx context.Context, courseID string) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.CourseListKey()}
	if courseID != "" {
		keys = append(keys, cache.CourseKey(courseID))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Get().Warn("Course cache invalidation failed", zap.Error(err), zap.Strings("keys", keys))
	}
}

func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*dto.CourseResponse, error) {
	var out []*dto.CourseResponse
	err := s.readThrough(ctx, cache.CourseListKey(), s.listTTL, &out, func(ctx context.Context) (interface{}, error) {
		courses, err := s.courseRepo.ListCourses(ctx)
		if err != nil {
			return nil, domain.NewInternalError("failed to list courses", err)
		}
		resp := make([]*dto.CourseResponse, 0, len(courses))
		for _, c := range courses {
			resp = append(resp, toCourseResponse(c))
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *courseServiceImpl) GetCourse(ctx context.Context, courseID string) (*dto.CourseDetailResponse, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("courseId")}
	}
	var out dto.CourseDetailResponse
	err := s.readThrough(ctx, cache.CourseKey(courseID), s.courseTTL, &out, func(ctx context.Context) (interface{}, error) {
		course, err := s.courseRepo.GetCourseByID(ctx, courseID)
		if err != nil {
			return nil, domain.NewInternalError("failed to get course", err)
		}
		if course == nil {
			return nil, domain.NewNotFoundError("Course", courseID)
		}
		lessons, err := s.lessonRepo.ListLessonsByCourse(ctx, courseID)
		if err != nil {
			return nil, domain.NewInternalError("failed to list lessons", err)
		}
		detail := &dto.CourseDetailResponse{
			CourseResponse: *toCourseResponse(course),
			Lessons:        make([]dto.LessonResponse, 0, len(lessons)),
		}
		for _, l := range lessons {
			detail.Lessons = append(detail.Lessons, toLessonResponse(l))
		}
		detail.LessonCount = len(detail.Lessons)
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *courseServiceImpl) CreateCourse(ctx context.Context, req dto.CourseRequest) (*dto.CourseResponse, error) {
	course := domain.NewCourse(strings.TrimSpace(req.Name), req.Abstract)
	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "")
	logger.Get().Info("Course created", zap.String("courseID", course.ID))
	return toCourseResponse(course), nil
}

func (s *courseServiceImpl) UpdateCourse(ctx context.Context, courseID string, req dto.CourseRequest) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get course", err)
	}
	if course == nil {
		return nil, domain.NewNotFoundError("Course", courseID)
	}
	course.Name = strings.TrimSpace(req.Name)
	course.Abstract = req.Abstract
	course.UpdatedAt = time.Now()
	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.invalidate(ctx, courseID)
	return toCourseResponse(course), nil
}

func (s *courseServiceImpl) DeleteCourse(ctx context.Context, courseID string) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.courseRepo.ExistsCourse(txCtx, courseID)
		if err != nil {
			return domain.NewInternalError("failed to check course", err)
		}
		if !exists {
			return domain.NewNotFoundError("Course", courseID)
		}
		if err := s.progressRepo.DeleteProgressByCourse(txCtx, courseID); err != nil {
			return err
		}
		if err := s.enrollmentRepo.DeleteEnrollmentsByCourse(txCtx, courseID); err != nil {
			return err
		}
		if err := s.lessonRepo.DeleteLessonsByCourse(txCtx, courseID); err != nil {
			return err
		}
		return s.courseRepo.DeleteCourse(txCtx, courseID)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, courseID)
	logger.Get().Info("Course deleted", zap.String("courseID", courseID))
	return nil
}

func (s *courseServiceImpl) ListLessons(ctx context.Context, courseID string) ([]dto.LessonResponse, error) {
	exists, err := s.courseRepo.ExistsCourse(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check course", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("Course", courseID)
	}
	lessons, err := s.lessonRepo.ListLessonsByCourse(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list lessons", err)
	}
	out := make([]dto.LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, toLessonResponse(l))
	}
	return out, nil
}

func (s *courseServiceImpl) GetLesson(ctx context.Context, lessonID string) (*dto.LessonResponse, error) {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get lesson", err)
	}
	if lesson == nil {
		return nil, domain.NewNotFoundError("Lesson", lessonID)
	}
	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *courseServiceImpl) CreateLesson(ctx context.Context, courseID string, req dto.LessonRequest) (*dto.LessonResponse, error) {
	exists, err := s.courseRepo.ExistsCourse(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check course", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("Course", courseID)
	}
	lesson := domain.NewLesson(courseID, strings.TrimSpace(req.Name), req.Abstract)
	if err := s.lessonRepo.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	s.invalidate(ctx, courseID)
	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *courseServiceImpl) UpdateLesson(ctx context.Context, lessonID string, req dto.LessonRequest) (*dto.LessonResponse, error) {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get lesson", err)
	}
	if lesson == nil {
		return nil, domain.NewNotFoundError("Lesson", lessonID)
	}
	lesson.Name = strings.TrimSpace(req.Name)
	lesson.Abstract = req.Abstract
	lesson.UpdatedAt = time.Now()
	if err := s.lessonRepo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	s.invalidate(ctx, lesson.CourseID)
	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *courseServiceImpl) DeleteLesson(ctx context.Context, lessonID string) error {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return domain.NewInternalError("failed to get lesson", err)
	}
	if lesson == nil {
		return domain.NewNotFoundError("Lesson", lessonID)
	}
	if err := s.lessonRepo.DeleteLesson(ctx, lessonID); err != nil {
		return err
	}
	s.invalidate(ctx, lesson.CourseID)
	return nil
}
