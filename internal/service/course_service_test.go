package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"edu-classroom/internal/cache"
	"edu-classroom/internal/config"
	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type courseFixture struct {
	tx          *MockTxManager
	courses     *MockCourseRepository
	lessons     *MockLessonRepository
	enrollments *MockEnrollmentRepository
	progress    *MockProgressRepository
	cache       *MockCache
	svc         CourseService
}

func newCourseFixture() *courseFixture {
	f := &courseFixture{
		tx:          &MockTxManager{},
		courses:     new(MockCourseRepository),
		lessons:     new(MockLessonRepository),
		enrollments: new(MockEnrollmentRepository),
		progress:    new(MockProgressRepository),
		cache:       new(MockCache),
	}
	cfg := &config.Config{CacheTTLs: config.CacheTTLConfig{Course: "5m", CourseList: "1m"}}
	f.svc = NewCourseService(f.tx, f.courses, f.lessons, f.enrollments, f.progress, f.cache, cfg)
	return f
}

func TestGetCourse_CacheHit(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	cached := dto.CourseDetailResponse{
		CourseResponse: dto.CourseResponse{ID: "c1", Name: "Cached", LessonCount: 1},
		Lessons:        []dto.LessonResponse{{ID: "l1", CourseID: "c1", Name: "Intro"}},
	}
	raw, _ := json.Marshal(cached)
	f.cache.On("Get", ctx, cache.CourseKey("c1")).Return(string(raw), nil)

	got, err := f.svc.GetCourse(ctx, "c1")

	require.NoError(t, err)
	assert.Equal(t, "Cached", got.Name)
	require.Len(t, got.Lessons, 1)
	f.courses.AssertNotCalled(t, "GetCourseByID", mock.Anything, mock.Anything)
}

func TestGetCourse_CacheMissLoadsAndStores(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	key := cache.CourseKey("c1")
	f.cache.On("Get", ctx, key).Return("", domain.ErrCacheMiss)
	f.courses.On("GetCourseByID", mock.Anything, "c1").Return(&domain.Course{ID: "c1", Name: "Go Basics", LessonCount: 2}, nil)
	f.lessons.On("ListLessonsByCourse", mock.Anything, "c1").Return([]*domain.Lesson{
		{ID: "l1", CourseID: "c1", Name: "Intro"},
		{ID: "l2", CourseID: "c1", Name: "Types"},
	}, nil)
	f.cache.On("Set", mock.Anything, key, mock.AnythingOfType("string"), 5*time.Minute).Return(nil)

	got, err := f.svc.GetCourse(ctx, "c1")

	require.NoError(t, err)
	assert.Equal(t, "Go Basics", got.Name)
	assert.Equal(t, 2, got.LessonCount)
	assert.Len(t, got.Lessons, 2)
	f.cache.AssertExpectations(t)
}

func TestGetCourse_CacheErrorFallsThrough(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	key := cache.CourseKey("c1")
	f.cache.On("Get", ctx, key).Return("", errors.New("redis down"))
	f.courses.On("GetCourseByID", mock.Anything, "c1").Return(&domain.Course{ID: "c1", Name: "Go Basics"}, nil)
	f.lessons.On("ListLessonsByCourse", mock.Anything, "c1").Return([]*domain.Lesson{}, nil)
	f.cache.On("Set", mock.Anything, key, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	got, err := f.svc.GetCourse(ctx, "c1")

	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
}

func TestGetCourse_NotFoundIsNotCached(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.cache.On("Get", ctx, cache.CourseKey("nope")).Return("", domain.ErrCacheMiss)
	f.courses.On("GetCourseByID", mock.Anything, "nope").Return(nil, nil)

	_, err := f.svc.GetCourse(ctx, "nope")

	assert.True(t, domain.IsNotFound(err))
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListCourses_LoadsOnMiss(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.cache.On("Get", ctx, cache.CourseListKey()).Return("", domain.ErrCacheMiss)
	f.courses.On("ListCourses", mock.Anything).Return([]*domain.Course{
		{ID: "c1", Name: "A", LessonCount: 3},
		{ID: "c2", Name: "B"},
	}, nil)
	f.cache.On("Set", mock.Anything, cache.CourseListKey(), mock.Anything, time.Minute).Return(nil)

	got, err := f.svc.ListCourses(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].LessonCount)
}

func TestListCourses_CanceledCallerDoesNotFailSharedLoad(t *testing.T) {
	f := newCourseFixture()
	started := make(chan struct{})
	release := make(chan struct{})
	f.cache.On("Get", mock.Anything, cache.CourseListKey()).Return("", domain.ErrCacheMiss)
	f.courses.On("ListCourses", mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		<-release
		assert.NoError(t, args.Get(0).(context.Context).Err())
	}).Return([]*domain.Course{{ID: "c1", Name: "A"}}, nil).Once()
	f.cache.On("Set", mock.Anything, cache.CourseListKey(), mock.Anything, time.Minute).Return(nil)

	type result struct {
		courses []*dto.CourseResponse
		err     error
	}
	ctxA, cancelA := context.WithCancel(context.Background())
	doneA := make(chan result, 1)
	go func() {
		got, err := f.svc.ListCourses(ctxA)
		doneA <- result{got, err}
	}()
	<-started

	doneB := make(chan result, 1)
	go func() {
		got, err := f.svc.ListCourses(context.Background())
		doneB <- result{got, err}
	}()
	// Give B time to join the in-flight load before A goes away.
	time.Sleep(50 * time.Millisecond)
	cancelA()
	close(release)

	b := <-doneB
	require.NoError(t, b.err)
	require.Len(t, b.courses, 1)
	assert.Equal(t, "c1", b.courses[0].ID)

	a := <-doneA
	require.NoError(t, a.err)
	f.courses.AssertNumberOfCalls(t, "ListCourses", 1)
}

func TestDeleteCourse_RemovesDependentsInOrderAndInvalidates(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	var order []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, name) }
	}
	f.courses.On("ExistsCourse", ctx, "c1").Return(true, nil)
	f.progress.On("DeleteProgressByCourse", ctx, "c1").Run(record("progress")).Return(nil)
	f.enrollments.On("DeleteEnrollmentsByCourse", ctx, "c1").Run(record("enrollments")).Return(nil)
	f.lessons.On("DeleteLessonsByCourse", ctx, "c1").Run(record("lessons")).Return(nil)
	f.courses.On("DeleteCourse", ctx, "c1").Run(record("course")).Return(nil)
	f.cache.On("Delete", ctx, []string{cache.CourseListKey(), cache.CourseKey("c1")}).Return(nil)

	err := f.svc.DeleteCourse(ctx, "c1")

	require.NoError(t, err)
	assert.Equal(t, []string{"progress", "enrollments", "lessons", "course"}, order)
	assert.Equal(t, 1, f.tx.calls)
	f.cache.AssertExpectations(t)
}

func TestDeleteCourse_FailureSkipsInvalidation(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.courses.On("ExistsCourse", ctx, "c1").Return(true, nil)
	f.progress.On("DeleteProgressByCourse", ctx, "c1").Return(errors.New("locked"))

	err := f.svc.DeleteCourse(ctx, "c1")

	require.Error(t, err)
	f.enrollments.AssertNotCalled(t, "DeleteEnrollmentsByCourse", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCourse_NotFound(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.courses.On("ExistsCourse", ctx, "c9").Return(false, nil)

	err := f.svc.DeleteCourse(ctx, "c9")

	assert.True(t, domain.IsNotFound(err))
}

func TestCreateLesson_InvalidatesCourse(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.courses.On("ExistsCourse", ctx, "c1").Return(true, nil)
	f.lessons.On("CreateLesson", ctx, mock.MatchedBy(func(l *domain.Lesson) bool {
		return l.CourseID == "c1" && l.Name == "Closures"
	})).Return(nil)
	f.cache.On("Delete", ctx, []string{cache.CourseListKey(), cache.CourseKey("c1")}).Return(nil)

	got, err := f.svc.CreateLesson(ctx, "c1", dto.LessonRequest{Name: " Closures ", Abstract: "funcs"})

	require.NoError(t, err)
	assert.Equal(t, "generated-lesson-id", got.ID)
	f.cache.AssertExpectations(t)
}

func TestCreateLesson_UnknownCourse(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.courses.On("ExistsCourse", ctx, "c9").Return(false, nil)

	_, err := f.svc.CreateLesson(ctx, "c9", dto.LessonRequest{Name: "x"})

	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateCourse(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.courses.On("GetCourseByID", ctx, "c1").Return(&domain.Course{ID: "c1", Name: "Old"}, nil)
	f.courses.On("UpdateCourse", ctx, mock.MatchedBy(func(c *domain.Course) bool { return c.Name == "New" })).Return(nil)
	f.cache.On("Delete", ctx, mock.Anything).Return(nil)

	got, err := f.svc.UpdateCourse(ctx, "c1", dto.CourseRequest{Name: "New"})

	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}

func TestDeleteLesson_NotFound(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	f.lessons.On("GetLessonByID", ctx, "l9").Return(nil, nil)

	err := f.svc.DeleteLesson(ctx, "l9")

	assert.True(t, domain.IsNotFound(err))
}
