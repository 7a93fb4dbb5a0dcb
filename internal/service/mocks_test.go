package service

import (
	"context"
	"time"

	"edu-classroom/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTxManager ---
// Runs fn directly and returns its error, like a real transaction that
// rolls back on error.
type MockTxManager struct {
	calls int
}

func (m *MockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "generated-user-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsUser(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// --- MockCourseRepository ---
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) CreateCourse(ctx context.Context, course *domain.Course) error {
	args := m.Called(ctx, course)
	if args.Error(0) == nil && course.ID == "" {
		course.ID = "generated-course-id"
	}
	return args.Error(0)
}

func (m *MockCourseRepository) GetCourseByID(ctx context.Context, courseID string) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseRepository) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Course), args.Error(1)
}

func (m *MockCourseRepository) UpdateCourse(ctx context.Context, course *domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) DeleteCourse(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

func (m *MockCourseRepository) ExistsCourse(ctx context.Context, courseID string) (bool, error) {
	args := m.Called(ctx, courseID)
	return args.Bool(0), args.Error(1)
}

// --- MockLessonRepository ---
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) CreateLesson(ctx context.Context, lesson *domain.Lesson) error {
	args := m.Called(ctx, lesson)
	if args.Error(0) == nil && lesson.ID == "" {
		lesson.ID = "generated-lesson-id"
	}
	return args.Error(0)
}

func (m *MockLessonRepository) GetLessonByID(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) ListLessonsByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) CountLessonsByCourse(ctx context.Context, courseID string) (int, error) {
	args := m.Called(ctx, courseID)
	return args.Int(0), args.Error(1)
}

func (m *MockLessonRepository) UpdateLesson(ctx context.Context, lesson *domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockLessonRepository) DeleteLesson(ctx context.Context, lessonID string) error {
	args := m.Called(ctx, lessonID)
	return args.Error(0)
}

func (m *MockLessonRepository) DeleteLessonsByCourse(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

// --- MockEnrollmentRepository ---
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) CreateEnrollment(ctx context.Context, enrollment *domain.Enrollment) error {
	args := m.Called(ctx, enrollment)
	if args.Error(0) == nil && enrollment.ID == "" {
		enrollment.ID = "generated-enrollment-id"
	}
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetEnrollment(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListEnrollmentsByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) DeleteEnrollmentsByCourse(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) DeleteEnrollmentsByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockProgressRepository ---
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) CreateProgress(ctx context.Context, progress *domain.Progress) error {
	args := m.Called(ctx, progress)
	if args.Error(0) == nil && progress.ID == "" {
		progress.ID = "generated-progress-id"
	}
	return args.Error(0)
}

func (m *MockProgressRepository) GetProgressByID(ctx context.Context, progressID string) (*domain.Progress, error) {
	args := m.Called(ctx, progressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressRepository) GetProgressForUpdate(ctx context.Context, progressID string) (*domain.Progress, error) {
	args := m.Called(ctx, progressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressRepository) ListProgressByUser(ctx context.Context, userID string) ([]*domain.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Progress), args.Error(1)
}

func (m *MockProgressRepository) UpdateProgress(ctx context.Context, progress *domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) DeleteProgressByCourse(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

func (m *MockProgressRepository) DeleteProgressByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockConversationRepository ---
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) CreateConversation(ctx context.Context, conversation *domain.Conversation) error {
	args := m.Called(ctx, conversation)
	if args.Error(0) == nil && conversation.ID == "" {
		conversation.ID = "generated-conversation-id"
	}
	return args.Error(0)
}

func (m *MockConversationRepository) GetConversationByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) ListConversationsByUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	args := m.Called(ctx, conversationID, at)
	return args.Error(0)
}

func (m *MockConversationRepository) DeleteConversation(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockConversationRepository) DeleteConversationsByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockMessageRepository ---
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) DeleteMessagesByConversation(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockMessageRepository) DeleteMessagesByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockTutor ---
type MockTutor struct {
	mock.Mock
}

func (m *MockTutor) Reply(ctx context.Context, history []domain.TutorTurn) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
