package handler_test

import (
	"context"
	"errors"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
)

var errNotStubbed = errors.New("not stubbed")

type ManualMockAuthService struct {
	RegisterFunc     func(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error)
	LoginFunc        func(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	ValidateJWTFunc  func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	RefreshTokenFunc func(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error)
	LogoutFunc       func(ctx context.Context, claims *dto.AuthClaims) error
}

func (m *ManualMockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *ManualMockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *ManualMockAuthService) GetGoogleLoginURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *ManualMockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error) {
	return nil, errNotStubbed
}

func (m *ManualMockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	return nil, domain.NewUnauthorizedError("invalid token")
}

func (m *ManualMockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	return "", errNotStubbed
}

func (m *ManualMockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshTokenString)
	}
	return nil, errNotStubbed
}

func (m *ManualMockAuthService) Logout(ctx context.Context, claims *dto.AuthClaims) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, claims)
	}
	return errNotStubbed
}

type ManualMockUserService struct {
	GetUserFunc        func(ctx context.Context, userID string) (*dto.UserResponse, error)
	ListUsersFunc      func(ctx context.Context) ([]*dto.UserResponse, error)
	UpdateUserRoleFunc func(ctx context.Context, userID string, role domain.Role) (*dto.UserResponse, error)
	DeleteUserFunc     func(ctx context.Context, userID string) error
}

func (m *ManualMockUserService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	return nil, errNotStubbed
}

func (m *ManualMockUserService) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, errNotStubbed
}

func (m *ManualMockUserService) UpdateUserRole(ctx context.Context, userID string, role domain.Role) (*dto.UserResponse, error) {
	if m.UpdateUserRoleFunc != nil {
		return m.UpdateUserRoleFunc(ctx, userID, role)
	}
	return nil, errNotStubbed
}

func (m *ManualMockUserService) DeleteUser(ctx context.Context, userID string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, userID)
	}
	return errNotStubbed
}

type ManualMockCourseService struct {
	ListCoursesFunc  func(ctx context.Context) ([]*dto.CourseResponse, error)
	GetCourseFunc    func(ctx context.Context, courseID string) (*dto.CourseDetailResponse, error)
	CreateCourseFunc func(ctx context.Context, req dto.CourseRequest) (*dto.CourseResponse, error)
	DeleteCourseFunc func(ctx context.Context, courseID string) error
	CreateLessonFunc func(ctx context.Context, courseID string, req dto.LessonRequest) (*dto.LessonResponse, error)
}

func (m *ManualMockCourseService) ListCourses(ctx context.Context) ([]*dto.CourseResponse, error) {
	if m.ListCoursesFunc != nil {
		return m.ListCoursesFunc(ctx)
	}
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) GetCourse(ctx context.Context, courseID string) (*dto.CourseDetailResponse, error) {
	if m.GetCourseFunc != nil {
		return m.GetCourseFunc(ctx, courseID)
	}
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) CreateCourse(ctx context.Context, req dto.CourseRequest) (*dto.CourseResponse, error) {
	if m.CreateCourseFunc != nil {
		return m.CreateCourseFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) UpdateCourse(ctx context.Context, courseID string, req dto.CourseRequest) (*dto.CourseResponse, error) {
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) DeleteCourse(ctx context.Context, courseID string) error {
	if m.DeleteCourseFunc != nil {
		return m.DeleteCourseFunc(ctx, courseID)
	}
	return errNotStubbed
}

func (m *ManualMockCourseService) ListLessons(ctx context.Context, courseID string) ([]dto.LessonResponse, error) {
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) GetLesson(ctx context.Context, lessonID string) (*dto.LessonResponse, error) {
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) CreateLesson(ctx context.Context, courseID string, req dto.LessonRequest) (*dto.LessonResponse, error) {
	if m.CreateLessonFunc != nil {
		return m.CreateLessonFunc(ctx, courseID, req)
	}
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) UpdateLesson(ctx context.Context, lessonID string, req dto.LessonRequest) (*dto.LessonResponse, error) {
	return nil, errNotStubbed
}

func (m *ManualMockCourseService) DeleteLesson(ctx context.Context, lessonID string) error {
	return errNotStubbed
}

type ManualMockEnrollmentService struct {
	EnrollCourseFunc    func(ctx context.Context, userID, courseID string, totalLessons int) (*dto.EnrollmentResponse, error)
	ListEnrollmentsFunc func(ctx context.Context, userID string) ([]dto.EnrollmentWithCourseResponse, error)
	enrollCalls         int
}

func (m *ManualMockEnrollmentService) EnrollCourse(ctx context.Context, userID, courseID string, totalLessons int) (*dto.EnrollmentResponse, error) {
	m.enrollCalls++
	if m.EnrollCourseFunc != nil {
		return m.EnrollCourseFunc(ctx, userID, courseID, totalLessons)
	}
	return nil, errNotStubbed
}

func (m *ManualMockEnrollmentService) ListEnrollments(ctx context.Context, userID string) ([]dto.EnrollmentWithCourseResponse, error) {
	if m.ListEnrollmentsFunc != nil {
		return m.ListEnrollmentsFunc(ctx, userID)
	}
	return nil, errNotStubbed
}

type ManualMockProgressService struct {
	UpdateProgressFunc func(ctx context.Context, progressID, expectedOwnerID string, completedLessons, totalLessons int) (*dto.ProgressResponse, error)
	GetProgressFunc    func(ctx context.Context, progressID string) (*dto.ProgressDetailResponse, error)
	ListProgressFunc   func(ctx context.Context, userID string) ([]*dto.ProgressResponse, error)
	updateCalls        int
}

func (m *ManualMockProgressService) UpdateProgress(ctx context.Context, progressID, expectedOwnerID string, completedLessons, totalLessons int) (*dto.ProgressResponse, error) {
	m.updateCalls++
	if m.UpdateProgressFunc != nil {
		return m.UpdateProgressFunc(ctx, progressID, expectedOwnerID, completedLessons, totalLessons)
	}
	return nil, errNotStubbed
}

func (m *ManualMockProgressService) GetProgress(ctx context.Context, progressID string) (*dto.ProgressDetailResponse, error) {
	if m.GetProgressFunc != nil {
		return m.GetProgressFunc(ctx, progressID)
	}
	return nil, errNotStubbed
}

func (m *ManualMockProgressService) ListProgress(ctx context.Context, userID string) ([]*dto.ProgressResponse, error) {
	if m.ListProgressFunc != nil {
		return m.ListProgressFunc(ctx, userID)
	}
	return nil, errNotStubbed
}

type ManualMockConversationService struct {
	CreateConversationFunc func(ctx context.Context, actor domain.Actor, title string) (*dto.ConversationResponse, error)
	SendMessageFunc        func(ctx context.Context, actor domain.Actor, conversationID, content string) (*dto.ExchangeResponse, error)
}

func (m *ManualMockConversationService) CreateConversation(ctx context.Context, actor domain.Actor, title string) (*dto.ConversationResponse, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(ctx, actor, title)
	}
	return nil, errNotStubbed
}

func (m *ManualMockConversationService) ListConversations(ctx context.Context, actor domain.Actor, userID string) ([]*dto.ConversationResponse, error) {
	return nil, errNotStubbed
}

func (m *ManualMockConversationService) GetConversation(ctx context.Context, actor domain.Actor, conversationID string) (*dto.ConversationResponse, error) {
	return nil, errNotStubbed
}

func (m *ManualMockConversationService) DeleteConversation(ctx context.Context, actor domain.Actor, conversationID string) error {
	return errNotStubbed
}

func (m *ManualMockConversationService) SendMessage(ctx context.Context, actor domain.Actor, conversationID, content string) (*dto.ExchangeResponse, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, actor, conversationID, content)
	}
	return nil, errNotStubbed
}
