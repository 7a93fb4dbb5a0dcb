package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
	"edu-classroom/internal/handler"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

type testServer struct {
	app           *fiber.App
	auth          *ManualMockAuthService
	users         *ManualMockUserService
	courses       *ManualMockCourseService
	enrollments   *ManualMockEnrollmentService
	progress      *ManualMockProgressService
	conversations *ManualMockConversationService
}

func newTestServer() *testServer {
	s := &testServer{
		auth: &ManualMockAuthService{
			ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
				switch tokenString {
				case userToken:
					return &dto.AuthClaims{UserID: "u1", Role: "USER", TokenType: "access"}, nil
				case adminToken:
					return &dto.AuthClaims{UserID: "a1", Role: "ADMIN", TokenType: "access"}, nil
				}
				return nil, domain.NewUnauthorizedError("invalid token")
			},
		},
		users:         &ManualMockUserService{},
		courses:       &ManualMockCourseService{},
		enrollments:   &ManualMockEnrollmentService{},
		progress:      &ManualMockProgressService{},
		conversations: &ManualMockConversationService{},
	}

	body := middleware.NewBodyParser(validation.NewValidator())
	s.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(s.app.Group("/api"), handler.Handlers{
		Auth:         handler.NewAuthHandler(s.auth, body),
		User:         handler.NewUserHandler(s.users, body),
		Course:       handler.NewCourseHandler(s.courses, body),
		Enrollment:   handler.NewEnrollmentHandler(s.enrollments, body),
		Progress:     handler.NewProgressHandler(s.progress, body),
		Conversation: handler.NewConversationHandler(s.conversations, body),
	}, s.auth)
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, payload interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerSchema+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Code
}

func intPtr(v int) *int { return &v }

func TestEnrollCourse(t *testing.T) {
	enrolledAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		token      string
		payload    dto.EnrollCourseRequest
		serviceErr error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "user enrolls self",
			token:      userToken,
			payload:    dto.EnrollCourseRequest{UserID: "u1", CourseID: "c1", TotalLessons: intPtr(10)},
			wantStatus: fiber.StatusCreated,
			wantCalls:  1,
		},
		{
			name:       "user cannot enroll someone else",
			token:      userToken,
			payload:    dto.EnrollCourseRequest{UserID: "u2", CourseID: "c1", TotalLessons: intPtr(10)},
			wantStatus: fiber.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "admin enrolls another user",
			token:      adminToken,
			payload:    dto.EnrollCourseRequest{UserID: "u2", CourseID: "c1", TotalLessons: intPtr(0)},
			wantStatus: fiber.StatusCreated,
			wantCalls:  1,
		},
		{
			name:       "missing total lessons",
			token:      userToken,
			payload:    dto.EnrollCourseRequest{UserID: "u1", CourseID: "c1"},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "duplicate enrollment",
			token:      userToken,
			payload:    dto.EnrollCourseRequest{UserID: "u1", CourseID: "c1", TotalLessons: intPtr(10)},
			serviceErr: domain.NewConflictError("user is already enrolled in this course", nil),
			wantStatus: fiber.StatusConflict,
			wantCode:   "CONFLICT",
			wantCalls:  1,
		},
		{
			name:       "unknown course",
			token:      userToken,
			payload:    dto.EnrollCourseRequest{UserID: "u1", CourseID: "c9", TotalLessons: intPtr(10)},
			serviceErr: domain.NewNotFoundError("Course", "c9"),
			wantStatus: fiber.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantCalls:  1,
		},
		{
			name:       "no token",
			payload:    dto.EnrollCourseRequest{UserID: "u1", CourseID: "c1", TotalLessons: intPtr(10)},
			wantStatus: fiber.StatusUnauthorized,
			wantCode:   "MISSING_AUTH_HEADER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.enrollments.EnrollCourseFunc = func(ctx context.Context, userID, courseID string, totalLessons int) (*dto.EnrollmentResponse, error) {
				if tt.serviceErr != nil {
					return nil, tt.serviceErr
				}
				assert.Equal(t, *tt.payload.TotalLessons, totalLessons)
				return &dto.EnrollmentResponse{UserID: userID, CourseID: courseID, EnrolledAt: enrolledAt}, nil
			}

			status, body := s.do(t, fiber.MethodPost, "/api/enrollments", tt.token, tt.payload)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCalls, s.enrollments.enrollCalls)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, body))
				return
			}
			var got dto.EnrollmentResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.payload.UserID, got.UserID)
			assert.True(t, enrolledAt.Equal(got.EnrolledAt))
		})
	}
}

func TestListEnrollments_Authorization(t *testing.T) {
	s := newTestServer()
	s.enrollments.ListEnrollmentsFunc = func(ctx context.Context, userID string) ([]dto.EnrollmentWithCourseResponse, error) {
		return []dto.EnrollmentWithCourseResponse{{EnrollmentResponse: dto.EnrollmentResponse{UserID: userID, CourseID: "c1"}}}, nil
	}

	status, _ := s.do(t, fiber.MethodGet, "/api/users/u1/enrollments", userToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := s.do(t, fiber.MethodGet, "/api/users/u2/enrollments", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	status, _ = s.do(t, fiber.MethodGet, "/api/users/u2/enrollments", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestUpdateProgress_OwnerBinding(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		bodyUserID    string
		wantStatus    int
		wantOwner     string
		wantCallCount int
	}{
		{"user without body id is bound to self", userToken, "", fiber.StatusOK, "u1", 1},
		{"user naming self", userToken, "u1", fiber.StatusOK, "u1", 1},
		{"user naming someone else", userToken, "u2", fiber.StatusForbidden, "", 0},
		{"admin naming owner", adminToken, "u2", fiber.StatusOK, "u2", 1},
		{"admin without body id", adminToken, "", fiber.StatusOK, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			var gotOwner string
			s.progress.UpdateProgressFunc = func(ctx context.Context, progressID, expectedOwnerID string, completed, total int) (*dto.ProgressResponse, error) {
				gotOwner = expectedOwnerID
				return &dto.ProgressResponse{ID: progressID, CompletedLessons: completed, TotalLessons: total, Percentage: 50, Status: "IN_PROGRESS"}, nil
			}

			status, _ := s.do(t, fiber.MethodPut, "/api/progress/p1", tt.token, dto.UpdateProgressRequest{
				UserID:           tt.bodyUserID,
				CompletedLessons: intPtr(5),
				TotalLessons:     intPtr(10),
			})

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCallCount, s.progress.updateCalls)
			assert.Equal(t, tt.wantOwner, gotOwner)
		})
	}
}

func TestUpdateProgress_RejectsNegativeCounts(t *testing.T) {
	s := newTestServer()

	status, body := s.do(t, fiber.MethodPut, "/api/progress/p1", userToken, dto.UpdateProgressRequest{
		CompletedLessons: intPtr(-1),
		TotalLessons:     intPtr(10),
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, body))
	assert.Equal(t, 0, s.progress.updateCalls)
}

func TestGetProgress_HidesOtherUsersRows(t *testing.T) {
	s := newTestServer()
	s.progress.GetProgressFunc = func(ctx context.Context, progressID string) (*dto.ProgressDetailResponse, error) {
		return &dto.ProgressDetailResponse{
			ProgressResponse: dto.ProgressResponse{ID: progressID, UserID: "u2", Percentage: 100, Status: "COMPLETED"},
			CourseName:       "Go Basics",
			LessonCount:      10,
		}, nil
	}

	status, _ := s.do(t, fiber.MethodGet, "/api/progress/p1", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := s.do(t, fiber.MethodGet, "/api/progress/p1", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var got dto.ProgressDetailResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "COMPLETED", got.Status)
	assert.Equal(t, "Go Basics", got.CourseName)
}

func TestCourseMutations_AdminOnly(t *testing.T) {
	s := newTestServer()
	s.courses.CreateCourseFunc = func(ctx context.Context, req dto.CourseRequest) (*dto.CourseResponse, error) {
		return &dto.CourseResponse{ID: "c1", Name: req.Name}, nil
	}
	s.courses.DeleteCourseFunc = func(ctx context.Context, courseID string) error { return nil }

	status, _ := s.do(t, fiber.MethodPost, "/api/courses", userToken, dto.CourseRequest{Name: "Go"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/courses", adminToken, dto.CourseRequest{Name: "Go"})
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = s.do(t, fiber.MethodDelete, "/api/courses/c1", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(t, fiber.MethodDelete, "/api/courses/c1", adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestGetCourse_NotFound(t *testing.T) {
	s := newTestServer()
	s.courses.GetCourseFunc = func(ctx context.Context, courseID string) (*dto.CourseDetailResponse, error) {
		return nil, domain.NewNotFoundError("Course", courseID)
	}

	status, body := s.do(t, fiber.MethodGet, "/api/courses/c9", userToken, nil)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestUserAdministration(t *testing.T) {
	s := newTestServer()
	s.users.GetUserFunc = func(ctx context.Context, userID string) (*dto.UserResponse, error) {
		return &dto.UserResponse{ID: userID, Role: "USER"}, nil
	}
	s.users.UpdateUserRoleFunc = func(ctx context.Context, userID string, role domain.Role) (*dto.UserResponse, error) {
		return &dto.UserResponse{ID: userID, Role: string(role)}, nil
	}

	status, body := s.do(t, fiber.MethodGet, "/api/users/me", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "u1", me.ID)

	status, _ = s.do(t, fiber.MethodPut, "/api/users/u2/role", userToken, dto.UpdateRoleRequest{Role: "ADMIN"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = s.do(t, fiber.MethodPut, "/api/users/u2/role", adminToken, dto.UpdateRoleRequest{Role: "ROOT"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, body))

	status, _ = s.do(t, fiber.MethodPut, "/api/users/u2/role", adminToken, dto.UpdateRoleRequest{Role: "ADMIN"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSendMessage_TutorUnavailable(t *testing.T) {
	s := newTestServer()
	var gotActor domain.Actor
	s.conversations.SendMessageFunc = func(ctx context.Context, actor domain.Actor, conversationID, content string) (*dto.ExchangeResponse, error) {
		gotActor = actor
		return nil, domain.NewLLMServiceError(assert.AnError)
	}

	status, body := s.do(t, fiber.MethodPost, "/api/conversations/conv1/messages", userToken, dto.SendMessageRequest{Content: "hi"})

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "LLM_SERVICE_ERROR", errorCode(t, body))
	assert.Equal(t, domain.Actor{UserID: "u1", Role: domain.RoleUser}, gotActor)
}

func TestCreateConversation(t *testing.T) {
	s := newTestServer()
	s.conversations.CreateConversationFunc = func(ctx context.Context, actor domain.Actor, title string) (*dto.ConversationResponse, error) {
		return &dto.ConversationResponse{ID: "conv1", UserID: actor.UserID, Title: title}, nil
	}

	status, body := s.do(t, fiber.MethodPost, "/api/conversations", userToken, dto.CreateConversationRequest{Title: "Loops"})

	require.Equal(t, fiber.StatusCreated, status)
	var got dto.ConversationResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "u1", got.UserID)
}
