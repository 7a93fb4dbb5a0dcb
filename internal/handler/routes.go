package handler

import (
	"edu-classroom/internal/domain"
	"edu-classroom/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Course       *CourseHandler
	Enrollment   *EnrollmentHandler
	Progress     *ProgressHandler
	Conversation *ConversationHandler
}

// RegisterRoutes mounts the API on router. Everything except sign-in is
// behind Protected; catalogue and account mutations are admin only.
func RegisterRoutes(router fiber.Router, h Handlers, validator middleware.TokenValidator) {
	protected := middleware.Protected(validator)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	auth := router.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/google/login", h.Auth.GoogleLogin)
	auth.Get("/google/callback", h.Auth.GoogleCallback)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/logout", protected, h.Auth.Logout)

	users := router.Group("/users", protected)
	users.Get("/me", h.User.GetMe)
	users.Get("/", adminOnly, h.User.ListUsers)
	users.Put("/:userId/role", adminOnly, h.User.UpdateUserRole)
	users.Delete("/:userId", adminOnly, h.User.DeleteUser)
	users.Get("/:userId/enrollments", h.Enrollment.ListEnrollments)
	users.Get("/:userId/progress", h.Progress.ListProgress)
	users.Get("/:userId/conversations", h.Conversation.ListConversations)

	courses := router.Group("/courses", protected)
	courses.Get("/", h.Course.ListCourses)
	courses.Post("/", adminOnly, h.Course.CreateCourse)
	courses.Get("/:courseId", h.Course.GetCourse)
	courses.Put("/:courseId", adminOnly, h.Course.UpdateCourse)
	courses.Delete("/:courseId", adminOnly, h.Course.DeleteCourse)
	courses.Get("/:courseId/lessons", h.Course.ListLessons)
	courses.Post("/:courseId/lessons", adminOnly, h.Course.CreateLesson)

	lessons := router.Group("/lessons", protected)
	lessons.Get("/:lessonId", h.Course.GetLesson)
	lessons.Put("/:lessonId", adminOnly, h.Course.UpdateLesson)
	lessons.Delete("/:lessonId", adminOnly, h.Course.DeleteLesson)

	router.Post("/enrollments", protected, h.Enrollment.EnrollCourse)

	progress := router.Group("/progress", protected)
	progress.Put("/:progressId", h.Progress.UpdateProgress)
	progress.Get("/:progressId", h.Progress.GetProgress)

	conversations := router.Group("/conversations", protected)
	conversations.Post("/", h.Conversation.CreateConversation)
	conversations.Get("/:conversationId", h.Conversation.GetConversation)
	conversations.Delete("/:conversationId", h.Conversation.DeleteConversation)
	conversations.Post("/:conversationId/messages", h.Conversation.SendMessage)
}
