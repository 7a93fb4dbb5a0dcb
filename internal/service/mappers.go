package service

import (
	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
)

func ToUserResponse(u *domain.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		HasGoogle: u.GoogleID != "",
		CreatedAt: u.CreatedAt,
	}
}

func toCourseResponse(c *domain.Course) *dto.CourseResponse {
	if c == nil {
		return nil
	}
	return &dto.CourseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Abstract:    c.Abstract,
		LessonCount: c.LessonCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toLessonResponse(l *domain.Lesson) dto.LessonResponse {
	return dto.LessonResponse{
		ID:        l.ID,
		CourseID:  l.CourseID,
		Name:      l.Name,
		Abstract:  l.Abstract,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toEnrollmentResponse(e *domain.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		UserID:     e.UserID,
		CourseID:   e.CourseID,
		EnrolledAt: e.EnrolledAt,
	}
}

func toProgressResponse(p *domain.Progress) *dto.ProgressResponse {
	return &dto.ProgressResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		CourseID:         p.CourseID,
		CompletedLessons: p.CompletedLessons,
		TotalLessons:     p.TotalLessons,
		Percentage:       p.Percentage,
		Status:           string(p.Status),
		UpdatedAt:        p.UpdatedAt,
	}
}

func toChatMessageResponse(m *domain.Message) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderType:     string(m.SenderType),
		Content:        m.Content,
		SentAt:         m.SentAt,
	}
}

func toConversationResponse(c *domain.Conversation) *dto.ConversationResponse {
	resp := &dto.ConversationResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if len(c.Messages) > 0 {
		resp.Messages = make([]dto.ChatMessageResponse, 0, len(c.Messages))
		for _, m := range c.Messages {
			resp.Messages = append(resp.Messages, toChatMessageResponse(m))
		}
	}
	return resp
}
