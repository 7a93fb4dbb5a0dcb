package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleUserInfo holds user information obtained from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthClaims defines the custom claims for JWT. The token id (jti) lives in
// RegisteredClaims.ID and is what logout revokes.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegisterRequest represents the request body for email sign-up.
// @Description Request body for registering with email and password
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

// LoginRequest represents the request body for email sign-in.
// @Description Request body for signing in with email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse represents the response containing access and refresh tokens.
// @Description Response body for authentication tokens
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user,omitempty"`
}

// RefreshTokenRequest represents the request body for refreshing a token.
// @Description Request body for refreshing JWT tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public shape of a user.
// @Description User profile
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	HasGoogle bool      `json:"has_google"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateRoleRequest changes a user's role.
// @Description Request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}
