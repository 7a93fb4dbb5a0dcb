package handler

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"edu-classroom/internal/dto"
	"edu-classroom/internal/logger"
	"edu-classroom/internal/middleware"
	"edu-classroom/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	oauthStateCookieName = "oauthstate"
)

type AuthHandler struct {
	authService service.AuthService
	body        *middleware.BodyParser
}

func NewAuthHandler(authService service.AuthService, body *middleware.BodyParser) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		body:        body,
	}
}

// Register creates an account with email and password.
// @Summary Register
// @Description Creates a USER account and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid request"
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	tokens, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tokens)
}

// Login signs in with email and password.
// @Summary Login
// @Description Verifies credentials and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid request"
// @Failure 401 {object} middleware.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	tokens, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// GoogleLogin initiates the Google OAuth2 login flow.
// @Summary Initiate Google Login
// @Description Redirects the user to Google's OAuth2 consent page.
// @Tags auth
// @Success 307 {string} string "Redirects to Google"
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	appLogger := logger.Get()
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		appLogger.Error("Failed to generate random state for OAuth", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(middleware.ErrorResponse{
			Code: "OAUTH_STATE_GENERATION_ERROR", Message: "Could not generate state for OAuth flow", Status: fiber.StatusInternalServerError,
		})
	}
	state := base64.URLEncoding.EncodeToString(b)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Redirect(h.authService.GetGoogleLoginURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles the callback from Google OAuth2.
// @Summary Google OAuth2 Callback
// @Description Signs in, links or creates the Google account and issues JWTs.
// @Tags auth
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State string for CSRF protection"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "Missing code"
// @Failure 401 {object} middleware.ErrorResponse "Invalid state or code"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	if code == "" {
		logger.Get().Warn("Authorization code missing in Google OAuth callback")
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "MISSING_CODE", Message: "Authorization code is missing", Status: fiber.StatusBadRequest,
		})
	}

	tokens, err := h.authService.HandleGoogleCallback(c.UserContext(), code, receivedState, expectedState)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// RefreshToken generates new access and refresh tokens using a valid refresh token.
// @Summary Refresh JWT tokens
// @Description Exchanges a refresh token for a new token pair. The old refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Refresh token missing"
// @Failure 401 {object} middleware.ErrorResponse "Refresh token invalid or expired"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := h.body.Parse(c, &req); err != nil {
		return err
	}
	tokens, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// Logout revokes the presented access token.
// @Summary Logout user
// @Description Revokes the access token until it expires.
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.ClaimsFrom(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Successfully logged out"})
}
