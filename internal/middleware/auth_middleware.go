package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/dto"
	"edu-classroom/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
	RoleKey             = "role"
	ClaimsKey           = "claims"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// Protected is a middleware function that protects routes by requiring a valid
// access token. It sets the caller's id, role and claims in the context.
func Protected(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		scheme, token, _ := strings.Cut(authHeader, " ")
		if scheme+" " != BearerSchema {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimSpace(token)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation error", zap.Error(err), zap.String("path", c.Path()))
			message := "Invalid or expired token"
			var de *domain.DomainError
			if errors.As(err, &de) {
				message = de.Message
			}
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: message,
				Status:  fiber.StatusUnauthorized,
			})
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: fmt.Sprintf("Invalid token type: expected access, got %s", claims.TokenType),
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(RoleKey, domain.Role(claims.Role))
		c.Locals(ClaimsKey, claims)

		return c.Next()
	}
}

// RequireRole rejects callers whose role is not listed. It must run after Protected.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return domain.NewForbiddenError("insufficient role for this operation")
	}
}

// ActorFrom returns the authenticated caller stored by Protected.
func ActorFrom(c *fiber.Ctx) domain.Actor {
	userID, _ := c.Locals(UserIDKey).(string)
	role, _ := c.Locals(RoleKey).(domain.Role)
	return domain.Actor{UserID: userID, Role: role}
}

// ClaimsFrom returns the verified token claims stored by Protected.
func ClaimsFrom(c *fiber.Ctx) *dto.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*dto.AuthClaims)
	return claims
}

// AuthorizeOwner fails with Forbidden unless the caller is ownerID or an admin.
func AuthorizeOwner(c *fiber.Ctx, ownerID string) error {
	if !ActorFrom(c).CanAccess(ownerID) {
		return domain.NewForbiddenError("not allowed to access another user's resources")
	}
	return nil
}
