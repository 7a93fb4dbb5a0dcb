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

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	tokenTypeAccess   = "access"
	tokenTypeRefresh  = "refresh"
)

var (
	ErrInvalidAuthState      = errors.New("invalid oauth state")
	ErrFailedToExchangeToken = errors.New("failed to exchange oauth token")
	ErrFailedToGetUserInfo   = errors.New("failed to get user info from google")
	ErrInvalidJWTToken       = errors.New("invalid jwt token")
	ErrTokenRevoked          = errors.New("token has been revoked")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	GetGoogleLoginURL(state string) string
	HandleGoogleCallback(ctx context.Context, code string, receivedState string, expectedState string) (*dto.TokenResponse, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error)
	// Logout revokes the token's jti until the token would have expired anyway.
	Logout(ctx context.Context, claims *dto.AuthClaims) error
}

type authServiceImpl struct {
	userRepo     domain.UserRepository
	cache        domain.Cache
	oauth2Config *oauth2.Config
	appConfig    *config.Config
}

// NewAuthService creates a new instance of AuthService. cache may be nil, in
// which case logout cannot revoke tokens.
func NewAuthService(userRepo domain.UserRepository, cache domain.Cache, appConfig *config.Config) (AuthService, error) {
	if len(appConfig.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}

	return &authServiceImpl{
		userRepo: userRepo,
		cache:    cache,
		oauth2Config: &oauth2.Config{
			ClientID:     appConfig.GoogleOAuth.ClientID,
			ClientSecret: appConfig.GoogleOAuth.ClientSecret,
			RedirectURL:  appConfig.GoogleOAuth.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		appConfig: appConfig,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("a user with this email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := domain.NewUser(email, strings.TrimSpace(req.Name))
	user.PasswordHash = string(hash)
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.Get().Info("User registered", zap.String("userID", user.ID), zap.String("email", user.Email))

	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	// Unknown email and wrong password look the same to the caller.
	if user == nil || !user.HasPassword() {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}
	logger.Get().Info("User logged in", zap.String("userID", user.ID))
	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) GetGoogleLoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *authServiceImpl) HandleGoogleCallback(ctx context.Context, code string, receivedState string, expectedState string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	if receivedState == "" || receivedState != expectedState {
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid oauth state", ErrInvalidAuthState)
	}

	googleToken, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewError(domain.CodeUnauthorized, "failed to exchange oauth code", fmt.Errorf("%w: %v", ErrFailedToExchangeToken, err))
	}

	client := s.oauth2Config.Client(ctx, googleToken)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, domain.NewInternalError("failed to get google user info", fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err))
	}
	defer resp.Body.Close()

	var userInfo dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, domain.NewInternalError("failed to decode google user info", err)
	}
	if userInfo.ID == "" || userInfo.Email == "" {
		return nil, domain.NewInternalError("google user info is incomplete", ErrFailedToGetUserInfo)
	}

	user, err := s.resolveGoogleUser(ctx, &userInfo)
	if err != nil {
		return nil, err
	}
	appLogger.Info("User logged in via Google OAuth", zap.String("userID", user.ID), zap.String("email", user.Email))
	return s.issueTokens(ctx, user)
}

// resolveGoogleUser finds the account by Google id, links it to an existing
// email account, or creates a new one.
func (s *authServiceImpl) resolveGoogleUser(ctx context.Context, info *dto.GoogleUserInfo) (*domain.User, error) {
	user, err := s.userRepo.GetUserByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user by google id", err)
	}
	if user != nil {
		return user, nil
	}

	email := normalizeEmail(info.Email)
	user, err = s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user by email", err)
	}
	if user != nil {
		user.GoogleID = info.ID
		if user.Name == "" {
			user.Name = info.Name
		}
		if err := s.userRepo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		logger.Get().Info("Linked Google account to existing user", zap.String("userID", user.ID))
		return user, nil
	}

	user = domain.NewUser(email, info.Name)
	user.GoogleID = info.ID
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.Get().Info("New user created via Google OAuth", zap.String("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	accessToken, err := s.CreateJWT(ctx, user, s.appConfig.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(ctx, user, s.appConfig.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, domain.NewInternalError("failed to create refresh token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         ToUserResponse(user),
	}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.JWT.SecretKey))
}

func tokenSnippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.JWT.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", tokenSnippet(tokenString)))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", tokenSnippet(tokenString)))
		}
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid or expired token", fmt.Errorf("%w: %v", ErrInvalidJWTToken, err))
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid or expired token", ErrInvalidJWTToken)
	}

	if s.cache != nil && claims.ID != "" {
		revoked, err := s.cache.Exists(ctx, cache.RevokedTokenKey(claims.ID))
		if err != nil {
			// Revocation is best effort; an unreachable cache must not lock everyone out.
			appLogger.Warn("Failed to check token revocation", zap.Error(err), zap.String("jti", claims.ID))
		} else if revoked {
			return nil, domain.NewError(domain.CodeUnauthorized, "token has been revoked", ErrTokenRevoked)
		}
	}
	return claims, nil
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewUnauthorizedError("not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		appLogger.Warn("User not found for refresh token", zap.String("userID", claims.UserID))
		return nil, domain.NewUnauthorizedError("user no longer exists")
	}

	// The used refresh token cannot be replayed.
	if err := s.Logout(ctx, claims); err != nil {
		appLogger.Warn("Failed to revoke used refresh token", zap.Error(err), zap.String("userID", user.ID))
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return tokens, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, claims *dto.AuthClaims) error {
	if s.cache == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, cache.RevokedTokenKey(claims.ID), "1", ttl); err != nil {
		return domain.NewInternalError("failed to revoke token", err)
	}
	logger.Get().Info("Token revoked", zap.String("userID", claims.UserID), zap.String("jti", claims.ID))
	return nil
}
