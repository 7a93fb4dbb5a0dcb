package domain

import (
	"context"
	"time"
)

// Role is the authorization role carried by a user and their tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a domain user object
type User struct {
	ID           string
	Email        string
	PasswordHash string // empty for accounts that only sign in with Google
	Role         Role
	GoogleID     string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User instance with the default role.
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Name:      name,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the user can sign in with email and password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserRepository defines the interface for user data persistence.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, userID string) error
	ExistsUser(ctx context.Context, userID string) (bool, error)
}
