package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/repository/models"
	"edu-classroom/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, password_hash, role, google_id, name, created_at, updated_at`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: util.NullStringToString(m.PasswordHash),
		Role:         domain.Role(m.Role),
		GoogleID:     util.NullStringToString(m.GoogleID),
		Name:         util.NullStringToString(m.Name),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: util.StringToNullString(u.PasswordHash),
		Role:         string(u.Role),
		GoogleID:     util.StringToNullString(u.GoogleID),
		Name:         util.StringToNullString(u.Name),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// CreateUser inserts a new user. A duplicate email or Google id yields Conflict.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := fromDomainUser(user)
	exec := GetExecutor(ctx, r.db)
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		m.ID, m.Email, m.PasswordHash, m.Role, m.GoogleID, m.Name, m.CreatedAt, m.UpdatedAt)
	return mapWriteError(err, "a user with this email or Google account already exists", "failed to create user")
}

func (r *sqlxUserRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var m models.User
	exec := GetExecutor(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = ?`
	if err := exec.GetContext(ctx, &m, exec.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", where, err)
	}
	return toDomainUser(&m), nil
}

func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getOne(ctx, "id", userID)
}

func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *sqlxUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getOne(ctx, "google_id", googleID)
}

func (r *sqlxUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var rows []models.User
	exec := GetExecutor(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, toDomainUser(&rows[i]))
	}
	return users, nil
}

// UpdateUser writes the mutable columns (email, password hash, role, Google id, name).
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	m := fromDomainUser(user)
	exec := GetExecutor(ctx, r.db)
	query := `UPDATE users SET email = ?, password_hash = ?, role = ?, google_id = ?, name = ?, updated_at = ? WHERE id = ?`
	ok, err := execAffectingOne(ctx, exec, query,
		m.Email, m.PasswordHash, m.Role, m.GoogleID, m.Name, m.UpdatedAt, m.ID)
	if err != nil {
		return mapWriteError(err, "a user with this email or Google account already exists", "failed to update user")
	}
	if !ok {
		return domain.NewNotFoundError("User", user.ID)
	}
	return nil
}

func (r *sqlxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	ok, err := execAffectingOne(ctx, GetExecutor(ctx, r.db), `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}

func (r *sqlxUserRepository) ExistsUser(ctx context.Context, userID string) (bool, error) {
	var count int
	exec := GetExecutor(ctx, r.db)
	if err := exec.GetContext(ctx, &count, exec.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), userID); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
