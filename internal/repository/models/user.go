package models

import (
	"database/sql"
	"time"
)

// User represents a row of the users table.
type User struct {
	ID           string         `db:"ID"`            // ULID
	Email        string         `db:"EMAIL"`         // unique
	PasswordHash sql.NullString `db:"PASSWORD_HASH"` // NULL for Google-only accounts
	Role         string         `db:"ROLE"`          // USER or ADMIN
	GoogleID     sql.NullString `db:"GOOGLE_ID"`     // unique when set
	Name         sql.NullString `db:"NAME"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}
