package repository

import (
	"errors"
	"fmt"
	"testing"

	"edu-classroom/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sijms/go-ora/v2/network"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(&network.OracleError{ErrCode: 1}))
	assert.False(t, isUniqueViolation(&network.OracleError{ErrCode: 942}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}

func TestMapWriteError(t *testing.T) {
	assert.NoError(t, mapWriteError(nil, "dup", "fail"))

	err := mapWriteError(&pgconn.PgError{Code: "23505"}, "dup", "fail")
	assert.True(t, domain.IsConflict(err))
	assert.Contains(t, err.Error(), "dup")

	err = mapWriteError(errors.New("disk full"), "dup", "fail")
	assert.Equal(t, domain.CodeInternal, domain.ErrorCodeOf(err))
}
