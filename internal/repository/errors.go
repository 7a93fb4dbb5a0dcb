package repository

import (
	"errors"

	"edu-classroom/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sijms/go-ora/v2/network"
)

const (
	pgUniqueViolation  = "23505"
	oraUniqueViolation = 1 // ORA-00001: unique constraint violated
)

// isUniqueViolation recognises duplicate-key errors from both supported drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return oraErr.ErrCode == oraUniqueViolation
	}
	return false
}

// mapWriteError turns a duplicate-key error into a Conflict DomainError and
// wraps anything else as internal.
func mapWriteError(err error, conflictMsg, internalMsg string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domain.NewConflictError(conflictMsg, err)
	}
	return domain.NewInternalError(internalMsg, err)
}
