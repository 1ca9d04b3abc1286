package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/radu-bors/Clique-backend/internal/domain"
	"gorm.io/gorm"
)

// SQLSTATE codes of transient failures a retry may get past.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

// IsConflict reports whether err is a lost race or a timeout.
func IsConflict(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable, codeQueryCanceled:
			return true
		}
	}
	return false
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || hasCode(err, "23505")
}

func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || hasCode(err, "23503")
}

func IsCheckViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated) || hasCode(err, "23514")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Classify turns a storage failure into domain.ErrConflict when a retry may
// succeed, and into fallback otherwise. The cause stays in the message.
func Classify(err, fallback error) error {
	if err == nil {
		return nil
	}
	if IsConflict(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}
