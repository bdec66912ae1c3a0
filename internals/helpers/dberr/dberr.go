// file: internals/helpers/dberr/dberr.go
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"masjidfinder_backend/internals/helpers/apperror"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeFKViolation     = "23503"
)

// Translate maps driver/GORM errors to apperror kinds.
// notFound & conflict are the user-facing messages for the two common cases.
func Translate(err error, notFound, conflict string) error {
	if err == nil {
		return nil
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Wrap(apperror.KindConflict, conflict, err)
	}

	switch sqlState(err) {
	case codeUniqueViolation:
		return apperror.Wrap(apperror.KindConflict, conflict, err)
	case codeCheckViolation:
		return apperror.Wrap(apperror.KindInvalidInput, "Data violates a constraint", err)
	case codeFKViolation:
		return apperror.Wrap(apperror.KindInvalidInput, "Referenced record not found", err)
	}
	return apperror.Internal("Database error", err)
}

func sqlState(err error) string {
	// pgx (gorm.io/driver/postgres)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	// lib/pq (seeder connection)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
