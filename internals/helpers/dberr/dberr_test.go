package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"masjidfinder_backend/internals/helpers/apperror"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil, "nf", "conflict"))

	err := Translate(gorm.ErrRecordNotFound, "Masjid not found", "dup")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "NOT_FOUND: Masjid not found", err.Error())

	err = Translate(gorm.ErrDuplicatedKey, "nf", "User already exists with this email")
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	pgDup := &pgconn.PgError{Code: "23505"}
	assert.True(t, apperror.Is(Translate(fmt.Errorf("insert: %w", pgDup), "nf", "dup"), apperror.KindConflict))

	pgCheck := &pgconn.PgError{Code: "23514"}
	assert.True(t, apperror.Is(Translate(pgCheck, "nf", "dup"), apperror.KindInvalidInput))

	pqFK := &pq.Error{Code: "23503"}
	assert.True(t, apperror.Is(Translate(pqFK, "nf", "dup"), apperror.KindInvalidInput))

	assert.True(t, apperror.Is(Translate(errors.New("conn refused"), "nf", "dup"), apperror.KindInternal))
}

func TestTranslatePassesAppErrors(t *testing.T) {
	in := apperror.Forbidden("nope")
	assert.Same(t, in, Translate(in, "nf", "dup"))
}
