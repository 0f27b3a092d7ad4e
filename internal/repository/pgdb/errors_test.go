package pgdb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, e.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), e.ErrNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "categories_slug_key"}, e.ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolation}, e.ErrNotFound},
		{"check", &pgconn.PgError{Code: checkViolation}, e.ErrInvalidInput},
		{"other", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tt.err), tt.want)
		})
	}
}

func TestPostgresDuplicate(t *testing.T) {
	assert.True(t, postgresDuplicate(&pgconn.PgError{Code: uniqueViolation}))
	assert.False(t, postgresDuplicate(&pgconn.PgError{Code: foreignKeyViolation}))
	assert.False(t, postgresDuplicate(pgx.ErrNoRows))
}
