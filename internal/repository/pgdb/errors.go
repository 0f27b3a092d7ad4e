package pgdb

import (
	"errors"
	"fmt"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// mapError переводит ошибки PostgreSQL в доменные.
func mapError(what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, e.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, e.ErrAlreadyExists)
		case foreignKeyViolation:
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, e.ErrNotFound)
		case checkViolation:
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, e.ErrInvalidInput)
		}
	}

	return fmt.Errorf("%s: %w", what, err)
}

func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
