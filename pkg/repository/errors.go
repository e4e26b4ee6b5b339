package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// ErrorMap names the domain errors a repository surfaces for the
// database conditions it recognises. A nil field leaves that condition
// unmapped.
type ErrorMap struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// MapError translates database errors to domain errors. sql.ErrNoRows maps
// to NotFound, unique violations to Duplicate and check constraint
// violations to Invalid. Anything else is returned unchanged.
func MapError(err error, m ErrorMap) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && m.NotFound != nil {
		return m.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && m.Duplicate != nil:
			return m.Duplicate
		case pgErr.Code == pgCheckViolation && m.Invalid != nil:
			return m.Invalid
		}
	}

	return err
}
