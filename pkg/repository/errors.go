package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// MapError translates pgx errors to domain errors.
// pgx.ErrNoRows maps to notFoundErr, unique violations (23505) to
// duplicateErr, and check violations (23514) to invalidErr when it is
// non-nil. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr, invalidErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateErr
		case pgCheckViolation:
			if invalidErr != nil {
				return invalidErr
			}
		}
	}

	return err
}
