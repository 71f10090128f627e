package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// translatePgError maps constraint violations onto repository sentinels so the
// service layer never has to inspect driver errors.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return errors.Join(ErrUniqueViolation, err)
	case foreignKeyViolationCode:
		return errors.Join(ErrForeignKeyViolation, err)
	}
	return err
}
