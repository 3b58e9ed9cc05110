package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/homeharmony/backend/domain"
)

const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// limitArg turns a non-positive limit into SQL NULL, which Postgres reads as
// "no limit".
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return min(limit, 500)
}

// translate maps driver errors onto domain errors.
func translate(err error, notFound *domain.Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.WrapError(domain.ErrCodeConflict, "duplicate record", err)
	}
	return err
}
