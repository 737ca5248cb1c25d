package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/phrasebot/pkg/models"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Postgres error codes
const (
	pgForeignKeyViolation = "23503"
)

// mapError converts driver errors into model errors
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrPersistence) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	return fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
}
