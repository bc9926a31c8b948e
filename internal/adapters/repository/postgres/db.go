package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/shaonsust/poll-app/internal/core/domain"
)

const (
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// translate maps constraint violations onto domain errors.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case foreignKeyViolation:
		return domain.ErrQuestionNotFound
	case checkViolation:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
	}
	return err
}
