package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lavrik91/test-task-1/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	// class 22: numeric overflow, string too long, bad text representation
	pgDataExceptionClass = "22"
)

// mapError translates driver errors into domain errors. op names the
// repository call for the message.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrConflict, op, pgErr.ConstraintName)
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrInvalidItem, op, pgErr.ConstraintName)
		}
		if strings.HasPrefix(pgErr.Code, pgDataExceptionClass) {
			return fmt.Errorf("%w: %s: %s (SQLSTATE %s)", domain.ErrInvalidItem, op, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
