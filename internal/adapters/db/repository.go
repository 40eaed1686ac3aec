// internal/adapters/db/repository.go
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/stockledger/internal/core/domain"
)

// querier is satisfied by *Database and pgx.Tx so reads share one code path
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var (
	_ querier = (*Database)(nil)
	_ querier = (pgx.Tx)(nil)
)

// psql builds dollar-placeholder statements
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
)

// mapError translates PostgreSQL error codes into domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Message)
	case pgUniqueViolation:
		return fmt.Errorf("%w: duplicate value violates %s", domain.ErrInvalidArgument, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrReferentialIntegrity, pgErr.Message)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s violates %s", domain.ErrInvalidArgument, pgErr.TableName, pgErr.ConstraintName)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// buildSQL renders a squirrel builder
func buildSQL(b squirrel.Sqlizer) (string, []interface{}, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build query: %w", err)
	}
	return query, args, nil
}
