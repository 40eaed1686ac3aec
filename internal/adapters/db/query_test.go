package db

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

func TestBuildItemListQueries(t *testing.T) {
	warehouseID := uuid.New()

	tests := []struct {
		name         string
		filter       ports.ItemFilter
		wantContains []string
		wantAbsent   []string
		wantArgs     []interface{}
	}{
		{
			name:         "unfiltered_lists_everything_by_sku",
			filter:       ports.ItemFilter{},
			wantContains: []string{"FROM items", "ORDER BY sku ASC"},
			wantAbsent:   []string{"LIMIT", "OFFSET", "ILIKE"},
			wantArgs:     nil,
		},
		{
			name: "category_and_warehouse",
			filter: ports.ItemFilter{
				Category:    domain.CategoryComponent,
				WarehouseID: &warehouseID,
				Limit:       25,
				Offset:      50,
			},
			wantContains: []string{"category = $1", "warehouse_id = $2", "LIMIT 25", "OFFSET 50"},
			wantArgs:     []interface{}{domain.CategoryComponent, warehouseID.String()},
		},
		{
			name:         "search_matches_name_or_sku",
			filter:       ports.ItemFilter{Search: "  50%_off "},
			wantContains: []string{"name ILIKE $1", "sku ILIKE $2"},
			wantArgs:     []interface{}{`%50\%\_off%`, `%50\%\_off%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pageSQL, pageArgs, countSQL, countArgs, err := buildItemListQueries(tt.filter)
			require.NoError(t, err)

			for _, fragment := range tt.wantContains {
				assert.Contains(t, pageSQL, fragment)
			}
			for _, fragment := range tt.wantAbsent {
				assert.NotContains(t, pageSQL, fragment)
			}
			assert.Contains(t, countSQL, "SELECT COUNT(*) FROM items")
			assert.NotContains(t, countSQL, "ORDER BY")
			assert.NotContains(t, countSQL, "LIMIT")

			if tt.wantArgs == nil {
				assert.Empty(t, pageArgs)
				assert.Empty(t, countArgs)
				return
			}
			assert.Equal(t, tt.wantArgs, pageArgs)
			assert.Equal(t, tt.wantArgs, countArgs)
		})
	}
}

func TestBuildTransactionListQueries(t *testing.T) {
	itemID := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	pageSQL, pageArgs, countSQL, countArgs, err := buildTransactionListQueries(ports.TransactionFilter{
		ItemID: &itemID,
		Type:   domain.TransactionOutbound,
		Status: domain.TransactionCompleted,
		From:   &from,
		To:     &to,
		Newest: true,
		Limit:  10,
	})
	require.NoError(t, err)

	assert.Contains(t, pageSQL, "item_id = $1")
	assert.Contains(t, pageSQL, "type = $2")
	assert.Contains(t, pageSQL, "status = $3")
	assert.Contains(t, pageSQL, "created_at >= $4")
	assert.Contains(t, pageSQL, "created_at < $5")
	assert.Contains(t, pageSQL, "ORDER BY transaction_number DESC")
	assert.Contains(t, pageSQL, "LIMIT 10")
	assert.Contains(t, countSQL, "SELECT COUNT(*) FROM transactions")

	want := []interface{}{itemID.String(), domain.TransactionOutbound, domain.TransactionCompleted, from, to}
	assert.Equal(t, want, pageArgs)
	assert.Equal(t, want, countArgs)
}

func TestBuildTransactionListQueries_DefaultsToOldestFirst(t *testing.T) {
	pageSQL, _, _, _, err := buildTransactionListQueries(ports.TransactionFilter{})
	require.NoError(t, err)
	assert.Contains(t, pageSQL, "ORDER BY transaction_number ASC")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "serialization_failure", err: &pgconn.PgError{Code: pgSerializationFailure}, target: domain.ErrConcurrencyConflict},
		{name: "deadlock", err: &pgconn.PgError{Code: pgDeadlockDetected}, target: domain.ErrConcurrencyConflict},
		{name: "lock_timeout", err: &pgconn.PgError{Code: pgLockNotAvailable}, target: domain.ErrConcurrencyConflict},
		{name: "unique_violation", err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "items_sku_key"}, target: domain.ErrInvalidArgument},
		{name: "foreign_key_violation", err: &pgconn.PgError{Code: pgForeignKeyViolation}, target: domain.ErrReferentialIntegrity},
		{name: "check_violation", err: &pgconn.PgError{Code: pgCheckViolation}, target: domain.ErrInvalidArgument},
		{name: "wrapped_pg_error", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgDeadlockDetected}), target: domain.ErrConcurrencyConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err), tt.target)
		})
	}
}

func TestMapError_PassesThroughOtherErrors(t *testing.T) {
	assert.NoError(t, mapError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, mapError(plain))

	unknown := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(unknown), mapError(unknown))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgForeignKeyViolation}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "bolt", escapeLike("bolt"))
}

func TestQueryExecMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		want    pgx.QueryExecMode
		wantErr bool
	}{
		{name: "empty_defaults_to_describe", mode: "", want: pgx.QueryExecModeCacheDescribe},
		{name: "describe", mode: "describe", want: pgx.QueryExecModeCacheDescribe},
		{name: "prepare", mode: "prepare", want: pgx.QueryExecModeCacheStatement},
		{name: "exec", mode: "exec", want: pgx.QueryExecModeExec},
		{name: "simple_for_poolers", mode: "simple", want: pgx.QueryExecModeSimpleProtocol},
		{name: "unknown_mode", mode: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := queryExecMode(tt.mode)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPoolConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StatementCacheMode = "simple"
	cfg.EnableQueryLogging = true

	poolConfig, err := buildPoolConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, pgx.QueryExecModeSimpleProtocol, poolConfig.ConnConfig.DefaultQueryExecMode)
	assert.Equal(t, int32(25), poolConfig.MaxConns)
	assert.NotNil(t, poolConfig.ConnConfig.Tracer)
	assert.NotNil(t, poolConfig.AfterConnect)

	cfg.StatementCacheMode = "bogus"
	_, err = buildPoolConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
