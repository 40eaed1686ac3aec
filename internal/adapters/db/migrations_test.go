package db_test

import (
	"context"
	"errors"
	"io/fs"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockledger/internal/adapters/db"
	"github.com/ammerola/stockledger/test/helpers"
)

func TestMigrations_EmbedsUpAndDownPairs(t *testing.T) {
	ups, err := fs.Glob(db.Migrations(), "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(db.Migrations(), "*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
	assert.Contains(t, ups, "000001_create_stock_ledger.up.sql")
}

func TestReadAppliedMigrations(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT version, dirty FROM public.schema_migrations ORDER BY version ASC`)

	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		want      []db.AppliedMigration
		wantError string
	}{
		{
			name: "returns_rows_in_order",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WillReturnRows(
					sqlmock.NewRows([]string{"version", "dirty"}).
						AddRow(1, false).
						AddRow(2, true))
			},
			want: []db.AppliedMigration{{Version: 1, Dirty: false}, {Version: 2, Dirty: true}},
		},
		{
			name: "empty_table",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}))
			},
			want: []db.AppliedMigration{},
		},
		{
			name: "query_failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WillReturnError(errors.New("relation does not exist"))
			},
			wantError: "failed to query migrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, sqlDB := helpers.SetupMockDB(t)
			tt.setup(mock)

			applied, err := db.ReadAppliedMigrations(context.Background(), sqlDB, "public", "schema_migrations")
			if tt.wantError != "" {
				assert.ErrorContains(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, applied)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
