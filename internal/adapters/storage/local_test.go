package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockledger/internal/adapters/storage"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/test/helpers"
)

func newLocal(t *testing.T) (*storage.LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir, helpers.TestLogger())
	require.NoError(t, err)
	return s, dir
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	s, dir := newLocal(t)
	ctx := context.Background()

	location, err := s.Upload(ctx, ports.ReportPrefix+"2026/ledger.xlsx", strings.NewReader("sheet"), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "file://"))
	assert.FileExists(t, filepath.Join(dir, "reports", "2026", "ledger.xlsx"))

	data, err := s.Download(ctx, ports.ReportPrefix+"2026/ledger.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(data))

	exists, err := s.Exists(ctx, ports.ReportPrefix+"2026/ledger.xlsx")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, ports.ReportPrefix+"2026/ledger.xlsx", "reports/never-written.xlsx"))
	exists, err = s.Exists(ctx, ports.ReportPrefix+"2026/ledger.xlsx")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	s, _ := newLocal(t)

	_, err := s.Download(context.Background(), "imports/missing.xlsx")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestLocalStorage_ListByPrefix(t *testing.T) {
	s, dir := newLocal(t)
	ctx := context.Background()

	for _, key := range []string{"imports/a.json", "imports/b.xlsx", "reports/c.xlsx"} {
		_, err := s.Upload(ctx, key, strings.NewReader(key), "")
		require.NoError(t, err)
	}
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "imports", "a.json"), old, old))

	objects, err := s.List(ctx, ports.ImportPrefix)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	byKey := map[string]ports.ObjectInfo{}
	for _, o := range objects {
		byKey[o.Key] = o
	}
	assert.Contains(t, byKey, "imports/a.json")
	assert.Contains(t, byKey, "imports/b.xlsx")
	assert.Equal(t, int64(len("imports/b.xlsx")), byKey["imports/b.xlsx"].Size)
	assert.True(t, byKey["imports/a.json"].LastModified.Before(time.Now().Add(-24*time.Hour)))
}

func TestLocalStorage_KeysStayInsideBase(t *testing.T) {
	s, dir := newLocal(t)

	_, err := s.Upload(context.Background(), "../../escape.txt", strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "escape.txt"))

	_, err = s.Upload(context.Background(), "/", strings.NewReader("x"), "")
	assert.Error(t, err)
}
