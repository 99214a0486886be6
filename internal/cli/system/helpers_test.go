package system

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
)

func setupTestDB(t *testing.T, initialize bool) (*cli.Context, *sqlstore.Store, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlstore.NewSQLite(dbPath)
	if initialize {
		if err := store.Init(); err != nil {
			t.Fatalf("failed to init store: %v", err)
		}
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, store, out
}
