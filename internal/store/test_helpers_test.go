package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/runmseed/internal/catalog"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedCatalog writes the default catalog into s.
func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	c := catalog.Default()
	err := s.InTx(ctx, func(tx *Tx) error {
		if err := tx.ResourceClasses().InsertBatch(ctx, c.ResourceClasses); err != nil {
			return err
		}
		if err := tx.ConsumerTypes().InsertBatch(ctx, c.ConsumerTypes); err != nil {
			return err
		}
		if err := tx.Capabilities().InsertBatch(ctx, c.Capabilities); err != nil {
			return err
		}
		if err := tx.DistanceTypes().InsertBatch(ctx, c.DistanceTypes); err != nil {
			return err
		}
		return tx.Distances().InsertBatch(ctx, c.Distances)
	})
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

func countRows(t *testing.T, s *Store, table string) int64 {
	t.Helper()
	n, err := s.Count(context.Background(), table)
	if err != nil {
		t.Fatalf("Count(%s) failed: %v", table, err)
	}
	return n
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		table,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return true
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("scan table_info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}
