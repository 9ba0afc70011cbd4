package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range tables {
		if !tableExists(t, s.db, table) {
			t.Errorf("table %q not found after idempotent opens", table)
		}
	}
}

func TestOpen_KeepsExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	seedCatalog(t, s1)
	s1.Close()

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, int64(5), countRows(t, s2, "resource_classes"))
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_NewerSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	db.Close()

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

// Pragma tests

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name string
		want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.verifyPragma(tt.name, tt.want); err != nil {
				t.Error(err)
			}
		})
	}
}

// Schema tests

func TestSchema_InventoriesTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "inventories")
	assert.Equal(t, []string{
		"id",
		"provider_id",
		"resource_class_id",
		"total",
		"reserved",
		"min_unit",
		"max_unit",
		"step_size",
		"allocation_ratio",
	}, columns)
}

func TestSchema_Version(t *testing.T) {
	s := createTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("failed to get user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestConstraint_ReservedWithinTotal(t *testing.T) {
	s := createTestStore(t)
	seedCatalog(t, s)

	_, err := s.db.Exec("INSERT INTO provider_groups (name) VALUES ('g')")
	require.NoError(t, err)
	_, err = s.db.Exec("INSERT INTO providers (uuid, name, provider_type, group_id) VALUES ('u', 'p', 'runm.compute', 1)")
	require.NoError(t, err)

	_, err = s.db.Exec(`
		INSERT INTO inventories (provider_id, resource_class_id, total, reserved, min_unit, max_unit, step_size, allocation_ratio)
		VALUES (1, 1, 4, 5, 1, 4, 1, '1')
	`)
	assert.Error(t, err, "reserved above total must violate the CHECK constraint")
}

func TestConstraint_ForeignKeyProviderToGroup(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec("INSERT INTO providers (uuid, name, provider_type, group_id) VALUES ('u', 'p', 'runm.compute', 42)")
	assert.Error(t, err, "provider referencing a missing group must fail")
}

// Reset tests

func TestReset_EmptiesEveryTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)
	require.Equal(t, int64(6), countRows(t, s, "distances"))

	require.NoError(t, s.Reset(ctx))

	for _, table := range tables {
		assert.Equal(t, int64(0), countRows(t, s, table), "table %s", table)
	}
	require.NoError(t, s.verifyPragma("user_version", "1"))

	// The schema is usable again after a reset.
	seedCatalog(t, s)
	assert.Equal(t, int64(6), countRows(t, s, "distances"))
}

func TestReset_Twice(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, int64(0), countRows(t, s, "resource_classes"))
}

// Transaction tests

func TestInTx_Commits(t *testing.T) {
	s := createTestStore(t)
	seedCatalog(t, s)

	assert.Equal(t, int64(5), countRows(t, s, "resource_classes"))
	assert.Equal(t, int64(2), countRows(t, s, "consumer_types"))
	assert.Equal(t, int64(5), countRows(t, s, "capabilities"))
	assert.Equal(t, int64(2), countRows(t, s, "distance_types"))
	assert.Equal(t, int64(6), countRows(t, s, "distances"))
}

func TestInTx_RollsBackOnError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.tx.ExecContext(ctx, "INSERT INTO resource_classes (code) VALUES ('runm.cpu.shared')"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), countRows(t, s, "resource_classes"))
}

func TestCount_UnknownTable(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Count(context.Background(), "sqlite_master; DROP TABLE providers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}
