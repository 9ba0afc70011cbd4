package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial resource PoC schema
const currentSchemaVersion = 1

// tables lists every table in dependency order: a table only references
// tables that appear before it. Reset drops them in reverse.
var tables = []string{
	"resource_classes",
	"consumer_types",
	"capabilities",
	"distance_types",
	"distances",
	"provider_groups",
	"provider_group_distances",
	"providers",
	"inventories",
	"provider_capabilities",
	"provider_traits",
}

// Querier is the subset of *sql.DB and *sql.Tx the repositories need.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repos hands out the typed repositories bound to one Querier.
type repos struct {
	q Querier
}

func (r repos) ResourceClasses() ResourceClasses { return ResourceClasses{q: r.q} }
func (r repos) ConsumerTypes() ConsumerTypes     { return ConsumerTypes{q: r.q} }
func (r repos) Capabilities() Capabilities       { return Capabilities{q: r.q} }
func (r repos) DistanceTypes() DistanceTypes     { return DistanceTypes{q: r.q} }
func (r repos) Distances() Distances             { return Distances{q: r.q} }
func (r repos) ProviderGroups() ProviderGroups   { return ProviderGroups{q: r.q} }
func (r repos) Providers() Providers             { return Providers{q: r.q} }

// Store is the SQLite-backed resource store.
type Store struct {
	repos
	db *sql.DB
}

// Tx is a store transaction. It exposes the same repositories as Store.
type Tx struct {
	repos
	tx *sql.Tx
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool for SQLite
	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1) // Single writer to avoid SQLITE_BUSY errors
	db.SetMaxIdleConns(1) // Keep one connection ready

	// Apply required pragmas
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	// Apply schema and record its version
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{repos: repos{q: db}, db: db}, nil
}

// Close closes the database connection.
// Should be called when the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer the typed repositories when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Reset drops every table and re-creates the schema, leaving an empty
// database.
func (s *Store) Reset(ctx context.Context) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tables[i]); err != nil {
			return &OperationError{Op: "drop", Table: tables[i], Err: err}
		}
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA user_version = 0"); err != nil {
		return fmt.Errorf("reset user_version: %w", err)
	}
	if err := applySchema(s.db); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// InTx runs fn inside a single transaction. The transaction is committed
// if fn returns nil and rolled back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(*Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &OperationError{Op: "begin", Err: err}
	}
	defer sqlTx.Rollback() // No-op if committed

	if err := fn(&Tx{repos: repos{q: sqlTx}, tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return &OperationError{Op: "commit", Err: err}
	}
	return nil
}

// Count returns the number of rows in one of the store's tables.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	known := false
	for _, t := range tables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, &OperationError{Op: "count", Table: table, Err: err}
	}
	return n, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and records the schema
// version. This function is idempotent.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
