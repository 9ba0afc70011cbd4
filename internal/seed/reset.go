package seed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/roach88/runmseed/internal/ctxlog"
	"github.com/roach88/runmseed/internal/store"
)

// Resetter wipes the resource database back to an empty schema.
type Resetter interface {
	Reset(ctx context.Context) error
}

// StoreResetter drops and re-creates every table of a SQLite store.
type StoreResetter struct {
	Store *store.Store
}

// Reset implements Resetter.
func (r StoreResetter) Reset(ctx context.Context) error {
	if err := r.Store.Reset(ctx); err != nil {
		return &ResetError{Err: err}
	}
	return nil
}

// ClientResetter resets a database server by feeding a schema file to its
// command-line client, as in "mysql -u<user> -p<password> < schema.sql".
type ClientResetter struct {
	Command    string
	User       string
	Password   string
	SchemaFile string
}

// Reset implements Resetter. A non-zero exit is reported with the client's
// standard error.
func (r ClientResetter) Reset(ctx context.Context) error {
	schema, err := os.Open(r.SchemaFile)
	if err != nil {
		return &ResetError{Command: r.Command, Err: fmt.Errorf("open schema: %w", err)}
	}
	defer schema.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, "-u"+r.User, "-p"+r.Password)
	cmd.Stdin = schema
	cmd.Stderr = &stderr

	ctxlog.FromContext(ctx).Debug("running reset client",
		slog.String("command", r.Command),
		slog.String("user", r.User),
		slog.String("schema", r.SchemaFile),
	)
	if err := cmd.Run(); err != nil {
		return &ResetError{
			Command: r.Command,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return nil
}

// Resetters runs several resetters in order, stopping at the first failure.
type Resetters []Resetter

// Reset implements Resetter.
func (rs Resetters) Reset(ctx context.Context) error {
	for _, r := range rs {
		if err := r.Reset(ctx); err != nil {
			return err
		}
	}
	return nil
}
