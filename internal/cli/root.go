package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/runmseed/internal/config"
	"github.com/roach88/runmseed/internal/ctxlog"
	"github.com/roach88/runmseed/internal/profile"
	"github.com/roach88/runmseed/internal/seed"
	"github.com/roach88/runmseed/internal/store"
)

// NewRootCommand creates the runm-seed command.
func NewRootCommand() *cobra.Command {
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "runm-seed",
		Short: "Load up the resource PoC database",
		Long: `Load the runm resource PoC database with the records PoC scenarios run
against.

With --reset (the default) the database is wiped and the lookup records are
seeded: resource classes, consumer types, capabilities, distance types and
distances. The provider groups of the selected inventory profile are then
applied. Every step after the reset runs in one transaction.

Settings may also come from the environment with the RUNM_TEST_RESOURCE_
prefix. RUNM_TEST_RESOURCE_DB_USER and RUNM_TEST_RESOURCE_DB_PASS (default
"root" and empty) are the credentials passed to --reset-client.

Example:
  runm-seed --db ./resource.db
  runm-seed --inventory-profile rows --profiles-dir ./profiles
  runm-seed --reset-client mysql --schema-file resource_schema.sql`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return WrapExitError(ExitCommandError, "invalid arguments", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	f := cmd.Flags()
	f.Bool(config.KeyReset, d.Reset, "reset the database entirely and re-seed lookup records")
	f.String(config.KeyProfile, d.Profile, "inventory profile to use")
	f.String(config.KeyDatabase, d.Database, "path to SQLite database")
	f.String(config.KeyProfilesDir, d.ProfilesDir, "directory holding inventory profiles")
	f.String(config.KeyResetClient, d.ResetClient, "external database client fed the schema file during reset (e.g. mysql)")
	f.String(config.KeySchemaFile, d.SchemaFile, "schema file for --reset-client")
	cmd.PersistentFlags().BoolP(config.KeyVerbose, "v", d.Verbose, "verbose output")

	return cmd
}

func runSeed(cmd *cobra.Command) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return WrapExitError(ExitCommandError, "failed to read flags", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx := ctxlog.WithLogger(parentCtx, logger)

	// The profile is resolved and validated before the database is touched.
	loader := profile.NewLoader(cfg.ProfilesDir)
	logger.Debug("discovering inventory profiles", "dir", loader.Dir())
	names, err := loader.Discover()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to discover inventory profiles", err)
	}
	if !slices.Contains(names, cfg.Profile) {
		return NewExitError(ExitCommandError, fmt.Sprintf(
			"invalid inventory profile %q (choose from %s)", cfg.Profile, quoteAll(names)))
	}

	logger.Debug("loading inventory profile", "profile", cfg.Profile, "path", loader.Path(cfg.Profile))
	p, err := loader.Load(cfg.Profile)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load inventory profile", err)
	}
	logger.Debug("inventory profile loaded",
		"groups", p.Len(),
		"providers", p.ProviderCount(),
		"inventories", p.InventoryCount(),
	)

	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	out := cmd.OutOrStdout()
	driver := seed.NewDriver(st, seed.TextReporter{Out: out, Err: cmd.ErrOrStderr()})
	if cfg.ResetClient != "" {
		driver.Resetter = seed.Resetters{
			seed.ClientResetter{
				Command:    cfg.ResetClient,
				User:       cfg.DBUser,
				Password:   cfg.DBPass,
				SchemaFile: cfg.SchemaFile,
			},
			driver.Resetter,
		}
	}

	summary, err := driver.Run(ctx, seed.Options{Reset: cfg.Reset, Profile: p})
	if err != nil {
		exitErr := WrapExitError(ExitFailure, "seeding failed", err)
		_, exitErr.Reported = seed.FailedStep(err)
		return exitErr
	}

	printSummary(out, summary)
	return nil
}

// newLogger builds the command's text logger: info by default, debug with
// --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func quoteAll(names []string) string {
	if len(names) == 0 {
		return "none found"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
