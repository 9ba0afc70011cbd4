// Package config resolves the seeder's settings from defaults, environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the seeder reads. Keys map
// to variables by upper-casing and replacing "-" with "_", so "db-user" is
// read from RUNM_TEST_RESOURCE_DB_USER.
const EnvPrefix = "RUNM_TEST_RESOURCE"

// Configuration keys. Flags with the same name are bound to them.
const (
	KeyDatabase    = "db"
	KeyProfilesDir = "profiles-dir"
	KeyProfile     = "inventory-profile"
	KeyReset       = "reset"
	KeyResetClient = "reset-client"
	KeySchemaFile  = "schema-file"
	KeyDBUser      = "db-user"
	KeyDBPass      = "db-pass"
	KeyVerbose     = "verbose"
)

// DefaultProfile is the inventory profile used when none is selected.
const DefaultProfile = "1k-shared-compute"

// Config holds the resolved settings for one seeding run.
type Config struct {
	// Database is the path of the SQLite resource store.
	Database string

	// ProfilesDir is the directory inventory profiles are discovered in.
	ProfilesDir string

	// Profile is the identifier of the inventory profile to apply.
	Profile string

	// Reset wipes the database and re-seeds the lookup tables before the
	// profile is applied.
	Reset bool

	// ResetClient is an external database client (e.g. mysql) that is fed
	// SchemaFile on stdin during the reset step. Empty means the store is
	// reset in-process only.
	ResetClient string

	// SchemaFile is the DDL passed to ResetClient.
	SchemaFile string

	// DBUser and DBPass are the credentials passed to ResetClient.
	DBUser string
	DBPass string

	Verbose bool
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Database:    "runm-resource.db",
		ProfilesDir: "profiles",
		Profile:     DefaultProfile,
		Reset:       true,
		DBUser:      "root",
		DBPass:      "",
	}
}

// New returns a viper instance carrying the defaults and reading the
// RUNM_TEST_RESOURCE_* environment.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyDatabase, d.Database)
	v.SetDefault(KeyProfilesDir, d.ProfilesDir)
	v.SetDefault(KeyProfile, d.Profile)
	v.SetDefault(KeyReset, d.Reset)
	v.SetDefault(KeyResetClient, d.ResetClient)
	v.SetDefault(KeySchemaFile, d.SchemaFile)
	v.SetDefault(KeyDBUser, d.DBUser)
	v.SetDefault(KeyDBPass, d.DBPass)
	v.SetDefault(KeyVerbose, d.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in fs whose name is a configuration key. A
// flag only takes precedence over the environment when it was set
// explicitly.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{
		KeyDatabase,
		KeyProfilesDir,
		KeyProfile,
		KeyReset,
		KeyResetClient,
		KeySchemaFile,
		KeyVerbose,
	} {
		f := fs.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", key, err)
		}
	}
	return nil
}

// Load reads the settings out of v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Database:    v.GetString(KeyDatabase),
		ProfilesDir: v.GetString(KeyProfilesDir),
		Profile:     v.GetString(KeyProfile),
		Reset:       v.GetBool(KeyReset),
		ResetClient: v.GetString(KeyResetClient),
		SchemaFile:  v.GetString(KeySchemaFile),
		DBUser:      v.GetString(KeyDBUser),
		DBPass:      v.GetString(KeyDBPass),
		Verbose:     v.GetBool(KeyVerbose),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks for missing or contradictory settings.
func (c Config) Validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("database path must not be empty"))
	}
	if c.ProfilesDir == "" {
		errs = append(errs, errors.New("profiles directory must not be empty"))
	}
	if c.Profile == "" {
		errs = append(errs, errors.New("inventory profile must not be empty"))
	}
	if c.ResetClient != "" && c.SchemaFile == "" {
		errs = append(errs, fmt.Errorf("reset client %q requires a schema file", c.ResetClient))
	}
	return errors.Join(errs...)
}
