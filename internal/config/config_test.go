package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	d := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyDatabase, d.Database, "")
	fs.String(KeyProfile, d.Profile, "")
	fs.Bool(KeyReset, d.Reset, "")
	fs.String(KeyResetClient, "", "")
	fs.String(KeySchemaFile, "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "root", cfg.DBUser)
	assert.Equal(t, "", cfg.DBPass)
	assert.True(t, cfg.Reset)
	assert.Equal(t, "1k-shared-compute", cfg.Profile)
}

func TestLoad_CredentialsFromEnvironment(t *testing.T) {
	t.Setenv("RUNM_TEST_RESOURCE_DB_USER", "seeder")
	t.Setenv("RUNM_TEST_RESOURCE_DB_PASS", "s3cret")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "seeder", cfg.DBUser)
	assert.Equal(t, "s3cret", cfg.DBPass)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("RUNM_TEST_RESOURCE_DB", "from-env.db")
	t.Setenv("RUNM_TEST_RESOURCE_INVENTORY_PROFILE", "from-env")

	v := New()
	require.NoError(t, BindFlags(v, newFlags(t, "--db", "from-flag.db")))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.db", cfg.Database)
	assert.Equal(t, "from-env", cfg.Profile, "unset flag must not shadow the environment")
}

func TestLoad_ResetFlag(t *testing.T) {
	v := New()
	require.NoError(t, BindFlags(v, newFlags(t, "--reset=false")))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.False(t, cfg.Reset)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty database", func(c *Config) { c.Database = "" }, "database path must not be empty"},
		{"empty profile", func(c *Config) { c.Profile = "" }, "inventory profile must not be empty"},
		{"client without schema", func(c *Config) { c.ResetClient = "mysql" }, `reset client "mysql" requires a schema file`},
		{"client with schema", func(c *Config) {
			c.ResetClient = "mysql"
			c.SchemaFile = "schema.sql"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
