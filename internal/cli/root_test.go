package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/runmseed/internal/testutil"
)

// runCommand executes runm-seed with args and returns stdout, stderr and the
// command error.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "runm-seed", cmd.Use)
	assert.Contains(t, cmd.Long, "RUNM_TEST_RESOURCE_DB_USER")
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		name string
		def  string
	}{
		{"reset", "true"},
		{"inventory-profile", "1k-shared-compute"},
		{"db", "runm-resource.db"},
		{"profiles-dir", "profiles"},
		{"reset-client", ""},
		{"schema-file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)
}

func TestSeedRows(t *testing.T) {
	profiles := testutil.ProfilesDir(t, map[string]string{
		"rows":           testutil.RowsProfile,
		"shared-compute": testutil.SharedComputeProfile,
	})
	db := filepath.Join(t.TempDir(), "resource.db")

	stdout, _, err := runCommand(t,
		"--db", db,
		"--profiles-dir", profiles,
		"--inventory-profile", "rows",
	)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "seed_rows", []byte(stdout))
}

func TestSeedWithoutReset(t *testing.T) {
	profiles := testutil.ProfilesDir(t, map[string]string{
		"rows":           testutil.RowsProfile,
		"shared-compute": testutil.SharedComputeProfile,
	})
	db := filepath.Join(t.TempDir(), "resource.db")

	_, _, err := runCommand(t, "--db", db, "--profiles-dir", profiles, "--inventory-profile", "shared-compute")
	require.NoError(t, err)

	stdout, _, err := runCommand(t, "--db", db, "--profiles-dir", profiles, "--inventory-profile", "rows", "--reset=false")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "resetting resource PoC database")
	assert.Contains(t, stdout, "applying provider group row-a ... ok\n")
	assert.Contains(t, stdout, "seeded 2 provider groups, 3 providers, 5 inventories")
}

func TestUnknownProfile(t *testing.T) {
	profiles := testutil.ProfilesDir(t, map[string]string{
		"b": testutil.SharedComputeProfile,
		"a": testutil.SharedComputeProfile,
	})
	db := filepath.Join(t.TempDir(), "resource.db")

	stdout, _, err := runCommand(t, "--db", db, "--profiles-dir", profiles, "--inventory-profile", "c")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid inventory profile "c" (choose from "a", "b")`)
	assert.Empty(t, stdout)

	_, statErr := os.Stat(db)
	assert.True(t, os.IsNotExist(statErr), "database must not be created")
}

func TestDefaultProfileMissing(t *testing.T) {
	profiles := testutil.ProfilesDir(t, map[string]string{"a": testutil.SharedComputeProfile})

	_, _, err := runCommand(t, "--db", filepath.Join(t.TempDir(), "x.db"), "--profiles-dir", profiles)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `"1k-shared-compute"`)
}

func TestMalformedProfileTouchesNoDatabase(t *testing.T) {
	profiles := testutil.ProfilesDir(t, map[string]string{
		"broken": `
provider_groups:
  - name: g
    providers:
      - name: host1
        inventory: { runm.cpu.shared: { capacity: 64, reserved: 65 } }
`,
	})
	db := filepath.Join(t.TempDir(), "resource.db")

	stdout, _, err := runCommand(t, "--db", db, "--profiles-dir", profiles, "--inventory-profile", "broken")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.False(t, IsReported(err))
	assert.Contains(t, err.Error(), "MALFORMED_PROFILE")
	assert.Empty(t, stdout)

	_, statErr := os.Stat(db)
	assert.True(t, os.IsNotExist(statErr), "database must not be created")
}

func TestSeedingFailureReportsStep(t *testing.T) {
	profiles := testutil.ProfilesDir(t, map[string]string{
		"gpu": `
provider_groups:
  - name: gpus
    providers:
      - name: gpu1
        inventory: { runm.gpu.physical: { total: 4 } }
`,
	})
	db := filepath.Join(t.TempDir(), "resource.db")

	stdout, stderr, err := runCommand(t, "--db", db, "--profiles-dir", profiles, "--inventory-profile", "gpu")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))

	assert.Contains(t, stdout, "creating distances ... ok\n")
	assert.Contains(t, stdout, "applying provider group gpus ... FAIL\n")
	assert.NotContains(t, stdout, "seeded")
	assert.Contains(t, stderr, " error: store select resource_classes \"runm.gpu.physical\": record not found\n")
}

func TestResetClientRequiresSchema(t *testing.T) {
	profiles := testutil.ProfilesDir(t, map[string]string{"a": testutil.SharedComputeProfile})

	_, _, err := runCommand(t,
		"--db", filepath.Join(t.TempDir(), "x.db"),
		"--profiles-dir", profiles,
		"--inventory-profile", "a",
		"--reset-client", "mysql",
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "requires a schema file")
}

func TestProfileFromEnvironment(t *testing.T) {
	t.Setenv("RUNM_TEST_RESOURCE_INVENTORY_PROFILE", "shared-compute")
	profiles := testutil.ProfilesDir(t, map[string]string{"shared-compute": testutil.SharedComputeProfile})

	stdout, _, err := runCommand(t, "--db", filepath.Join(t.TempDir(), "x.db"), "--profiles-dir", profiles)
	require.NoError(t, err)
	assert.Contains(t, stdout, `from profile "shared-compute"`)
}

func TestCommandErrorsExitTwo(t *testing.T) {
	_, _, err := runCommand(t, "extra")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = runCommand(t, "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
