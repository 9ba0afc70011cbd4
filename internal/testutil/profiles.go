package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SharedComputeProfile is the smallest useful profile: one group holding one
// host with 64 shared CPUs.
const SharedComputeProfile = `
provider_groups:
  - name: shared-compute
    providers:
      - name: host1
        inventory:
          runm.cpu.shared:
            capacity: 64
`

// RowsProfile exercises every optional field: group distances, templated
// providers, capabilities, traits and allocation parameters.
const RowsProfile = `
provider_groups:
  - name: row-a
    distances:
      network: datacenter
      storage: row
    providers:
      - name: a-host
        count: 2
        capabilities: [hw.cpu.x86.avx2, hw.cpu.x86.vmx]
        traits: [rack-a1]
        inventory:
          runm.cpu.dedicated: { total: 32, reserved: 2 }
          runm.memory: { total: 137438953472, reserved: 1073741824, min_unit: 1048576, step_size: 1048576 }
  - name: row-b-storage
    distances:
      network: datacenter
    providers:
      - name: nas-b
        type: runm.storage.block
        capabilities: [storage.disk.ssd]
        inventory:
          runm.block_storage: { total: 10995116277760, allocation_ratio: 1.5 }
`

// WriteProfile writes body to <dir>/<name>.yaml and returns the file path.
// Leading newlines in body are trimmed so raw string literals can start on
// their own line.
func WriteProfile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	WriteFile(t, path, strings.TrimLeft(body, "\n"))
	return path
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ProfilesDir creates a temporary profiles directory holding the given
// profiles, keyed by identifier.
func ProfilesDir(t *testing.T, profiles map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range profiles {
		WriteProfile(t, dir, name, body)
	}
	return dir
}
