package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extension is the file name suffix of inventory profiles.
const Extension = ".yaml"

// Loader reads inventory profiles from a directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader for the profiles in dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the profiles directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Path returns the file a profile identifier resolves to.
func (l *Loader) Path(name string) string {
	return filepath.Join(l.dir, name+Extension)
}

// Discover returns the identifiers of every profile in the directory,
// sorted. Any regular file ending in .yaml is a profile; its identifier is
// the file name with the extension stripped.
func (l *Loader) Discover() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read profiles directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		fn := e.Name()
		if !strings.HasSuffix(fn, Extension) || len(fn) == len(Extension) {
			continue
		}
		// Stat rather than e.Type() so symlinked profiles count.
		info, err := os.Stat(filepath.Join(l.dir, fn))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, strings.TrimSuffix(fn, Extension))
	}
	sort.Strings(names)
	return names, nil
}

// Load reads and validates the profile with the given identifier.
func (l *Loader) Load(name string) (*InventoryProfile, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, notFound(name, "invalid profile identifier", nil)
	}
	return load(name, l.Path(name))
}

// LoadFile reads and validates the profile at path. The identifier is the
// file's base name without extension.
func LoadFile(path string) (*InventoryProfile, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return load(name, path)
}

func load(name, path string) (*InventoryProfile, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name, fmt.Sprintf("no profile file at %s", path), nil)
	}
	if err != nil {
		return nil, notFound(name, fmt.Sprintf("cannot access %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return nil, notFound(name, fmt.Sprintf("%s is not a regular file", path), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(name, fmt.Sprintf("read %s", path), err)
	}

	p, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	p.Path = path
	return p, nil
}

// Parse builds a profile from the contents of a profile file.
func Parse(name string, data []byte) (*InventoryProfile, error) {
	groups, err := parse(data)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) && pe.Profile == "" {
			pe.Profile = name
		}
		return nil, err
	}
	return &InventoryProfile{Name: name, groups: groups}, nil
}

func parse(data []byte) ([]ProviderGroup, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Code: CodeMalformedProfile, Message: "invalid YAML", Err: err}
	}
	if doc == nil {
		return nil, malformed("", "profile is empty")
	}

	if err := checkSchema(doc); err != nil {
		return nil, err
	}

	// Reject unknown fields (typos like "inventories:" vs "inventory:")
	var raw rawProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, &Error{Code: CodeMalformedProfile, Message: "decode profile", Err: err}
	}

	return build(&raw)
}
