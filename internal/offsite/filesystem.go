package offsite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"playbook/internal/core"
)

// FilesystemDestination stores exported backup documents as .json files in a
// local directory. This is the destination behind the plain "download a
// backup file" path.
type FilesystemDestination struct {
	name string
	root string
}

// NewFilesystemDestination creates a destination rooted at dir, creating the
// directory if needed.
func NewFilesystemDestination(name, dir string) (*FilesystemDestination, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}
	return &FilesystemDestination{name: name, root: dir}, nil
}

func (f *FilesystemDestination) Name() string { return f.name }

// Put writes a backup file, overwriting any previous copy. The filename is
// reduced to its base name so callers cannot write outside the root.
func (f *FilesystemDestination) Put(filename string, data []byte) error {
	path := filepath.Join(f.root, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing backup file: %w", err)
	}
	return nil
}

// Get reads a stored backup file.
func (f *FilesystemDestination) Get(filename string) ([]byte, error) {
	path := filepath.Join(f.root, filepath.Base(filename))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backup file: %w", err)
	}
	return data, nil
}

// List returns the .json files under the root, sorted.
func (f *FilesystemDestination) List() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("listing backup directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup verifies the root directory exists and is writable.
func (f *FilesystemDestination) ValidateSetup() error {
	info, err := os.Stat(f.root)
	if err != nil {
		return fmt.Errorf("backup directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backup path is not a directory: %s", f.root)
	}
	probe := filepath.Join(f.root, ".playbook-write-check")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("backup directory not writable: %w", err)
	}
	os.Remove(probe)
	return nil
}

// Compile-time check that FilesystemDestination implements core.Destination
var _ core.Destination = (*FilesystemDestination)(nil)
