package offsite

import (
	"fmt"
	"sort"
	"sync"

	"playbook/internal/core"
)

// MemoryDestination is an in-memory implementation of core.Destination,
// useful for testing. Safe for concurrent use.
type MemoryDestination struct {
	name  string
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryDestination creates an empty in-memory destination with the given name.
func NewMemoryDestination(name string) *MemoryDestination {
	return &MemoryDestination{name: name, files: make(map[string][]byte)}
}

func (m *MemoryDestination) Name() string { return m.name }

// Put stores a backup under filename, overwriting any previous copy.
func (m *MemoryDestination) Put(filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	m.files[filename] = copied
	return nil
}

// Get retrieves a stored backup by filename.
func (m *MemoryDestination) Get(filename string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filename]
	if !ok {
		return nil, fmt.Errorf("backup not found: %s", filename)
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// List returns all stored filenames, sorted.
func (m *MemoryDestination) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup always succeeds for an in-memory destination.
func (m *MemoryDestination) ValidateSetup() error { return nil }

// Compile-time check that MemoryDestination implements core.Destination
var _ core.Destination = (*MemoryDestination)(nil)
