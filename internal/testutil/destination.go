package testutil

import (
	"playbook/internal/core"
	"playbook/internal/offsite"
)

// NewTestDestination creates a new in-memory offsite destination for testing.
func NewTestDestination() core.Destination {
	return offsite.NewMemoryDestination("test-destination")
}
