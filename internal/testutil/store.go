package testutil

import (
	"playbook/internal/core"
	"playbook/internal/model"
	"playbook/internal/store"
)

// NewTestStore creates a new in-memory store for testing.
func NewTestStore() core.Store {
	return store.NewMemoryStore()
}

// FailingStore wraps a core.Store and fails selected operations, for
// exercising error paths. Unset error fields pass through to the wrapped
// store.
type FailingStore struct {
	core.Store

	SavePlayErr     error
	ListPlaysErr    error
	SaveBackupErr   error
	SaveSettingsErr error
}

func (f *FailingStore) SavePlay(play *model.Play) error {
	if f.SavePlayErr != nil {
		return f.SavePlayErr
	}
	return f.Store.SavePlay(play)
}

func (f *FailingStore) ListPlays() ([]model.Play, error) {
	if f.ListPlaysErr != nil {
		return nil, f.ListPlaysErr
	}
	return f.Store.ListPlays()
}

func (f *FailingStore) SaveBackup(backup *model.AutoBackupFileInfo) error {
	if f.SaveBackupErr != nil {
		return f.SaveBackupErr
	}
	return f.Store.SaveBackup(backup)
}

func (f *FailingStore) SaveSettings(settings *model.Settings) error {
	if f.SaveSettingsErr != nil {
		return f.SaveSettingsErr
	}
	return f.Store.SaveSettings(settings)
}

// SlowStore wraps a core.Store and blocks ListPlays until Release is called,
// for holding a backup run in flight during concurrency tests.
type SlowStore struct {
	core.Store

	Entered chan struct{} // closed/sent when ListPlays is reached
	Gate    chan struct{} // ListPlays blocks until this is closed
}

// NewSlowStore wraps inner with an armed gate.
func NewSlowStore(inner core.Store) *SlowStore {
	return &SlowStore{
		Store:   inner,
		Entered: make(chan struct{}, 1),
		Gate:    make(chan struct{}),
	}
}

func (s *SlowStore) ListPlays() ([]model.Play, error) {
	select {
	case s.Entered <- struct{}{}:
	default:
	}
	<-s.Gate
	return s.Store.ListPlays()
}

// Release unblocks any ListPlays calls waiting on the gate.
func (s *SlowStore) Release() { close(s.Gate) }
