package core

import (
	"fmt"
	"sync"
	"time"

	"playbook/internal/model"
)

// SessionConfig carries the optional knobs for an editing session.
type SessionConfig struct {
	// AutosaveDelay overrides the debounce window; <= 0 keeps the default.
	AutosaveDelay time.Duration
	// OnSaved is invoked after every successful autosave with the refreshed
	// play collection.
	OnSaved func(plays []model.Play, at time.Time)
	// OnError surfaces a failed autosave.
	OnError func(err error)
}

// Session owns the actively edited play. All mutations go through Apply,
// which snapshots into history synchronously before the new version becomes
// current and then schedules an autosave. The active document is owned
// exclusively by the session; everything handed out or taken in is cloned.
type Session struct {
	store    Store
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	history  *History
	autosave *Autosave

	// mu guards current: the autosave timer re-reads it from its own
	// goroutine while the editing side replaces it.
	mu      sync.Mutex
	current *model.Play
}

// NewSession creates a session with no play open.
func NewSession(store Store, logger Logger, clock Clock, idgen IDGenerator, cfg SessionConfig) *Session {
	s := &Session{
		store:   store,
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
		history: NewHistory(DefaultMaxHistory),
	}
	s.autosave = NewAutosave(cfg.AutosaveDelay, s.snapshotCurrent, store, clock, logger, cfg.OnSaved, cfg.OnError)
	return s
}

// snapshotCurrent is the autosave source: the live document re-read at timer
// fire time.
func (s *Session) snapshotCurrent() *model.Play {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Current returns a copy of the active play, or nil when none is open.
func (s *Session) Current() *model.Play {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Open loads a stored play into the session, flushing any pending work for
// the previous one first. History restarts at a single entry.
func (s *Session) Open(id string) error {
	play, err := s.store.GetPlay(id)
	if err != nil {
		return fmt.Errorf("loading play: %w", err)
	}
	if play == nil {
		return fmt.Errorf("play not found: %s", id)
	}

	s.flushPrevious()
	s.mu.Lock()
	s.current = play
	s.mu.Unlock()
	s.history.Reset(play)
	s.logger.Info("play opened", "play", play.ID, "title", play.Metadata.Title)
	return nil
}

// New starts editing a fresh play with default field settings, flushing any
// pending work for the previous one first.
func (s *Session) New(title string) *model.Play {
	s.flushPrevious()

	now := s.clock.Now()
	play := &model.Play{
		ID: s.idgen.New(),
		Metadata: model.PlayMetadata{
			Title:     title,
			Type:      model.PlayOffense,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Field: model.Field{
			Width:         800,
			Height:        450,
			FieldColor:    "#2e7d32",
			LineColor:     "#ffffff",
			ShowYardLines: true,
			ShowHashMarks: true,
		},
	}

	s.mu.Lock()
	s.current = play
	s.mu.Unlock()
	s.history.Reset(play)
	s.autosave.Schedule()
	return play.Clone()
}

// Apply commits a mutation to the active play: the mutated version is
// recorded into history (with the prior version retained for undo), refreshes
// updatedAt, becomes current, and an autosave is scheduled.
func (s *Session) Apply(mutate func(*model.Play)) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return fmt.Errorf("no play open")
	}
	next := s.current.Clone()
	s.mu.Unlock()

	mutate(next)
	next.Metadata.UpdatedAt = s.clock.Now()

	s.history.Record(next)
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.autosave.Schedule()
	return nil
}

// Undo restores the previous committed version, if any, and schedules an
// autosave of it.
func (s *Session) Undo() bool {
	doc, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	s.autosave.Schedule()
	return true
}

// Redo restores the next committed version, if any, and schedules an autosave
// of it.
func (s *Session) Redo() bool {
	doc, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	s.autosave.Schedule()
	return true
}

// CanUndo reports whether Undo would restore an older version.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would restore a newer version.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// LastSavedAt returns the time of the most recent successful autosave.
func (s *Session) LastSavedAt() time.Time { return s.autosave.LastSavedAt() }

// Close cancels any pending autosave and makes a best-effort final flush.
// Flush errors are logged, not returned; the session is going away and there
// is no UI left to surface them.
func (s *Session) Close() {
	s.autosave.Close()
}

// flushPrevious writes out pending changes before the session switches
// documents. Failures are logged; the switch proceeds regardless.
func (s *Session) flushPrevious() {
	s.mu.Lock()
	open := s.current != nil
	s.mu.Unlock()
	if !open {
		return
	}
	if err := s.autosave.Flush(); err != nil {
		s.logger.Warn("flush before switching plays failed", "error", err)
	}
}
