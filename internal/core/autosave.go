package core

import (
	"fmt"
	"sync"
	"time"

	"playbook/internal/model"
)

// DefaultAutosaveDelay is the debounce window between an edit and the write
// it schedules.
const DefaultAutosaveDelay = time.Second

// Autosave debounces persistence of the actively edited play. It holds a
// single pending-task slot: every trigger cancels and replaces any armed
// timer, and the document is re-read from the source when the timer fires,
// never captured at schedule time. Edits landing inside one debounce window
// therefore collapse into a single write of the latest version.
type Autosave struct {
	delay  time.Duration
	source func() *model.Play // re-read at fire time; nil means nothing to save
	store  Store
	clock  Clock
	logger Logger

	// onSaved receives the refreshed play collection after a successful save.
	onSaved func(plays []model.Play, at time.Time)
	// onError surfaces a failed save. There is no automatic retry; the next
	// edit reschedules a save naturally.
	onError func(err error)

	mu          sync.Mutex
	timer       *time.Timer
	closed      bool
	lastSavedAt time.Time
}

// NewAutosave creates an Autosave. delay <= 0 selects DefaultAutosaveDelay;
// onSaved and onError may be nil.
func NewAutosave(delay time.Duration, source func() *model.Play, store Store, clock Clock, logger Logger, onSaved func([]model.Play, time.Time), onError func(error)) *Autosave {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosave{
		delay:   delay,
		source:  source,
		store:   store,
		clock:   clock,
		logger:  logger,
		onSaved: onSaved,
		onError: onError,
	}
}

// Schedule arms the debounce timer, replacing any pending one.
func (a *Autosave) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

func (a *Autosave) fire() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	a.save()
}

// Flush cancels any pending timer and saves immediately, bypassing the
// debounce.
func (a *Autosave) Flush() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	return a.save()
}

// Close cancels any pending timer and makes a best-effort final flush. Errors
// from the final flush are logged, not surfaced; there is nowhere left to
// show them.
func (a *Autosave) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if err := a.save(); err != nil {
		a.logger.Warn("final autosave flush failed", "error", err)
	}
}

// Pending reports whether a debounce timer is currently armed.
func (a *Autosave) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// LastSavedAt returns the time of the most recent successful save, zero if
// none yet.
func (a *Autosave) LastSavedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSavedAt
}

func (a *Autosave) save() error {
	doc := a.source()
	if doc == nil {
		return nil
	}

	if err := a.store.SavePlay(doc); err != nil {
		err = fmt.Errorf("autosaving play %s: %w", doc.ID, err)
		a.logger.Error("autosave failed", "play", doc.ID, "error", err)
		if a.onError != nil {
			a.onError(err)
		}
		return err
	}

	now := a.clock.Now()
	a.mu.Lock()
	a.lastSavedAt = now
	a.mu.Unlock()

	// Refresh the derived play list for whoever displays it.
	plays, err := a.store.ListPlays()
	if err != nil {
		a.logger.Warn("refreshing play list after autosave failed", "error", err)
		plays = nil
	}
	if a.onSaved != nil {
		a.onSaved(plays, now)
	}

	a.logger.Debug("autosave complete", "play", doc.ID)
	return nil
}
