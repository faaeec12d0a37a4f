package core_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"playbook/internal/core"
	"playbook/internal/model"
	"playbook/internal/testutil"
)

// liveDoc is a mutable document behind a mutex, standing in for the actively
// edited play.
type liveDoc struct {
	mu   sync.Mutex
	play *model.Play
}

func (d *liveDoc) source() *model.Play {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.play.Clone()
}

func (d *liveDoc) setTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.play.Metadata.Title = title
}

func TestAutosave(t *testing.T) {
	const delay = 30 * time.Millisecond

	setup := func(t *testing.T, store core.Store) (*core.Autosave, *liveDoc, chan time.Time) {
		t.Helper()
		doc := &liveDoc{play: testPlay("p1", "v0")}
		saved := make(chan time.Time, 16)
		onSaved := func(_ []model.Play, at time.Time) { saved <- at }
		a := core.NewAutosave(delay, doc.source, store, testutil.FixedClock(), core.NewNopLogger(), onSaved, nil)
		return a, doc, saved
	}

	waitSaved := func(t *testing.T, saved chan time.Time) {
		t.Helper()
		select {
		case <-saved:
		case <-time.After(2 * time.Second):
			t.Fatal("no save observed")
		}
	}

	t.Run("saves after the debounce window", func(t *testing.T) {
		store := testutil.NewTestStore()
		a, _, saved := setup(t, store)

		a.Schedule()
		if !a.Pending() {
			t.Error("Pending() = false right after Schedule()")
		}
		waitSaved(t, saved)

		play, err := store.GetPlay("p1")
		if err != nil || play == nil {
			t.Fatalf("GetPlay() = %v, %v", play, err)
		}
		if a.Pending() {
			t.Error("Pending() = true after the timer fired")
		}
	})

	t.Run("edits inside one window collapse into a single save", func(t *testing.T) {
		store := testutil.NewTestStore()
		a, doc, saved := setup(t, store)

		a.Schedule()
		doc.setTitle("v1")
		a.Schedule()
		doc.setTitle("v2")
		a.Schedule()

		waitSaved(t, saved)

		play, err := store.GetPlay("p1")
		if err != nil || play == nil {
			t.Fatalf("GetPlay() = %v, %v", play, err)
		}
		if play.Metadata.Title != "v2" {
			t.Errorf("saved title = %q, want the version current at fire time", play.Metadata.Title)
		}

		// No further save should follow.
		select {
		case <-saved:
			t.Error("extra save observed after the collapsed window")
		case <-time.After(3 * delay):
		}
	})

	t.Run("document is re-read when the timer fires", func(t *testing.T) {
		store := testutil.NewTestStore()
		a, doc, saved := setup(t, store)

		a.Schedule()
		// Mutate after scheduling, without rescheduling.
		doc.setTitle("late edit")

		waitSaved(t, saved)

		play, _ := store.GetPlay("p1")
		if play.Metadata.Title != "late edit" {
			t.Errorf("saved title = %q, want %q", play.Metadata.Title, "late edit")
		}
	})

	t.Run("flush saves immediately and cancels the timer", func(t *testing.T) {
		store := testutil.NewTestStore()
		a, _, saved := setup(t, store)

		a.Schedule()
		if err := a.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		waitSaved(t, saved)

		if a.Pending() {
			t.Error("Pending() = true after Flush()")
		}
		if play, _ := store.GetPlay("p1"); play == nil {
			t.Error("play not saved by Flush()")
		}
		want := testutil.FixedClock().Now()
		if !a.LastSavedAt().Equal(want) {
			t.Errorf("LastSavedAt() = %v, want %v", a.LastSavedAt(), want)
		}
	})

	t.Run("save failure is surfaced once with no retry", func(t *testing.T) {
		failing := &testutil.FailingStore{
			Store:       testutil.NewTestStore(),
			SavePlayErr: errors.New("disk full"),
		}
		doc := &liveDoc{play: testPlay("p1", "v0")}
		failures := make(chan error, 16)
		a := core.NewAutosave(delay, doc.source, failing, testutil.FixedClock(), core.NewNopLogger(), nil,
			func(err error) { failures <- err })

		if err := a.Flush(); err == nil {
			t.Fatal("Flush() error = nil, want save failure")
		}
		select {
		case err := <-failures:
			if !errors.Is(err, failing.SavePlayErr) {
				t.Errorf("onError got %v, want wrapped save error", err)
			}
		case <-time.After(time.Second):
			t.Fatal("onError not invoked")
		}

		if a.Pending() {
			t.Error("Pending() = true after a failed save; saves must not self-retry")
		}
		if !a.LastSavedAt().IsZero() {
			t.Errorf("LastSavedAt() = %v after a failed save, want zero", a.LastSavedAt())
		}
	})

	t.Run("nil source document saves nothing", func(t *testing.T) {
		store := testutil.NewTestStore()
		a := core.NewAutosave(delay, func() *model.Play { return nil }, store, testutil.FixedClock(), core.NewNopLogger(), nil, nil)

		if err := a.Flush(); err != nil {
			t.Errorf("Flush() error = %v, want nil with nothing to save", err)
		}
		if plays, _ := store.ListPlays(); len(plays) != 0 {
			t.Errorf("ListPlays() = %d entries, want 0", len(plays))
		}
	})

	t.Run("close flushes and stops accepting work", func(t *testing.T) {
		store := testutil.NewTestStore()
		a, doc, _ := setup(t, store)
		doc.setTitle("final")

		a.Close()

		play, _ := store.GetPlay("p1")
		if play == nil || play.Metadata.Title != "final" {
			t.Fatalf("play after Close() = %v, want the final version saved", play)
		}

		a.Schedule()
		if a.Pending() {
			t.Error("Schedule() armed a timer after Close()")
		}
	})
}
