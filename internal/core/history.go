package core

import "playbook/internal/model"

// DefaultMaxHistory is the snapshot capacity of a history stack.
const DefaultMaxHistory = 50

// History is the undo/redo stack for the actively edited play. It holds deep
// snapshots of committed document versions; the cursor points at the snapshot
// matching the current document. Snapshots are cloned on the way in and on the
// way out, so no caller ever shares memory with a stack entry.
//
// All operations are total over valid state; none of them fail.
type History struct {
	entries []*model.Play
	index   int
	max     int
}

// NewHistory creates an empty history stack. max <= 0 selects
// DefaultMaxHistory.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &History{index: -1, max: max}
}

// Reset discards all entries and starts a fresh single-entry stack containing
// doc with the cursor on it. Called when a different play is selected or a new
// one is created.
func (h *History) Reset(doc *model.Play) {
	h.entries = []*model.Play{doc.Clone()}
	h.index = 0
}

// Record commits a new document version: any redo entries beyond the cursor
// are truncated, a snapshot of doc is appended, and if the stack now exceeds
// capacity the oldest entry is evicted. The cursor always ends on the newest
// entry, so eviction can never leave it out of bounds.
func (h *History) Record(doc *model.Play) {
	h.entries = append(h.entries[:h.index+1], doc.Clone())
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
	h.index = len(h.entries) - 1
}

// Undo moves the cursor back one entry and returns a copy of the snapshot
// there. Returns nil, false when the cursor is already at the oldest entry.
func (h *History) Undo() (*model.Play, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo moves the cursor forward one entry and returns a copy of the snapshot
// there. Returns nil, false when the cursor is already at the newest entry.
func (h *History) Redo() (*model.Play, bool) {
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

// CanUndo reports whether an older snapshot is available.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether a newer snapshot is available.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of snapshots currently held.
func (h *History) Len() int { return len(h.entries) }
