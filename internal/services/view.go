// Package services implements the resource sync flows: every mutation goes
// to the backend first and, on success, the authoritative list is re-fetched
// wholesale. Local state is never merged with a mutation response, so the
// view always shows exactly what the server last returned.
package services

import (
	"errors"
	"sync"
)

// ErrBusy is returned when an operation for the same entity is already in
// flight. Callers disable the triggering control rather than queueing.
var ErrBusy = errors.New("operation already in progress")

// view holds the last authoritative list for one resource.
//
// Reloads are tagged with the generation current when they started; a reload
// that resolves after the view was reset (logout, navigation away) is
// discarded instead of resurrecting stale data. busy tracks per-entity
// in-flight mutations to block duplicate submission.
type view[T any] struct {
	mu    sync.Mutex
	items []T
	gen   uint64
	busy  map[int64]struct{}
}

// snapshot returns the currently displayed list.
func (v *view[T]) snapshot() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

// generation returns the tag a reload must carry to be applied.
func (v *view[T]) generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

// apply installs items if the view has not been reset since gen was taken.
// Reports whether the result was applied.
func (v *view[T]) apply(gen uint64, items []T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	v.items = items
	return true
}

// reset drops the list and invalidates any reload still in flight.
func (v *view[T]) reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = nil
	v.gen++
	v.busy = nil
}

// tryAcquire marks id busy; reports false when a mutation for id is already
// in flight. Use id 0 for entity-less operations such as create.
func (v *view[T]) tryAcquire(id int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.busy == nil {
		v.busy = make(map[int64]struct{})
	}
	if _, inFlight := v.busy[id]; inFlight {
		return false
	}
	v.busy[id] = struct{}{}
	return true
}

func (v *view[T]) release(id int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.busy, id)
}
