// ABOUTME: FIFO buffer for cues spawned before playback is running
// ABOUTME: Flushes in arrival order once the timeline reports Running
package cue

import (
	"github.com/Sendspin/hitsync-go/pkg/sync"
)

// Deferred buffers items until the timeline is running, then hands them to
// dispatch in the order they arrived
type Deferred[T any] struct {
	items    []T
	dispatch func(T)
}

// NewDeferred creates a queue that flushes into dispatch
func NewDeferred[T any](dispatch func(T)) *Deferred[T] {
	return &Deferred[T]{dispatch: dispatch}
}

// Enqueue appends an item unconditionally
func (q *Deferred[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// TryFlush dispatches every buffered item if the timeline is running.
// Returns the number of items dispatched.
func (q *Deferred[T]) TryFlush(state sync.TimelineState) int {
	if state != sync.Running || len(q.items) == 0 {
		return 0
	}

	// Detach first so a dispatch that re-enters Submit cannot see the backlog
	items := q.items
	q.items = nil

	for _, item := range items {
		q.dispatch(item)
	}
	return len(items)
}

// Submit is the normal entry point: it buffers while not running, otherwise
// drains any backlog and dispatches the item directly.
// Returns true if the item was dispatched immediately.
func (q *Deferred[T]) Submit(item T, state sync.TimelineState) bool {
	if state != sync.Running {
		q.Enqueue(item)
		return false
	}

	q.TryFlush(state)
	q.dispatch(item)
	return true
}

// Len returns the number of buffered items
func (q *Deferred[T]) Len() int {
	return len(q.items)
}
