// Package dispatch moves work onto the platform's UI-affinity goroutine.
//
// The engine produces cache pushes and events on its own goroutine at
// arbitrary times; everything that touches the platform must run on the
// single goroutine that also serves node queries and actions. A Scheduler
// is the hand-off point between the two.
package dispatch

import "sync"

// Scheduler hands a callback to the UI-affinity goroutine. A bridge session
// routes every engine event delivery through one; enablement uses one per
// UI-side subscriber.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function, such as a platform main-thread post, into
// a Scheduler.
type SchedulerFunc func(func())

// Schedule passes fn to the wrapped function. Nil callbacks are dropped.
func (f SchedulerFunc) Schedule(fn func()) {
	if f == nil || fn == nil {
		return
	}
	f(fn)
}

// Immediate runs callbacks in the caller goroutine. Use it only when the
// caller already is the UI goroutine.
var Immediate Scheduler = SchedulerFunc(func(fn func()) {
	if fn != nil {
		fn()
	}
})

// Queue parks engine event deliveries and UI-side notifications until Flush.
// Flush is the UI-side step: the CLI calls it once a scenario has been
// applied, and an agent settle hook calls it after each action so the host
// sees the events the engine produced in response.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule parks fn until the next Flush.
func (q *Queue) Schedule(fn func()) {
	if q == nil || fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of parked callbacks.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs the parked callbacks in the order they were scheduled, on the
// calling goroutine, and returns how many ran. A delivery that schedules
// more work waits for the next Flush.
func (q *Queue) Flush() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}
