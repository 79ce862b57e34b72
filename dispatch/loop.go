package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/odvcencio/furry-a11y/logging"
)

// ErrLoopRunning is returned when Run is called on a loop that is already running.
var ErrLoopRunning = errors.New("dispatch: loop already running")

// Loop runs callbacks one at a time, in post order, on the goroutine that
// calls Run. Any goroutine may post. Posting never blocks: the backlog is
// unbounded so a burst of engine events cannot stall the producer.
// Callbacks posted before Run starts are kept and run first.
type Loop struct {
	mu      sync.Mutex
	tasks   []func()
	closed  bool
	signal  chan struct{}
	running atomic.Bool
	logger  *slog.Logger
}

// NewLoop creates a stopped loop.
func NewLoop(logger *slog.Logger) *Loop {
	return &Loop{
		tasks:  make([]func(), 0, 64),
		signal: make(chan struct{}, 1),
		logger: logging.OrDiscard(logger),
	}
}

// Schedule posts fn, satisfying Scheduler.
func (l *Loop) Schedule(fn func()) {
	if !l.Post(fn) && fn != nil {
		l.logger.Debug("dropped callback posted to closed loop")
	}
}

// Post enqueues fn. It returns false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if l == nil || fn == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.tasks = append(l.tasks, fn)
	// Buffer of one coalesces wakeups.
	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// Len returns the number of callbacks waiting to run.
func (l *Loop) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Run executes callbacks until ctx is cancelled or the loop is closed and
// drained. The calling goroutine becomes the UI goroutine.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil {
		return errors.New("dispatch: nil loop")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		l.RunPending()
		if l.isClosed() {
			l.RunPending()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}
	}
}

// RunPending runs everything currently queued on the caller goroutine and
// returns the count. Callbacks posted while it runs are picked up too.
func (l *Loop) RunPending() int {
	if l == nil {
		return 0
	}
	ran := 0
	for {
		fn, ok := l.next()
		if !ok {
			return ran
		}
		fn()
		ran++
	}
}

// Close stops accepting callbacks and wakes Run so it can drain and return.
func (l *Loop) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.signal)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	fn := l.tasks[0]
	l.tasks[0] = nil
	if len(l.tasks) == 1 {
		l.tasks = l.tasks[:0]
	} else {
		l.tasks = l.tasks[1:]
	}
	return fn, true
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
