package reminder

import "context"

// Dispatcher delivers completion callbacks on the execution context the
// caller expects. UI code hands the scheduler a Dispatcher bound to its
// main loop; every completion then runs there.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

// Dispatch calls f(fn).
func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks on whichever goroutine finished the work.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// MainQueue is a FIFO of callbacks executed by the goroutine that calls
// Run or Drain, standing in for a UI thread.
type MainQueue struct {
	fns chan func()
}

// NewMainQueue creates a queue holding up to size callbacks. Dispatch
// blocks while the queue is full.
func NewMainQueue(size int) *MainQueue {
	if size <= 0 {
		size = 64
	}
	return &MainQueue{fns: make(chan func(), size)}
}

// Dispatch enqueues fn.
func (q *MainQueue) Dispatch(fn func()) {
	q.fns <- fn
}

// Run executes callbacks until ctx is done.
func (q *MainQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-q.fns:
			fn()
		}
	}
}

// Drain executes every queued callback without waiting for more and
// returns how many ran.
func (q *MainQueue) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.fns:
			fn()
			n++
		default:
			return n
		}
	}
}

// Next blocks until one callback is queued, runs it, and returns true.
// It returns false if ctx ends first.
func (q *MainQueue) Next(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case fn := <-q.fns:
		fn()
		return true
	}
}
