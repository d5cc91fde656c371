package context

import (
	"runtime"
)

// Worker owns a Context on a single OS thread it locks for its entire
// lifetime, and serializes every Exec*/Tick call onto that thread via a
// request channel. Go's scheduler is free to migrate an ordinary
// goroutine between OS threads at any blocking point, which would trip
// Context's own threadbind assertion the moment two calls happened to
// land on different threads; Worker is what actually satisfies "one
// Context per host thread" for a caller — like a REPL — that wants to
// keep issuing calls from a different goroutine (Bubble Tea's tea.Cmd
// goroutines) than the one that's driving the event loop.
type Worker struct {
	ctx  *Context
	reqs chan func(*Context)
}

// StartWorker spawns the owning goroutine, locks it to its current OS
// thread, builds a Context on it, and blocks until that Context is ready.
func StartWorker() *Worker {
	w := &Worker{reqs: make(chan func(*Context))}
	ready := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		w.ctx = New()
		close(ready)
		for fn := range w.reqs {
			fn(w.ctx)
		}
	}()
	<-ready
	return w
}

// Do runs fn on the worker's bound thread and blocks until it returns.
func (w *Worker) Do(fn func(*Context)) {
	done := make(chan struct{})
	w.reqs <- func(c *Context) {
		fn(c)
		close(done)
	}
	<-done
}

// Context returns the bound Context for direct use from any goroutine of
// the handful of methods that don't assert thread affinity (GetGlobal,
// SetGlobal, and reads through Types/Strings/Namespaces), since those
// guard their own state with a mutex. Exec*/Tick must still go through Do.
func (w *Worker) Context() *Context { return w.ctx }

// Close stops the worker's goroutine, releasing its locked OS thread.
func (w *Worker) Close() { close(w.reqs) }
