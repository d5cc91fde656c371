package threadbind

import "fmt"

// Binder captures the identity of the calling thread at creation time and
// can later check whether the current thread still matches.
type Binder struct {
	id threadID
}

// New captures the calling goroutine's current OS thread as the bound
// thread. Callers that need a hard guarantee should call
// runtime.LockOSThread before New, as context.StartWorker's goroutine does
// (context.New itself does not lock the thread).
func New() *Binder {
	return &Binder{id: currentThreadID()}
}

// Check reports whether the calling thread matches the bound thread.
func (b *Binder) Check() error {
	if cur := currentThreadID(); cur != b.id {
		return fmt.Errorf("threadbind: bound to thread %v, called from %v", b.id, cur)
	}
	return nil
}
