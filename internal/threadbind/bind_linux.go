//go:build linux

package threadbind

import "golang.org/x/sys/unix"

// threadID is the kernel thread id on Linux. It identifies the OS thread,
// not the goroutine: two goroutines scheduled onto the same OS thread get
// the same id.
type threadID int32

func currentThreadID() threadID {
	return threadID(unix.Gettid())
}
