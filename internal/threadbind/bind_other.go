//go:build !linux

package threadbind

import (
	"bytes"
	"runtime"
	"strconv"
)

// threadID falls back to the calling goroutine's id on platforms where
// golang.org/x/sys/unix has no cheap Gettid equivalent. Combined with the
// host's runtime.LockOSThread call around Context creation and use (which
// the spec requires of an embedder binding one context per OS thread),
// the goroutine id and the OS thread id coincide for the lifetime that
// matters here.
type threadID uint64

func currentThreadID() threadID {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// "goroutine 123 [running]:" is the first line Stack emits.
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(string(fields[1]), 10, 64)
	return threadID(id)
}
