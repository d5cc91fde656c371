// Package threadbind asserts that a Context is only ever driven from the
// OS thread that created it (spec: "one context is accessible per host
// thread via a thread-local pointer set at creation"). It does not provide
// the thread-local lookup itself — that convenience is the host's to add —
// it only catches accidental cross-thread reentrancy.
package threadbind
