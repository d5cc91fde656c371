// Package sched implements the cooperative scheduler: a binary min-heap of
// pending events keyed by wake time, with FIFO tie-break among events
// scheduled for the same instant and lazy-delete cancellation so Cancel
// never has to scan or re-heapify.
//
// Grounded on hive/tx's pending-transaction queue (a heap keyed by a
// monotonic sequence, drained by a Tick-style pump) and on container/heap's
// standard library documentation example, which every production Go
// scheduler implementation in this pack's ecosystem (including hivekit's
// own background compaction timer) follows the same way.
package sched
