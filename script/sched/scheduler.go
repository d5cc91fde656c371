package sched

import (
	"container/heap"
	"sync"
	"time"

	"github.com/tinscript-go/tinscript/pkg/script"
)

// Fire is one scheduler event ready to run, handed back from Tick for the
// caller (script/context) to dispatch through the VM.
type Fire struct {
	ID    script.ScheduleID
	Fn    script.Hash
	ObjID script.ObjectID
	Args  []script.Cell
}

// event is one pending entry in the heap. Cancellation is lazy: Cancel
// just flips cancelled so Tick can skip it without touching heap order.
type event struct {
	id        script.ScheduleID
	wakeAt    time.Time
	repeat    time.Duration
	seq       uint64
	fn        script.Hash
	objID     script.ObjectID
	args      []script.Cell
	cancelled bool
	index     int
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].wakeAt.Equal(h[j].wakeAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].wakeAt.Before(h[j].wakeAt)
}
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *eventHeap) Push(x any) {
	e := x.(*event)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler is the cooperative timer queue: nothing fires except from
// inside a Tick call, so it never races a running script or needs its own
// goroutine.
type Scheduler struct {
	mu     sync.Mutex
	heap   eventHeap
	byID   map[script.ScheduleID]*event
	nextID script.ScheduleID
	seq    uint64
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{byID: make(map[script.ScheduleID]*event), nextID: 1}
}

// Schedule queues fn(objID, args) to fire at wakeAt. If repeat is nonzero,
// the event re-enqueues itself at (previous wakeAt + repeat) each time it
// fires, rather than (now + repeat), so a late Tick doesn't compound drift.
func (s *Scheduler) Schedule(wakeAt time.Time, repeat time.Duration, fn script.Hash, objID script.ObjectID, args []script.Cell) script.ScheduleID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.seq++
	e := &event{id: id, wakeAt: wakeAt, repeat: repeat, seq: s.seq, fn: fn, objID: objID, args: args}
	s.byID[id] = e
	heap.Push(&s.heap, e)
	return id
}

// Cancel marks id as cancelled. It is idempotent and safe for an id that
// has already fired or never existed.
func (s *Scheduler) Cancel(id script.ScheduleID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	e.cancelled = true
	delete(s.byID, id)
	return true
}

// Pending reports how many non-cancelled events remain queued.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Tick pops and returns every event due at or before now, in (wakeAt, seq)
// order. Repeating events are re-queued before Tick returns; one-shot
// events are dropped.
//
// This snapshots the due set before any of it runs, so it is only safe for
// callers that don't care whether an event scheduled synchronously by one
// Fire's own dispatch (with wakeAt <= now) fires in this batch or the next.
// Context.Tick needs that guarantee and uses Next in a loop instead.
func (s *Scheduler) Tick(now time.Time) []Fire {
	var fires []Fire
	for {
		fire, ok := s.Next(now)
		if !ok {
			return fires
		}
		fires = append(fires, fire)
	}
}

// Next pops and returns the single earliest event due at or before now, if
// any. Unlike Tick, it takes the heap as it stands at the moment of the
// call: a caller that re-schedules a due event (wakeAt <= now) in response
// to the Fire it just got back, then calls Next again with the same now,
// will see that new event in the same pass.
func (s *Scheduler) Next(now time.Time) (Fire, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.heap.Len() > 0 {
		top := s.heap[0]
		if top.wakeAt.After(now) {
			return Fire{}, false
		}
		e := heap.Pop(&s.heap).(*event)
		if e.cancelled {
			continue
		}
		delete(s.byID, e.id)
		fire := Fire{ID: e.id, Fn: e.fn, ObjID: e.objID, Args: e.args}
		if e.repeat > 0 {
			s.seq++
			next := &event{
				id: e.id, wakeAt: e.wakeAt.Add(e.repeat), repeat: e.repeat,
				seq: s.seq, fn: e.fn, objID: e.objID, args: e.args,
			}
			s.byID[next.id] = next
			heap.Push(&s.heap, next)
		}
		return fire, true
	}
	return Fire{}, false
}
