package strtab

import (
	"sync"

	"golang.org/x/text/encoding/charmap"

	"github.com/tinscript-go/tinscript/pkg/script"
)

// numShards is the number of independent table shards. Must be a power of
// two for fast modulo via bitmask.
const numShards = 16

type entry struct {
	str      string
	refcount int
}

type shard struct {
	mu      sync.Mutex
	entries map[script.Hash]*entry
}

// Table interns strings and returns the stable Hash identity for them.
// A hash collision against a different string is a caller error: Intern
// keeps the first-registered string and the caller can detect the
// mismatch via Collisions.
type Table struct {
	shards     [numShards]*shard
	collisions sync.Map // script.Hash -> int, count of rejected collisions
	decoder    *charmap.Charmap
}

// New creates an empty string table. decoder defaults to Windows-1252,
// the single-byte legacy charmap TinScript source text is assumed to use
// (spec §1's "no Unicode source" non-goal).
func New() *Table {
	t := &Table{decoder: charmap.Windows1252}
	for i := range t.shards {
		t.shards[i] = &shard{entries: make(map[script.Hash]*entry)}
	}
	return t
}

func (t *Table) shardFor(h script.Hash) *shard {
	return t.shards[uint32(h)&(numShards-1)]
}

// Intern registers an already-decoded Go string and returns its Hash.
func (t *Table) Intern(s string) script.Hash {
	h := script.HashString(s)
	if h == script.NoHash {
		return script.NoHash
	}
	sh := t.shardFor(h)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if e, ok := sh.entries[h]; ok {
		if e.str != s {
			t.recordCollision(h)
			return h
		}
		e.refcount++
		return h
	}
	sh.entries[h] = &entry{str: s, refcount: 1}
	return h
}

// InternBytes decodes raw source bytes through the configured legacy
// charmap before interning. This is the entry point scripts and native
// registration calls actually use for literal strings and identifiers.
func (t *Table) InternBytes(raw []byte) script.Hash {
	decoded, err := t.decoder.NewDecoder().Bytes(raw)
	if err != nil {
		// Fall back to raw bytes as Latin-1 is a superset of ASCII for the
		// common case; a decode failure here means non-conforming source,
		// which is a caller error per the non-goal, not a runtime panic.
		decoded = raw
	}
	return t.Intern(string(decoded))
}

// Lookup returns the interned string for h, or "" and false if unknown.
func (t *Table) Lookup(h script.Hash) (string, bool) {
	if h == script.NoHash {
		return "", false
	}
	sh := t.shardFor(h)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[h]
	if !ok {
		return "", false
	}
	return e.str, true
}

// RefInc increments the reference count for an already-interned hash,
// e.g. when a new string-handle cell is created pointing at it.
func (t *Table) RefInc(h script.Hash) {
	if h == script.NoHash {
		return
	}
	sh := t.shardFor(h)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if e, ok := sh.entries[h]; ok {
		e.refcount++
	}
}

// RefDec decrements the reference count, dropping the entry entirely once
// it reaches zero. Call this whenever a frame holding a string-handle cell
// is popped.
func (t *Table) RefDec(h script.Hash) {
	if h == script.NoHash {
		return
	}
	sh := t.shardFor(h)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[h]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(sh.entries, h)
	}
}

// RefCount reports the current reference count for h, 0 if not interned.
func (t *Table) RefCount(h script.Hash) int {
	sh := t.shardFor(h)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if e, ok := sh.entries[h]; ok {
		return e.refcount
	}
	return 0
}

func (t *Table) recordCollision(h script.Hash) {
	v, _ := t.collisions.LoadOrStore(h, new(int))
	counter := v.(*int)
	*counter++
}

// Collisions reports how many times Intern rejected a different string
// that happened to hash to h.
func (t *Table) Collisions(h script.Hash) int {
	v, ok := t.collisions.Load(h)
	if !ok {
		return 0
	}
	return *(v.(*int))
}
