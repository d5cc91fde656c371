package strtab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/pkg/script"
)

func TestIntern_RoundTrip(t *testing.T) {
	cases := []string{"", "x", "gResult", "CBase", "a_very_long_identifier_name_0123456789"}

	tab := New()
	for _, s := range cases {
		h := tab.Intern(s)
		if s == "" {
			require.Equal(t, script.NoHash, h)
			continue
		}
		got, ok := tab.Lookup(h)
		require.True(t, ok)
		require.Equal(t, s, got)
	}
}

func TestIntern_RefCounting(t *testing.T) {
	tab := New()
	h := tab.Intern("v0")
	require.Equal(t, 1, tab.RefCount(h))

	tab.RefInc(h)
	require.Equal(t, 2, tab.RefCount(h))

	tab.RefDec(h)
	require.Equal(t, 1, tab.RefCount(h))

	tab.RefDec(h)
	require.Equal(t, 0, tab.RefCount(h))

	_, ok := tab.Lookup(h)
	require.False(t, ok, "entry should be gone once refcount hits zero")
}

func TestIntern_CollisionKeepsFirst(t *testing.T) {
	tab := New()
	h1 := tab.Intern("v0")

	h2 := tab.Intern("v0") // re-interning the same string is not a collision
	require.Equal(t, h1, h2)
	require.Equal(t, 0, tab.Collisions(h1))

	// Force a fabricated collision by replacing the string stored in the
	// shard under v0's hash with a different one, simulating a genuine FNV
	// collision without needing to find a real one.
	sh := tab.shardFor(h1)
	sh.mu.Lock()
	sh.entries[h1].str = "first"
	sh.mu.Unlock()

	h3 := tab.Intern("v0") // now collides with the stored "first"
	require.Equal(t, h1, h3)
	require.Equal(t, 1, tab.Collisions(h1))

	got, ok := tab.Lookup(h1)
	require.True(t, ok)
	require.Equal(t, "first", got, "the first-registered string is kept")
}

func TestInternBytes_DecodesLegacyCharmap(t *testing.T) {
	tab := New()
	h := tab.InternBytes([]byte("hello"))
	got, ok := tab.Lookup(h)
	require.True(t, ok)
	require.Equal(t, "hello", got)
}
