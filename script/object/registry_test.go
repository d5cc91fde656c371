package object_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
	"github.com/tinscript-go/tinscript/script/object"
)

func TestCreateLookupDestroy(t *testing.T) {
	nsReg := namespace.New()
	ns := nsReg.FindOrCreate(script.HashString("Weapon"))
	reg := object.New()

	obj := reg.CreateScripted(ns, 2)
	require.NotEqual(t, script.NilObjectID, obj.ID)

	got, ok := reg.Lookup(obj.ID)
	require.True(t, ok)
	require.Same(t, obj, got)

	reg.Destroy(obj.ID)
	_, ok = reg.Lookup(obj.ID)
	require.False(t, ok)

	// Destroying an already-gone id is a no-op, not an error.
	reg.Destroy(obj.ID)
}

func TestLookup_NilObjectIDNeverResolves(t *testing.T) {
	reg := object.New()
	_, ok := reg.Lookup(script.NilObjectID)
	require.False(t, ok)
}

func TestIDsAreMonotonicAndNeverReused(t *testing.T) {
	nsReg := namespace.New()
	ns := nsReg.FindOrCreate(script.HashString("Weapon"))
	reg := object.New()

	a := reg.CreateScripted(ns, 0)
	reg.Destroy(a.ID)
	b := reg.CreateScripted(ns, 0)

	require.NotEqual(t, a.ID, b.ID)
	require.Greater(t, b.ID, a.ID)
}

func TestDestroyAllScripted_LeavesHostOwned(t *testing.T) {
	nsReg := namespace.New()
	ns := nsReg.FindOrCreate(script.HashString("Weapon"))
	reg := object.New()

	scripted := reg.CreateScripted(ns, 0)
	host := reg.RegisterHost(ns, "native payload")

	reg.DestroyAllScripted()

	_, ok := reg.Lookup(scripted.ID)
	require.False(t, ok)
	got, ok := reg.Lookup(host.ID)
	require.True(t, ok)
	require.Equal(t, "native payload", got.HostData)
}

func TestGroupMembership(t *testing.T) {
	nsReg := namespace.New()
	ns := nsReg.FindOrCreate(script.HashString("Weapon"))
	reg := object.New()
	group := script.HashString("all-weapons")

	a := reg.CreateScripted(ns, 0)
	b := reg.CreateScripted(ns, 0)
	reg.AddToGroup(a.ID, group)
	reg.AddToGroup(b.ID, group)

	members := reg.GroupMembers(group)
	require.ElementsMatch(t, []script.ObjectID{a.ID, b.ID}, members)

	reg.RemoveFromGroup(a.ID, group)
	require.ElementsMatch(t, []script.ObjectID{b.ID}, reg.GroupMembers(group))

	// Destroying a member removes it from its groups too.
	reg.Destroy(b.ID)
	require.Empty(t, reg.GroupMembers(group))
}
