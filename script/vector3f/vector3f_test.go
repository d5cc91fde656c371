package vector3f_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
	"github.com/tinscript-go/tinscript/script/typereg"
	"github.com/tinscript-go/tinscript/script/vector3f"
)

func TestPayloadRoundTrip(t *testing.T) {
	v := vector3f.Vector3f{X: 1, Y: 2, Z: 3}
	got := vector3f.FromPayload(vector3f.ToPayload(v))
	require.Equal(t, v, got)
}

func TestParseString_BothFormats(t *testing.T) {
	v1, ok := vector3f.ParseString("1 2 3")
	require.True(t, ok)
	v2, ok := vector3f.ParseString("1, 2, 3")
	require.True(t, ok)
	require.Equal(t, v1, v2)
	require.Equal(t, vector3f.Vector3f{X: 1, Y: 2, Z: 3}, v1)

	_, ok = vector3f.ParseString("1 2")
	require.False(t, ok)
}

func TestLengthAndNormalized(t *testing.T) {
	v := vector3f.Vector3f{X: 3, Y: 4, Z: 0}
	require.InDelta(t, 5.0, float64(v.Length()), 1e-6)

	n := v.Normalized()
	require.InDelta(t, 1.0, float64(n.Length()), 1e-6)

	require.Equal(t, vector3f.Zero, vector3f.Zero.Normalized())
}

func TestDotAndCross(t *testing.T) {
	x := vector3f.Vector3f{X: 1, Y: 0, Z: 0}
	y := vector3f.Vector3f{X: 0, Y: 1, Z: 0}

	require.Equal(t, float32(0), x.Dot(y))
	require.Equal(t, vector3f.Vector3f{X: 0, Y: 0, Z: 1}, x.Cross(y))
}

func TestRegister_EqualityIsInverted(t *testing.T) {
	types := typereg.New()
	namespaces := namespace.New()
	vector3f.Register(types, namespaces)

	fn, ok := types.OpOverride(script.OpCompareEqual, script.TypeVector3f)
	require.True(t, ok)

	same := vector3f.ToPayload(vector3f.Vector3f{X: 1, Y: 1, Z: 1})
	_, result, ok := fn(script.OpCompareEqual, same, same)
	require.True(t, ok)
	require.Equal(t, int32(0), script.GetInt32(result))

	other := vector3f.ToPayload(vector3f.Vector3f{X: 2, Y: 1, Z: 1})
	_, result, ok = fn(script.OpCompareEqual, same, other)
	require.True(t, ok)
	require.Equal(t, int32(1), script.GetInt32(result))
}

func TestRegister_TypeMethodLength(t *testing.T) {
	types := typereg.New()
	namespaces := namespace.New()
	vector3f.Register(types, namespaces)

	ns, ok := namespaces.Find(namespace.TypeNamespaceKey(script.TypeVector3f))
	require.True(t, ok)

	fn, owner, ok := ns.LookupFunction(script.HashString("length"))
	require.True(t, ok)
	require.Same(t, ns, owner)

	arg := script.Cell{Type: script.TypeVector3f, Payload: vector3f.ToPayload(vector3f.Vector3f{X: 3, Y: 4, Z: 0})}
	result, err := fn.Native.Call(script.NilObjectID, []script.Cell{arg})
	require.NoError(t, err)
	require.InDelta(t, 5.0, float64(script.GetFloat32(result.Payload)), 1e-6)
}
