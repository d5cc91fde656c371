package typereg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/typereg"
)

func TestBuiltins_ToStringFromStringRoundTrip(t *testing.T) {
	r := typereg.New()

	var p script.Payload
	script.PutInt32(&p, 42)
	require.Equal(t, "42", r.ToString(script.TypeInt32, p))

	got, ok := r.FromString(script.TypeInt32, "42")
	require.True(t, ok)
	require.Equal(t, int32(42), script.GetInt32(got))

	_, ok = r.FromString(script.TypeInt32, "not-a-number")
	require.False(t, ok)
}

func TestConvert_Int32ToFloat32(t *testing.T) {
	r := typereg.New()

	var p script.Payload
	script.PutInt32(&p, 7)

	out, ok := r.Convert(script.TypeInt32, script.TypeFloat32, p)
	require.True(t, ok)
	require.Equal(t, float32(7), script.GetFloat32(out))
}

func TestConvert_IdentityAlwaysSucceeds(t *testing.T) {
	r := typereg.New()

	var p script.Payload
	script.PutBool(&p, true)

	out, ok := r.Convert(script.TypeBool, script.TypeBool, p)
	require.True(t, ok)
	require.Equal(t, p, out)
}

func TestConvert_UnregisteredPathFails(t *testing.T) {
	r := typereg.New()

	var p script.Payload
	_, ok := r.Convert(script.TypeVector3f, script.TypeBool, p)
	require.False(t, ok)
}

func TestRegisterPODType_MemberLookup(t *testing.T) {
	r := typereg.New()
	xHash := script.HashString("x")

	r.RegisterPODType(script.TypeVector3f, map[script.Hash]typereg.PODMember{
		xHash: {Type: script.TypeFloat32, Offset: 0},
	})

	m, ok := r.PODMember(script.TypeVector3f, xHash)
	require.True(t, ok)
	require.Equal(t, 0, m.Offset)
	require.Equal(t, script.TypeFloat32, m.Type)

	_, ok = r.PODMember(script.TypeVector3f, script.HashString("w"))
	require.False(t, ok)
}

func TestRegisterOpOverride_LookupRoundTrip(t *testing.T) {
	r := typereg.New()
	called := false
	r.RegisterOpOverride(script.OpAdd, script.TypeVector3f, func(op script.Op, left, right typereg.Payload) (script.VarType, typereg.Payload, bool) {
		called = true
		return script.TypeVector3f, left, true
	})

	fn, ok := r.OpOverride(script.OpAdd, script.TypeVector3f)
	require.True(t, ok)
	_, _, _ = fn(script.OpAdd, script.Payload{}, script.Payload{})
	require.True(t, called)

	_, ok = r.OpOverride(script.OpSub, script.TypeVector3f)
	require.False(t, ok)
}
