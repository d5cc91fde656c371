package console

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
)

func TestParseVarType(t *testing.T) {
	cases := map[string]script.VarType{
		"int32":    script.TypeInt32,
		"float32":  script.TypeFloat32,
		"bool":     script.TypeBool,
		"string":   script.TypeString,
		"vector3f": script.TypeVector3f,
	}
	for name, want := range cases {
		got, ok := parseVarType(name)
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := parseVarType("nonsense")
	require.False(t, ok)
}

func TestParseLiteral_GuessesTypeByShape(t *testing.T) {
	ctx := context.New()

	intCell := parseLiteral(ctx, "42")
	require.Equal(t, script.TypeInt32, intCell.Type)
	require.Equal(t, int32(42), script.GetInt32(intCell.Payload))

	floatCell := parseLiteral(ctx, "3.5")
	require.Equal(t, script.TypeFloat32, floatCell.Type)
	require.InDelta(t, 3.5, float64(script.GetFloat32(floatCell.Payload)), 1e-6)

	strCell := parseLiteral(ctx, "hello")
	require.Equal(t, script.TypeString, strCell.Type)
}

func TestRenderCell_StringGoesThroughInternTable(t *testing.T) {
	ctx := context.New()
	h := ctx.Strings.Intern("a label")

	var p script.Payload
	script.PutHash(&p, h)
	cell := script.Cell{Type: script.TypeString, Payload: p}

	require.Equal(t, "a label", renderCell(ctx, cell))
}

func TestRenderCell_NonStringUsesTypeRegistry(t *testing.T) {
	ctx := context.New()
	var p script.Payload
	script.PutInt32(&p, 7)
	cell := script.Cell{Type: script.TypeInt32, Payload: p}

	require.Equal(t, "7", renderCell(ctx, cell))
}
