package unittest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
	"github.com/tinscript-go/tinscript/script/unittest"
)

func TestSuite_Run_PassAndFail(t *testing.T) {
	ctx := context.New()
	gHash := script.HashString("g")
	ctx.SetGlobal(gHash, script.TypeInt32, script.Cell{Type: script.TypeInt32})

	ok := bytecode.NewAssembler()
	ok.PushLiteral(script.TypeInt32, 42, -1)
	ok.PopToVar(gHash)
	ok.Return()

	bad := bytecode.NewAssembler()
	bad.PushLiteral(script.TypeInt32, 1, -1)
	bad.PopToVar(gHash)
	bad.Return()

	var suite unittest.Suite
	suite.Add("sets 42", ok.Block(), gHash, "42")
	suite.Add("wrong value", bad.Block(), gHash, "99")

	report := suite.Run(ctx)
	require.Len(t, report.Results, 2)
	require.False(t, report.Passed())
	require.Equal(t, []string{"wrong value"}, report.FailedNames())
	require.True(t, report.Results[0].Pass)
	require.Equal(t, "42", report.Results[0].Got)
}

func TestSuite_Run_StringConcatScenario(t *testing.T) {
	ctx := context.New()
	gHash := script.HashString("s")
	ctx.SetGlobal(gHash, script.TypeString, script.Cell{Type: script.TypeString})

	a := bytecode.NewAssembler()
	leftIdx := a.Const("foo")
	rightIdx := a.Const("bar")
	a.PushLiteral(script.TypeString, 0, leftIdx)
	a.PushLiteral(script.TypeString, 0, rightIdx)
	a.Binary(script.OpAdd)
	a.PopToVar(gHash)
	a.Return()

	var suite unittest.Suite
	suite.Add("string concat", a.Block(), gHash, "foobar")

	report := suite.Run(ctx)
	require.True(t, report.Passed())
}
