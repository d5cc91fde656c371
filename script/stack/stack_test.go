package stack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/stack"
)

type fakeReleaser struct {
	released []script.Hash
}

func (f *fakeReleaser) RefDec(h script.Hash) {
	f.released = append(f.released, h)
}

func TestPushPopValueStack(t *testing.T) {
	s := stack.New(nil)

	var p script.Payload
	script.PutInt32(&p, 9)
	s.Push(script.Cell{Type: script.TypeInt32, Payload: p})
	require.Equal(t, 1, s.Len())
	require.Equal(t, int32(9), script.GetInt32(s.Peek().Payload))

	c := s.Pop()
	require.Equal(t, int32(9), script.GetInt32(c.Payload))
	require.Equal(t, 0, s.Len())
}

func TestPushFrame_LocalsAndReturn(t *testing.T) {
	s := stack.New(nil)
	block := &bytecode.Block{}

	require.NoError(t, s.PushFrame(block, 7, 3))
	require.Equal(t, 1, s.Depth())

	var p script.Payload
	script.PutInt32(&p, 42)
	s.SetLocal(1, script.Cell{Type: script.TypeInt32, Payload: p})
	require.Equal(t, int32(42), script.GetInt32(s.Local(1).Payload))

	ip, b := s.PopFrame()
	require.Equal(t, 7, ip)
	require.Same(t, block, b)
	require.Equal(t, 0, s.Depth())
}

func TestPopFrame_ReleasesStringLocals(t *testing.T) {
	rel := &fakeReleaser{}
	s := stack.New(rel)
	block := &bytecode.Block{}

	require.NoError(t, s.PushFrame(block, 0, 1))
	h := script.Hash(123)
	var p script.Payload
	script.PutHash(&p, h)
	s.SetLocal(0, script.Cell{Type: script.TypeString, Payload: p})

	s.PopFrame()
	require.Contains(t, rel.released, h)
}

func TestPushFrame_RespectsMaxDepth(t *testing.T) {
	s := stack.New(nil)
	block := &bytecode.Block{}
	for i := 0; i < stack.MaxDepth; i++ {
		require.NoError(t, s.PushFrame(block, 0, 0))
	}
	require.ErrorIs(t, s.PushFrame(block, 0, 0), script.ErrStackOverflow)
}

func TestReset_ClearsFramesAndReleasesStrings(t *testing.T) {
	rel := &fakeReleaser{}
	s := stack.New(rel)
	block := &bytecode.Block{}

	require.NoError(t, s.PushFrame(block, 0, 1))
	h := script.Hash(7)
	var p script.Payload
	script.PutHash(&p, h)
	s.SetLocal(0, script.Cell{Type: script.TypeString, Payload: p})

	s.Reset()
	require.Equal(t, 0, s.Depth())
	require.Equal(t, 0, s.Len())
	require.Contains(t, rel.released, h)
}
