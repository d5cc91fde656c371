package vm

import (
	"fmt"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
	"github.com/tinscript-go/tinscript/script/object"
	"github.com/tinscript-go/tinscript/script/stack"
	"github.com/tinscript-go/tinscript/script/strtab"
	"github.com/tinscript-go/tinscript/script/typereg"
)

// maxBackwardBranches caps how many times a single backward branch target
// can be re-taken without any forward progress elsewhere in the frame,
// guarding against `while(true){}`-style infinite script loops (spec §4.6).
const maxBackwardBranches = 1_000_000

// Result is what one top-level Call produces: the returned value plus any
// recoverable errors recorded along the way (e.g. integer divide-by-zero),
// which do not abort execution but are reported to the host.
type Result struct {
	Value    script.Cell
	Warnings []*script.Error
}

// Machine is the bytecode interpreter. It holds no execution state of its
// own between calls other than the shared Stack; script/context owns one
// Machine per Context and asserts single-threaded access around it.
type Machine struct {
	Types      *typereg.Registry
	Namespaces *namespace.Registry
	Objects    *object.Registry
	Strings    *strtab.Table
	Stack      *stack.Stack
	Hooks      Hooks
}

// New builds a Machine wired to the given registries. stk should be a
// *stack.Stack constructed with Strings as its Releaser.
func New(types *typereg.Registry, namespaces *namespace.Registry, objects *object.Registry, strings *strtab.Table, stk *stack.Stack) *Machine {
	return &Machine{Types: types, Namespaces: namespaces, Objects: objects, Strings: strings, Stack: stk}
}

// frameCtx is per-frame metadata the VM tracks alongside stack.Stack's own
// frame bookkeeping: which namespace and function body is executing, and
// which object (if any) it's executing against.
type frameCtx struct {
	ns    *namespace.Namespace
	fn    *namespace.Function
	objID script.ObjectID
	block *bytecode.Block
	ip    int

	// loopCounters tracks, per backward-branch target within this frame,
	// how many times that target has been re-taken since the frame started
	// or since the last forward branch. It is the Go-native analogue of the
	// teacher's bitmap-based "visited" tracking in its graph walker,
	// generalized from one-shot visited bits to a saturating counter since
	// a script loop legitimately revisits the same backward edge many
	// times. Built lazily; most calls never take a backward branch.
	loopCounters map[loopKey]int
}

// loopKey identifies one backward-branch target: the block it lives in plus
// the instruction offset being jumped back to.
type loopKey struct {
	block  *bytecode.Block
	offset int
}

// Call invokes fn (scripted or native) against ns with objID as the
// implicit receiver (script.NilObjectID for free functions), returning its
// result cell and recoverable warnings, or a hard error.
func (m *Machine) Call(fn *namespace.Function, ns *namespace.Namespace, objID script.ObjectID, args []script.Cell) (Result, error) {
	m.Hooks.onCall(fn.Name, objID)

	if fn.Kind != namespace.KindScripted {
		cell, err := fn.Native.Call(objID, args)
		if err != nil {
			return Result{}, err
		}
		m.Hooks.onReturn(fn.Name, cell)
		return Result{Value: cell}, nil
	}

	if err := m.Stack.PushFrame(fn.Block, -1, fn.NumLocals()); err != nil {
		return Result{}, err
	}
	for i, arg := range args {
		m.Stack.SetLocal(i+1, m.coerceOrZero(arg, fn.Params[i+1].Type))
	}

	frame := frameCtx{ns: ns, fn: fn, objID: objID, block: fn.Block, ip: 0}
	warnings, err := m.run(&frame)
	result := m.Stack.Local(0)
	if result.Type == script.TypeString {
		// The returned handle outlives the frame: take a reference for the
		// caller before PopFrame releases the return slot's own.
		m.Strings.RefInc(script.GetHash(result.Payload))
	}
	_, _ = m.Stack.PopFrame()
	if err != nil {
		return Result{}, err
	}
	m.Hooks.onReturn(fn.Name, result)
	return Result{Value: result, Warnings: warnings}, nil
}

// coerceOrZero converts v to want if possible, or returns want's zero cell
// if the argument's declared type can't supply it (defensive: neither
// Context nor the VM checks argument types against Params before this).
func (m *Machine) coerceOrZero(v script.Cell, want script.VarType) script.Cell {
	if v.Type == want {
		return v
	}
	if p, ok := m.Types.Convert(v.Type, want, v.Payload); ok {
		return script.Cell{Type: want, Payload: p}
	}
	return script.ZeroCell(want)
}

// run executes frame.block starting at frame.ip until OpReturn or OpHalt,
// returning accumulated recoverable warnings or the first hard error.
func (m *Machine) run(frame *frameCtx) ([]*script.Error, error) {
	var warnings []*script.Error

	for {
		in, ok := frame.block.At(frame.ip)
		if !ok {
			return warnings, script.NewError(script.ErrRuntime, "instruction pointer ran off the end of the block", script.Location{})
		}
		if !m.Hooks.beforeInstr(frame.block, frame.ip, in) {
			return warnings, script.NewError(script.ErrHostAssert, "execution aborted by BeforeInstr hook", script.Location{Line: in.Line})
		}

		next := frame.ip + 1
		switch in.Op {
		case bytecode.OpNop:

		case bytecode.OpHalt:
			return warnings, nil

		case bytecode.OpPushLiteral:
			m.Stack.Push(m.pushLiteralCell(frame, in))

		case bytecode.OpPushVar:
			cell, err := m.readVar(frame, in.Hash)
			if err != nil {
				return warnings, err
			}
			m.Stack.Push(cell)

		case bytecode.OpPopToVar:
			if err := m.writeVar(frame, in.Hash, m.Stack.Pop()); err != nil {
				return warnings, err
			}

		case bytecode.OpPushMember:
			cell, err := m.pushMember(in.Hash)
			if err != nil {
				return warnings, err
			}
			m.Stack.Push(cell)

		case bytecode.OpPopToMember:
			val := m.Stack.Pop()
			objCell := m.Stack.Pop()
			if err := m.popToMember(objCell, in.Hash, val); err != nil {
				return warnings, err
			}

		case bytecode.OpPushElement:
			idx := script.GetInt32(m.Stack.Pop().Payload)
			cell, w, err := m.readElement(frame, in.Hash, int(idx))
			if err != nil {
				return warnings, err
			}
			if w != nil {
				warnings = append(warnings, w)
			}
			m.Stack.Push(cell)

		case bytecode.OpPopToElement:
			val := m.Stack.Pop()
			idx := script.GetInt32(m.Stack.Pop().Payload)
			w, err := m.writeElement(frame, in.Hash, int(idx), val)
			if err != nil {
				return warnings, err
			}
			if w != nil {
				warnings = append(warnings, w)
			}

		case bytecode.OpDup:
			m.Stack.Push(m.Stack.Peek())

		case bytecode.OpPop:
			m.Stack.Pop()

		case bytecode.OpBinary:
			w, err := m.doBinary(script.Op(in.A))
			if err != nil {
				return warnings, err
			}
			if w != nil {
				warnings = append(warnings, w)
			}

		case bytecode.OpUnary:
			if err := m.doUnary(script.Op(in.A)); err != nil {
				return warnings, err
			}

		case bytecode.OpBranch, bytecode.OpJump:
			if err := frame.takeBranch(in.A); err != nil {
				return warnings, err
			}
			next = int(in.A)

		case bytecode.OpBranchIfFalse:
			cond := m.Stack.Pop()
			if !m.truthy(cond) {
				if err := frame.takeBranch(in.A); err != nil {
					return warnings, err
				}
				next = int(in.A)
			}

		case bytecode.OpCall:
			w, err := m.doCall(frame, in)
			if err != nil {
				return warnings, err
			}
			warnings = append(warnings, w...)
			frame.loopCounters = nil

		case bytecode.OpCallMethod:
			w, err := m.doCallMethod(in)
			if err != nil {
				return warnings, err
			}
			warnings = append(warnings, w...)
			frame.loopCounters = nil

		case bytecode.OpReturn:
			return warnings, nil

		case bytecode.OpPushPODMember:
			cell, err := m.pushPODMember(in.Hash)
			if err != nil {
				return warnings, err
			}
			m.Stack.Push(cell)

		case bytecode.OpPopPODMember:
			val := m.Stack.Pop()
			pod := m.Stack.Pop()
			updated, err := m.popPODMember(pod, in.Hash, val)
			if err != nil {
				return warnings, err
			}
			m.Stack.Push(updated)

		case bytecode.OpObjectCreate:
			ns := m.Namespaces.FindOrCreate(in.Hash)
			obj := m.Objects.CreateScripted(ns, ns.TotalMemberCount())
			var p script.Payload
			script.PutObjectID(&p, obj.ID)
			m.Stack.Push(script.Cell{Type: script.TypeObjectID, Payload: p})

		case bytecode.OpObjectDestroy:
			id := script.GetObjectID(m.Stack.Pop().Payload)
			m.Objects.Destroy(id)

		case bytecode.OpIsA:
			id := script.GetObjectID(m.Stack.Pop().Payload)
			m.Stack.Push(intCell(m.isA(id, in.Hash)))

		case bytecode.OpCallTypeMethod:
			w, err := m.doCallTypeMethod(in)
			if err != nil {
				return warnings, err
			}
			warnings = append(warnings, w...)
			frame.loopCounters = nil

		default:
			return warnings, script.NewError(script.ErrRuntime, fmt.Sprintf("unhandled opcode %s", in.Op), script.Location{Line: in.Line})
		}
		frame.ip = next
	}
}

func (fc *frameCtx) ip32() int32 { return int32(fc.ip) }

// takeBranch records a branch/jump to target, keyed on its destination.
// A forward branch clears every key's count: it's evidence the frame is
// making progress rather than spinning on one backward edge (run clears
// them the same way after every call instruction). A backward
// branch increments its own target's count and halts the frame with
// script.ErrInfiniteLoop once that single edge has been retaken more than
// maxBackwardBranches times with no forward progress in between.
func (fc *frameCtx) takeBranch(target int32) error {
	if target > fc.ip32() {
		fc.loopCounters = nil
		return nil
	}
	if fc.loopCounters == nil {
		fc.loopCounters = make(map[loopKey]int)
	}
	key := loopKey{block: fc.block, offset: int(target)}
	fc.loopCounters[key]++
	if fc.loopCounters[key] > maxBackwardBranches {
		return script.ErrInfiniteLoop
	}
	return nil
}

func (m *Machine) truthy(c script.Cell) bool {
	switch c.Type {
	case script.TypeBool:
		return script.GetBool(c.Payload)
	case script.TypeInt32:
		return script.GetInt32(c.Payload) != 0
	case script.TypeFloat32:
		return script.GetFloat32(c.Payload) != 0
	case script.TypeObjectID:
		return script.GetObjectID(c.Payload) != script.NilObjectID
	default:
		if p, ok := m.Types.Convert(c.Type, script.TypeBool, c.Payload); ok {
			return script.GetBool(p)
		}
		return false
	}
}

func intCell(b bool) script.Cell {
	var p script.Payload
	if b {
		script.PutInt32(&p, 1)
	}
	return script.Cell{Type: script.TypeInt32, Payload: p}
}

func (m *Machine) pushLiteralCell(frame *frameCtx, in bytecode.Instr) script.Cell {
	switch in.Type {
	case script.TypeString:
		h := m.Strings.Intern(frame.block.Const(in.Const))
		var p script.Payload
		script.PutHash(&p, h)
		return script.Cell{Type: script.TypeString, Payload: p}
	case script.TypeObjectID:
		var p script.Payload
		script.PutObjectID(&p, script.ObjectID(in.Hash))
		return script.Cell{Type: script.TypeObjectID, Payload: p}
	case script.TypeFloat32:
		var p script.Payload
		script.PutFloat32(&p, script.GetFloat32(int32Payload(in.A)))
		return script.Cell{Type: script.TypeFloat32, Payload: p}
	case script.TypeBool:
		var p script.Payload
		script.PutBool(&p, in.A != 0)
		return script.Cell{Type: script.TypeBool, Payload: p}
	default:
		var p script.Payload
		script.PutInt32(&p, in.A)
		return script.Cell{Type: in.Type, Payload: p}
	}
}

func int32Payload(bits int32) script.Payload {
	var p script.Payload
	script.PutInt32(&p, bits)
	return p
}
