package namespace

import (
	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/value"
)

// Kind distinguishes the three ways a Function can be invoked.
type Kind uint8

const (
	// KindScripted runs a bytecode Block pushed by the host-supplied
	// compiler front end (out of scope here; see internal/bytecode).
	KindScripted Kind = iota
	// KindNativeGlobal calls a host Go function registered at namespace
	// scope (e.g. a free function like mul2 in spec §8's scenario).
	KindNativeGlobal
	// KindNativeMethod calls a host Go function bound to an object,
	// receiving the object's ObjectID as an implicit first argument.
	KindNativeMethod
)

func (k Kind) String() string {
	switch k {
	case KindScripted:
		return "scripted"
	case KindNativeGlobal:
		return "native-global"
	case KindNativeMethod:
		return "native-method"
	default:
		return "kind(?)"
	}
}

// NativeDispatcher invokes a registered native function given the caller's
// argument cells as they are (the VM neither converts them nor checks their
// count), returning the result cell or an error.
// NativeFunc below is the only production implementation, installed by
// Context.RegisterNative and script/vector3f's type methods.
type NativeDispatcher interface {
	Call(objID script.ObjectID, args []script.Cell) (script.Cell, error)
}

// NativeFunc adapts a plain Go function to NativeDispatcher.
type NativeFunc func(objID script.ObjectID, args []script.Cell) (script.Cell, error)

func (f NativeFunc) Call(objID script.ObjectID, args []script.Cell) (script.Cell, error) {
	return f(objID, args)
}

// Function is one callable entry in a namespace: scripted bytecode or a
// native dispatcher, plus its parameter signature. Parameter slot 0 is
// always reserved for the return value, matching the calling convention
// the VM's call frames use (spec §4.3).
type Function struct {
	Name script.Hash
	Kind Kind
	// Params holds only the reserved return slot plus caller-supplied
	// arguments; Locals holds every frame-resident slot, in slot order
	// (Locals[0] is always the same Entry as Params[0]), including
	// further locals the body declares beyond the parameter list.
	Params  []*value.Entry
	Locals  []*value.Entry
	Block   *bytecode.Block
	Native  NativeDispatcher
	IsEvent bool // scheduler callback signature rather than a plain call

	localByName map[script.Hash]*value.Entry
}

// ParamCount returns the number of caller-supplied arguments, excluding
// the reserved return slot.
func (f *Function) ParamCount() int {
	if len(f.Params) == 0 {
		return 0
	}
	return len(f.Params) - 1
}

// ReturnType reports the function's declared return type.
func (f *Function) ReturnType() script.VarType {
	if len(f.Params) == 0 {
		return script.TypeVoid
	}
	return f.Params[0].Type
}

// NumLocals is the frame size the VM must reserve for a call to f.
func (f *Function) NumLocals() int { return len(f.Locals) }

// LocalByName resolves a name to its frame-relative Entry, building the
// lookup index on first use.
func (f *Function) LocalByName(name script.Hash) (*value.Entry, bool) {
	if f.localByName == nil {
		f.localByName = make(map[script.Hash]*value.Entry, len(f.Locals))
		for _, e := range f.Locals {
			f.localByName[e.Name] = e
		}
	}
	e, ok := f.localByName[name]
	return e, ok
}
