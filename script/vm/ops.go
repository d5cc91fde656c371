package vm

import (
	"fmt"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
)

func errType(msg string, line int) *script.Error {
	return script.NewError(script.ErrType, msg, script.Location{Line: line})
}

// readVar resolves name against the current frame's locals first, then the
// current namespace's globals (walking its parent chain), matching the
// spec's "locals shadow globals" resolution order.
func (m *Machine) readVar(frame *frameCtx, name script.Hash) (script.Cell, error) {
	if e, ok := frame.fn.LocalByName(name); ok {
		return m.Stack.Local(e.Slot), nil
	}
	if e, owner, ok := frame.ns.LookupGlobal(name); ok {
		return owner.GlobalCell(e.Slot), nil
	}
	return script.Cell{}, script.Wrap(script.ErrRuntime, fmt.Sprintf("unresolved variable %08x", name), script.Location{}, nil)
}

func (m *Machine) writeVar(frame *frameCtx, name script.Hash, val script.Cell) error {
	if e, ok := frame.fn.LocalByName(name); ok {
		m.Stack.SetLocal(e.Slot, m.coerceOrZero(val, e.Type))
		return nil
	}
	if e, owner, ok := frame.ns.LookupGlobal(name); ok {
		owner.SetGlobalCell(e.Slot, m.coerceOrZero(val, e.Type))
		return nil
	}
	return script.NewError(script.ErrRuntime, fmt.Sprintf("unresolved variable %08x", name), script.Location{})
}

// arrayOOB wraps the shared sentinel the same way doBinary wraps
// ErrDivideByZero: a recoverable warning the caller records and continues
// past, never a hard error.
func arrayOOB() *script.Error {
	return script.Wrap(script.ErrRuntime, "array index out of bounds", script.Location{}, script.ErrArrayOutOfBound)
}

// readElement resolves one array element. An out-of-bounds idx is
// recoverable: it returns a zero-typed cell (spec §4.6's "default-typed
// zero on the stack") plus a warning rather than a hard error; only an
// unresolved array name aborts the call.
func (m *Machine) readElement(frame *frameCtx, name script.Hash, idx int) (script.Cell, *script.Error, error) {
	if e, ok := frame.fn.LocalByName(name); ok {
		if idx < 0 || idx >= e.Length {
			return script.ZeroCell(e.Type), arrayOOB(), nil
		}
		return m.Stack.Local(e.Slot + idx), nil, nil
	}
	if e, owner, ok := frame.ns.LookupGlobal(name); ok {
		if idx < 0 || idx >= e.Length {
			return script.ZeroCell(e.Type), arrayOOB(), nil
		}
		return owner.GlobalCell(e.Slot + idx), nil, nil
	}
	return script.Cell{}, nil, script.NewError(script.ErrRuntime, fmt.Sprintf("unresolved array %08x", name), script.Location{})
}

// writeElement mirrors readElement's recoverable-OOB behavior: an
// out-of-bounds idx records a warning and the write is simply dropped.
func (m *Machine) writeElement(frame *frameCtx, name script.Hash, idx int, val script.Cell) (*script.Error, error) {
	if e, ok := frame.fn.LocalByName(name); ok {
		if idx < 0 || idx >= e.Length {
			return arrayOOB(), nil
		}
		m.Stack.SetLocal(e.Slot+idx, m.coerceOrZero(val, e.Type))
		return nil, nil
	}
	if e, owner, ok := frame.ns.LookupGlobal(name); ok {
		if idx < 0 || idx >= e.Length {
			return arrayOOB(), nil
		}
		owner.SetGlobalCell(e.Slot+idx, m.coerceOrZero(val, e.Type))
		return nil, nil
	}
	return nil, script.NewError(script.ErrRuntime, fmt.Sprintf("unresolved array %08x", name), script.Location{})
}

func (m *Machine) pushMember(memberName script.Hash) (script.Cell, error) {
	objCell := m.Stack.Pop()
	id := script.GetObjectID(objCell.Payload)
	obj, ok := m.Objects.Lookup(id)
	if !ok {
		return script.Cell{}, script.ErrNilObject
	}
	e, ok := obj.Namespace.LookupMember(memberName)
	if !ok {
		return script.Cell{}, script.NewError(script.ErrRuntime, fmt.Sprintf("unresolved member %08x", memberName), script.Location{})
	}
	return obj.Member(e.Slot), nil
}

func (m *Machine) popToMember(objCell script.Cell, memberName script.Hash, val script.Cell) error {
	id := script.GetObjectID(objCell.Payload)
	obj, ok := m.Objects.Lookup(id)
	if !ok {
		return script.ErrNilObject
	}
	e, ok := obj.Namespace.LookupMember(memberName)
	if !ok {
		return script.NewError(script.ErrRuntime, fmt.Sprintf("unresolved member %08x", memberName), script.Location{})
	}
	obj.SetMember(e.Slot, m.coerceOrZero(val, e.Type))
	return nil
}

func (m *Machine) isA(id script.ObjectID, className script.Hash) bool {
	obj, ok := m.Objects.Lookup(id)
	if !ok {
		return false
	}
	for ns := obj.Namespace; ns != nil; ns = ns.Parent() {
		if ns.Name == className {
			return true
		}
	}
	return false
}

func (m *Machine) pushPODMember(memberName script.Hash) (script.Cell, error) {
	pod := m.Stack.Pop()
	mem, ok := m.Types.PODMember(pod.Type, memberName)
	if !ok {
		return script.Cell{}, errType(fmt.Sprintf("type %s has no member %08x", m.Types.Info(pod.Type).Name, memberName), 0)
	}
	size := m.Types.Info(mem.Type).Size
	var out script.Payload
	copy(out[:size], pod.Payload[mem.Offset:mem.Offset+size])
	return script.Cell{Type: mem.Type, Payload: out}, nil
}

func (m *Machine) popPODMember(pod script.Cell, memberName script.Hash, val script.Cell) (script.Cell, error) {
	mem, ok := m.Types.PODMember(pod.Type, memberName)
	if !ok {
		return script.Cell{}, errType(fmt.Sprintf("type %s has no member %08x", m.Types.Info(pod.Type).Name, memberName), 0)
	}
	v := m.coerceOrZero(val, mem.Type)
	size := m.Types.Info(mem.Type).Size
	copy(pod.Payload[mem.Offset:mem.Offset+size], v.Payload[:size])
	return pod, nil
}

// doBinary pops two operands, applies op, and pushes the result. It
// returns a non-nil *script.Error as its first return only for a
// recoverable condition (integer divide/mod by zero); anything else it
// reports through the returned error.
func (m *Machine) doBinary(op script.Op) (*script.Error, error) {
	right := m.Stack.Pop()
	left := m.Stack.Pop()

	if op == script.OpAdd && (left.Type == script.TypeString || right.Type == script.TypeString) {
		m.Stack.Push(m.concatString(left, right))
		return nil, nil
	}

	if left.Type == script.TypeInt32 && right.Type == script.TypeInt32 && (op == script.OpDiv || op == script.OpMod) {
		if script.GetInt32(right.Payload) == 0 {
			m.Stack.Push(script.ZeroCell(script.TypeInt32))
			return script.Wrap(script.ErrRuntime, "integer divide by zero", script.Location{}, script.ErrDivideByZero), nil
		}
	}

	// vector3f*scalar and scalar*vector3f (Mul only) go through a
	// dedicated scale override rather than generic same-type dispatch,
	// since the two operands are never the same VarType. Division never
	// swaps: only vector/scalar is defined, matching Vector3fScale.
	if op == script.OpMul || op == script.OpDiv {
		if left.Type == script.TypeVector3f && isNumericType(right.Type) {
			return m.applyScale(op, left.Payload, right)
		}
		if op == script.OpMul && right.Type == script.TypeVector3f && isNumericType(left.Type) {
			return m.applyScale(op, right.Payload, left)
		}
	}

	lt, rt, lp, rp, err := m.unifyOperands(left, right)
	if err != nil {
		return nil, err
	}
	fn, ok := m.Types.OpOverride(op, lt)
	if !ok {
		return nil, errType(fmt.Sprintf("operator %s not supported for type %s", op, m.Types.Info(lt).Name), 0)
	}
	resType, result, ok := fn(op, lp, rp)
	if !ok {
		return nil, errType(fmt.Sprintf("operator %s rejected operands of type %s/%s", op, m.Types.Info(lt).Name, m.Types.Info(rt).Name), 0)
	}
	m.Stack.Push(script.Cell{Type: resType, Payload: result})
	return nil, nil
}

// unifyOperands brings left and right to a common VarType, following the
// spec's default numeric coercion (float wins over int) before falling
// back to the destination type's registered conversion table.
func (m *Machine) unifyOperands(left, right script.Cell) (script.VarType, script.VarType, script.Payload, script.Payload, error) {
	if left.Type == right.Type {
		return left.Type, right.Type, left.Payload, right.Payload, nil
	}
	if left.Type == script.TypeFloat32 && right.Type == script.TypeInt32 {
		p, _ := m.Types.Convert(script.TypeInt32, script.TypeFloat32, right.Payload)
		return script.TypeFloat32, script.TypeFloat32, left.Payload, p, nil
	}
	if left.Type == script.TypeInt32 && right.Type == script.TypeFloat32 {
		p, _ := m.Types.Convert(script.TypeInt32, script.TypeFloat32, left.Payload)
		return script.TypeFloat32, script.TypeFloat32, p, right.Payload, nil
	}
	if p, ok := m.Types.Convert(right.Type, left.Type, right.Payload); ok {
		return left.Type, left.Type, left.Payload, p, nil
	}
	if p, ok := m.Types.Convert(left.Type, right.Type, left.Payload); ok {
		return right.Type, right.Type, p, right.Payload, nil
	}
	return script.TypeVoid, script.TypeVoid, script.Payload{}, script.Payload{},
		script.NewError(script.ErrNoConversion.Kind, fmt.Sprintf("no conversion between %s and %s", m.Types.Info(left.Type).Name, m.Types.Info(right.Type).Name), script.Location{})
}

func isNumericType(t script.VarType) bool {
	return t == script.TypeInt32 || t == script.TypeFloat32
}

// applyScale normalizes the scalar operand to a lone float32 payload and
// invokes the vector3f type's registered Mul/Div override with vecPayload
// always in the "left" position.
func (m *Machine) applyScale(op script.Op, vecPayload script.Payload, scalar script.Cell) (*script.Error, error) {
	scalarPayload := scalar.Payload
	if scalar.Type == script.TypeInt32 {
		scalarPayload, _ = m.Types.Convert(script.TypeInt32, script.TypeFloat32, scalar.Payload)
	}
	fn, ok := m.Types.OpOverride(op, script.TypeVector3f)
	if !ok {
		return nil, errType(fmt.Sprintf("operator %s not supported for vector3f", op), 0)
	}
	resType, result, ok := fn(op, vecPayload, scalarPayload)
	if !ok {
		return nil, errType(fmt.Sprintf("operator %s rejected vector3f/scalar operands", op), 0)
	}
	m.Stack.Push(script.Cell{Type: resType, Payload: result})
	return nil, nil
}

func (m *Machine) concatString(left, right script.Cell) script.Cell {
	toStr := func(c script.Cell) string {
		if c.Type == script.TypeString {
			s, _ := m.Strings.Lookup(script.GetHash(c.Payload))
			return s
		}
		return m.Types.ToString(c.Type, c.Payload)
	}
	joined := toStr(left) + toStr(right)
	h := m.Strings.Intern(joined)
	var p script.Payload
	script.PutHash(&p, h)
	return script.Cell{Type: script.TypeString, Payload: p}
}

func (m *Machine) doUnary(op script.Op) error {
	v := m.Stack.Pop()
	fn, ok := m.Types.OpOverride(op, v.Type)
	if !ok {
		return errType(fmt.Sprintf("unary operator %s not supported for type %s", op, m.Types.Info(v.Type).Name), 0)
	}
	resType, result, ok := fn(op, v.Payload, script.Payload{})
	if !ok {
		return errType(fmt.Sprintf("unary operator %s rejected operand of type %s", op, m.Types.Info(v.Type).Name), 0)
	}
	m.Stack.Push(script.Cell{Type: resType, Payload: result})
	return nil
}

func (m *Machine) popArgs(n int) []script.Cell {
	args := make([]script.Cell, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = m.Stack.Pop()
	}
	return args
}

func (m *Machine) doCall(frame *frameCtx, in bytecode.Instr) ([]*script.Error, error) {
	args := m.popArgs(int(in.B))
	fn, owner, ok := frame.ns.LookupFunction(in.Hash)
	if !ok {
		return nil, script.ErrUnresolvedFunc
	}
	res, err := m.Call(fn, owner, frame.objID, args)
	if err != nil {
		return nil, err
	}
	m.Stack.Push(res.Value)
	return res.Warnings, nil
}

// doCallMethod dispatches a method call against the object on the stack.
// A nil or destroyed object id is recoverable (spec §4.6: "return-slot
// remains default"): rather than aborting the call, it pushes a TypeVoid
// zero cell — the method's real return type is unknowable here since
// resolving it requires the very namespace a nil id has none of — and
// records a warning, the same shape doBinary uses for divide-by-zero.
func (m *Machine) doCallMethod(in bytecode.Instr) ([]*script.Error, error) {
	args := m.popArgs(int(in.B))
	objCell := m.Stack.Pop()
	id := script.GetObjectID(objCell.Payload)
	obj, ok := m.Objects.Lookup(id)
	if !ok {
		m.Stack.Push(script.ZeroCell(script.TypeVoid))
		return []*script.Error{script.Wrap(script.ErrRuntime, "method call on nil or destroyed object", script.Location{}, script.ErrNilObject)}, nil
	}
	fn, owner, ok := obj.Namespace.LookupFunction(in.Hash)
	if !ok {
		return nil, script.ErrUnresolvedFunc
	}
	res, err := m.Call(fn, owner, id, args)
	if err != nil {
		return nil, err
	}
	m.Stack.Push(res.Value)
	return res.Warnings, nil
}

func (m *Machine) doCallTypeMethod(in bytecode.Instr) ([]*script.Error, error) {
	args := m.popArgs(int(in.B))
	receiver := m.Stack.Pop()
	ns, ok := m.Namespaces.Find(namespace.TypeNamespaceKey(receiver.Type))
	if !ok {
		return nil, script.ErrUnresolvedFunc
	}
	fn, owner, ok := ns.LookupFunction(in.Hash)
	if !ok {
		return nil, script.ErrUnresolvedFunc
	}
	callArgs := append([]script.Cell{receiver}, args...)
	res, err := m.Call(fn, owner, script.NilObjectID, callArgs)
	if err != nil {
		return nil, err
	}
	m.Stack.Push(res.Value)
	return res.Warnings, nil
}
