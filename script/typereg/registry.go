package typereg

import (
	"sync"

	"github.com/tinscript-go/tinscript/pkg/script"
)

// Payload is the fixed-width cell contents a value's bytes live in. It is
// an alias for script.Payload so conversion and op-override functions can
// operate directly on a stack.Cell's payload without copying through an
// adapter.
type Payload = script.Payload

// ConvertFunc converts src (of the registered source type) into dst,
// returning false if the value isn't representable in the destination type.
type ConvertFunc func(src Payload) (dst Payload, ok bool)

// OpFunc implements one operator for one VarType. It receives both
// operands pre-converted to the override's own type by the caller (the
// vector3f Mul/Div override is the exception: its right operand is a
// float32 scalar, see vector3f.ScaleOp) and returns the result type and
// bytes, or ok=false, which the VM reports as a type error.
type OpFunc func(op script.Op, left Payload, right Payload) (resultType script.VarType, result Payload, ok bool)

// PODMember describes one member of a fixed-layout POD value: its type and
// byte offset within the 16-byte payload.
type PODMember struct {
	Type   script.VarType
	Offset int
}

// TypeInfo is everything the registry knows about one VarType.
type TypeInfo struct {
	Name       string
	Size       int
	ToString   func(Payload) string
	FromString func(string) (Payload, bool)
	Convert    map[script.VarType]ConvertFunc
	OpOverride map[script.Op]OpFunc
	PODMembers map[script.Hash]PODMember
}

// Registry holds one TypeInfo per VarType. It is populated once at
// context setup (built-ins plus any host-registered POD/escape types) and
// read concurrently afterward, so a single RWMutex is sufficient.
type Registry struct {
	mu    sync.RWMutex
	types map[script.VarType]*TypeInfo
}

// New creates an empty registry and registers the built-in numeric,
// string, bool, object-id, and hashtable types.
func New() *Registry {
	r := &Registry{types: make(map[script.VarType]*TypeInfo)}
	registerBuiltins(r)
	return r
}

// RegisterType installs or replaces the TypeInfo for t. Used both for
// built-ins at construction and for host-registered POD/escape types.
func (r *Registry) RegisterType(t script.VarType, info *TypeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info.Convert == nil {
		info.Convert = make(map[script.VarType]ConvertFunc)
	}
	if info.OpOverride == nil {
		info.OpOverride = make(map[script.Op]OpFunc)
	}
	if info.PODMembers == nil {
		info.PODMembers = make(map[script.Hash]PODMember)
	}
	r.types[t] = info
}

// Info returns the TypeInfo for t, or nil if t is unregistered.
func (r *Registry) Info(t script.VarType) *TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[t]
}

// RegisterConvert registers a conversion from "from" to "to". Mirrors the
// host embedding surface's "register a POD type" conversion table (spec §6).
func (r *Registry) RegisterConvert(from, to script.VarType, fn ConvertFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info := r.types[to]
	if info == nil {
		info = &TypeInfo{}
		r.types[to] = info
	}
	if info.Convert == nil {
		info.Convert = make(map[script.VarType]ConvertFunc)
	}
	info.Convert[from] = fn
}

// Convert converts src (typed srcType) into dstType, or returns ok=false
// if no path is registered. Identity conversions (srcType == dstType)
// always succeed without consulting the table.
func (r *Registry) Convert(srcType, dstType script.VarType, src Payload) (Payload, bool) {
	if srcType == dstType {
		return src, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	info := r.types[dstType]
	if info == nil {
		return Payload{}, false
	}
	fn, ok := info.Convert[srcType]
	if !ok {
		return Payload{}, false
	}
	return fn(src)
}

// RegisterOpOverride installs the operator override fn for VarType t. The
// VM has no fallback: an operator with no override for the operand type is
// reported as a type error.
func (r *Registry) RegisterOpOverride(op script.Op, t script.VarType, fn OpFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info := r.types[t]
	if info == nil {
		info = &TypeInfo{}
		r.types[t] = info
	}
	if info.OpOverride == nil {
		info.OpOverride = make(map[script.Op]OpFunc)
	}
	info.OpOverride[op] = fn
}

// OpOverride looks up the registered override for (op, t), if any.
func (r *Registry) OpOverride(op script.Op, t script.VarType) (OpFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info := r.types[t]
	if info == nil {
		return nil, false
	}
	fn, ok := info.OpOverride[op]
	return fn, ok
}

// RegisterPODType installs the member table for a fixed-layout value type
// such as vector3f (spec §4.2: "the vector3f type registers {x,y,z} as
// float members at offsets 0,4,8").
func (r *Registry) RegisterPODType(t script.VarType, members map[script.Hash]PODMember) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info := r.types[t]
	if info == nil {
		info = &TypeInfo{}
		r.types[t] = info
	}
	info.PODMembers = members
}

// PODMember returns the member descriptor for (t, name), if registered.
func (r *Registry) PODMember(t script.VarType, name script.Hash) (PODMember, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info := r.types[t]
	if info == nil {
		return PODMember{}, false
	}
	m, ok := info.PODMembers[name]
	return m, ok
}

// ToString renders the payload of type t as a string using its registered
// ToString function, or "" if t has none.
func (r *Registry) ToString(t script.VarType, p Payload) string {
	info := r.Info(t)
	if info == nil || info.ToString == nil {
		return ""
	}
	return info.ToString(p)
}

// FromString parses s into the payload representation of t, or ok=false.
func (r *Registry) FromString(t script.VarType, s string) (Payload, bool) {
	info := r.Info(t)
	if info == nil || info.FromString == nil {
		return Payload{}, false
	}
	return info.FromString(s)
}
