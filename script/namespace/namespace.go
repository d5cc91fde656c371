package namespace

import (
	"fmt"
	"sync"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/value"
)

// Namespace is one node of the name-resolution tree: a bag of functions
// and global variables, optionally single-inherited from a parent so that
// an object type's method lookup walks up a base-class chain.
type Namespace struct {
	Name   script.Hash
	parent *Namespace

	mu        sync.RWMutex
	children  map[script.Hash]*Namespace
	functions map[script.Hash]*Function
	globals   map[script.Hash]*value.Entry
	globalVal []script.Cell
	members   map[script.Hash]*value.Entry
	ownMember int
}

func newNamespace(name script.Hash, parent *Namespace) *Namespace {
	return &Namespace{
		Name:      name,
		parent:    parent,
		children:  make(map[script.Hash]*Namespace),
		functions: make(map[script.Hash]*Function),
		members:   make(map[script.Hash]*value.Entry),
		globals:   make(map[script.Hash]*value.Entry),
	}
}

// Parent returns the namespace's single base, or nil for a root namespace.
func (n *Namespace) Parent() *Namespace {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

// Link reparents n under base, rejecting the link if it would introduce a
// cycle (base is n itself, or base already descends from n).
func (n *Namespace) Link(base *Namespace) error {
	if base == nil {
		n.mu.Lock()
		n.parent = nil
		n.mu.Unlock()
		return nil
	}
	for cur := base; cur != nil; cur = cur.Parent() {
		if cur == n {
			return script.NewError(script.ErrLink, fmt.Sprintf("link would create a cycle through namespace %08x", n.Name), script.Location{})
		}
	}
	n.mu.Lock()
	n.parent = base
	n.mu.Unlock()
	return nil
}

// DefineFunction installs fn under its own name, overwriting any existing
// entry of the same name in this namespace (not its ancestors).
func (n *Namespace) DefineFunction(fn *Function) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.functions[fn.Name] = fn
}

// LookupFunction resolves name starting at n and walking up the parent
// chain, implementing single-inheritance method override: a derived
// namespace's own definition always wins over an inherited one.
func (n *Namespace) LookupFunction(name script.Hash) (*Function, *Namespace, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		cur.mu.RLock()
		fn, ok := cur.functions[name]
		cur.mu.RUnlock()
		if ok {
			return fn, cur, true
		}
	}
	return nil, nil, false
}

// DefineGlobal installs a global variable entry and reserves its storage
// slot, returning the assigned Entry.
func (n *Namespace) DefineGlobal(name script.Hash, t script.VarType) *value.Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := n.globals[name]; ok {
		return e
	}
	slot := len(n.globalVal)
	n.globalVal = append(n.globalVal, script.ZeroCell(t))
	e := value.NewScalar(name, t, value.StorageGlobal, slot)
	n.globals[name] = e
	return e
}

// DefineGlobalArray installs a fixed-length array global, reserving
// length contiguous storage slots.
func (n *Namespace) DefineGlobalArray(name script.Hash, t script.VarType, length int) *value.Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := n.globals[name]; ok {
		return e
	}
	slot := len(n.globalVal)
	for i := 0; i < length; i++ {
		n.globalVal = append(n.globalVal, script.ZeroCell(t))
	}
	e := value.NewArray(name, t, length, value.StorageGlobal, slot)
	n.globals[name] = e
	return e
}

// LookupGlobal resolves a global variable's Entry, walking the parent chain.
func (n *Namespace) LookupGlobal(name script.Hash) (*value.Entry, *Namespace, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		cur.mu.RLock()
		e, ok := cur.globals[name]
		cur.mu.RUnlock()
		if ok {
			return e, cur, true
		}
	}
	return nil, nil, false
}

// GlobalCell reads the current value of a global previously returned by
// DefineGlobal/LookupGlobal. slot must belong to this exact namespace.
func (n *Namespace) GlobalCell(slot int) script.Cell {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.globalVal[slot]
}

// SetGlobalCell writes a global's value by slot.
func (n *Namespace) SetGlobalCell(slot int, c script.Cell) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.globalVal[slot] = c
}

// TotalMemberCount is the object layout size for this namespace: every
// ancestor's members plus this namespace's own. Callers must finish
// linking a namespace's base before defining its members, or slot
// numbering will shift underneath already-created objects.
func (n *Namespace) TotalMemberCount() int {
	parent := n.Parent()
	n.mu.RLock()
	own := n.ownMember
	n.mu.RUnlock()
	if parent != nil {
		return parent.TotalMemberCount() + own
	}
	return own
}

// DefineMember reserves a member slot for t on this namespace, placed
// after every slot its base class chain already claims.
func (n *Namespace) DefineMember(name script.Hash, t script.VarType) *value.Entry {
	parent := n.Parent()
	base := 0
	if parent != nil {
		base = parent.TotalMemberCount()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := n.members[name]; ok {
		return e
	}
	slot := base + n.ownMember
	n.ownMember++
	e := value.NewScalar(name, t, value.StorageMember, slot)
	n.members[name] = e
	return e
}

// DefineMemberArray reserves length contiguous member slots for t.
func (n *Namespace) DefineMemberArray(name script.Hash, t script.VarType, length int) *value.Entry {
	parent := n.Parent()
	base := 0
	if parent != nil {
		base = parent.TotalMemberCount()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := n.members[name]; ok {
		return e
	}
	slot := base + n.ownMember
	n.ownMember += length
	e := value.NewArray(name, t, length, value.StorageMember, slot)
	n.members[name] = e
	return e
}

// LookupMember resolves a member's Entry (with an absolute object-layout
// slot) by walking the parent chain.
func (n *Namespace) LookupMember(name script.Hash) (*value.Entry, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		cur.mu.RLock()
		e, ok := cur.members[name]
		cur.mu.RUnlock()
		if ok {
			return e, true
		}
	}
	return nil, false
}

// TypeNamespaceKey names the synthetic namespace that holds a VarType's
// non-hierarchical type methods (e.g. vector3f.length()), dispatched by
// OpCallTypeMethod rather than through object method lookup.
func TypeNamespaceKey(t script.VarType) script.Hash {
	return script.HashString("@type:" + t.String())
}

// Child returns the named child namespace, creating it if absent.
func (n *Namespace) Child(name script.Hash) *Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()
	if c, ok := n.children[name]; ok {
		return c
	}
	c := newNamespace(name, nil)
	n.children[name] = c
	return c
}

// Registry owns the tree's root and every namespace created under it,
// indexed by full path hash for O(1) re-lookup by name.
type Registry struct {
	mu    sync.RWMutex
	root  *Namespace
	byKey map[script.Hash]*Namespace
}

// New creates a Registry with an empty, anonymous root namespace.
func New() *Registry {
	root := newNamespace(script.NoHash, nil)
	return &Registry{root: root, byKey: map[script.Hash]*Namespace{script.NoHash: root}}
}

// Root returns the registry's top-level namespace.
func (r *Registry) Root() *Namespace { return r.root }

// FindOrCreate resolves or creates the namespace at key, parented under
// the root if it doesn't already exist. Object-type namespaces and
// user-declared `namespace Foo { ... }` blocks both go through this path.
func (r *Registry) FindOrCreate(key script.Hash) *Namespace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.byKey[key]; ok {
		return n
	}
	n := newNamespace(key, r.root)
	r.byKey[key] = n
	return n
}

// Find returns the namespace at key without creating it.
func (r *Registry) Find(key script.Hash) (*Namespace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byKey[key]
	return n, ok
}
