package object

import (
	"sync"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
)

// Owner discriminates who controls an object's lifetime.
type Owner uint8

const (
	// OwnerScript means the object was created by scripted `create`
	// and is destroyed by scripted `destroy` or DestroyAllScripted.
	OwnerScript Owner = iota
	// OwnerHost means a host Go value was registered via RegisterHost and
	// is destroyed only when the host calls Destroy explicitly;
	// DestroyAllScripted never destroys it.
	OwnerHost
)

// Object is one live entry in the registry: its namespace (supplying
// method lookup and member layout), its member storage, and an optional
// opaque host payload for OwnerHost objects.
type Object struct {
	ID        script.ObjectID
	Namespace *namespace.Namespace
	Owner     Owner
	Members   []script.Cell
	HostData  any

	mu     sync.RWMutex
	groups map[script.Hash]struct{}
}

// Member reads member slot i.
func (o *Object) Member(i int) script.Cell {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.Members[i]
}

// SetMember writes member slot i.
func (o *Object) SetMember(i int, c script.Cell) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Members[i] = c
}

// Registry is the ObjectID handle table; each Context owns one. IDs are monotonic
// and never reused, so a stale ID from a destroyed object reliably misses
// rather than aliasing a newer object (spec §4.4's "use-after-destroy must
// be detectable").
type Registry struct {
	mu      sync.RWMutex
	nextID  script.ObjectID
	objects map[script.ObjectID]*Object
	groups  map[script.Hash]map[script.ObjectID]struct{}
}

// New creates an empty object registry. IDs start at 1; 0 is NilObjectID.
func New() *Registry {
	return &Registry{
		nextID:  1,
		objects: make(map[script.ObjectID]*Object),
		groups:  make(map[script.Hash]map[script.ObjectID]struct{}),
	}
}

// CreateScripted allocates a new scripted object under ns with memberCount
// zero-valued member slots.
func (r *Registry) CreateScripted(ns *namespace.Namespace, memberCount int) *Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	obj := &Object{
		ID:        id,
		Namespace: ns,
		Owner:     OwnerScript,
		Members:   make([]script.Cell, memberCount),
		groups:    make(map[script.Hash]struct{}),
	}
	r.objects[id] = obj
	return obj
}

// RegisterHost wraps an existing host value as a script-visible object,
// under OwnerHost so DestroyAllScripted never destroys it.
func (r *Registry) RegisterHost(ns *namespace.Namespace, hostData any) *Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	obj := &Object{
		ID:        id,
		Namespace: ns,
		Owner:     OwnerHost,
		HostData:  hostData,
		groups:    make(map[script.Hash]struct{}),
	}
	r.objects[id] = obj
	return obj
}

// Lookup returns the live object for id, or ok=false if id is nil, was
// never allocated, or has since been destroyed.
func (r *Registry) Lookup(id script.ObjectID) (*Object, bool) {
	if id == script.NilObjectID {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.objects[id]
	return o, ok
}

// Destroy removes id from the registry and from every group it belonged
// to. Destroying an already-gone or nil id is a no-op, matching the
// "destroy is idempotent" edge case.
func (r *Registry) Destroy(id script.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.objects[id]
	if !ok {
		return
	}
	obj.mu.RLock()
	for g := range obj.groups {
		delete(r.groups[g], id)
	}
	obj.mu.RUnlock()
	delete(r.objects, id)
}

// DestroyAllScripted removes every OwnerScript object, leaving OwnerHost
// objects untouched. Context has no teardown step that calls it.
func (r *Registry) DestroyAllScripted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, obj := range r.objects {
		if obj.Owner == OwnerScript {
			for g := range obj.groups {
				delete(r.groups[g], id)
			}
			delete(r.objects, id)
		}
	}
}

// AddToGroup adds id to the named group, creating the group if absent.
func (r *Registry) AddToGroup(id script.ObjectID, group script.Hash) {
	r.mu.Lock()
	obj, ok := r.objects[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	if r.groups[group] == nil {
		r.groups[group] = make(map[script.ObjectID]struct{})
	}
	r.groups[group][id] = struct{}{}
	r.mu.Unlock()

	obj.mu.Lock()
	obj.groups[group] = struct{}{}
	obj.mu.Unlock()
}

// RemoveFromGroup removes id from the named group, if present.
func (r *Registry) RemoveFromGroup(id script.ObjectID, group script.Hash) {
	r.mu.Lock()
	if members, ok := r.groups[group]; ok {
		delete(members, id)
	}
	obj, ok := r.objects[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	obj.mu.Lock()
	delete(obj.groups, group)
	obj.mu.Unlock()
}

// GroupMembers returns a snapshot of the object ids currently in group.
func (r *Registry) GroupMembers(group script.Hash) []script.ObjectID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.groups[group]
	out := make([]script.ObjectID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}
