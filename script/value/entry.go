package value

import "github.com/tinscript-go/tinscript/pkg/script"

// Storage says where an Entry's bytes are held at runtime.
type Storage uint8

const (
	// StorageStack holds its value in a stack.Cell slot local to the
	// current frame (function locals, parameters, the reserved return slot).
	StorageStack Storage = iota
	// StorageGlobal holds its value in a namespace's global table, shared
	// across every invocation.
	StorageGlobal
	// StorageMember holds its value inside an object's member block,
	// addressed by a fixed slot index assigned at object creation.
	StorageMember
	// StoragePOD is not backed by a Cell or member block at all: it is a
	// byte range inside a POD value's own 16-byte payload (e.g. vector3f.x).
	StoragePOD
)

func (s Storage) String() string {
	switch s {
	case StorageStack:
		return "stack"
	case StorageGlobal:
		return "global"
	case StorageMember:
		return "member"
	case StoragePOD:
		return "pod"
	default:
		return "storage(?)"
	}
}

// Flags are boolean traits that don't belong in Storage or VarType.
type Flags uint8

const (
	// FlagArray marks the entry as a fixed-length array rather than a
	// scalar; Length gives the element count.
	FlagArray Flags = 1 << iota
	// FlagParam marks a function-scoped entry as a declared parameter
	// rather than a local the scripted body introduced itself.
	FlagParam
	// FlagReturnSlot marks slot 0 of a function's frame, which callers
	// read for the function's return value regardless of whether the
	// function wrote it.
	FlagReturnSlot
	// FlagHostOwned marks an entry whose storage is written by host code
	// outside of any Exec call (e.g. a bound C struct field); the VM must
	// not assume its value is stable across ticks.
	FlagHostOwned
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Entry describes one named, typed storage slot: a global, a local, a
// parameter, or an object member. It carries no value itself.
type Entry struct {
	Name    script.Hash
	Type    script.VarType
	Length  int // element count; 1 for scalars, >1 when Flags.Has(FlagArray)
	Storage Storage
	Flags   Flags
	// Slot is the index into whatever table Storage names: a stack offset
	// within the current frame, an index into a namespace's global slice,
	// or a member index within an object's storage block. StoragePOD
	// entries ignore Slot and use Offset instead.
	Slot int
	// Offset is the byte offset within a POD payload, valid only when
	// Storage == StoragePOD.
	Offset int
}

// IsArray reports whether the entry describes a fixed-length array.
func (e *Entry) IsArray() bool { return e.Flags.Has(FlagArray) }

// NewScalar builds a scalar Entry in the given storage class.
func NewScalar(name script.Hash, t script.VarType, st Storage, slot int) *Entry {
	return &Entry{Name: name, Type: t, Length: 1, Storage: st, Slot: slot}
}

// NewArray builds a fixed-length array Entry.
func NewArray(name script.Hash, t script.VarType, length int, st Storage, slot int) *Entry {
	return &Entry{Name: name, Type: t, Length: length, Storage: st, Slot: slot, Flags: FlagArray}
}

// NewPODMember builds an Entry addressing a byte range inside a POD payload.
func NewPODMember(name script.Hash, t script.VarType, offset int) *Entry {
	return &Entry{Name: name, Type: t, Length: 1, Storage: StoragePOD, Offset: offset}
}
