package script

import (
	"encoding/binary"
	"math"
)

// Payload is the 16-byte fixed-width cell contents every typed value moves
// through: the execution stack's cell, the type registry's conversion and
// op-override functions, and a POD type's member storage all share this
// one representation, so a vector3f never needs indirection.
type Payload = [16]byte

func PutInt32(p *Payload, v int32) {
	binary.LittleEndian.PutUint32(p[0:4], uint32(v))
}

func GetInt32(p Payload) int32 {
	return int32(binary.LittleEndian.Uint32(p[0:4]))
}

func PutFloat32(p *Payload, v float32) {
	binary.LittleEndian.PutUint32(p[0:4], math.Float32bits(v))
}

func GetFloat32(p Payload) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p[0:4]))
}

func PutBool(p *Payload, v bool) {
	if v {
		p[0] = 1
	} else {
		p[0] = 0
	}
}

func GetBool(p Payload) bool {
	return p[0] != 0
}

func PutHash(p *Payload, h Hash) {
	binary.LittleEndian.PutUint32(p[0:4], uint32(h))
}

func GetHash(p Payload) Hash {
	return Hash(binary.LittleEndian.Uint32(p[0:4]))
}

func PutObjectID(p *Payload, id ObjectID) {
	binary.LittleEndian.PutUint32(p[0:4], uint32(id))
}

func GetObjectID(p Payload) ObjectID {
	return ObjectID(binary.LittleEndian.Uint32(p[0:4]))
}

// PutFloat32At / GetFloat32At address one of the three float32 slots a
// vector3f occupies, at byte offset off (0, 4, or 8).
func PutFloat32At(p *Payload, off int, v float32) {
	binary.LittleEndian.PutUint32(p[off:off+4], math.Float32bits(v))
}

func GetFloat32At(p Payload, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p[off : off+4]))
}
