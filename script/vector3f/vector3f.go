package vector3f

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tinscript-go/tinscript/pkg/script"
)

// Vector3f is the plain Go value backing script.TypeVector3f. Scripts
// never see this struct directly; it exists so the registration and type
// method code below has something typed to compute with before packing
// the result back into a script.Payload.
type Vector3f struct {
	X, Y, Z float32
}

// Zero is the additive identity, used by Normalized on a
// zero-length vector to avoid dividing by zero.
var Zero = Vector3f{}

func (v Vector3f) Add(o Vector3f) Vector3f { return Vector3f{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3f) Sub(o Vector3f) Vector3f { return Vector3f{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3f) Scale(s float32) Vector3f { return Vector3f{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3f) DivScalar(s float32) Vector3f { return Vector3f{v.X / s, v.Y / s, v.Z / s} }
func (v Vector3f) Dot(o Vector3f) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}
func (v Vector3f) Cross(o Vector3f) Vector3f {
	return Vector3f{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}
func (v Vector3f) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalized returns v scaled to unit length, or Zero if v has zero length.
func (v Vector3f) Normalized() Vector3f {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return v.Scale(1 / l)
}

func (v Vector3f) String() string {
	return fmt.Sprintf("%.4f %.4f %.4f", v.X, v.Y, v.Z)
}

// ToPayload packs v into the 12 bytes a script.Cell of TypeVector3f uses
// (offsets 0/4/8, matching the original's per-member byte layout).
func ToPayload(v Vector3f) script.Payload {
	var p script.Payload
	script.PutFloat32At(&p, 0, v.X)
	script.PutFloat32At(&p, 4, v.Y)
	script.PutFloat32At(&p, 8, v.Z)
	return p
}

// FromPayload unpacks a TypeVector3f cell's payload into a Vector3f.
func FromPayload(p script.Payload) Vector3f {
	return Vector3f{
		X: script.GetFloat32At(p, 0),
		Y: script.GetFloat32At(p, 4),
		Z: script.GetFloat32At(p, 8),
	}
}

// ParseString accepts "x y z" or "x, y, z", matching StringToVector3f's
// two accepted formats in the original.
func ParseString(s string) (Vector3f, bool) {
	if s == "" {
		return Zero, true
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 3 {
		return Vector3f{}, false
	}
	var out [3]float32
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return Vector3f{}, false
		}
		out[i] = float32(v)
	}
	return Vector3f{out[0], out[1], out[2]}, true
}
