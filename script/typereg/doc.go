// Package typereg is the type registry: for each closed VarType it holds a
// human name, byte size, string conversion pair, a table of cross-type
// conversions, a per-operator override table, and an optional POD member
// table (vector3f registers x/y/z as float members at offsets 0/4/8).
//
// Values move through this package as a fixed 16-byte payload — the same
// width as a stack.Cell — so conversion and op-override functions never
// allocate on the hot path, mirroring hive/values' flat-array,
// zero-allocation decode style.
package typereg
