// Package vector3f implements the built-in vector3f POD type: its x/y/z
// member layout, its Add/Sub/Mult/Div operator overrides, and its
// non-hierarchical type methods (length, normalize, dot, cross, ...)
// dispatched through a synthetic namespace the way every other type
// method is.
//
// Grounded directly on TinTypeVector3f.cpp from original_source/: the
// member offsets (x@0, y@4, z@8), the vector-vector Add/Sub vs.
// vector-scalar Mult/Div split, and — preserved deliberately, not
// "fixed" — the inverted equality result (OP_CompareEqual returns 0 when
// equal, 1 when not equal; see the original's `(*v0 == *v1) ? 0 : 1`).
package vector3f
