// Package vm implements the bytecode interpreter: an iterative dispatch
// loop over one internal/bytecode.Block at a time, driving script/stack
// for locals and calls, script/typereg for arithmetic and conversions,
// script/namespace for name resolution, and script/object for member and
// object-op instructions.
//
// The dispatch loop is bitmap-free by construction (a bytecode stream has
// no graph to cycle-detect, unlike hive/walker's NK-tree traversal it's
// modeled on), but it borrows that file's shape: within one function body
// an explicit work item (here, the instruction pointer) is driven by a for
// loop. A script-level call is not flattened into that loop: doCall enters
// Machine.Call, which runs the callee's body in a nested run, so Go call
// depth grows with script call depth (bounded by stack.MaxDepth frames).
//
// Comparison opcodes push whatever the left operand type's op override
// returns. For vector3f, OpCompareEqual yields int32 0 when the vectors are
// equal and 1 when they differ (see script/vector3f); OpBranchIfFalse tests
// that int32 as-is, so equal vectors take the false branch.
package vm
