// Package namespace implements the namespace tree: the hierarchical
// container of functions and global variables that scripted code resolves
// names against, plus single-inheritance method lookup for object types.
//
// Grounded on hivekit's namespace-key tree (pkg/types cell graph) for the
// tree-of-named-nodes shape, and on hive/tx's copy-on-write link update for
// the cycle check performed before accepting a parent link.
package namespace
