// Package object implements the object registry: a 32-bit handle table
// mapping ObjectIDs to live objects, each tagged with the namespace that
// supplies its method lookup and a discriminator for whether the host or
// the script runtime owns its lifetime.
//
// Grounded on hivekit's object-id allocation style in pkg/types (monotonic,
// never-reused handles) and on hive/tx's group/membership bookkeeping
// pattern, repurposed here for the spec's object-group broadcast feature.
package object
