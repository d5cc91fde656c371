// Package context implements Context: the single-threaded, host-facing
// entry point that binds one string table, type registry, namespace
// registry, object registry, execution stack, VM, and scheduler together
// and exposes the Exec*/Tick/Halt surface a host embeds against.
//
// Grounded on hive/tx's transaction-manager shape (one struct owning every
// collaborator, asserting thread affinity before each operation, and
// reporting the first error of a batch rather than aggregating) and on
// internal/threadbind for the creating-thread assertion itself.
package context
