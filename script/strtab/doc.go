// Package strtab interns every identifier, literal, and name the runtime
// sees, returning the stable Hash used as the identity of namespaces,
// functions, variables, and objects.
//
// Layout is a fixed number of independent shards, each a plain Go map
// guarded by its own mutex — the same sharded-map shape
// hive/namecache uses to cut contention on concurrent decode. A Context's
// Table is only ever touched from its bound thread (spec §5), so the
// mutexes here are a defensive habit carried over from the teacher rather
// than a load-bearing requirement; what they buy is safe read access from
// a REPL or debugger goroutine inspecting a running context.
package strtab
