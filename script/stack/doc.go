// Package stack implements the VM's execution stack: a flat slice of
// script.Cell values plus a stack of call frames marking each active
// function invocation's locals window.
//
// Grounded on hive/tx's transaction-frame bookkeeping (push a frame,
// operate within it, pop releases everything the frame owns) and on
// hive/namecache's refcounted-string lifecycle, mirrored here for string
// cells: popping a frame must drop a ref on every interned string it held,
// or the string table leaks.
package stack
