// Package console implements the interactive REPL behind `tin repl`: a
// small Bubble Tea program that lets a host operator drive a
// script/context.Context by hand — calling registered functions,
// inspecting and setting globals, and watching the VM stop at a
// breakpoint.
//
// There is no lexer/parser/compiler in this module (spec §1), so the
// console's command language never accepts script source; it only
// drives the Context through its existing Go surface (ExecFunction,
// GetGlobal/SetGlobal) plus breakpoint bookkeeping against vm.Hooks.
//
// Grounded on cmd/hiveexplorer's Model/Update/View split and its
// bubbletea-overlay-based modal rendering, scaled down to a single
// viewport transcript and a command line instead of a multi-pane tree
// browser.
package console
