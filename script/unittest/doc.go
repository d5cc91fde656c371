// Package unittest is a small self-test harness for scripts run against a
// Context: each case runs a compiled command block and compares one global
// variable's rendered string form against an expected value.
//
// Grounded on the original's unittest.cpp, which builds its case table as
// (name, script source, expected global) triples and reports a pass/fail
// summary; the GUI and log-file reporting that original also did are out
// of scope here (spec's REDESIGN FLAGS exclude the harness-as-a-product),
// but the table-driven case runner itself is required scaffolding for the
// end-to-end scenarios this module's own tests exercise.
package unittest
