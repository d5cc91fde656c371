package unittest

import (
	"fmt"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
)

// Case is one table entry: running Block should leave ExpectedGlobal
// holding a value that renders as Want.
type Case struct {
	Name           string
	Block          *bytecode.Block
	ExpectedGlobal script.Hash
	Want           string
}

// Result is one case's outcome.
type Result struct {
	Name string
	Pass bool
	Got  string
	Want string
	Err  error
}

// Report is the outcome of running a full Suite.
type Report struct {
	Results []Result
}

// Passed reports whether every case in the report succeeded.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Pass {
			return false
		}
	}
	return true
}

// FailedNames returns the names of every failing case, preserving order.
func (r Report) FailedNames() []string {
	var names []string
	for _, res := range r.Results {
		if !res.Pass {
			names = append(names, res.Name)
		}
	}
	return names
}

// Suite is an ordered list of cases, run sequentially against one Context.
type Suite struct {
	cases []Case
}

// Add appends a case to the suite.
func (s *Suite) Add(name string, block *bytecode.Block, expectedGlobal script.Hash, want string) {
	s.cases = append(s.cases, Case{Name: name, Block: block, ExpectedGlobal: expectedGlobal, Want: want})
}

// Run executes every case against ctx in order, rendering each case's
// expected global through ctx's type registry (or the string table
// directly, for TypeString globals) and comparing against Want.
func (s *Suite) Run(ctx *context.Context) Report {
	var report Report
	for _, c := range s.cases {
		res := s.runOne(ctx, c)
		report.Results = append(report.Results, res)
	}
	return report
}

func (s *Suite) runOne(ctx *context.Context, c Case) Result {
	if _, err := ctx.ExecCommand(c.Block); err != nil {
		return Result{Name: c.Name, Pass: false, Want: c.Want, Err: err}
	}
	cell, ok := ctx.GetGlobal(c.ExpectedGlobal)
	if !ok {
		return Result{Name: c.Name, Pass: false, Want: c.Want, Err: fmt.Errorf("unittest: global %08x was never set", c.ExpectedGlobal)}
	}
	got := render(ctx, cell)
	return Result{Name: c.Name, Pass: got == c.Want, Got: got, Want: c.Want}
}

func render(ctx *context.Context, c script.Cell) string {
	if c.Type == script.TypeString {
		if str, ok := ctx.Strings.Lookup(script.GetHash(c.Payload)); ok {
			return str
		}
	}
	return ctx.Types.ToString(c.Type, c.Payload)
}
