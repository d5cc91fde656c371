// Command tin is the reference host for the TinScript runtime core: a
// thin Cobra CLI over script/context.Context with no lexer/parser/
// compiler of its own (that stage is out of scope for this module; tin
// consumes .tsbc files produced by internal/bytecode.WriteBlock).
package main

func main() {
	execute()
}
