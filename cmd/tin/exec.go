package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
	"github.com/tinscript-go/tinscript/script/vm"
)

var execFuncName string

func init() {
	cmd := newExecCmd()
	cmd.Flags().StringVar(&execFuncName, "func", "main", "top-level function to run; \"main\" runs the block itself as an anonymous command")
	rootCmd.AddCommand(cmd)
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <file.tsbc>",
		Short: "Run a compiled bytecode file against a fresh Context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(args[0])
		},
	}
}

func runExec(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	block, hdr, err := bytecode.ReadBlock(f)
	if err != nil {
		return fmt.Errorf("read bytecode: %w", err)
	}
	printVerbose("loaded %s: compiler version %d, source hash %08x\n", path, hdr.CompilerVersion, hdr.SourceHash)

	ctx := context.New()

	var res vm.Result
	if execFuncName == "main" {
		res, err = ctx.ExecScript(block)
	} else {
		res, err = ctx.ExecFunction(script.HashString(execFuncName), script.NilObjectID, nil)
	}
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	if res.Value.Type != script.TypeVoid {
		fmt.Println(ctx.Types.ToString(res.Value.Type, res.Value.Payload))
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return nil
}
