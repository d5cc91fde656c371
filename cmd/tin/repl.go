package main

import (
	"github.com/spf13/cobra"

	"github.com/tinscript-go/tinscript/script/console"
	"github.com/tinscript-go/tinscript/script/context"
)

func init() {
	rootCmd.AddCommand(newReplCmd())
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive console against a fresh Context",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}

func runRepl() error {
	worker := context.StartWorker()
	defer worker.Close()
	debugger := console.NewDebugger()
	worker.Context().SetHooks(debugger.Hooks())
	return console.Run(worker, debugger)
}
