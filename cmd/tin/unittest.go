package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
	"github.com/tinscript-go/tinscript/script/unittest"
)

var (
	unitTestResultsOnly bool
	unitTestOnly        string
)

func init() {
	cmd := newUnitTestCmd()
	cmd.Flags().BoolVar(&unitTestResultsOnly, "results-only", false, "print only pass/fail lines, no per-case detail")
	cmd.Flags().StringVar(&unitTestOnly, "test", "", "run only the named case")
	rootCmd.AddCommand(cmd)
}

// manifestCase is one entry in a unit-test manifest: a compiled block
// file, the global it's expected to leave set, and the expected rendered
// value. Grounded on unittest.cpp's AddUnitTest(name, source, expected)
// table shape, with "source" replaced by a path to a pre-assembled
// bytecode file since this module has no compiler of its own.
type manifestCase struct {
	Name           string `json:"name"`
	BlockFile      string `json:"block_file"`
	ExpectedGlobal string `json:"expected_global"`
	Want           string `json:"want"`
}

func newUnitTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unit-test <manifest.json>",
		Short: "Run a table of compiled-block test cases against a fresh Context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnitTest(args[0])
		},
	}
}

func runUnitTest(manifestPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var cases []manifestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	dir := filepath.Dir(manifestPath)
	ctx := context.New()
	var suite unittest.Suite

	for _, c := range cases {
		if unitTestOnly != "" && c.Name != unitTestOnly {
			continue
		}
		block, err := loadBlock(filepath.Join(dir, c.BlockFile))
		if err != nil {
			return fmt.Errorf("case %s: %w", c.Name, err)
		}
		suite.Add(c.Name, block, script.HashString(c.ExpectedGlobal), c.Want)
	}

	report := suite.Run(ctx)
	for _, res := range report.Results {
		if unitTestResultsOnly {
			if res.Pass {
				fmt.Printf("PASS %s\n", res.Name)
			} else {
				fmt.Printf("FAIL %s\n", res.Name)
			}
			continue
		}
		if res.Pass {
			fmt.Printf("PASS %s\n", res.Name)
		} else if res.Err != nil {
			fmt.Printf("FAIL %s: %v\n", res.Name, res.Err)
		} else {
			fmt.Printf("FAIL %s: got %q want %q\n", res.Name, res.Got, res.Want)
		}
	}

	passed := len(report.Results) - len(report.FailedNames())
	fmt.Printf("%d/%d passed\n", passed, len(report.Results))
	if !report.Passed() {
		os.Exit(1)
	}
	return nil
}

func loadBlock(path string) (*bytecode.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	block, _, err := bytecode.ReadBlock(f)
	return block, err
}
