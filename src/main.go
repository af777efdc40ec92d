package main

import (
	"fmt"
	"os"
	"whilec/src/ir"
	"whilec/src/ir/llvm"
	"whilec/src/util"
)

func main() {
	// Parse command line arguments.
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}
	if opt.Run && len(opt.Result) == 0 {
		opt.Result = demoResult
	}

	// Build syntax tree.
	root, err := demoProgram()
	if err != nil {
		fmt.Printf("Syntax tree error: %s\n", err)
		os.Exit(1)
	}
	if opt.Verbose {
		root.Print(opt.Writer(), 0)
	}

	if err := compile(opt, root); err != nil {
		fmt.Printf("Code generation error: %s\n", err)
		os.Exit(1)
	}
}

// compile generates the module for root and then persists and/or runs it as requested by opt.
func compile(opt util.Options, root *ir.Block) error {
	m, err := llvm.CreateModule(opt, root)
	if err != nil {
		return err
	}
	defer m.Dispose()
	if opt.Verbose {
		fmt.Printf("%d variables, string literals %q\n", m.Variables(), m.Literals())
	}

	if opt.Persist {
		out, err := m.Persist(opt.Binary)
		if err != nil {
			return err
		}
		if opt.Verbose {
			fmt.Printf("wrote %s\n", out)
		}
	}
	if opt.Run {
		res, err := m.Run()
		if err != nil {
			return err
		}
		fmt.Printf("%s = %d\n", opt.Result, res)
	}
	return nil
}
