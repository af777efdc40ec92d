package llvm

import (
	"fmt"
	"os"
	"sync"
)

import (
	"tinygo.org/x/go-llvm"
)

// ---------------------
// ----- Constants -----
// ---------------------

// File extensions of persisted modules.
const (
	extBitcode = ".bc"
	extText    = ".ll"
)

const defaultOut = "out"

// -------------------
// ----- globals -----
// -------------------

// jitInit initialises the native target for the JIT once per process.
var jitInit struct {
	once sync.Once
	err  error
}

// ---------------------
// ----- functions -----
// ---------------------

// initJIT links in MCJIT and initialises the native target and assembly printer.
func initJIT() error {
	jitInit.once.Do(func() {
		llvm.LinkInMCJIT()
		if err := llvm.InitializeNativeTarget(); err != nil {
			jitInit.err = fmt.Errorf("could not initialise native target: %w", err)
			return
		}
		if err := llvm.InitializeNativeAsmPrinter(); err != nil {
			jitInit.err = fmt.Errorf("could not initialise native assembly printer: %w", err)
		}
	})
	return jitInit.err
}

// Run executes the entry routine with the LLVM JIT and returns its result. A void entry routine yields 0. The
// execution engine takes ownership of the module, which stays usable until Dispose.
func (m *Module) Run() (int, error) {
	if m.closed {
		return 0, ErrDisposed
	}
	if !m.jit {
		if err := initJIT(); err != nil {
			return 0, err
		}
		ee, err := llvm.NewMCJITCompiler(m.m, llvm.NewMCJITCompilerOptions())
		if err != nil {
			return 0, fmt.Errorf("could not create execution engine: %w", err)
		}
		m.ee = ee
		m.jit = true
	}

	res := m.ee.RunFunction(m.fun, []llvm.GenericValue{})
	defer res.Dispose()
	if !m.result {
		return 0, nil
	}
	return int(int32(res.Int(true))), nil
}

// Persist writes the module to the output path of its options, as bitcode if binary is true and as textual IR
// otherwise. The path of the written file is returned.
func (m *Module) Persist(binary bool) (string, error) {
	if m.closed {
		return "", ErrDisposed
	}
	out := m.opt.Out
	if len(out) == 0 {
		out = defaultOut
	}

	if !binary {
		out += extText
		if err := os.WriteFile(out, []byte(m.m.String()), 0644); err != nil {
			return "", err
		}
		return out, nil
	}

	// Write to file sequentially.
	out += extBitcode
	fd, err := os.OpenFile(out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	if err := llvm.WriteBitcodeToFile(m.m, fd); err != nil {
		_ = fd.Close()
		return "", fmt.Errorf("could not write bitcode: %w", err)
	}
	if err := fd.Close(); err != nil {
		return "", err
	}
	return out, nil
}
