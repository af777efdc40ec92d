package llvm

import (
	"errors"
	"fmt"
)

import (
	"tinygo.org/x/go-llvm"
)

import (
	ast "whilec/src/ir"
	"whilec/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Module is a generated LLVM module holding the single entry routine of a program.
type Module struct {
	opt     util.Options
	ctx     llvm.Context
	m       llvm.Module
	fun     llvm.Value           // Entry routine.
	strings []string             // Interned string literals in order of first occurrence.
	vars    int                  // Number of declared variables.
	result  bool                 // Set true if the entry routine returns an i32.
	ee      llvm.ExecutionEngine // JIT engine, owns m once created.
	jit     bool                 // Set true once ee has been created.
	closed  bool                 // Set true once the module has been disposed.
}

// ---------------------
// ----- Constants -----
// ---------------------

// entryName is the name of the implicit entry routine.
const entryName = "main"

const defaultModuleName = "main"

var (
	ErrNoBlock    = errors.New("no top-level block supplied")
	ErrResultType = errors.New("result variable is not an integer")
	ErrDisposed   = errors.New("module has been disposed")
)

// ---------------------
// ----- functions -----
// ---------------------

// CreateModule generates LLVM IR for the top-level block root. The block is compiled into the parameterless entry
// routine main, which returns void, or the final value of the integer variable opt.Result when it's set. The finished
// module is verified before it's returned. The caller must call Dispose on the returned Module.
func CreateModule(opt util.Options, root *ast.Block) (*Module, error) {
	if root == nil {
		return nil, ErrNoBlock
	}
	if err := ast.ValidateTree(root); err != nil {
		return nil, fmt.Errorf("syntax tree error: %w", err)
	}

	name := opt.Name
	if len(name) == 0 {
		name = defaultModuleName
	}
	ctx := llvm.NewContext()
	m := ctx.NewModule(name)

	g := newGenerator(opt, ctx, m)
	g.tracef("Start generating code...")
	err := g.genMain(opt.Result, root)
	g.dispose()
	if err != nil {
		m.Dispose()
		ctx.Dispose()
		return nil, err
	}

	mod := &Module{
		opt:     opt,
		ctx:     ctx,
		m:       m,
		fun:     g.fun,
		strings: g.pool.Texts(),
		vars:    g.vars.len(),
		result:  len(opt.Result) > 0,
	}
	if err := mod.Verify(); err != nil {
		mod.Dispose()
		return nil, err
	}
	if opt.Verbose {
		_, _ = fmt.Fprint(opt.Writer(), m.String())
	}
	g.tracef("Code generated..")
	return mod, nil
}

// genMain generates the entry routine: the routine header, its entry block, the body root and the return.
func (g *Generator) genMain(result string, root *ast.Block) error {
	ret := g.ctx.VoidType()
	if len(result) > 0 {
		ret = g.i32
	}
	g.fun = llvm.AddFunction(g.m, entryName, llvm.FunctionType(ret, nil, false))
	g.entry = g.ctx.AddBasicBlock(g.fun, g.labels.NewLabel(util.LabelEntry))
	g.b.SetInsertPointAtEnd(g.entry)

	g.tracef("AST block size = %d", root.Len())
	if _, err := g.genBlock(root); err != nil {
		return err
	}

	if len(result) == 0 {
		g.b.CreateRetVoid()
		return nil
	}
	s, err := g.vars.resolve(result)
	if err != nil {
		return fmt.Errorf("result: %w", err)
	}
	if s.typ != ast.Int {
		return fmt.Errorf("result %q has type %s: %w", result, s.typ, ErrResultType)
	}
	g.b.CreateRet(g.b.CreateLoad(s.addr, ""))
	return nil
}

// Verify checks the module for structural errors such as blocks without terminators or malformed PHI nodes.
func (m *Module) Verify() error {
	if m.closed {
		return ErrDisposed
	}
	if err := llvm.VerifyModule(m.m, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("invalid module: %w", err)
	}
	return nil
}

// String returns the textual LLVM IR of the module.
func (m *Module) String() string {
	if m.closed {
		return ""
	}
	return m.m.String()
}

// Function returns the entry routine.
func (m *Module) Function() llvm.Value {
	return m.fun
}

// Strings returns the number of distinct string literals interned in the module.
func (m *Module) Strings() int {
	return len(m.strings)
}

// Literals returns the distinct string literals interned in the module, in order of first occurrence.
func (m *Module) Literals() []string {
	res := make([]string, len(m.strings))
	copy(res, m.strings)
	return res
}

// Variables returns the number of variables declared by the entry routine.
func (m *Module) Variables() int {
	return m.vars
}

// Dispose releases the module, its execution engine if one was created, and the context.
func (m *Module) Dispose() {
	if m.closed {
		return
	}
	if m.jit {
		// The execution engine owns the module.
		m.ee.Dispose()
		m.jit = false
	} else {
		m.m.Dispose()
	}
	m.ctx.Dispose()
	m.closed = true
}
