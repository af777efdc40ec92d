package llvm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	ast "whilec/src/ir"
	"whilec/src/util"
)

// counterProgram returns a loop that counts n up to 3 and then doubles it into m.
func counterProgram(t *testing.T) *ast.Block {
	t.Helper()
	n := ident(t, ast.Int, "n")
	m := ident(t, ast.Int, "m")
	return ast.NewBlock(
		decl(t, n, num(0)),
		while(t, bin(t, n, ast.Les, num(3)), ast.NewBlock(
			assign(t, n, bin(t, n, ast.Sum, num(1))),
		)),
		decl(t, m, bin(t, n, ast.Mult, num(2))),
	)
}

func TestCreateModuleNoBlock(t *testing.T) {
	_, err := CreateModule(util.Options{}, nil)
	be.Err(t, err, ErrNoBlock)
}

func TestCreateModuleInvalidTree(t *testing.T) {
	// Operand types disagree, bypassing NewBinaryOp.
	x := ident(t, ast.Int, "x")
	bad := &ast.BinaryOp{Op: ast.Sum, Lhs: num(1), Rhs: ast.NewConstantBool(true), Typ: ast.Int}
	_, err := CreateModule(util.Options{}, ast.NewBlock(&ast.VarDecl{Ident: x, Expr: bad}))
	be.Err(t, err, ast.ErrOperandMismatch)
	be.Err(t, err, "syntax tree error")

	var te *ast.TypeError
	be.True(t, errors.As(err, &te))
	be.Equal(t, te.Lhs, ast.Int)
	be.Equal(t, te.Rhs, ast.Bool)
}

func TestCreateModuleEmpty(t *testing.T) {
	m, err := CreateModule(util.Options{}, ast.NewBlock())
	be.Err(t, err, nil)
	defer m.Dispose()
	be.Err(t, m.Verify(), nil)
	be.Equal(t, m.Strings(), 0)
	be.Equal(t, m.Literals(), []string{})
	be.Equal(t, m.Variables(), 0)
	be.Equal(t, m.Function().Name(), "main")
	be.Equal(t, len(m.Function().BasicBlocks()), 1)
	be.True(t, strings.Contains(m.String(), "define void @main()"))
	be.True(t, strings.Contains(m.String(), "ret void"))
}

func TestModuleName(t *testing.T) {
	m, err := CreateModule(util.Options{}, ast.NewBlock())
	be.Err(t, err, nil)
	be.True(t, strings.Contains(m.String(), "ModuleID = 'main'"))
	m.Dispose()

	m, err = CreateModule(util.Options{Name: "prog"}, ast.NewBlock())
	be.Err(t, err, nil)
	be.True(t, strings.Contains(m.String(), "ModuleID = 'prog'"))
	m.Dispose()
}

func TestResult(t *testing.T) {
	root := counterProgram(t)

	m, err := CreateModule(util.Options{Result: "m"}, root)
	be.Err(t, err, nil)
	defer m.Dispose()
	be.True(t, strings.Contains(m.String(), "define i32 @main()"))
	res, err := m.Run()
	be.Err(t, err, nil)
	be.Equal(t, res, 6)

	// Running again starts from a fresh frame.
	res, err = m.Run()
	be.Err(t, err, nil)
	be.Equal(t, res, 6)
}

func TestResultErrors(t *testing.T) {
	root := counterProgram(t)
	_, err := CreateModule(util.Options{Result: "missing"}, root)
	be.Err(t, err, ErrNotInScope)

	b := ident(t, ast.Bool, "b")
	root.Append(decl(t, b, ast.NewConstantBool(true)))
	_, err = CreateModule(util.Options{Result: "b"}, root)
	be.Err(t, err, ErrResultType)
}

func TestRunVoid(t *testing.T) {
	m, err := CreateModule(util.Options{}, counterProgram(t))
	be.Err(t, err, nil)
	defer m.Dispose()
	res, err := m.Run()
	be.Err(t, err, nil)
	be.Equal(t, res, 0)
}

func TestPersistText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prog")
	m, err := CreateModule(util.Options{Out: out}, counterProgram(t))
	be.Err(t, err, nil)
	defer m.Dispose()

	path, err := m.Persist(false)
	be.Err(t, err, nil)
	be.Equal(t, path, out+".ll")

	buf, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, string(buf), m.String())
	be.True(t, strings.Contains(string(buf), "define void @main()"))
}

func TestPersistBitcode(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prog")
	m, err := CreateModule(util.Options{Out: out}, counterProgram(t))
	be.Err(t, err, nil)
	defer m.Dispose()

	path, err := m.Persist(true)
	be.Err(t, err, nil)
	be.Equal(t, path, out+".bc")

	buf, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.True(t, bytes.HasPrefix(buf, []byte("BC\xc0\xde")))
}

func TestPersistDefaultOut(t *testing.T) {
	wd, err := os.Getwd()
	be.Err(t, err, nil)
	be.Err(t, os.Chdir(t.TempDir()), nil)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	m, err := CreateModule(util.Options{}, ast.NewBlock())
	be.Err(t, err, nil)
	defer m.Dispose()

	path, err := m.Persist(false)
	be.Err(t, err, nil)
	be.Equal(t, path, "out.ll")
	_, err = os.Stat("out.ll")
	be.Err(t, err, nil)
}

func TestPersistAfterRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prog")
	m, err := CreateModule(util.Options{Out: out, Result: "n"}, counterProgram(t))
	be.Err(t, err, nil)
	defer m.Dispose()

	res, err := m.Run()
	be.Err(t, err, nil)
	be.Equal(t, res, 3)
	_, err = m.Persist(false)
	be.Err(t, err, nil)
}

func TestDispose(t *testing.T) {
	m, err := CreateModule(util.Options{Result: "n"}, counterProgram(t))
	be.Err(t, err, nil)
	_, err = m.Run()
	be.Err(t, err, nil)

	m.Dispose()
	m.Dispose()
	be.Err(t, m.Verify(), ErrDisposed)
	be.Equal(t, m.String(), "")
	_, err = m.Run()
	be.Err(t, err, ErrDisposed)
	_, err = m.Persist(false)
	be.Err(t, err, ErrDisposed)
}

func TestStringPool(t *testing.T) {
	g := newTestGenerator(t)
	p := g.pool

	_, ok := p.lookup("a")
	be.Equal(t, ok, false)

	v := p.Intern(g.b, "a")
	w, ok := p.lookup("a")
	be.True(t, ok)
	be.True(t, v == w)
	be.True(t, p.Intern(g.b, "a") == v)
	p.Intern(g.b, "")
	be.Equal(t, p.Len(), 2)

	// Texts returns a copy.
	texts := p.Texts()
	texts[0] = "changed"
	be.Equal(t, p.Texts(), []string{"a", ""})
}

func TestSymTab(t *testing.T) {
	st := newSymTab()
	_, err := st.resolve("x")
	be.Err(t, err, ErrNotInScope)

	s, err := st.declare("x", ast.Int, newTestGenerator(t).constTrue())
	be.Err(t, err, nil)
	be.Equal(t, s.name, "x")
	be.Equal(t, s.typ, ast.Int)

	_, err = st.declare("x", ast.Bool, s.addr)
	be.Err(t, err, ErrAlreadyDeclared)
	r, err := st.resolve("x")
	be.Err(t, err, nil)
	be.True(t, r == s)
	be.Equal(t, st.len(), 1)
}
