// Package llvm provides means to transform the Go syntax tree into LLVM IR for the system installed LLVM
// runtime.
package llvm

import (
	"errors"
	"fmt"
	"io"
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

// Generator lowers one syntax tree into the entry routine of one LLVM module. It owns the insertion point, the
// routine's symbol table and the literal pool for the duration of a single compilation.
type Generator struct {
	ctx    llvm.Context    // Context owning all types and values of the module.
	m      llvm.Module     // Module being generated.
	b      llvm.Builder    // Builder constructs LLVM IR instructions on basic block level.
	fun    llvm.Value      // Entry routine being generated.
	entry  llvm.BasicBlock // First basic block of the entry routine. Holds all stack slots.
	vars   *symTab         // Variables of the entry routine.
	pool   *StringPool     // Interned string literals.
	labels util.Labeler    // Basic block names.
	trace  io.Writer       // Trace output, nil unless verbose.

	i32 llvm.Type // Storage of ast.Int.
	i1  llvm.Type // Storage of ast.Bool.
	i8p llvm.Type // Storage of ast.String.
	ptr llvm.Type // Integer type that string handles are cast to for comparison.
}

// ---------------------
// ----- Constants -----
// ---------------------

var (
	ErrUnknownType = errors.New("unknown data type")
	ErrUnknownNode = errors.New("unknown syntax tree node")
)

// ---------------------
// ----- functions -----
// ---------------------

// newGenerator returns a Generator emitting into module m of context ctx. The caller sets the entry routine before
// generating statements.
func newGenerator(opt util.Options, ctx llvm.Context, m llvm.Module) *Generator {
	g := &Generator{
		ctx:  ctx,
		m:    m,
		b:    ctx.NewBuilder(),
		vars: newSymTab(),
		pool: NewStringPool(),
		i32:  ctx.Int32Type(),
		i1:   ctx.Int1Type(),
		i8p:  llvm.PointerType(ctx.Int8Type(), 0),
		ptr:  ctx.Int64Type(),
	}
	if opt.Verbose {
		g.trace = opt.Writer()
	}
	return g
}

// dispose releases the builder of g.
func (g *Generator) dispose() {
	g.b.Dispose()
}

// tracef writes one line of trace output if the generator is verbose.
func (g *Generator) tracef(format string, args ...interface{}) {
	if g.trace == nil {
		return
	}
	_, _ = fmt.Fprintf(g.trace, format+"\n", args...)
}

// storageType maps a semantic type to the LLVM type of a variable holding it.
func (g *Generator) storageType(typ ast.DataType) (llvm.Type, error) {
	switch typ {
	case ast.Int:
		return g.i32, nil
	case ast.Bool:
		return g.i1, nil
	case ast.String:
		return g.i8p, nil
	default:
		return llvm.Type{}, fmt.Errorf("internal error: %w %s", ErrUnknownType, ast.ShowType(typ))
	}
}

// genBlock generates every statement of blk in order. The result is always the constant true.
func (g *Generator) genBlock(blk *ast.Block) (llvm.Value, error) {
	g.tracef("Generating block of %d statements...", blk.Len())
	for i1, e1 := range blk.Statements {
		g.tracef("%d statement:", i1+1)
		if _, err := g.gen(e1); err != nil {
			return llvm.Value{}, err
		}
	}
	return g.constTrue(), nil
}

// gen generates LLVM IR for statement s at the current insertion point.
func (g *Generator) gen(s ast.Statement) (llvm.Value, error) {
	switch n := s.(type) {
	case *ast.Skip:
		return g.genSkip(), nil
	case *ast.VarDecl:
		return g.genDeclaration(n)
	case *ast.VarAssign:
		return g.genAssign(n.Ident, n.Expr)
	case *ast.IfStatement:
		return g.genIf(n)
	case *ast.WhileLoop:
		return g.genWhile(n)
	default:
		return llvm.Value{}, fmt.Errorf("internal error: %w %T", ErrUnknownNode, s)
	}
}

// genExpression generates LLVM IR computing the value of expression e.
func (g *Generator) genExpression(e ast.Expression) (llvm.Value, error) {
	if e == nil {
		return llvm.Value{}, fmt.Errorf("internal error: %w", ast.ErrNilNode)
	}
	if !e.Type().Valid() {
		return llvm.Value{}, fmt.Errorf("internal error: %s: %w %s", e, ErrUnknownType, ast.ShowType(e.Type()))
	}
	switch n := e.(type) {
	case *ast.ConstantInt:
		g.tracef("Generating constant i32...")
		return llvm.ConstInt(g.i32, uint64(n.Val), true), nil
	case *ast.ConstantBool:
		g.tracef("Generating constant i1...")
		return g.constBool(n.Val), nil
	case *ast.ConstantString:
		g.tracef("Generating constant string...")
		return g.pool.Intern(g.b, n.Val), nil
	case *ast.Identifier:
		return g.genLoad(n)
	case *ast.UnaryOp:
		return g.genUnary(n)
	case *ast.BinaryOp:
		return g.genBinary(n)
	default:
		return llvm.Value{}, fmt.Errorf("internal error: %w %T", ErrUnknownNode, e)
	}
}

// genLoad generates a load of the declared variable ident.
func (g *Generator) genLoad(ident *ast.Identifier) (llvm.Value, error) {
	s, err := g.vars.resolve(ident.Name)
	if err != nil {
		return llvm.Value{}, err
	}
	g.tracef("Extracting %s...", ident.Name)
	return g.b.CreateLoad(s.addr, ident.Name), nil
}

// genUnary generates LLVM IR for a unary expression. Both unary operators negate an integer.
func (g *Generator) genUnary(n *ast.UnaryOp) (llvm.Value, error) {
	g.tracef("Generating unary op %s...", n.Op)
	val, err := g.genExpression(n.Operand)
	if err != nil {
		return llvm.Value{}, err
	}
	switch n.Op {
	case ast.Minus, ast.Neg:
		if n.Operand.Type() != ast.Int {
			return llvm.Value{}, fmt.Errorf("internal error: %s: %w %s", n, ast.ErrOperandType, n.Operand.Type())
		}
		return g.b.CreateNeg(val, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("internal error: %w %s", ast.ErrUnknownOperator, n.Op)
	}
}

// genBinary generates LLVM IR for a binary expression. The left operand is generated before the right operand and
// both are always generated, so the logical operators do not short-circuit.
func (g *Generator) genBinary(n *ast.BinaryOp) (llvm.Value, error) {
	g.tracef("Generating binary op %s...", n.Op)
	op1, err := g.genExpression(n.Lhs)
	if err != nil {
		return llvm.Value{}, err
	}
	op2, err := g.genExpression(n.Rhs)
	if err != nil {
		return llvm.Value{}, err
	}

	// Operator.
	switch n.Op {
	case ast.Pow:
		// Not exponentiation: power is lowered as a single multiplication.
		return g.b.CreateMul(op1, op2, ""), nil
	case ast.Mult:
		return g.b.CreateMul(op1, op2, ""), nil
	case ast.Div:
		return g.b.CreateUDiv(op1, op2, ""), nil
	case ast.Sub:
		return g.b.CreateSub(op1, op2, ""), nil
	case ast.Sum:
		if n.Lhs.Type() == ast.String || n.Rhs.Type() == ast.String {
			return llvm.Value{}, fmt.Errorf("internal error: %w", ast.ErrConcat)
		}
		return g.b.CreateAdd(op1, op2, ""), nil
	case ast.Leq:
		return g.b.CreateICmp(llvm.IntSLE, op1, op2, ""), nil
	case ast.Les:
		return g.b.CreateICmp(llvm.IntSLT, op1, op2, ""), nil
	case ast.Geq:
		return g.b.CreateICmp(llvm.IntSGE, op1, op2, ""), nil
	case ast.Gre:
		return g.b.CreateICmp(llvm.IntSGT, op1, op2, ""), nil
	case ast.Eq:
		return g.genEquality(llvm.IntEQ, n.Lhs.Type(), op1, op2), nil
	case ast.Neq:
		return g.genEquality(llvm.IntNE, n.Lhs.Type(), op1, op2), nil
	case ast.And:
		return g.b.CreateAnd(op1, op2, ""), nil
	case ast.Or:
		return g.b.CreateOr(op1, op2, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("internal error: %w %s", ast.ErrUnknownOperator, n.Op)
	}
}

// genEquality compares op1 and op2 with pred. Integers and booleans are compared by value. Strings are compared by
// address, which is identity: two literals with the same text are equal only because the literal pool interns them.
func (g *Generator) genEquality(pred llvm.IntPredicate, typ ast.DataType, op1, op2 llvm.Value) llvm.Value {
	if typ == ast.Int || typ == ast.Bool {
		return g.b.CreateICmp(pred, op1, op2, "")
	}
	l := g.b.CreatePtrToInt(op1, g.ptr, "")
	r := g.b.CreatePtrToInt(op2, g.ptr, "")
	return g.b.CreateICmp(pred, l, r, "")
}

// genSkip returns the constant true that stands in for the value of a statement.
func (g *Generator) genSkip() llvm.Value {
	return g.constTrue()
}

// declare allocates a stack slot for ident in the entry block and adds it to the symbol table.
func (g *Generator) declare(ident *ast.Identifier) (*symbol, error) {
	if _, err := g.vars.resolve(ident.Name); err == nil {
		return nil, fmt.Errorf("%q: %w", ident.Name, ErrAlreadyDeclared)
	}
	typ, err := g.storageType(ident.Typ)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", ident.Name, err)
	}

	// Stack slots are placed at the top of the entry block so that loops don't grow the stack.
	b := g.ctx.NewBuilder()
	defer b.Dispose()
	if first := g.entry.FirstInstruction(); first.IsNil() {
		b.SetInsertPointAtEnd(g.entry)
	} else {
		b.SetInsertPointBefore(first)
	}
	g.tracef("Generating Ident with name %q...", ident.Name)
	return g.vars.declare(ident.Name, ident.Typ, b.CreateAlloca(typ, ident.Name))
}

// genDeclaration generates LLVM IR that declares a new variable and stores its initial value.
func (g *Generator) genDeclaration(n *ast.VarDecl) (llvm.Value, error) {
	g.tracef("Generating declaration for %s...", n.Ident.Name)
	if _, err := g.declare(n.Ident); err != nil {
		return llvm.Value{}, err
	}
	return g.genAssign(n.Ident, n.Expr)
}

// genAssign generates LLVM IR that assigns a value to an existing variable.
func (g *Generator) genAssign(ident *ast.Identifier, expr ast.Expression) (llvm.Value, error) {
	g.tracef("Generating assignment for %s...", ident.Name)
	s, err := g.vars.resolve(ident.Name)
	if err != nil {
		return llvm.Value{}, err
	}
	if expr == nil {
		return llvm.Value{}, fmt.Errorf("internal error: %w", ast.ErrNilNode)
	}
	if s.typ != expr.Type() {
		return llvm.Value{}, fmt.Errorf("%q: %w", ident.Name,
			&ast.TypeError{Op: "assign", Lhs: s.typ, Rhs: expr.Type(), Kind: ast.ErrAssignType})
	}
	val, err := g.genExpression(expr)
	if err != nil {
		return llvm.Value{}, err
	}
	return g.b.CreateStore(val, s.addr), nil
}

// genIf generates LLVM IR for IF-THEN and IF-THEN-ELSE statements. Both shapes produce the same diamond: an else
// block is always generated, and both arms converge in a merge block that joins their values with a PHI node.
func (g *Generator) genIf(n *ast.IfStatement) (llvm.Value, error) {
	g.tracef("Generating if statement...")
	cond, err := g.genExpression(n.Cond)
	if err != nil {
		return llvm.Value{}, err
	}
	cond = g.b.CreateICmp(llvm.IntEQ, cond, g.constTrue(), "ifcond")

	// Set up new basic blocks.
	thn := g.ctx.AddBasicBlock(g.fun, g.labels.NewLabel(util.LabelThen))
	els := g.ctx.AddBasicBlock(g.fun, g.labels.NewLabel(util.LabelElse))
	conv := g.ctx.AddBasicBlock(g.fun, g.labels.NewLabel(util.LabelMerge))

	// Generate branch.
	g.b.CreateCondBr(cond, thn, els)

	// Generate THEN.
	g.b.SetInsertPointAtEnd(thn)
	thnVal, err := g.genBlock(n.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	g.b.CreateBr(conv)
	thnEnd := g.b.GetInsertBlock()

	// Generate ELSE. Nested statements may have moved the insertion point, so place else after where THEN ended.
	els.MoveAfter(thnEnd)
	g.b.SetInsertPointAtEnd(els)
	var elsVal llvm.Value
	if n.Else != nil {
		if elsVal, err = g.genBlock(n.Else); err != nil {
			return llvm.Value{}, err
		}
	} else {
		elsVal = g.genSkip()
	}
	g.b.CreateBr(conv)
	elsEnd := g.b.GetInsertBlock()

	// Converge.
	conv.MoveAfter(elsEnd)
	g.b.SetInsertPointAtEnd(conv)
	phi := g.b.CreatePHI(g.i1, "iftmp")
	phi.AddIncoming([]llvm.Value{thnVal, elsVal}, []llvm.BasicBlock{thnEnd, elsEnd})
	return phi, nil
}

// genWhile generates LLVM IR for loops. The condition is tested after the body, so the body runs at least once.
func (g *Generator) genWhile(n *ast.WhileLoop) (llvm.Value, error) {
	g.tracef("Generating while loop...")
	head := g.ctx.AddBasicBlock(g.fun, g.labels.NewLabel(util.LabelLoop))
	g.b.CreateBr(head)
	g.b.SetInsertPointAtEnd(head)

	// Generate body.
	if _, err := g.genBlock(n.Body); err != nil {
		return llvm.Value{}, err
	}

	// Generate condition and branch.
	cond, err := g.genExpression(n.Cond)
	if err != nil {
		return llvm.Value{}, err
	}
	cond = g.b.CreateICmp(llvm.IntNE, cond, g.constBool(false), "loopcond")
	conv := g.ctx.AddBasicBlock(g.fun, g.labels.NewLabel(util.LabelAfterLoop))
	g.b.CreateCondBr(cond, head, conv)

	// Converge.
	g.b.SetInsertPointAtEnd(conv)
	return g.genSkip(), nil
}

// constBool returns the i1 constant of v.
func (g *Generator) constBool(v bool) llvm.Value {
	if v {
		return llvm.ConstInt(g.i1, 1, false)
	}
	return llvm.ConstInt(g.i1, 0, false)
}

// constTrue returns the i1 constant true.
func (g *Generator) constTrue() llvm.Value {
	return g.constBool(true)
}
