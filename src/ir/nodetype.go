package ir

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Expression is a node in the syntax tree that yields a value of a fixed DataType. The set of expressions is closed:
// ConstantInt, ConstantBool, ConstantString, Identifier, UnaryOp and BinaryOp.
type Expression interface {
	Type() DataType // Semantic type of the expression, assigned at construction.
	String() string // Print friendly one-line representation.
	expression()
}

// Statement is a node in the syntax tree that is executed for its effect. The set of statements is closed:
// Skip, VarDecl, VarAssign, IfStatement and WhileLoop.
type Statement interface {
	String() string // Print friendly one-line representation.
	statement()
}

// ConstantInt is a 32-bit signed integer literal.
type ConstantInt struct {
	Val int32
}

// ConstantBool is a boolean literal.
type ConstantBool struct {
	Val bool
}

// ConstantString is a string literal.
type ConstantString struct {
	Val string
}

// Identifier names a variable of a declared type supplied by the front end.
type Identifier struct {
	Name string
	Typ  DataType
}

// UnaryOp applies Op to Operand. Operand is not owned by the UnaryOp.
type UnaryOp struct {
	Op      UnaryOpType
	Operand Expression
	Typ     DataType
}

// BinaryOp applies Op to Lhs and Rhs. The operands are not owned by the BinaryOp.
type BinaryOp struct {
	Op  BinaryOpType
	Lhs Expression
	Rhs Expression
	Typ DataType
}

// Skip is the empty statement.
type Skip struct{}

// VarDecl declares Ident and initialises it with Expr.
type VarDecl struct {
	Ident *Identifier
	Expr  Expression
}

// VarAssign stores Expr in the previously declared Ident.
type VarAssign struct {
	Ident *Identifier
	Expr  Expression
}

// IfStatement executes Then if Cond holds, else Else. Else is nil when the source has no else clause.
type IfStatement struct {
	Cond Expression
	Then *Block
	Else *Block
}

// WhileLoop executes Body, then repeats it for as long as Cond holds. The body always runs at least once.
type WhileLoop struct {
	Cond Expression
	Body *Block
}

// Block is an ordered sequence of statements. Statements are generated in insertion order.
type Block struct {
	Statements []Statement
}

// ---------------------
// ----- Constants -----
// ---------------------

var (
	ErrNilNode   = errors.New("syntax tree node is <nil>")
	ErrEmptyName = errors.New("identifier has no name")
)

// ---------------------
// ----- functions -----
// ---------------------

// NewConstantInt returns an integer literal.
func NewConstantInt(val int32) *ConstantInt {
	return &ConstantInt{Val: val}
}

// NewConstantBool returns a boolean literal.
func NewConstantBool(val bool) *ConstantBool {
	return &ConstantBool{Val: val}
}

// NewConstantString returns a string literal.
func NewConstantString(val string) *ConstantString {
	return &ConstantString{Val: val}
}

// NewIdentifier returns an identifier with the given declared type.
func NewIdentifier(typ DataType, name string) (*Identifier, error) {
	if len(name) == 0 {
		return nil, ErrEmptyName
	}
	if !typ.Valid() {
		return nil, &TypeError{Op: name, Lhs: typ, Kind: ErrNoneType}
	}
	return &Identifier{Name: name, Typ: typ}, nil
}

// NewUnaryOp returns the unary expression op operand. The operand type is validated immediately.
func NewUnaryOp(op UnaryOpType, operand Expression) (*UnaryOp, error) {
	if operand == nil {
		return nil, ErrNilNode
	}
	typ, err := UnaryResult(op, operand.Type())
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: op, Operand: operand, Typ: typ}, nil
}

// NewBinaryOp returns the binary expression lhs op rhs. The operand types are validated immediately.
func NewBinaryOp(lhs Expression, op BinaryOpType, rhs Expression) (*BinaryOp, error) {
	if lhs == nil || rhs == nil {
		return nil, ErrNilNode
	}
	typ, err := BinaryResult(lhs.Type(), op, rhs.Type())
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: op, Lhs: lhs, Rhs: rhs, Typ: typ}, nil
}

// NewVarDecl returns a declaration of ident initialised with init.
func NewVarDecl(ident *Identifier, init Expression) (*VarDecl, error) {
	if err := checkAssign("var", ident, init); err != nil {
		return nil, err
	}
	return &VarDecl{Ident: ident, Expr: init}, nil
}

// NewVarAssign returns an assignment of expr to ident.
func NewVarAssign(ident *Identifier, expr Expression) (*VarAssign, error) {
	if err := checkAssign(":=", ident, expr); err != nil {
		return nil, err
	}
	return &VarAssign{Ident: ident, Expr: expr}, nil
}

// NewIfStatement returns a conditional. els may be nil.
func NewIfStatement(cond Expression, then, els *Block) (*IfStatement, error) {
	if cond == nil || then == nil {
		return nil, ErrNilNode
	}
	if cond.Type() != Bool {
		return nil, &TypeError{Op: "if", Lhs: cond.Type(), Kind: ErrConditionType}
	}
	return &IfStatement{Cond: cond, Then: then, Else: els}, nil
}

// NewWhileLoop returns a loop over body guarded by cond.
func NewWhileLoop(cond Expression, body *Block) (*WhileLoop, error) {
	if cond == nil || body == nil {
		return nil, ErrNilNode
	}
	if cond.Type() != Bool {
		return nil, &TypeError{Op: "while", Lhs: cond.Type(), Kind: ErrConditionType}
	}
	return &WhileLoop{Cond: cond, Body: body}, nil
}

// NewBlock returns a block holding the given statements in order.
func NewBlock(statements ...Statement) *Block {
	b := &Block{Statements: make([]Statement, 0, len(statements))}
	for _, e1 := range statements {
		b.Append(e1)
	}
	return b
}

// Append adds s to the end of the block.
func (b *Block) Append(s Statement) {
	b.Statements = append(b.Statements, s)
}

// Len returns the number of statements in the block.
func (b *Block) Len() int {
	return len(b.Statements)
}

// checkAssign verifies that expr can be stored in ident.
func checkAssign(op string, ident *Identifier, expr Expression) error {
	if ident == nil || expr == nil {
		return ErrNilNode
	}
	if !expr.Type().Valid() {
		return &TypeError{Op: op, Lhs: ident.Typ, Rhs: expr.Type(), Kind: ErrNoneType}
	}
	if ident.Typ != expr.Type() {
		return &TypeError{Op: op, Lhs: ident.Typ, Rhs: expr.Type(), Kind: ErrAssignType}
	}
	return nil
}

func (*ConstantInt) Type() DataType    { return Int }
func (*ConstantBool) Type() DataType   { return Bool }
func (*ConstantString) Type() DataType { return String }
func (n *Identifier) Type() DataType   { return n.Typ }
func (n *UnaryOp) Type() DataType      { return n.Typ }
func (n *BinaryOp) Type() DataType     { return n.Typ }

func (*ConstantInt) expression()    {}
func (*ConstantBool) expression()   {}
func (*ConstantString) expression() {}
func (*Identifier) expression()     {}
func (*UnaryOp) expression()        {}
func (*BinaryOp) expression()       {}

func (*Skip) statement()        {}
func (*VarDecl) statement()     {}
func (*VarAssign) statement()   {}
func (*IfStatement) statement() {}
func (*WhileLoop) statement()   {}

func (n *ConstantInt) String() string    { return fmt.Sprintf("INTEGER_DATA [%d]", n.Val) }
func (n *ConstantBool) String() string   { return fmt.Sprintf("BOOL_DATA [%t]", n.Val) }
func (n *ConstantString) String() string { return fmt.Sprintf("STRING_DATA [%q]", n.Val) }
func (n *Identifier) String() string     { return fmt.Sprintf("IDENTIFIER_DATA [%q] %s", n.Name, n.Typ) }
func (n *UnaryOp) String() string        { return fmt.Sprintf("UNARY_EXPRESSION [%q] %s", n.Op, n.Typ) }
func (n *BinaryOp) String() string       { return fmt.Sprintf("BINARY_EXPRESSION [%q] %s", n.Op, n.Typ) }
func (*Skip) String() string             { return "NULL_STATEMENT" }
func (n *VarDecl) String() string        { return fmt.Sprintf("DECLARATION [%q]", identName(n.Ident)) }
func (n *VarAssign) String() string      { return fmt.Sprintf("ASSIGNMENT_STATEMENT [%q]", identName(n.Ident)) }
func (n *WhileLoop) String() string      { return "WHILE_STATEMENT" }
func (b *Block) String() string          { return fmt.Sprintf("BLOCK [%d]", len(b.Statements)) }

// String returns a print friendly representation of the IfStatement.
func (n *IfStatement) String() string {
	if n.Else == nil {
		return "IF_STATEMENT"
	}
	return "IF_STATEMENT [else]"
}

// identName returns the name of ident, or the empty string for a nil identifier.
func identName(ident *Identifier) string {
	if ident == nil {
		return ""
	}
	return ident.Name
}

// Print recursively writes this Block and all its children to w while indenting for every recursive call.
// depth is the number of times nodes are padded to the right, having the root node with padding 0. Nil children,
// including typed nil pointers, are printed as NIL.
func (b *Block) Print(w io.Writer, depth int) {
	if depth < 0 {
		depth = 0
	}
	if b == nil {
		printLine(w, depth, nil)
		return
	}
	printLine(w, depth, b)
	for _, e1 := range b.Statements {
		printStatement(w, depth+1, e1)
	}
}

// printStatement writes the sub-tree of statement s to w.
func printStatement(w io.Writer, depth int, s Statement) {
	if isNil(s) {
		printLine(w, depth, nil)
		return
	}
	printLine(w, depth, s)
	switch n := s.(type) {
	case *VarDecl:
		printExpression(w, depth+1, n.Ident)
		printExpression(w, depth+1, n.Expr)
	case *VarAssign:
		printExpression(w, depth+1, n.Ident)
		printExpression(w, depth+1, n.Expr)
	case *IfStatement:
		printExpression(w, depth+1, n.Cond)
		n.Then.Print(w, depth+1)
		if n.Else != nil {
			n.Else.Print(w, depth+1)
		}
	case *WhileLoop:
		printExpression(w, depth+1, n.Cond)
		n.Body.Print(w, depth+1)
	}
}

// printExpression writes the sub-tree of expression e to w.
func printExpression(w io.Writer, depth int, e Expression) {
	if isNil(e) {
		printLine(w, depth, nil)
		return
	}
	printLine(w, depth, e)
	switch n := e.(type) {
	case *UnaryOp:
		printExpression(w, depth+1, n.Operand)
	case *BinaryOp:
		printExpression(w, depth+1, n.Lhs)
		printExpression(w, depth+1, n.Rhs)
	}
}

// isNil returns true if node n is nil or holds a nil pointer to one of the node types.
func isNil(n fmt.Stringer) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *ConstantInt:
		return v == nil
	case *ConstantBool:
		return v == nil
	case *ConstantString:
		return v == nil
	case *Identifier:
		return v == nil
	case *UnaryOp:
		return v == nil
	case *BinaryOp:
		return v == nil
	case *Skip:
		return v == nil
	case *VarDecl:
		return v == nil
	case *VarAssign:
		return v == nil
	case *IfStatement:
		return v == nil
	case *WhileLoop:
		return v == nil
	case *Block:
		return v == nil
	}
	return false
}

// printLine writes one indented line for node n.
func printLine(w io.Writer, depth int, n fmt.Stringer) {
	s := "---> NIL"
	if n != nil {
		s = n.String()
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), s)
}
