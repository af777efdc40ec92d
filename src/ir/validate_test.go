package ir

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestValidateTree(t *testing.T) {
	x := &Identifier{Name: "x", Typ: Int}
	b := &Identifier{Name: "b", Typ: Bool}
	one := NewConstantInt(1)
	yes := NewConstantBool(true)

	tests := []struct {
		name string
		root *Block
		err  error
	}{
		{"empty", NewBlock(), nil},
		{"valid", NewBlock(
			&VarDecl{Ident: x, Expr: one},
			&WhileLoop{Cond: &BinaryOp{Op: Les, Lhs: x, Rhs: one, Typ: Bool}, Body: NewBlock(&Skip{})},
			&IfStatement{Cond: yes, Then: NewBlock(&VarAssign{Ident: x, Expr: one})},
		), nil},
		{"nil root", nil, ErrNilNode},
		{"nil statement", NewBlock(nil), ErrNilNode},
		{"typed nil statement", NewBlock((*Skip)(nil)), ErrNilNode},
		{"nil identifier", NewBlock(&VarDecl{Expr: one}), ErrNilNode},
		{"nil expression", NewBlock(&VarAssign{Ident: x}), ErrNilNode},
		{"empty name", NewBlock(&VarDecl{Ident: &Identifier{Typ: Int}, Expr: one}), ErrEmptyName},
		{"none identifier", NewBlock(&VarDecl{Ident: &Identifier{Name: "n"}, Expr: one}), ErrNoneType},
		{"assign mismatch", NewBlock(&VarAssign{Ident: x, Expr: yes}), ErrAssignType},
		{"operand mismatch", NewBlock(
			&VarDecl{Ident: x, Expr: &BinaryOp{Op: Sum, Lhs: one, Rhs: yes, Typ: Int}},
		), ErrOperandMismatch},
		{"concat", NewBlock(
			&VarDecl{Ident: x, Expr: &BinaryOp{Op: Sum, Lhs: NewConstantString("a"), Rhs: NewConstantString("b"), Typ: Int}},
		), ErrConcat},
		{"unary operand", NewBlock(
			&VarDecl{Ident: x, Expr: &UnaryOp{Op: Minus, Operand: yes, Typ: Int}},
		), ErrOperandType},
		{"condition type", NewBlock(&IfStatement{Cond: one, Then: NewBlock()}), ErrConditionType},
		{"nil then", NewBlock(&IfStatement{Cond: yes}), ErrNilNode},
		{"nil body", NewBlock(&WhileLoop{Cond: b}), ErrNilNode},
		{"nested", NewBlock(&WhileLoop{Cond: b, Body: NewBlock(
			&IfStatement{Cond: yes, Then: NewBlock(), Else: NewBlock(&VarAssign{Ident: b, Expr: one})},
		)}), ErrAssignType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Err(t, ValidateTree(tt.root), tt.err)
		})
	}
}

func TestValidateStoredType(t *testing.T) {
	x := &Identifier{Name: "x", Typ: Bool}

	// The operator yields int, the node claims bool.
	bad := &BinaryOp{Op: Mult, Lhs: NewConstantInt(2), Rhs: NewConstantInt(3), Typ: Bool}
	err := ValidateTree(NewBlock(&VarDecl{Ident: x, Expr: bad}))
	be.Err(t, err, "stored type bool, operator yields int")

	neg := &UnaryOp{Op: Neg, Operand: NewConstantInt(2), Typ: Bool}
	err = ValidateTree(NewBlock(&VarDecl{Ident: x, Expr: neg}))
	be.Err(t, err, "stored type bool, operator yields int")
}

func TestValidateStatementIndex(t *testing.T) {
	x := &Identifier{Name: "x", Typ: Int}
	root := NewBlock(&Skip{}, &Skip{}, &VarAssign{Ident: x, Expr: NewConstantString("s")})
	be.Err(t, ValidateTree(root), "statement 3:")
}
