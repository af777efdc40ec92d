package ir

import (
	"fmt"
)

// ---------------------
// ----- functions -----
// ---------------------

// ValidateTree checks the syntax tree rooted at block root before code generation. Constructors already validate
// operand types, so this catches trees assembled by hand: nil nodes, expressions without a type and operator nodes
// whose stored type disagrees with the operator's type rules. The first error found is returned.
func ValidateTree(root *Block) error {
	if root == nil {
		return ErrNilNode
	}
	return validateBlock(root)
}

// validateBlock validates every statement of block b in order.
func validateBlock(b *Block) error {
	for i1, e1 := range b.Statements {
		if err := validateStatement(e1); err != nil {
			return fmt.Errorf("statement %d: %w", i1+1, err)
		}
	}
	return nil
}

// validateStatement validates statement s and its sub-tree.
func validateStatement(s Statement) error {
	switch n := s.(type) {
	case *Skip:
		if n == nil {
			return ErrNilNode
		}
		return nil
	case *VarDecl:
		if n == nil {
			return ErrNilNode
		}
		return validateAssign(n, n.Ident, n.Expr)
	case *VarAssign:
		if n == nil {
			return ErrNilNode
		}
		return validateAssign(n, n.Ident, n.Expr)
	case *IfStatement:
		if n == nil || n.Then == nil {
			return ErrNilNode
		}
		if err := validateCondition(n, n.Cond); err != nil {
			return err
		}
		if err := validateBlock(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return validateBlock(n.Else)
		}
		return nil
	case *WhileLoop:
		if n == nil || n.Body == nil {
			return ErrNilNode
		}
		if err := validateCondition(n, n.Cond); err != nil {
			return err
		}
		return validateBlock(n.Body)
	case nil:
		return ErrNilNode
	default:
		return fmt.Errorf("unexpected statement of type %T", s)
	}
}

// validateAssign validates a declaration or assignment statement s of expr to ident.
func validateAssign(s Statement, ident *Identifier, expr Expression) error {
	if ident == nil {
		return fmt.Errorf("%s: %w", s, ErrNilNode)
	}
	if err := validateExpression(ident); err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}
	if err := validateExpression(expr); err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}
	if ident.Typ != expr.Type() {
		return fmt.Errorf("%s: %w", s, &TypeError{Op: "assign", Lhs: ident.Typ, Rhs: expr.Type(), Kind: ErrAssignType})
	}
	return nil
}

// validateCondition validates the condition cond of statement s.
func validateCondition(s Statement, cond Expression) error {
	if err := validateExpression(cond); err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}
	if cond.Type() != Bool {
		return fmt.Errorf("%s: %w", s, &TypeError{Op: "condition", Lhs: cond.Type(), Kind: ErrConditionType})
	}
	return nil
}

// validateExpression validates expression e and its sub-tree.
func validateExpression(e Expression) error {
	switch n := e.(type) {
	case *ConstantInt:
		if n == nil {
			return ErrNilNode
		}
	case *ConstantBool:
		if n == nil {
			return ErrNilNode
		}
	case *ConstantString:
		if n == nil {
			return ErrNilNode
		}
	case *Identifier:
		if n == nil {
			return ErrNilNode
		}
		if len(n.Name) == 0 {
			return ErrEmptyName
		}
		if !n.Typ.Valid() {
			return fmt.Errorf("%s: %w", n, &TypeError{Op: n.Name, Lhs: n.Typ, Kind: ErrNoneType})
		}
	case *UnaryOp:
		if n == nil {
			return ErrNilNode
		}
		if err := validateExpression(n.Operand); err != nil {
			return err
		}
		typ, err := UnaryResult(n.Op, n.Operand.Type())
		if err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
		if typ != n.Typ {
			return fmt.Errorf("%s: stored type %s, operator yields %s", n, n.Typ, typ)
		}
	case *BinaryOp:
		if n == nil {
			return ErrNilNode
		}
		if err := validateExpression(n.Lhs); err != nil {
			return err
		}
		if err := validateExpression(n.Rhs); err != nil {
			return err
		}
		typ, err := BinaryResult(n.Lhs.Type(), n.Op, n.Rhs.Type())
		if err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
		if typ != n.Typ {
			return fmt.Errorf("%s: stored type %s, operator yields %s", n, n.Typ, typ)
		}
	case nil:
		return ErrNilNode
	default:
		return fmt.Errorf("unexpected expression of type %T", e)
	}
	return nil
}
