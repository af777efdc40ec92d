package ir

import (
	"errors"
	"fmt"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// DataType is the semantic type of an expression.
type DataType int

// UnaryOpType differentiates unary operators.
type UnaryOpType int

// BinaryOpType differentiates binary operators.
type BinaryOpType int

// TypeError reports an operator or statement that was built over operands of the wrong type.
type TypeError struct {
	Op   string   // Operator or statement that rejected its operands.
	Lhs  DataType // Type of the first (or only) operand.
	Rhs  DataType // Type of the second operand, None for unary operators and statements.
	Kind error    // One of the Err* mismatch classes.
}

// ---------------------
// ----- Constants -----
// ---------------------

// None must never be the type of a constructed expression.
const (
	None DataType = iota
	String
	Int
	Bool
)

const (
	Minus UnaryOpType = iota
	Neg
)

const (
	Pow BinaryOpType = iota
	Mult
	Div
	Sum
	Sub
	Leq
	Les
	Geq
	Gre
	Eq
	Neq
	And
	Or
)

// Mismatch classes reported through TypeError.
var (
	ErrNoneType        = errors.New("operand has no type")
	ErrOperandType     = errors.New("operator not defined for operand type")
	ErrOperandMismatch = errors.New("operand types differ")
	ErrConcat          = errors.New("string concatenation is not supported")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrAssignType      = errors.New("assigned expression does not match variable type")
	ErrConditionType   = errors.New("condition is not a boolean")
)

// -------------------
// ----- globals -----
// -------------------

// dTyp provides print friendly names of DataType constants.
var dTyp = [...]string{
	"none",
	"string",
	"int",
	"bool",
}

// uTyp provides operator symbols for UnaryOpType constants.
var uTyp = [...]string{
	"-",
	"neg",
}

// bTyp provides operator symbols for BinaryOpType constants.
var bTyp = [...]string{
	"**",
	"*",
	"/",
	"+",
	"-",
	"<=",
	"<",
	">=",
	">",
	"==",
	"!=",
	"and",
	"or",
}

// lut is the lookup table for binary expressions and type compatibility. It holds the result type of the operator,
// or None if the operator is undefined for the operand type.
// Dimensions
// 1 Operator.
// 2 Datatype of both operands.
var lut = [Or + 1][Bool + 1]DataType{
	Pow:  {Int: Int},
	Mult: {Int: Int},
	Div:  {Int: Int},
	Sum:  {Int: Int},
	Sub:  {Int: Int},
	Leq:  {Int: Bool},
	Les:  {Int: Bool},
	Geq:  {Int: Bool},
	Gre:  {Int: Bool},
	Eq:   {String: Bool, Int: Bool, Bool: Bool},
	Neq:  {String: Bool, Int: Bool, Bool: Bool},
	And:  {Bool: Bool},
	Or:   {Bool: Bool},
}

// ---------------------
// ----- functions -----
// ---------------------

// ShowType returns the print friendly name of the data type typ.
func ShowType(typ DataType) string {
	if typ < None || int(typ) >= len(dTyp) {
		return fmt.Sprintf("unknown(%d)", int(typ))
	}
	return dTyp[typ]
}

// String implements fmt.Stringer.
func (typ DataType) String() string {
	return ShowType(typ)
}

// Valid returns true if typ is a type an expression can carry.
func (typ DataType) Valid() bool {
	return typ > None && typ <= Bool
}

// String returns the operator symbol.
func (op UnaryOpType) String() string {
	if op < Minus || int(op) >= len(uTyp) {
		return fmt.Sprintf("unary(%d)", int(op))
	}
	return uTyp[op]
}

// String returns the operator symbol.
func (op BinaryOpType) String() string {
	if op < Pow || int(op) >= len(bTyp) {
		return fmt.Sprintf("binary(%d)", int(op))
	}
	return bTyp[op]
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Rhs == None {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Kind, e.Lhs)
	}
	return fmt.Sprintf("%s: %s (%s, %s)", e.Op, e.Kind, e.Lhs, e.Rhs)
}

// Unwrap returns the mismatch class so callers can match it with errors.Is.
func (e *TypeError) Unwrap() error {
	return e.Kind
}

// UnaryResult returns the type of applying op to an operand of type typ. Both unary operators are arithmetic
// negation and are only defined for integers.
func UnaryResult(op UnaryOpType, typ DataType) (DataType, error) {
	if op != Minus && op != Neg {
		return None, &TypeError{Op: op.String(), Lhs: typ, Kind: ErrUnknownOperator}
	}
	if !typ.Valid() {
		return None, &TypeError{Op: op.String(), Lhs: typ, Kind: ErrNoneType}
	}
	if typ != Int {
		return None, &TypeError{Op: op.String(), Lhs: typ, Kind: ErrOperandType}
	}
	return Int, nil
}

// BinaryResult returns the type of applying op to operands of types lhs and rhs.
func BinaryResult(lhs DataType, op BinaryOpType, rhs DataType) (DataType, error) {
	if op < Pow || op > Or {
		return None, &TypeError{Op: op.String(), Lhs: lhs, Rhs: rhs, Kind: ErrUnknownOperator}
	}
	if !lhs.Valid() || !rhs.Valid() {
		return None, &TypeError{Op: op.String(), Lhs: lhs, Rhs: rhs, Kind: ErrNoneType}
	}
	if lhs != rhs {
		return None, &TypeError{Op: op.String(), Lhs: lhs, Rhs: rhs, Kind: ErrOperandMismatch}
	}
	if op == Sum && lhs == String {
		return None, &TypeError{Op: op.String(), Lhs: lhs, Rhs: rhs, Kind: ErrConcat}
	}
	if res := lut[op][lhs]; res != None {
		return res, nil
	}
	return None, &TypeError{Op: op.String(), Lhs: lhs, Rhs: rhs, Kind: ErrOperandType}
}
