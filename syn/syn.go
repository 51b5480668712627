// Package syn defines the untyped surface-syntax expression tree
// produced by the parser and consumed by the types package.
package syn

import (
	"math/big"

	"github.com/quill-lang/quill/loc"
)

// An Expr is an untyped expression node.
// The set of expression kinds is closed:
// the types package matches them exhaustively.
type Expr interface {
	GetRange() loc.Range
}

// An Int is an integer literal.
type Int struct {
	loc.Range
	Val int64
}

// A BigInt is a big-integer literal.
type BigInt struct {
	loc.Range
	Val *big.Int
}

// A Double is a floating-point literal.
type Double struct {
	loc.Range
	Val float64
}

// A Bool is a boolean literal.
type Bool struct {
	loc.Range
	Val bool
}

// A String is a string literal,
// possibly with interpolated sub-expressions.
type String struct {
	loc.Range
	Text   string
	Interp []Expr
}

// A Result is a measurement-result literal: Zero or One.
type Result struct {
	loc.Range
	One bool
}

// Axis is a Pauli axis.
type Axis int

// The Pauli axes.
const (
	PauliI Axis = iota
	PauliX
	PauliY
	PauliZ
)

// A Pauli is a Pauli literal.
type Pauli struct {
	loc.Range
	Axis Axis
}

// A Unit is the unit value: the empty tuple.
type Unit struct {
	loc.Range
}

// A Missing is an elided expression: `_`.
// In a call argument it marks partial application;
// in a range bound or an array literal it is an elision.
type Missing struct {
	loc.Range
}

// An Ident is an identifier,
// optionally with explicit type arguments.
// A type argument may be elided with MissingTy.
type Ident struct {
	loc.Range
	Name     string
	TypeArgs []Ty
}

// A Tuple is a tuple expression with at least one item.
// The parser never produces a zero-item Tuple; the unit value is Unit.
type Tuple struct {
	loc.Range
	Items []Expr
}

// An Array is an array literal.
type Array struct {
	loc.Range
	Items []Expr
}

// A SizedArray is a repeated-value array expression:
// the value repeated size times.
type SizedArray struct {
	loc.Range
	Val  Expr
	Size Expr
}

// A NewArray is a default-valued array allocation
// with an explicitly named item type.
type NewArray struct {
	loc.Range
	Item Ty
	Size Expr
}

// An Index is array item access or slicing.
// The index may be an Int-typed expression or a Range expression;
// a fully elided range slices the whole array.
type Index struct {
	loc.Range
	Arr Expr
	Idx Expr
}

// A Field accesses a named item of a user-defined type.
// Item should be an Ident naming the field.
type Field struct {
	loc.Range
	Rec  Expr
	Item Expr
}

// An Update is a copy-and-update expression: rec w/ item <- val.
// Item names a field for user-defined types
// or indexes for arrays.
type Update struct {
	loc.Range
	Rec  Expr
	Item Expr
	Val  Expr
}

// A Cond is a conditional expression: cond ? then | else.
type Cond struct {
	loc.Range
	Cond Expr
	Then Expr
	Else Expr
}

// A RangeLit is a range literal: left..right.
// Range composition is left-associative,
// so in a..b..c the Left is itself a RangeLit
// and its Right is the step.
// Either bound may be Missing when the range indexes an array.
type RangeLit struct {
	loc.Range
	Left  Expr
	Right Expr
}

// BinKind identifies a binary operator.
type BinKind int

// The binary operators.
const (
	Add BinKind = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Shl
	Shr
	BitAnd
	BitOr
	BitXor
	And
	Or
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte
)

// A BinOp is a binary operator expression.
type BinOp struct {
	loc.Range
	Op    BinKind
	Left  Expr
	Right Expr
}

// UnKind identifies a unary operator.
type UnKind int

// The unary operators.
const (
	Neg UnKind = iota
	BitNot
	Not
)

// A UnOp is a unary operator expression.
type UnOp struct {
	loc.Range
	Op      UnKind
	Operand Expr
}

// A Call applies a callable to an argument.
// The argument is a Tuple for arity above one.
type Call struct {
	loc.Range
	Callee Expr
	Arg    Expr
}

// An Adjoint applies the Adjoint functor to an operation.
type Adjoint struct {
	loc.Range
	Op Expr
}

// A Controlled applies the Controlled functor to an operation.
type Controlled struct {
	loc.Range
	Op Expr
}

// An Unwrap extracts the underlying value
// of a single-item user-defined type: op!.
type Unwrap struct {
	loc.Range
	Operand Expr
}
