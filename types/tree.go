package types

import (
	"math/big"

	"github.com/quill-lang/quill/loc"
	"github.com/quill-lang/quill/syn"
)

// An Expr is a typed expression node.
// Exprs are immutable values with no back-reference to the engine
// that typed them; callers may re-resolve Type through the engine
// as its substitution map refines further.
//
// Every reachable sub-expression is fully typed: only the Missing
// marker survives, for elided array and range bounds.
type Expr struct {
	// Kind is the expression kind; the set of kinds is closed.
	Kind Kind

	// Type is the resolved type of the expression.
	Type Type

	// TypeArgs maps the type parameters of the referenced callable
	// to their resolved types. It is non-empty only for references
	// to generic callables.
	TypeArgs []TypeArg

	// Mutable is whether the expression denotes a mutable binding.
	Mutable bool

	// Quantum is whether the expression's value may depend on
	// runtime quantum state. Quantum-dependent values restrict
	// the legal control flow around them.
	Quantum bool

	// Rng is the source range, if the expression came from source.
	// Synthesized nodes, such as rewritten range bounds, share the
	// range of the expression they were derived from.
	Rng *loc.Range
}

// A TypeArg is one resolved type argument of a generic reference.
type TypeArg struct {
	Origin string
	Name   string
	Type   Type
}

// A Kind is an expression kind.
// The set of kinds is closed and matched exhaustively.
type Kind interface {
	isKind()
}

// An IntLit is an integer literal.
type IntLit struct {
	Val int64
}

// A BigIntLit is a big-integer literal.
type BigIntLit struct {
	Val *big.Int
}

// A DoubleLit is a floating-point literal.
type DoubleLit struct {
	Val float64
}

// A BoolLit is a boolean literal.
type BoolLit struct {
	Val bool
}

// A StringLit is a string literal with resolved interpolations.
type StringLit struct {
	Text   string
	Interp []*Expr
}

// A ResultLit is a measurement-result literal.
type ResultLit struct {
	One bool
}

// A PauliLit is a Pauli literal.
type PauliLit struct {
	Axis syn.Axis
}

// A UnitLit is the unit value.
type UnitLit struct{}

// A MissingExpr is an elided expression.
// In a call argument its type is a fresh variable
// bound to the elided parameter's type;
// elsewhere its type is Missing.
type MissingExpr struct{}

// An InvalidExpr is the resolution of an expression
// that could not be typed.
type InvalidExpr struct{}

// A Local references a local variable.
type Local struct {
	Name string
}

// A Global references a globally declared callable.
type Global struct {
	Name string
}

// A TupleExpr is a tuple of two or more items.
type TupleExpr struct {
	Items []*Expr
}

// An ArrayLit is an array literal.
type ArrayLit struct {
	Items []*Expr
}

// A SizedArrayExpr repeats a value a given number of times.
type SizedArrayExpr struct {
	Val  *Expr
	Size *Expr
}

// A NewArrayExpr is a default-valued array allocation.
// The item type is the Array item type of the whole expression.
type NewArrayExpr struct {
	Size *Expr
}

// An ArrayLen is the length of an array.
// It is synthesized when rewriting elided range bounds
// and has no surface syntax of its own.
type ArrayLen struct {
	Arr *Expr
}

// An IndexExpr is array item access or slicing.
type IndexExpr struct {
	Arr *Expr
	Idx *Expr
}

// A FieldExpr accesses a named item of a user-defined type.
type FieldExpr struct {
	Rec  *Expr
	Name string
}

// An ItemName names the updated item of a copy-and-update
// expression on a user-defined type.
type ItemName struct {
	Name string
}

// An UpdateExpr is a copy-and-update expression.
// Item is an ItemName for user-defined types
// and an index or range expression for arrays.
type UpdateExpr struct {
	Rec  *Expr
	Item *Expr
	Val  *Expr
}

// A CondExpr is a conditional expression.
type CondExpr struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// A RangeExpr is a range with resolved bounds.
// Step is nil for two-part ranges.
type RangeExpr struct {
	Start *Expr
	Step  *Expr
	End   *Expr
}

// A BinExpr is a binary operator expression.
type BinExpr struct {
	Op    syn.BinKind
	Left  *Expr
	Right *Expr
}

// A UnExpr is a unary operator expression.
type UnExpr struct {
	Op      syn.UnKind
	Operand *Expr
}

// A CallExpr applies a callable to an argument.
// Partial marks partial application: the argument elides
// some parameters and the call produces a new callable.
type CallExpr struct {
	Callee  *Expr
	Arg     *Expr
	Partial bool
}

// An AdjointExpr applies the Adjoint functor.
type AdjointExpr struct {
	Op *Expr
}

// A ControlledExpr applies the Controlled functor.
type ControlledExpr struct {
	Op *Expr
}

// An UnwrapExpr extracts the underlying value
// of a single-item user-defined type.
type UnwrapExpr struct {
	Operand *Expr
}

func (IntLit) isKind()         {}
func (BigIntLit) isKind()      {}
func (DoubleLit) isKind()      {}
func (BoolLit) isKind()        {}
func (StringLit) isKind()      {}
func (ResultLit) isKind()      {}
func (PauliLit) isKind()       {}
func (UnitLit) isKind()        {}
func (MissingExpr) isKind()    {}
func (InvalidExpr) isKind()    {}
func (Local) isKind()          {}
func (Global) isKind()         {}
func (TupleExpr) isKind()      {}
func (ArrayLit) isKind()       {}
func (SizedArrayExpr) isKind() {}
func (NewArrayExpr) isKind()   {}
func (ArrayLen) isKind()       {}
func (IndexExpr) isKind()      {}
func (FieldExpr) isKind()      {}
func (ItemName) isKind()       {}
func (UpdateExpr) isKind()     {}
func (CondExpr) isKind()       {}
func (RangeExpr) isKind()      {}
func (BinExpr) isKind()        {}
func (UnExpr) isKind()         {}
func (CallExpr) isKind()       {}
func (AdjointExpr) isKind()    {}
func (ControlledExpr) isKind() {}
func (UnwrapExpr) isKind()     {}
