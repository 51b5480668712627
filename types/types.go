// Package types implements the semantic core of the Quill compiler:
// it converts the untyped surface-syntax tree into a fully typed tree,
// inferring missing type information with a constraint engine,
// verifying that every operator, call, and literal use is type-safe,
// and tracking whether a value depends on runtime quantum state.
package types

// A Type is a resolved type.
// The set of type kinds is closed and matched exhaustively.
// Types are immutable values; structural equality holds
// after substitution through an Engine.
type Type interface {
	isType()

	// String returns a human-readable representation of the type.
	String() string
}

// A Prim is a primitive type.
type Prim int

// The primitive types.
const (
	Unit Prim = iota
	Int
	BigInt
	Double
	Bool
	String
	Qubit
	Result
	Pauli
	Range
)

func (Prim) isType() {}

// Chars is the set of functors an operation supports.
type Chars struct {
	Adj bool
	Ctl bool
}

// Contains reports whether cs supports every functor in other.
func (cs Chars) Contains(other Chars) bool {
	return (cs.Adj || !other.Adj) && (cs.Ctl || !other.Ctl)
}

// Meet returns the functors supported by both sets.
func (cs Chars) Meet(other Chars) Chars {
	return Chars{Adj: cs.Adj && other.Adj, Ctl: cs.Ctl && other.Ctl}
}

// An Array is an array type.
type Array struct {
	Item Type
}

func (Array) isType() {}

// A Tuple is a tuple type with two or more items.
// There is no one-item tuple: arity-1 tuples unwrap transparently.
type Tuple struct {
	Items []Type
}

func (Tuple) isType() {}

// A UDT references a user-defined type by its qualified name.
// Item and underlying types are the symbol table's to resolve.
type UDT struct {
	Name string
}

func (UDT) isType() {}

// A Fun is a function type: a callable with no quantum effects.
type Fun struct {
	Arg Type
	Ret Type
}

func (Fun) isType() {}

// An Op is an operation type with its declared characteristics.
type Op struct {
	Arg  Type
	Ret  Type
	Info Chars
}

func (Op) isType() {}

// A Param references a type parameter of a callable declaration.
// A Param-typed value unifies only with itself or Invalid.
type Param struct {
	Origin string
	Name   string
}

func (Param) isType() {}

// A Var is an unbound type variable minted by Engine.Fresh.
// It is resolved through the engine's substitution map or left unbound.
type Var struct {
	id int
}

func (Var) isType() {}

// An Invalid is the type of a mistyped expression.
// It unifies with anything so that one error
// does not cascade into duplicate diagnostics.
type Invalid struct{}

func (Invalid) isType() {}

// A Missing is the type of an elided expression.
// It survives resolution only for elided array and range bounds.
type Missing struct{}

func (Missing) isType() {}

// eq reports structural equality of two types without substitution.
func eq(a, b Type) bool {
	switch a := a.(type) {
	case Prim:
		b, ok := b.(Prim)
		return ok && a == b
	case Array:
		b, ok := b.(Array)
		return ok && eq(a.Item, b.Item)
	case Tuple:
		b, ok := b.(Tuple)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !eq(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case UDT:
		b, ok := b.(UDT)
		return ok && a.Name == b.Name
	case Fun:
		b, ok := b.(Fun)
		return ok && eq(a.Arg, b.Arg) && eq(a.Ret, b.Ret)
	case Op:
		b, ok := b.(Op)
		return ok && a.Info == b.Info && eq(a.Arg, b.Arg) && eq(a.Ret, b.Ret)
	case Param:
		b, ok := b.(Param)
		return ok && a == b
	case Var:
		b, ok := b.(Var)
		return ok && a.id == b.id
	case Invalid:
		_, ok := b.(Invalid)
		return ok
	case Missing:
		_, ok := b.(Missing)
		return ok
	default:
		panic("impossible type")
	}
}

func isInvalid(t Type) bool {
	_, ok := t.(Invalid)
	return ok
}

func isMissing(t Type) bool {
	_, ok := t.(Missing)
	return ok
}

// instantiate replaces every reference to a type parameter of origin
// with its assigned type, recursing through composite types.
func instantiate(t Type, origin string, sub map[string]Type) Type {
	switch t := t.(type) {
	case Param:
		if t.Origin != origin {
			return t
		}
		if s, ok := sub[t.Name]; ok {
			return s
		}
		return t
	case Array:
		return Array{Item: instantiate(t.Item, origin, sub)}
	case Tuple:
		items := make([]Type, len(t.Items))
		for i := range t.Items {
			items[i] = instantiate(t.Items[i], origin, sub)
		}
		return Tuple{Items: items}
	case Fun:
		return Fun{
			Arg: instantiate(t.Arg, origin, sub),
			Ret: instantiate(t.Ret, origin, sub),
		}
	case Op:
		return Op{
			Arg:  instantiate(t.Arg, origin, sub),
			Ret:  instantiate(t.Ret, origin, sub),
			Info: t.Info,
		}
	default:
		return t
	}
}
