package types

// A Constraint is a typeclass-like requirement on a type.
// Constraints are registered with Engine.Constrain:
// they are deferred while their subject is an unbound variable
// and checked as soon as it becomes concrete.
type Constraint interface {
	isConstraint()

	// String names the constraint for debug tracing.
	String() string
}

// Numeric holds for Int, BigInt, and Double.
type Numeric struct{}

// Integral holds for Int and BigInt.
type Integral struct{}

// Equatable holds for structurally-equatable types, excluding callables.
type Equatable struct{}

// Semigroup holds for types supporting the overloaded + operator:
// the numeric types, String, and arrays.
type Semigroup struct{}

// Iterable holds for arrays and Range.
// Item is unified with the iteration item type.
type Iterable struct {
	Item Type
}

// Indexed holds for arrays indexed by Int or Range.
// Item is unified with the element type for an Int index
// and with the array type itself for a Range index.
type Indexed struct {
	Index Type
	Item  Type
}

// Wrapped holds for single-item user-defined types.
// Item is unified with the underlying type.
type Wrapped struct {
	Item Type
}

// Callable holds for functions and operations.
// The callable's argument and result types
// are unified with Arg and Ret.
type Callable struct {
	Arg Type
	Ret Type
}

// Adjointable holds for operations whose characteristics include Adj.
type Adjointable struct{}

// Controllable holds for operations whose characteristics include Ctl.
// Ctl is unified with the type of the controlled specialization.
type Controllable struct {
	Ctl Type
}

// CanGenerateFunctors holds for functions, and for operations
// whose declared characteristics contain the required set.
type CanGenerateFunctors struct {
	Required Chars
}

// HasPartialApplication holds for callables
// from which the Missing argument shape can be elided.
// Result is unified with the callable awaiting the missing arguments.
type HasPartialApplication struct {
	Missing Type
	Result  Type
}

func (Numeric) isConstraint()               {}
func (Integral) isConstraint()              {}
func (Equatable) isConstraint()             {}
func (Semigroup) isConstraint()             {}
func (Iterable) isConstraint()              {}
func (Indexed) isConstraint()               {}
func (Wrapped) isConstraint()               {}
func (Callable) isConstraint()              {}
func (Adjointable) isConstraint()           {}
func (Controllable) isConstraint()          {}
func (CanGenerateFunctors) isConstraint()   {}
func (HasPartialApplication) isConstraint() {}

func (Numeric) String() string   { return "Numeric" }
func (Integral) String() string  { return "Integral" }
func (Equatable) String() string { return "Equatable" }
func (Semigroup) String() string { return "Semigroup" }

func (c Iterable) String() string { return "Iterable(" + c.Item.String() + ")" }

func (c Indexed) String() string {
	return "Indexed(" + c.Index.String() + ", " + c.Item.String() + ")"
}

func (c Wrapped) String() string { return "Wrapped(" + c.Item.String() + ")" }

func (c Callable) String() string {
	return "Callable(" + c.Arg.String() + ", " + c.Ret.String() + ")"
}

func (Adjointable) String() string { return "Adjointable" }

func (c Controllable) String() string { return "Controllable(" + c.Ctl.String() + ")" }

func (c CanGenerateFunctors) String() string {
	return "CanGenerateFunctors(" + Op{Arg: Unit, Ret: Unit, Info: c.Required}.String() + ")"
}

func (c HasPartialApplication) String() string {
	return "HasPartialApplication(" + c.Missing.String() + ", " + c.Result.String() + ")"
}
