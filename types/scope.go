package types

import (
	"github.com/quill-lang/quill/loc"
	"github.com/quill-lang/quill/syn"
)

// A VarKind classifies a resolved identifier.
type VarKind int

// The identifier kinds.
const (
	// InvalidName is an identifier already flagged upstream;
	// it propagates silently as an invalid expression.
	InvalidName VarKind = iota

	// LocalName is a local variable.
	LocalName

	// GlobalName is a globally declared callable.
	GlobalName
)

// A VarInfo describes a resolved identifier.
type VarInfo struct {
	Kind VarKind

	// Type is the declared type. For a global callable it is the
	// callable's signature, referencing its type parameters as
	// Params owned by Origin.
	Type Type

	// Mutable is the local variable's declared mutability.
	Mutable bool

	// Quantum is whether the local variable carries
	// a quantum dependency.
	Quantum bool

	// Origin is the qualified name of the declaration.
	Origin string

	// TypeParams are the declared type parameter names
	// of a global callable, in declaration order.
	TypeParams []string
}

// A SymbolTable resolves identifiers, syntactic types, and the items
// of user-defined types. It is built by an out-of-scope pass;
// the resolvers only consult it.
type SymbolTable interface {
	// ResolveIdentifier resolves a symbol to a local variable,
	// a global callable, or an invalid name, reporting diagnostics
	// for unknown symbols to the sink.
	ResolveIdentifier(sink *Diags, name string, rng loc.Range) VarInfo

	// ResolveType resolves a syntactic type annotation.
	ResolveType(sink *Diags, ty syn.Ty) Type

	// ItemType returns the type of the named item of a user-defined
	// type, reporting unknown item names to the sink.
	ItemType(sink *Diags, udt UDT, item string, rng loc.Range) (Type, bool)

	// Underlying returns the underlying type of a user-defined type
	// with exactly one item.
	Underlying(udt UDT) (Type, bool)

	// RequiredFunctorSupport is the functor set that callables
	// invoked in the current specialization must support,
	// enabling later functor specialization of the whole callable.
	RequiredFunctorSupport() Chars
}

// A Scope is the context for one declaration's expression resolution.
// It owns the constraint engine: engine substitution state is mutated
// across the whole declaration's resolution and read back by later
// steps and downstream passes. Scopes are not shared across
// declarations.
type Scope struct {
	// Syms is the symbol table for the declaration.
	Syms SymbolTable

	// Eng is the constraint engine owned by this scope.
	Eng *Engine

	// InOperation is whether the declaration being resolved is an
	// operation body. It drives the relaxed call typing: operations
	// may invoke operations, functions may not.
	InOperation bool

	// Trace is whether to enable debug tracing.
	Trace bool
}

// NewScope returns a scope with a fresh engine wired to syms.
func NewScope(syms SymbolTable) *Scope {
	e := NewEngine()
	e.SetUnwrapper(func(u UDT) (Type, bool) {
		return syms.Underlying(u)
	})
	return &Scope{Syms: syms, Eng: e}
}
