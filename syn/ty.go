package syn

import "github.com/quill-lang/quill/loc"

// A Ty is a syntactic type annotation.
// Resolution to a semantic type is the symbol table's job;
// the types package only carries Tys through to it.
type Ty interface {
	GetRange() loc.Range
}

// A NamedTy names a primitive or user-defined type.
type NamedTy struct {
	loc.Range
	Name string
}

// An ArrayTy is an array type annotation.
type ArrayTy struct {
	loc.Range
	Item Ty
}

// A TupleTy is a tuple type annotation.
type TupleTy struct {
	loc.Range
	Items []Ty
}

// A FunTy is a function type annotation.
type FunTy struct {
	loc.Range
	Arg Ty
	Ret Ty
}

// An OpTy is an operation type annotation
// with its declared functor characteristics.
type OpTy struct {
	loc.Range
	Arg Ty
	Ret Ty
	Adj bool
	Ctl bool
}

// A ParamTy references a type parameter by name.
type ParamTy struct {
	loc.Range
	Name string
}

// A MissingTy is an elided type annotation.
// As an explicit type argument it asks for inference.
type MissingTy struct {
	loc.Range
}
