package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quill-lang/quill/loc"
)

// A Code identifies a diagnostic.
// The set of codes is closed; downstream phases and tests match on it.
type Code int

// The diagnostic codes.
const (
	ExpectingUserDefinedType Code = iota + 1

	// ExpressionOfUnknownType is reported through the sink by the
	// symbol table when an identifier cannot be resolved; the
	// resolver then propagates the invalid name silently.
	ExpressionOfUnknownType
	TypeMismatch
	ArgumentMismatchInBinaryOp
	ExpectingNumericExpr
	ExpectingIntExpr
	ExpectingIntegralExpr
	ExpectingBoolExpr
	ExpectingCallableExpr
	ExpectingIterableExpr
	InvalidTypeInEqualityComparison
	InvalidTypeForConcatenation
	MissingExprInArray
	MultipleTypesInArray
	ItemAccessForNonArray
	InvalidArrayItemIndex
	InvalidAdjointApplication
	InvalidControlledApplication
	MissingFunctorSupport
	IdentifierCannotHaveTypeArguments
	WrongNumberOfTypeArguments
	ExpectingItemName
	UnknownItemName
	TypeMismatchInCopyAndUpdateExpr
	ConstrainsTypeParameter
	ConditionalEvaluationOfOperationCall
)

var messages = map[Code]string{
	ExpectingUserDefinedType:             "expecting a user-defined type, have %s",
	ExpressionOfUnknownType:              "expression of unknown type",
	TypeMismatch:                         "type mismatch: have %s, want %s",
	ArgumentMismatchInBinaryOp:           "argument mismatch: %s is not compatible with %s",
	ExpectingNumericExpr:                 "expecting an expression of numeric type, have %s",
	ExpectingIntExpr:                     "expecting an expression of type Int, have %s",
	ExpectingIntegralExpr:                "expecting an expression of integral type, have %s",
	ExpectingBoolExpr:                    "expecting an expression of type Bool, have %s",
	ExpectingCallableExpr:                "expecting a callable expression, have %s",
	ExpectingIterableExpr:                "expecting an iterable expression, have %s",
	InvalidTypeInEqualityComparison:      "values of type %s do not support equality comparison",
	InvalidTypeForConcatenation:          "values of type %s do not support concatenation",
	MissingExprInArray:                   "missing expression in array literal",
	MultipleTypesInArray:                 "multiple types in array: %s is not compatible with %s",
	ItemAccessForNonArray:                "item access for non-array type %s",
	InvalidArrayItemIndex:                "array index must be of type Int or Range, have %s",
	InvalidAdjointApplication:            "Adjoint requires an adjointable operation, have %s",
	InvalidControlledApplication:         "Controlled requires a controllable operation, have %s",
	MissingFunctorSupport:                "callable of type %s does not support the required functors",
	IdentifierCannotHaveTypeArguments:    "identifier cannot have type arguments",
	WrongNumberOfTypeArguments:           "wrong number of type arguments: expecting %s",
	ExpectingItemName:                    "expecting an item name",
	UnknownItemName:                      "type %s has no item named %s",
	TypeMismatchInCopyAndUpdateExpr:      "type mismatch in copy-and-update: have %s, want %s",
	ConstrainsTypeParameter:              "assignment constrains the type parameter(s) %s",
	ConditionalEvaluationOfOperationCall: "operation call is only evaluated conditionally",
}

// A Diag is a single range-tagged diagnostic.
// Diags are created once, immutable, collected in order,
// and surfaced verbatim.
type Diag struct {
	Code Code
	Args []string
	Rng  loc.Range
}

// Warning reports whether the diagnostic is advisory rather than an error.
func (d *Diag) Warning() bool {
	return d.Code == ConditionalEvaluationOfOperationCall
}

// Message renders the diagnostic text.
// Codes carry a fixed argument list; extra arguments are ignored
// so that a context can record both types even where the message
// names only one.
func (d *Diag) Message() string {
	f, ok := messages[d.Code]
	if !ok {
		panic(fmt.Sprintf("impossible code: %d", d.Code))
	}
	n := strings.Count(f, "%s")
	args := make([]interface{}, 0, n)
	for i, a := range d.Args {
		if i == n {
			break
		}
		args = append(args, a)
	}
	return fmt.Sprintf(f, args...)
}

func (d *Diag) Error() string {
	return fmt.Sprintf("%d-%d: %s", d.Rng[0], d.Rng[1], d.Message())
}

// Render returns the diagnostic prefixed with its file location
// resolved through fs. A range outside fs falls back to raw offsets.
func (d *Diag) Render(fs loc.Files) string {
	l := fs.Loc(d.Rng)
	if l == nil {
		return d.Error()
	}
	return l.String() + ": " + d.Message()
}

// Diags accumulates diagnostics across one scope's resolution.
// Resolution never aborts on error; every step adds zero or more
// diagnostics and degrades to an invalid or placeholder type.
type Diags struct {
	all []Diag
}

// Add appends diagnostics in order.
func (ds *Diags) Add(d ...Diag) {
	ds.all = append(ds.all, d...)
}

// All returns the collected diagnostics in collection order.
func (ds *Diags) All() []Diag {
	return ds.all
}

// Errs returns the collected diagnostics excluding warnings.
func (ds *Diags) Errs() []Diag {
	var errs []Diag
	for _, d := range ds.all {
		if !d.Warning() {
			errs = append(errs, d)
		}
	}
	return errs
}

// Sorted returns the diagnostics ordered by source range,
// with exact duplicates removed.
func (ds *Diags) Sorted() []Diag {
	if len(ds.all) == 0 {
		return nil
	}
	sorted := make([]Diag, len(ds.all))
	copy(sorted, ds.all)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := &sorted[i], &sorted[j]
		if di.Rng != dj.Rng {
			return di.Rng[0] < dj.Rng[0] ||
				di.Rng[0] == dj.Rng[0] && di.Rng[1] < dj.Rng[1]
		}
		return di.Code < dj.Code
	})
	dedup := sorted[:1]
	for _, d := range sorted[1:] {
		prev := &dedup[len(dedup)-1]
		if d.Code != prev.Code || d.Rng != prev.Rng ||
			strings.Join(d.Args, "\x00") != strings.Join(prev.Args, "\x00") {
			dedup = append(dedup, d)
		}
	}
	return dedup
}

// Render returns the sorted diagnostics rendered against fs,
// one string per diagnostic.
func (ds *Diags) Render(fs loc.Files) []string {
	sorted := ds.Sorted()
	out := make([]string, len(sorted))
	for i := range sorted {
		out[i] = sorted[i].Render(fs)
	}
	return out
}
