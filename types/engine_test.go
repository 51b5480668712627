package types

import (
	"testing"

	"github.com/eaburns/pretty"
	"github.com/google/go-cmp/cmp"
	"github.com/quill-lang/quill/loc"
)

var testRng = loc.Range{3, 7}

func codes(ds []Diag) []Code {
	var cs []Code
	for _, d := range ds {
		cs = append(cs, d.Code)
	}
	return cs
}

func TestUnifyIdentical(t *testing.T) {
	t.Parallel()
	tests := []Type{
		Unit,
		Int,
		BigInt,
		Double,
		Bool,
		String,
		Qubit,
		Result,
		Pauli,
		Range,
		Array{Item: Int},
		Tuple{Items: []Type{Int, Bool}},
		UDT{Name: "Test.Point"},
		Fun{Arg: Int, Ret: Bool},
		Op{Arg: Unit, Ret: Unit, Info: Chars{Adj: true, Ctl: true}},
		Param{Origin: "Test.Foo", Name: "T"},
	}
	for _, typ := range tests {
		typ := typ
		t.Run(typ.String(), func(t *testing.T) {
			t.Parallel()
			e := NewEngine()
			if ds := e.Unify(typ, typ, testRng); len(ds) > 0 {
				t.Errorf("Unify(%s, %s)=%v, want no diagnostics", typ, typ, ds)
			}
		})
	}
}

func TestUnifyBindsVariable(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	v := e.Fresh()
	if ds := e.Unify(v, Int, testRng); len(ds) > 0 {
		t.Fatalf("Unify(v, Int)=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(v); !eq(got, Int) {
		t.Errorf("Resolve(v)=%s, want Int", got)
	}

	w := e.Fresh()
	if ds := e.Unify(Array{Item: w}, Array{Item: Bool}, testRng); len(ds) > 0 {
		t.Fatalf("Unify(w[], Bool[])=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(w); !eq(got, Bool) {
		t.Errorf("Resolve(w)=%s, want Bool", got)
	}
}

func TestUnifyMismatch(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	ds := e.Unify(Int, Bool, testRng)
	want := []Diag{{Code: TypeMismatch, Args: []string{"Bool", "Int"}, Rng: testRng}}
	if diff := cmp.Diff(want, ds); diff != "" {
		t.Errorf("Unify(Int, Bool) diagnostics differ: %s", diff)
	}
}

func TestUnifyNoPartialBinding(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	v := e.Fresh()
	a := Tuple{Items: []Type{v, Int}}
	b := Tuple{Items: []Type{Bool, Bool}}
	if ds := e.Unify(a, b, testRng); len(ds) != 1 {
		t.Fatalf("Unify=%v, want one diagnostic", ds)
	}
	if _, unbound := e.Resolve(v).(Var); !unbound {
		t.Errorf("failed unification bound v to %s", e.Resolve(v))
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	v := e.Fresh()
	if ds := e.Unify(v, Array{Item: v}, testRng); len(ds) != 1 {
		t.Fatalf("Unify(v, v[])=%v, want one diagnostic", ds)
	}
	if _, unbound := e.Resolve(v).(Var); !unbound {
		t.Errorf("occurs violation bound v to %s", e.Resolve(v))
	}
}

func TestUnifyTypeParameter(t *testing.T) {
	t.Parallel()
	p := Param{Origin: "Test.Foo", Name: "T"}
	q := Param{Origin: "Test.Foo", Name: "U"}

	e := NewEngine()
	if ds := e.Unify(p, p, testRng); len(ds) > 0 {
		t.Errorf("Unify('T, 'T)=%v, want no diagnostics", ds)
	}
	if ds := e.Unify(p, Invalid{}, testRng); len(ds) > 0 {
		t.Errorf("Unify('T, invalid)=%v, want no diagnostics", ds)
	}
	if ds := e.Unify(p, q, testRng); len(ds) != 1 {
		t.Errorf("Unify('T, 'U)=%v, want one diagnostic", ds)
	}
	if ds := e.Unify(p, Int, testRng); len(ds) != 1 {
		t.Errorf("Unify('T, Int)=%v, want one diagnostic", ds)
	}
}

func TestUnifyOpCharacteristics(t *testing.T) {
	t.Parallel()
	adj := Op{Arg: Unit, Ret: Unit, Info: Chars{Adj: true}}
	both := Op{Arg: Unit, Ret: Unit, Info: Chars{Adj: true, Ctl: true}}

	e := NewEngine()
	if ds := e.Unify(adj, both, testRng); len(ds) > 0 {
		t.Errorf("an operation with Adj + Ctl should satisfy an Adj expectation: %v", ds)
	}
	if ds := e.Unify(both, adj, testRng); len(ds) != 1 {
		t.Errorf("an Adj-only operation must not satisfy an Adj + Ctl expectation: %v", ds)
	}
}

func TestIntersect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b Type
		want Type
		errs []Code
	}{
		{name: "identical", a: Int, b: Int, want: Int},
		{
			name: "identical composite",
			a:    Array{Item: Tuple{Items: []Type{Int, Bool}}},
			b:    Array{Item: Tuple{Items: []Type{Int, Bool}}},
			want: Array{Item: Tuple{Items: []Type{Int, Bool}}},
		},
		{name: "invalid is absorbed", a: Invalid{}, b: Int, want: Invalid{}},
		{
			name: "mismatch",
			a:    Int,
			b:    Bool,
			want: Invalid{},
			errs: []Code{ArgumentMismatchInBinaryOp},
		},
		{
			name: "item mismatch",
			a:    Array{Item: Int},
			b:    Array{Item: Bool},
			want: Array{Item: Invalid{}},
			errs: []Code{ArgumentMismatchInBinaryOp},
		},
		{
			name: "characteristics meet",
			a:    Op{Arg: Unit, Ret: Unit, Info: Chars{Adj: true, Ctl: true}},
			b:    Op{Arg: Unit, Ret: Unit, Info: Chars{Adj: true}},
			want: Op{Arg: Unit, Ret: Unit, Info: Chars{Adj: true}},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			e := NewEngine()
			got, ds := e.Intersect(test.a, test.b, testRng)
			if !eq(got, test.want) {
				t.Errorf("Intersect(%s, %s)=%s, want %s", test.a, test.b, got, test.want)
			}
			if diff := cmp.Diff(test.errs, codes(ds)); diff != "" {
				t.Errorf("diagnostic codes differ: %s", diff)
			}
			if len(ds) > 0 {
				return
			}
			// Both inputs must unify with a successful intersection.
			if ds := e.Unify(got, test.a, testRng); len(ds) > 0 {
				t.Errorf("a does not unify with the intersection: %v", ds)
			}
			if ds := e.Unify(got, test.b, testRng); len(ds) > 0 {
				t.Errorf("b does not unify with the intersection: %v", ds)
			}
		})
	}
}

func TestIntersectBindsVariable(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	v := e.Fresh()
	got, ds := e.Intersect(v, Int, testRng)
	if len(ds) > 0 {
		t.Fatalf("Intersect(v, Int)=%v, want no diagnostics", ds)
	}
	if !eq(got, Int) {
		t.Errorf("Intersect(v, Int)=%s, want Int", got)
	}
	if r := e.Resolve(v); !eq(r, Int) {
		t.Errorf("Resolve(v)=%s, want Int", r)
	}
}

func TestConstrainClasses(t *testing.T) {
	t.Parallel()
	adj := Op{Arg: Unit, Ret: Unit, Info: Chars{Adj: true}}
	tests := []struct {
		name string
		typ  Type
		c    Constraint
		errs []Code
	}{
		{name: "int is numeric", typ: Int, c: Numeric{}},
		{name: "double is numeric", typ: Double, c: Numeric{}},
		{name: "bool is not numeric", typ: Bool, c: Numeric{}, errs: []Code{ExpectingNumericExpr}},
		{name: "bigint is integral", typ: BigInt, c: Integral{}},
		{name: "double is not integral", typ: Double, c: Integral{}, errs: []Code{ExpectingIntegralExpr}},
		{name: "result is equatable", typ: Result, c: Equatable{}},
		{name: "int array is equatable", typ: Array{Item: Int}, c: Equatable{}},
		{name: "function is not equatable", typ: Fun{Arg: Int, Ret: Int}, c: Equatable{},
			errs: []Code{InvalidTypeInEqualityComparison}},
		{name: "operation is not equatable", typ: adj, c: Equatable{},
			errs: []Code{InvalidTypeInEqualityComparison}},
		{name: "int is a semigroup", typ: Int, c: Semigroup{}},
		{name: "string is a semigroup", typ: String, c: Semigroup{}},
		{name: "array is a semigroup", typ: Array{Item: Bool}, c: Semigroup{}},
		{name: "bool is not a semigroup", typ: Bool, c: Semigroup{},
			errs: []Code{InvalidTypeForConcatenation}},
		{name: "range is not indexable", typ: Range, c: Indexed{Index: Int, Item: Invalid{}},
			errs: []Code{ItemAccessForNonArray}},
		{name: "adjointable", typ: adj, c: Adjointable{}},
		{name: "not adjointable", typ: Op{Arg: Unit, Ret: Unit}, c: Adjointable{},
			errs: []Code{InvalidAdjointApplication}},
		{name: "function is not adjointable", typ: Fun{Arg: Unit, Ret: Unit}, c: Adjointable{},
			errs: []Code{InvalidAdjointApplication}},
		{name: "function generates any functors", typ: Fun{Arg: Int, Ret: Int},
			c: CanGenerateFunctors{Required: Chars{Adj: true, Ctl: true}}},
		{name: "missing functor support", typ: adj,
			c:    CanGenerateFunctors{Required: Chars{Ctl: true}},
			errs: []Code{MissingFunctorSupport}},
		{name: "invalid satisfies anything", typ: Invalid{}, c: Numeric{}},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			e := NewEngine()
			ds := e.Constrain(test.typ, test.c, testRng)
			if diff := cmp.Diff(test.errs, codes(ds)); diff != "" {
				t.Errorf("Constrain(%s, %s) diagnostics differ: %s\n%s",
					test.typ, test.c, diff, pretty.String(ds))
			}
		})
	}
}

func TestConstrainIterable(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	item := e.Fresh()
	if ds := e.Constrain(Array{Item: Bool}, Iterable{Item: item}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(item); !eq(got, Bool) {
		t.Errorf("item=%s, want Bool", got)
	}

	e = NewEngine()
	item = e.Fresh()
	if ds := e.Constrain(Range, Iterable{Item: item}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(item); !eq(got, Int) {
		t.Errorf("range iterates over %s, want Int", got)
	}

	e = NewEngine()
	if ds := e.Constrain(Bool, Iterable{Item: e.Fresh()}, testRng); len(codes(ds)) != 1 || ds[0].Code != ExpectingIterableExpr {
		t.Errorf("Constrain(Bool, Iterable)=%v, want ExpectingIterableExpr", ds)
	}
}

func TestConstrainIndexed(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	item := e.Fresh()
	if ds := e.Constrain(Array{Item: Bool}, Indexed{Index: Int, Item: item}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(item); !eq(got, Bool) {
		t.Errorf("Int-indexed item=%s, want Bool", got)
	}

	e = NewEngine()
	item = e.Fresh()
	if ds := e.Constrain(Array{Item: Bool}, Indexed{Index: Range, Item: item}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(item); !eq(got, Array{Item: Bool}) {
		t.Errorf("Range-indexed item=%s, want Bool[]", got)
	}

	e = NewEngine()
	ds := e.Constrain(Array{Item: Bool}, Indexed{Index: Double, Item: e.Fresh()}, testRng)
	if len(ds) != 1 || ds[0].Code != InvalidArrayItemIndex {
		t.Errorf("Double index=%v, want InvalidArrayItemIndex", ds)
	}

	// An unresolved index defers the whole constraint.
	e = NewEngine()
	idx := e.Fresh()
	item = e.Fresh()
	if ds := e.Constrain(Array{Item: Bool}, Indexed{Index: idx, Item: item}, testRng); len(ds) > 0 {
		t.Fatalf("deferred Constrain=%v, want no diagnostics", ds)
	}
	if ds := e.Unify(idx, Range, testRng); len(ds) > 0 {
		t.Fatalf("Unify(idx, Range)=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(item); !eq(got, Array{Item: Bool}) {
		t.Errorf("item after index binding=%s, want Bool[]", got)
	}
}

func TestConstrainWrapped(t *testing.T) {
	t.Parallel()
	wrapper := UDT{Name: "Test.Wrapper"}
	e := NewEngine()
	e.SetUnwrapper(func(u UDT) (Type, bool) {
		if u == wrapper {
			return Int, true
		}
		return nil, false
	})
	under := e.Fresh()
	if ds := e.Constrain(wrapper, Wrapped{Item: under}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(under); !eq(got, Int) {
		t.Errorf("underlying=%s, want Int", got)
	}

	ds := e.Constrain(UDT{Name: "Test.Pair"}, Wrapped{Item: e.Fresh()}, testRng)
	if len(ds) != 1 || ds[0].Code != ExpectingUserDefinedType {
		t.Errorf("multi-item type=%v, want ExpectingUserDefinedType", ds)
	}
	ds = e.Constrain(Int, Wrapped{Item: e.Fresh()}, testRng)
	if len(ds) != 1 || ds[0].Code != ExpectingUserDefinedType {
		t.Errorf("Int=%v, want ExpectingUserDefinedType", ds)
	}
}

func TestConstrainCallable(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	ret := e.Fresh()
	f := Fun{Arg: Tuple{Items: []Type{Int, Bool}}, Ret: String}
	if ds := e.Constrain(f, Callable{Arg: Tuple{Items: []Type{Int, Bool}}, Ret: ret}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(ret); !eq(got, String) {
		t.Errorf("result=%s, want String", got)
	}

	e = NewEngine()
	ds := e.Constrain(Int, Callable{Arg: Unit, Ret: e.Fresh()}, testRng)
	if len(ds) != 1 || ds[0].Code != ExpectingCallableExpr {
		t.Errorf("Constrain(Int, Callable)=%v, want ExpectingCallableExpr", ds)
	}
}

func TestConstrainControllable(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	op := Op{Arg: Int, Ret: Unit, Info: Chars{Adj: true, Ctl: true}}
	ctl := e.Fresh()
	if ds := e.Constrain(op, Controllable{Ctl: ctl}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	want := Op{
		Arg:  Tuple{Items: []Type{Array{Item: Qubit}, Int}},
		Ret:  Unit,
		Info: Chars{Adj: true, Ctl: true},
	}
	if got := e.Resolve(ctl); !eq(got, want) {
		t.Errorf("controlled type=%s, want %s", got, want)
	}

	ds := e.Constrain(Op{Arg: Int, Ret: Unit}, Controllable{Ctl: e.Fresh()}, testRng)
	if len(ds) != 1 || ds[0].Code != InvalidControlledApplication {
		t.Errorf("uncontrollable=%v, want InvalidControlledApplication", ds)
	}
}

func TestConstrainHasPartialApplication(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	f := Fun{Arg: Tuple{Items: []Type{Int, Bool}}, Ret: String}
	res := e.Fresh()
	if ds := e.Constrain(f, HasPartialApplication{Missing: Int, Result: res}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	if got := e.Resolve(res); !eq(got, Fun{Arg: Int, Ret: String}) {
		t.Errorf("partial type=%s, want (Int -> String)", got)
	}

	e = NewEngine()
	op := Op{Arg: Tuple{Items: []Type{Int, Bool}}, Ret: Unit, Info: Chars{Adj: true}}
	res = e.Fresh()
	if ds := e.Constrain(op, HasPartialApplication{Missing: Bool, Result: res}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want no diagnostics", ds)
	}
	want := Op{Arg: Bool, Ret: Unit, Info: Chars{Adj: true}}
	if got := e.Resolve(res); !eq(got, want) {
		t.Errorf("partial type=%s, want %s", got, want)
	}
}

func TestConstraintDeferral(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	v := e.Fresh()
	if ds := e.Constrain(v, Numeric{}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain on a variable must defer, got %v", ds)
	}
	ds := e.Unify(v, Bool, testRng)
	want := []Code{ExpectingNumericExpr}
	if diff := cmp.Diff(want, codes(ds)); diff != "" {
		t.Errorf("binding diagnostics differ: %s\n%s", diff, pretty.String(ds))
	}

	e = NewEngine()
	v = e.Fresh()
	if ds := e.Constrain(v, Numeric{}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain on a variable must defer, got %v", ds)
	}
	if ds := e.Unify(v, Int, testRng); len(ds) > 0 {
		t.Errorf("binding a satisfying type reported %v", ds)
	}
}

func TestConstraintDeferralChain(t *testing.T) {
	t.Parallel()
	// Rechecking runs to a fixed point through chains of variables.
	e := NewEngine()
	v := e.Fresh()
	w := e.Fresh()
	if ds := e.Constrain(v, Integral{}, testRng); len(ds) > 0 {
		t.Fatalf("Constrain=%v, want deferral", ds)
	}
	if ds := e.Unify(v, w, testRng); len(ds) > 0 {
		t.Fatalf("Unify(v, w)=%v, want no diagnostics", ds)
	}
	ds := e.Unify(w, Double, testRng)
	want := []Code{ExpectingIntegralExpr}
	if diff := cmp.Diff(want, codes(ds)); diff != "" {
		t.Errorf("chained deferral diagnostics differ: %s", diff)
	}
}

func TestResolveLeavesVariablesUnbound(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	v := e.Fresh()
	if _, ok := e.Resolve(v).(Var); !ok {
		t.Errorf("Resolve of an unbound variable=%s, want a variable", e.Resolve(v))
	}
	got := e.Resolve(Array{Item: v})
	arr, ok := got.(Array)
	if !ok {
		t.Fatalf("Resolve(v[])=%s, want an array", got)
	}
	if _, ok := arr.Item.(Var); !ok {
		t.Errorf("Resolve(v[]) item=%s, want a variable", arr.Item)
	}
}

func TestVerifyAssign(t *testing.T) {
	t.Parallel()
	p := Param{Origin: "Test.Foo", Name: "T"}

	e := NewEngine()
	if ds := e.VerifyAssign(TypeMismatchInCopyAndUpdateExpr, p, p, testRng); len(ds) > 0 {
		t.Errorf("'T := 'T reported %v", ds)
	}

	e = NewEngine()
	ds := e.VerifyAssign(TypeMismatchInCopyAndUpdateExpr, p, Int, testRng)
	want := []Diag{{Code: ConstrainsTypeParameter, Args: []string{"'T"}, Rng: testRng}}
	if diff := cmp.Diff(want, ds); diff != "" {
		t.Errorf("'T := Int diagnostics differ: %s", diff)
	}

	e = NewEngine()
	ds = e.VerifyAssign(
		TypeMismatchInCopyAndUpdateExpr,
		Tuple{Items: []Type{p, Param{Origin: "Test.Foo", Name: "U"}}},
		Tuple{Items: []Type{Int, Bool}},
		testRng,
	)
	want = []Diag{{Code: ConstrainsTypeParameter, Args: []string{"'T, 'U"}, Rng: testRng}}
	if diff := cmp.Diff(want, ds); diff != "" {
		t.Errorf("multi-parameter diagnostics differ: %s", diff)
	}

	e = NewEngine()
	ds = e.VerifyAssign(TypeMismatchInCopyAndUpdateExpr, Int, Bool, testRng)
	if len(ds) != 1 || ds[0].Code != TypeMismatchInCopyAndUpdateExpr {
		t.Errorf("Int := Bool=%v, want TypeMismatchInCopyAndUpdateExpr", ds)
	}
}
