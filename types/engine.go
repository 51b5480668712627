package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quill-lang/quill/loc"
)

// An Engine owns type-variable allocation, the substitution map,
// and deferred constraints for one declaration's resolution.
// Nothing is shared across declarations: each declaration's scope
// owns one Engine and discards it after use, so separate declarations
// may be resolved in parallel by the caller.
//
// No Engine operation fails for a type error: every error becomes
// a diagnostic plus an invalid or placeholder type.
type Engine struct {
	next    int
	sub     map[int]Type
	pending map[int][]deferred
	unwrap  func(UDT) (Type, bool)
}

// A deferred constraint waits for a variable to be bound.
// The subject is kept separately: an Indexed constraint
// may wait on its index rather than on its subject.
type deferred struct {
	subject Type
	c       Constraint
	rng     loc.Range
}

// NewEngine returns an empty engine.
func NewEngine() *Engine {
	return &Engine{
		sub:     make(map[int]Type),
		pending: make(map[int][]deferred),
	}
}

// SetUnwrapper provides the underlying-type lookup used to check
// Wrapped and Equatable constraints on user-defined types.
// The lookup fails for types without exactly one item.
func (e *Engine) SetUnwrapper(f func(UDT) (Type, bool)) {
	e.unwrap = f
}

// Fresh allocates an unbound type variable.
func (e *Engine) Fresh() Type {
	e.next++
	return Var{id: e.next}
}

// Resolve dereferences t through the substitution map as far as possible.
// Unresolved trailing variables remain variables, never Invalid;
// callers may Resolve again later as the map refines further.
func (e *Engine) Resolve(t Type) Type {
	switch t := t.(type) {
	case Var:
		if s, ok := e.sub[t.id]; ok {
			return e.Resolve(s)
		}
		return t
	case Array:
		return Array{Item: e.Resolve(t.Item)}
	case Tuple:
		items := make([]Type, len(t.Items))
		for i := range t.Items {
			items[i] = e.Resolve(t.Items[i])
		}
		return Tuple{Items: items}
	case Fun:
		return Fun{Arg: e.Resolve(t.Arg), Ret: e.Resolve(t.Ret)}
	case Op:
		return Op{Arg: e.Resolve(t.Arg), Ret: e.Resolve(t.Ret), Info: t.Info}
	default:
		return t
	}
}

// head dereferences only the top-level variable chain.
func (e *Engine) head(t Type) Type {
	for {
		v, ok := t.(Var)
		if !ok {
			return t
		}
		s, ok := e.sub[v.id]
		if !ok {
			return t
		}
		t = s
	}
}

// Unify binds free type variables to make expected and actual equal.
// On disagreeing constructors or an occurs-check violation it emits
// one type-mismatch diagnostic and applies no partial binding.
// A Param-typed value unifies only with itself or Invalid.
func (e *Engine) Unify(expected, actual Type, rng loc.Range) []Diag {
	return e.UnifyCode(TypeMismatch, expected, actual, rng)
}

// UnifyCode is Unify with a context-specific mismatch code.
// The diagnostic arguments are the resolved actual and expected types.
func (e *Engine) UnifyCode(code Code, expected, actual Type, rng loc.Range) []Diag {
	u := &unifier{e: e, binds: make(map[int]Type)}
	if !u.match(expected, actual) {
		return []Diag{{
			Code: code,
			Args: []string{e.Resolve(actual).String(), e.Resolve(expected).String()},
			Rng:  rng,
		}}
	}
	return u.commit()
}

// VerifyAssign checks that a value of type actual may flow into a
// context expecting expected, such as a copy-and-update right-hand side.
// It unifies the two and additionally rejects any case where
// unification would bind a type parameter to anything but itself
// or Invalid: the parameter belongs to an enclosing generic callable,
// and binding it would unsoundly specialize that callable's signature.
// Offending parameters yield one ConstrainsTypeParameter diagnostic
// naming them all.
func (e *Engine) VerifyAssign(code Code, expected, actual Type, rng loc.Range) []Diag {
	u := &unifier{e: e, binds: make(map[int]Type), lenient: true}
	ok := u.match(expected, actual)
	if len(u.params) > 0 {
		var names []string
		for p := range u.params {
			names = append(names, p.String())
		}
		sort.Strings(names)
		return []Diag{{
			Code: ConstrainsTypeParameter,
			Args: []string{strings.Join(names, ", ")},
			Rng:  rng,
		}}
	}
	if !ok {
		return []Diag{{
			Code: code,
			Args: []string{e.Resolve(actual).String(), e.Resolve(expected).String()},
			Rng:  rng,
		}}
	}
	return u.commit()
}

// A unifier records tentative bindings while structurally matching
// a pair of types, so that a failed unification leaves the engine's
// substitution map untouched.
type unifier struct {
	e     *Engine
	binds map[int]Type
	order []int

	// lenient treats a type parameter matched against a different
	// type as a recorded violation rather than a failure.
	lenient bool
	params  map[Param]bool
}

// resolve dereferences the top-level variable chain
// through both the engine's map and the tentative bindings.
func (u *unifier) resolve(t Type) Type {
	for {
		v, ok := t.(Var)
		if !ok {
			return t
		}
		if s, ok := u.e.sub[v.id]; ok {
			t = s
			continue
		}
		if s, ok := u.binds[v.id]; ok {
			t = s
			continue
		}
		return t
	}
}

func (u *unifier) match(expected, actual Type) bool {
	a := u.resolve(expected)
	b := u.resolve(actual)
	if isInvalid(a) || isInvalid(b) {
		return true
	}
	if av, ok := a.(Var); ok {
		if bv, ok := b.(Var); ok && av.id == bv.id {
			return true
		}
		return u.bind(av, b)
	}
	if bv, ok := b.(Var); ok {
		return u.bind(bv, a)
	}
	ap, aIsParam := a.(Param)
	bp, bIsParam := b.(Param)
	if aIsParam || bIsParam {
		if aIsParam && bIsParam && ap == bp {
			return true
		}
		if u.lenient {
			if u.params == nil {
				u.params = make(map[Param]bool)
			}
			if aIsParam {
				u.params[ap] = true
			}
			if bIsParam {
				u.params[bp] = true
			}
			return true
		}
		return false
	}
	switch a := a.(type) {
	case Prim:
		b, ok := b.(Prim)
		return ok && a == b
	case Array:
		b, ok := b.(Array)
		return ok && u.match(a.Item, b.Item)
	case Tuple:
		b, ok := b.(Tuple)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !u.match(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case UDT:
		b, ok := b.(UDT)
		return ok && a.Name == b.Name
	case Fun:
		b, ok := b.(Fun)
		return ok && u.match(a.Arg, b.Arg) && u.match(a.Ret, b.Ret)
	case Op:
		// The actual operation must support
		// at least the expected functor set.
		b, ok := b.(Op)
		return ok && b.Info.Contains(a.Info) &&
			u.match(a.Arg, b.Arg) && u.match(a.Ret, b.Ret)
	case Missing:
		return isMissing(b)
	default:
		panic(fmt.Sprintf("impossible type: %T", a))
	}
}

func (u *unifier) bind(v Var, t Type) bool {
	if u.occurs(v, t) {
		return false
	}
	u.binds[v.id] = t
	u.order = append(u.order, v.id)
	return true
}

func (u *unifier) occurs(v Var, t Type) bool {
	t = u.resolve(t)
	switch t := t.(type) {
	case Var:
		return t.id == v.id
	case Array:
		return u.occurs(v, t.Item)
	case Tuple:
		for _, it := range t.Items {
			if u.occurs(v, it) {
				return true
			}
		}
		return false
	case Fun:
		return u.occurs(v, t.Arg) || u.occurs(v, t.Ret)
	case Op:
		return u.occurs(v, t.Arg) || u.occurs(v, t.Ret)
	default:
		return false
	}
}

// commit applies the recorded bindings to the substitution map,
// then rechecks constraints deferred on the newly bound variables
// to a fixed point.
func (u *unifier) commit() []Diag {
	for _, id := range u.order {
		u.e.sub[id] = u.binds[id]
	}
	var diags []Diag
	for _, id := range u.order {
		diags = append(diags, u.e.wake(id)...)
	}
	return diags
}

func (e *Engine) wake(id int) []Diag {
	ps := e.pending[id]
	if len(ps) == 0 {
		return nil
	}
	delete(e.pending, id)
	var diags []Diag
	for _, p := range ps {
		diags = append(diags, e.Constrain(p.subject, p.c, p.rng)...)
	}
	return diags
}

// Intersect computes the most specific common type of a and b
// for binary contexts: arithmetic, concatenation, equality,
// and branch merging. Identical types return as-is; a variable
// paired with a concrete type binds the variable; otherwise it
// emits an argument-mismatch diagnostic and returns Invalid.
func (e *Engine) Intersect(a, b Type, rng loc.Range) (Type, []Diag) {
	return e.IntersectCode(ArgumentMismatchInBinaryOp, a, b, rng)
}

// IntersectCode is Intersect with a context-specific mismatch code.
func (e *Engine) IntersectCode(code Code, a, b Type, rng loc.Range) (Type, []Diag) {
	ra, rb := e.Resolve(a), e.Resolve(b)
	if eq(ra, rb) {
		return ra, nil
	}
	if isInvalid(ra) || isInvalid(rb) {
		return Invalid{}, nil
	}
	if _, ok := ra.(Var); ok {
		ds := e.UnifyCode(code, ra, rb, rng)
		return e.Resolve(rb), ds
	}
	if _, ok := rb.(Var); ok {
		ds := e.UnifyCode(code, rb, ra, rng)
		return e.Resolve(ra), ds
	}
	switch ra := ra.(type) {
	case Array:
		if rb, ok := rb.(Array); ok {
			item, ds := e.IntersectCode(code, ra.Item, rb.Item, rng)
			return Array{Item: item}, ds
		}
	case Tuple:
		if rb, ok := rb.(Tuple); ok && len(ra.Items) == len(rb.Items) {
			items := make([]Type, len(ra.Items))
			var diags []Diag
			for i := range ra.Items {
				var ds []Diag
				items[i], ds = e.IntersectCode(code, ra.Items[i], rb.Items[i], rng)
				diags = append(diags, ds...)
			}
			return Tuple{Items: items}, diags
		}
	case Fun:
		if rb, ok := rb.(Fun); ok {
			arg, ds1 := e.IntersectCode(code, ra.Arg, rb.Arg, rng)
			ret, ds2 := e.IntersectCode(code, ra.Ret, rb.Ret, rng)
			return Fun{Arg: arg, Ret: ret}, append(ds1, ds2...)
		}
	case Op:
		if rb, ok := rb.(Op); ok {
			arg, ds1 := e.IntersectCode(code, ra.Arg, rb.Arg, rng)
			ret, ds2 := e.IntersectCode(code, ra.Ret, rb.Ret, rng)
			return Op{Arg: arg, Ret: ret, Info: ra.Info.Meet(rb.Info)}, append(ds1, ds2...)
		}
	}
	return Invalid{}, []Diag{{
		Code: code,
		Args: []string{ra.String(), rb.String()},
		Rng:  rng,
	}}
}

// Constrain registers a requirement on t.
// The requirement is deferred while the subject (or the index of an
// Indexed constraint) is an unbound variable, and checked immediately
// once concrete. Violations emit a constraint-specific diagnostic.
func (e *Engine) Constrain(t Type, c Constraint, rng loc.Range) []Diag {
	sub := e.head(t)
	if v, ok := sub.(Var); ok {
		e.pending[v.id] = append(e.pending[v.id], deferred{subject: t, c: c, rng: rng})
		return nil
	}
	return e.check(sub, c, rng)
}

func (e *Engine) check(t Type, c Constraint, rng loc.Range) []Diag {
	if isInvalid(t) {
		return nil
	}
	switch c := c.(type) {
	case Numeric:
		if isNumeric(t) {
			return nil
		}
		return violation(ExpectingNumericExpr, t, rng)
	case Integral:
		if isIntegral(t) {
			return nil
		}
		return violation(ExpectingIntegralExpr, t, rng)
	case Equatable:
		if e.equatable(t) {
			return nil
		}
		return violation(InvalidTypeInEqualityComparison, t, rng)
	case Semigroup:
		if isNumeric(t) || isPrim(t, String) {
			return nil
		}
		if _, ok := t.(Array); ok {
			return nil
		}
		return violation(InvalidTypeForConcatenation, t, rng)
	case Iterable:
		switch t := t.(type) {
		case Array:
			return e.Unify(c.Item, t.Item, rng)
		case Prim:
			if t == Range {
				return e.Unify(c.Item, Int, rng)
			}
		}
		return violation(ExpectingIterableExpr, t, rng)
	case Indexed:
		arr, ok := t.(Array)
		if !ok {
			return violation(ItemAccessForNonArray, t, rng)
		}
		idx := e.head(c.Index)
		if v, ok := idx.(Var); ok {
			e.pending[v.id] = append(e.pending[v.id], deferred{subject: t, c: c, rng: rng})
			return nil
		}
		switch {
		case isInvalid(idx):
			return nil
		case isPrim(idx, Int):
			return e.Unify(c.Item, arr.Item, rng)
		case isPrim(idx, Range):
			return e.Unify(c.Item, Array{Item: arr.Item}, rng)
		}
		return violation(InvalidArrayItemIndex, idx, rng)
	case Wrapped:
		u, ok := t.(UDT)
		if !ok {
			return violation(ExpectingUserDefinedType, t, rng)
		}
		if e.unwrap == nil {
			return violation(ExpectingUserDefinedType, t, rng)
		}
		under, ok := e.unwrap(u)
		if !ok {
			return violation(ExpectingUserDefinedType, t, rng)
		}
		return e.Unify(c.Item, under, rng)
	case Callable:
		switch t := t.(type) {
		case Fun:
			return append(e.Unify(t.Arg, c.Arg, rng), e.Unify(t.Ret, c.Ret, rng)...)
		case Op:
			return append(e.Unify(t.Arg, c.Arg, rng), e.Unify(t.Ret, c.Ret, rng)...)
		}
		return violation(ExpectingCallableExpr, t, rng)
	case Adjointable:
		if op, ok := t.(Op); ok && op.Info.Adj {
			return nil
		}
		return violation(InvalidAdjointApplication, t, rng)
	case Controllable:
		op, ok := t.(Op)
		if !ok || !op.Info.Ctl {
			return violation(InvalidControlledApplication, t, rng)
		}
		ctl := Op{
			Arg:  Tuple{Items: []Type{Array{Item: Qubit}, op.Arg}},
			Ret:  op.Ret,
			Info: op.Info,
		}
		return e.Unify(c.Ctl, ctl, rng)
	case CanGenerateFunctors:
		switch t := t.(type) {
		case Fun:
			return nil
		case Op:
			if t.Info.Contains(c.Required) {
				return nil
			}
			return violation(MissingFunctorSupport, t, rng)
		}
		// Non-callables are reported by the call check itself.
		return nil
	case HasPartialApplication:
		switch t := t.(type) {
		case Fun:
			return e.Unify(c.Result, Fun{Arg: c.Missing, Ret: t.Ret}, rng)
		case Op:
			return e.Unify(c.Result, Op{Arg: c.Missing, Ret: t.Ret, Info: t.Info}, rng)
		}
		return violation(ExpectingCallableExpr, t, rng)
	default:
		panic(fmt.Sprintf("impossible constraint: %T", c))
	}
}

// equatable reports whether values of type t support equality comparison.
// Callables do not; a user-defined type does when its single underlying
// item does; an unresolved variable is assumed equatable.
func (e *Engine) equatable(t Type) bool {
	switch t := e.head(t).(type) {
	case Prim:
		return true
	case Array:
		return e.equatable(t.Item)
	case Tuple:
		for _, it := range t.Items {
			if !e.equatable(it) {
				return false
			}
		}
		return true
	case UDT:
		if e.unwrap == nil {
			return false
		}
		u, ok := e.unwrap(t)
		return ok && e.equatable(u)
	case Invalid, Var:
		return true
	default:
		return false
	}
}

func isNumeric(t Type) bool {
	p, ok := t.(Prim)
	return ok && (p == Int || p == BigInt || p == Double)
}

func isIntegral(t Type) bool {
	p, ok := t.(Prim)
	return ok && (p == Int || p == BigInt)
}

func isPrim(t Type, p Prim) bool {
	q, ok := t.(Prim)
	return ok && q == p
}

func violation(code Code, t Type, rng loc.Range) []Diag {
	return []Diag{{Code: code, Args: []string{t.String()}, Rng: rng}}
}
