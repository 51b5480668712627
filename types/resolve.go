package types

import (
	"fmt"
	"strconv"

	"github.com/quill-lang/quill/loc"
	"github.com/quill-lang/quill/syn"
)

// Resolve converts an untyped expression into a fully typed expression.
// Diagnostics are delivered solely through sink: resolution never
// aborts on a type error, and a mistyped sub-expression resolves to
// Invalid to suppress cascading duplicate diagnostics.
//
// Resolution is single-threaded, synchronous, and pure. Within one
// scope, engine operations apply in depth-first, left-to-right,
// child-before-parent order, except where a parent must inspect a
// still-unresolved child type.
func Resolve(x *Scope, sink *Diags, astExpr syn.Expr) *Expr {
	r := &resolver{Scope: x, sink: sink}
	return r.expr(astExpr)
}

type resolver struct {
	*Scope
	sink   *Diags
	indent string
}

func (x *resolver) err(rng loc.Range, code Code, args ...string) {
	x.sink.Add(Diag{Code: code, Args: args, Rng: rng})
}

func (x *resolver) report(ds []Diag) {
	x.sink.Add(ds...)
}

func (x *resolver) tr(f string, vs ...interface{}) func() {
	if !x.Trace {
		return func() {}
	}
	x.log(f, vs...)
	olddent := x.indent
	x.indent += "---"
	return func() { x.indent = olddent }
}

func (x *resolver) log(f string, vs ...interface{}) {
	if !x.Trace {
		return
	}
	fmt.Print(x.indent)
	fmt.Printf(f, vs...)
	fmt.Println("")
}

func rngPtr(e syn.Expr) *loc.Range {
	r := e.GetRange()
	return &r
}

func anyQuantum(es []*Expr) bool {
	for _, e := range es {
		if e.Quantum {
			return true
		}
	}
	return false
}

func (x *resolver) expr(astExpr syn.Expr) *Expr {
	switch astExpr := astExpr.(type) {
	case *syn.Int:
		return &Expr{Kind: IntLit{Val: astExpr.Val}, Type: Int, Rng: rngPtr(astExpr)}
	case *syn.BigInt:
		return &Expr{Kind: BigIntLit{Val: astExpr.Val}, Type: BigInt, Rng: rngPtr(astExpr)}
	case *syn.Double:
		return &Expr{Kind: DoubleLit{Val: astExpr.Val}, Type: Double, Rng: rngPtr(astExpr)}
	case *syn.Bool:
		return &Expr{Kind: BoolLit{Val: astExpr.Val}, Type: Bool, Rng: rngPtr(astExpr)}
	case *syn.String:
		return x.stringLit(astExpr)
	case *syn.Result:
		return &Expr{Kind: ResultLit{One: astExpr.One}, Type: Result, Rng: rngPtr(astExpr)}
	case *syn.Pauli:
		return &Expr{Kind: PauliLit{Axis: astExpr.Axis}, Type: Pauli, Rng: rngPtr(astExpr)}
	case *syn.Unit:
		return &Expr{Kind: UnitLit{}, Type: Unit, Rng: rngPtr(astExpr)}
	case *syn.Missing:
		return &Expr{Kind: MissingExpr{}, Type: Missing{}, Rng: rngPtr(astExpr)}
	case *syn.Ident:
		return x.ident(astExpr)
	case *syn.Tuple:
		return x.tuple(astExpr)
	case *syn.Array:
		return x.array(astExpr)
	case *syn.SizedArray:
		return x.sizedArray(astExpr)
	case *syn.NewArray:
		return x.newArray(astExpr)
	case *syn.Index:
		return x.index(astExpr)
	case *syn.Field:
		return x.field(astExpr)
	case *syn.Update:
		return x.update(astExpr)
	case *syn.Cond:
		return x.cond(astExpr)
	case *syn.RangeLit:
		return x.rangeLit(astExpr)
	case *syn.BinOp:
		return x.binOp(astExpr)
	case *syn.UnOp:
		return x.unOp(astExpr)
	case *syn.Call:
		return x.call(astExpr)
	case *syn.Adjoint:
		return x.adjoint(astExpr)
	case *syn.Controlled:
		return x.controlled(astExpr)
	case *syn.Unwrap:
		return x.unwrap(astExpr)
	default:
		panic(fmt.Sprintf("impossible type: %T", astExpr))
	}
}

func (x *resolver) stringLit(e *syn.String) *Expr {
	interp := make([]*Expr, len(e.Interp))
	for i, it := range e.Interp {
		interp[i] = x.expr(it)
	}
	return &Expr{
		Kind:    StringLit{Text: e.Text, Interp: interp},
		Type:    String,
		Quantum: anyQuantum(interp),
		Rng:     rngPtr(e),
	}
}

// ident resolves an identifier, validating explicit type arguments
// and instantiating a referenced generic callable by substituting
// each unspecified type parameter with a fresh variable.
func (x *resolver) ident(e *syn.Ident) *Expr {
	defer x.tr("ident(%s)", e.Name)()

	info := x.Syms.ResolveIdentifier(x.sink, e.Name, e.GetRange())
	switch info.Kind {
	case InvalidName:
		// Already flagged upstream; type arguments are consumed silently.
		return &Expr{Kind: InvalidExpr{}, Type: Invalid{}, Rng: rngPtr(e)}
	case LocalName:
		if len(e.TypeArgs) > 0 {
			x.err(e.GetRange(), IdentifierCannotHaveTypeArguments)
			return &Expr{Kind: InvalidExpr{}, Type: Invalid{}, Rng: rngPtr(e)}
		}
		return &Expr{
			Kind:    Local{Name: e.Name},
			Type:    info.Type,
			Mutable: info.Mutable,
			Quantum: info.Quantum,
			Rng:     rngPtr(e),
		}
	case GlobalName:
		if len(e.TypeArgs) > 0 && len(e.TypeArgs) != len(info.TypeParams) {
			x.err(e.GetRange(), WrongNumberOfTypeArguments, strconv.Itoa(len(info.TypeParams)))
		}
		sub := make(map[string]Type, len(info.TypeParams))
		var typeArgs []TypeArg
		for i, p := range info.TypeParams {
			var t Type
			if i < len(e.TypeArgs) && len(e.TypeArgs) == len(info.TypeParams) {
				if _, elided := e.TypeArgs[i].(*syn.MissingTy); !elided {
					t = x.Syms.ResolveType(x.sink, e.TypeArgs[i])
				}
			}
			if t == nil {
				t = x.Eng.Fresh()
			}
			sub[p] = t
			typeArgs = append(typeArgs, TypeArg{Origin: info.Origin, Name: p, Type: t})
		}
		return &Expr{
			Kind:     Global{Name: e.Name},
			Type:     instantiate(info.Type, info.Origin, sub),
			TypeArgs: typeArgs,
			Rng:      rngPtr(e),
		}
	default:
		panic(fmt.Sprintf("impossible identifier kind: %d", info.Kind))
	}
}

// tuple resolves a tuple expression.
// Arity-1 tuples unwrap transparently: there is no one-item tuple type.
// A zero-item tuple is an upstream contract violation, not a diagnostic.
func (x *resolver) tuple(e *syn.Tuple) *Expr {
	if len(e.Items) == 0 {
		panic("impossible: empty tuple")
	}
	items := make([]*Expr, len(e.Items))
	ts := make([]Type, len(e.Items))
	for i, it := range e.Items {
		items[i] = x.expr(it)
		ts[i] = items[i].Type
	}
	if len(items) == 1 {
		return items[0]
	}
	return &Expr{
		Kind:    TupleExpr{Items: items},
		Type:    Tuple{Items: ts},
		Quantum: anyQuantum(items),
		Rng:     rngPtr(e),
	}
}

// array resolves an array literal, folding the element types
// pairwise into one common element type. The fold keeps the
// accumulated type on a mismatch, so every incompatible element
// gets its own diagnostic against the leftmost candidate.
func (x *resolver) array(e *syn.Array) *Expr {
	defer x.tr("array(%d items)", len(e.Items))()

	items := make([]*Expr, len(e.Items))
	var elem Type
	degraded := false
	for i, it := range e.Items {
		items[i] = x.expr(it)
		t := x.Eng.Resolve(items[i].Type)
		switch {
		case isMissing(t):
			x.err(it.GetRange(), MissingExprInArray)
			degraded = true
		case isInvalid(t):
			degraded = true
		case elem == nil:
			elem = items[i].Type
		default:
			folded, ds := x.Eng.IntersectCode(MultipleTypesInArray, elem, items[i].Type, it.GetRange())
			if len(ds) > 0 {
				x.report(ds)
				continue
			}
			elem = folded
		}
	}
	if elem == nil {
		if degraded {
			elem = Invalid{}
		} else {
			elem = x.Eng.Fresh()
		}
	}
	return &Expr{
		Kind:    ArrayLit{Items: items},
		Type:    Array{Item: elem},
		Quantum: anyQuantum(items),
		Rng:     rngPtr(e),
	}
}

func (x *resolver) sizedArray(e *syn.SizedArray) *Expr {
	val := x.expr(e.Val)
	size := x.expr(e.Size)
	x.report(x.Eng.UnifyCode(ExpectingIntExpr, Int, size.Type, e.Size.GetRange()))
	return &Expr{
		Kind:    SizedArrayExpr{Val: val, Size: size},
		Type:    Array{Item: val.Type},
		Quantum: val.Quantum || size.Quantum,
		Rng:     rngPtr(e),
	}
}

func (x *resolver) newArray(e *syn.NewArray) *Expr {
	item := x.Syms.ResolveType(x.sink, e.Item)
	size := x.expr(e.Size)
	x.report(x.Eng.UnifyCode(ExpectingIntExpr, Int, size.Type, e.Size.GetRange()))
	return &Expr{
		Kind:    NewArrayExpr{Size: size},
		Type:    Array{Item: item},
		Quantum: size.Quantum,
		Rng:     rngPtr(e),
	}
}

// index resolves array item access and slicing.
// A fully elided range is an identity slice: the array expression
// is returned unchanged, with no new diagnostics. Otherwise elided
// range bounds are rewritten to their defaults before the Indexed
// constraint is registered.
func (x *resolver) index(e *syn.Index) *Expr {
	defer x.tr("index")()

	arr := x.expr(e.Arr)
	var idx *Expr
	if rl, ok := e.Idx.(*syn.RangeLit); ok {
		startE, stepE, endE := splitRange(rl)
		_, openStart := startE.(*syn.Missing)
		_, openEnd := endE.(*syn.Missing)
		if openStart && openEnd && stepE == nil {
			return arr
		}
		idx = x.sliceRange(arr, rl)
	} else {
		idx = x.expr(e.Idx)
	}
	item := x.Eng.Fresh()
	x.report(x.Eng.Constrain(arr.Type, Indexed{Index: idx.Type, Item: item}, e.GetRange()))
	return &Expr{
		Kind:    IndexExpr{Arr: arr, Idx: idx},
		Type:    item,
		Quantum: arr.Quantum || idx.Quantum,
		Rng:     rngPtr(e),
	}
}

// splitRange decomposes a range literal.
// Composition is left-associative, so a nested range literal on the
// left carries the start and an explicit step.
func splitRange(rl *syn.RangeLit) (start, step, end syn.Expr) {
	if nested, ok := rl.Left.(*syn.RangeLit); ok {
		return nested.Left, nested.Right, rl.Right
	}
	return rl.Left, nil, rl.Right
}

// sliceRange resolves a range used as an array index,
// rewriting elided bounds.
func (x *resolver) sliceRange(arr *Expr, rl *syn.RangeLit) *Expr {
	startE, stepE, endE := splitRange(rl)
	var step *Expr
	if stepE != nil {
		step = x.expr(stepE)
		x.report(x.Eng.UnifyCode(ExpectingIntExpr, Int, step.Type, stepE.GetRange()))
	}
	start := x.bound(arr, startE, step, false)
	end := x.bound(arr, endE, step, true)
	q := start.Quantum || end.Quantum || step != nil && step.Quantum
	return &Expr{
		Kind:    RangeExpr{Start: start, Step: step, End: end},
		Type:    Range,
		Quantum: q,
		Rng:     rngPtr(rl),
	}
}

// bound resolves one bound of a slicing range. An elided start
// becomes 0 and an elided end becomes the array length minus one;
// with an explicit step the two are swapped at runtime when the
// step is negative.
func (x *resolver) bound(arr *Expr, e syn.Expr, step *Expr, isEnd bool) *Expr {
	if _, elided := e.(*syn.Missing); !elided {
		b := x.expr(e)
		x.report(x.Eng.UnifyCode(ExpectingIntExpr, Int, b.Type, e.GetRange()))
		return b
	}
	r := e.GetRange()
	zero := x.intExpr(r, 0)
	last := x.lastIndex(arr, r)
	fwd, bwd := zero, last
	if isEnd {
		fwd, bwd = last, zero
	}
	if step == nil {
		return fwd
	}
	neg := &Expr{
		Kind: BinExpr{Op: syn.Lt, Left: step, Right: x.intExpr(r, 0)},
		Type: Bool,
		Rng:  &r,
	}
	return &Expr{
		Kind: CondExpr{Cond: neg, Then: bwd, Else: fwd},
		Type: Int,
		Rng:  &r,
	}
}

func (x *resolver) intExpr(r loc.Range, v int64) *Expr {
	return &Expr{Kind: IntLit{Val: v}, Type: Int, Rng: &r}
}

func (x *resolver) lastIndex(arr *Expr, r loc.Range) *Expr {
	length := &Expr{Kind: ArrayLen{Arr: arr}, Type: Int, Rng: &r}
	return &Expr{
		Kind: BinExpr{Op: syn.Sub, Left: length, Right: x.intExpr(r, 1)},
		Type: Int,
		Rng:  &r,
	}
}

func (x *resolver) field(e *syn.Field) *Expr {
	rec := x.expr(e.Rec)
	name, ok := e.Item.(*syn.Ident)
	if !ok {
		x.err(e.Item.GetRange(), ExpectingItemName)
		return &Expr{Kind: InvalidExpr{}, Type: Invalid{}, Quantum: rec.Quantum, Rng: rngPtr(e)}
	}
	t := Type(Invalid{})
	switch rt := x.Eng.Resolve(rec.Type).(type) {
	case UDT:
		if it, found := x.Syms.ItemType(x.sink, rt, name.Name, name.GetRange()); found {
			t = it
		}
	case Invalid:
		// Propagate silently.
	default:
		x.err(e.Rec.GetRange(), ExpectingUserDefinedType, rt.String())
	}
	return &Expr{
		Kind:    FieldExpr{Rec: rec, Name: name.Name},
		Type:    t,
		Quantum: rec.Quantum,
		Rng:     rngPtr(e),
	}
}

// update resolves a copy-and-update expression. The updated value
// must satisfy the assignment check against the item's type; the
// whole expression keeps the record's original type either way.
func (x *resolver) update(e *syn.Update) *Expr {
	defer x.tr("update")()

	rec := x.expr(e.Rec)
	rt := x.Eng.Resolve(rec.Type)

	if u, ok := rt.(UDT); ok {
		name, ok := e.Item.(*syn.Ident)
		if !ok {
			x.err(e.Item.GetRange(), ExpectingItemName)
			val := x.expr(e.Val)
			item := &Expr{Kind: InvalidExpr{}, Type: Invalid{}, Rng: rngPtr(e.Item)}
			return x.updated(e, rec, item, val)
		}
		ft := Type(Invalid{})
		if it, found := x.Syms.ItemType(x.sink, u, name.Name, name.GetRange()); found {
			ft = it
		}
		val := x.expr(e.Val)
		if !isInvalid(ft) {
			x.report(x.Eng.VerifyAssign(TypeMismatchInCopyAndUpdateExpr, ft, val.Type, e.Val.GetRange()))
		}
		item := &Expr{Kind: ItemName{Name: name.Name}, Type: ft, Rng: rngPtr(e.Item)}
		return x.updated(e, rec, item, val)
	}

	if isInvalid(rt) {
		if _, named := e.Item.(*syn.Ident); named {
			// The item name cannot be resolved against an invalid
			// record type; consume it silently.
			val := x.expr(e.Val)
			item := &Expr{Kind: InvalidExpr{}, Type: Invalid{}, Rng: rngPtr(e.Item)}
			return x.updated(e, rec, item, val)
		}
	}

	// Arrays and still-unresolved record types route through indexing.
	idx := x.expr(e.Item)
	item := x.Eng.Fresh()
	x.report(x.Eng.Constrain(rec.Type, Indexed{Index: idx.Type, Item: item}, e.Item.GetRange()))
	val := x.expr(e.Val)
	x.report(x.Eng.VerifyAssign(TypeMismatchInCopyAndUpdateExpr, item, val.Type, e.Val.GetRange()))
	return x.updated(e, rec, idx, val)
}

func (x *resolver) updated(e *syn.Update, rec, item, val *Expr) *Expr {
	return &Expr{
		Kind:    UpdateExpr{Rec: rec, Item: item, Val: val},
		Type:    rec.Type,
		Quantum: rec.Quantum || item.Quantum || val.Quantum,
		Rng:     rngPtr(e),
	}
}

func (x *resolver) cond(e *syn.Cond) *Expr {
	defer x.tr("cond")()

	c := x.expr(e.Cond)
	x.report(x.Eng.UnifyCode(ExpectingBoolExpr, Bool, c.Type, e.Cond.GetRange()))
	then := x.expr(e.Then)
	x.shortCircuit(then)
	els := x.expr(e.Else)
	x.shortCircuit(els)
	t, ds := x.Eng.Intersect(then.Type, els.Type, loc.Span(e.Then.GetRange(), e.Else.GetRange()))
	x.report(ds)
	return &Expr{
		Kind:    CondExpr{Cond: c, Then: then, Else: els},
		Type:    t,
		Quantum: c.Quantum || then.Quantum || els.Quantum,
		Rng:     rngPtr(e),
	}
}

// rangeLit resolves a range literal outside of an indexing context.
// Elided bounds keep the Missing marker: only the slicing rewrite
// can fill them in.
func (x *resolver) rangeLit(e *syn.RangeLit) *Expr {
	startE, stepE, endE := splitRange(e)
	start := x.rangeBound(startE)
	var step *Expr
	if stepE != nil {
		step = x.rangeBound(stepE)
	}
	end := x.rangeBound(endE)
	q := start.Quantum || end.Quantum || step != nil && step.Quantum
	return &Expr{
		Kind:    RangeExpr{Start: start, Step: step, End: end},
		Type:    Range,
		Quantum: q,
		Rng:     rngPtr(e),
	}
}

func (x *resolver) rangeBound(e syn.Expr) *Expr {
	if _, elided := e.(*syn.Missing); elided {
		return &Expr{Kind: MissingExpr{}, Type: Missing{}, Rng: rngPtr(e)}
	}
	b := x.expr(e)
	x.report(x.Eng.UnifyCode(ExpectingIntExpr, Int, b.Type, e.GetRange()))
	return b
}

func (x *resolver) binOp(e *syn.BinOp) *Expr {
	defer x.tr("binOp(%d)", e.Op)()

	l := x.expr(e.Left)
	r := x.expr(e.Right)
	span := loc.Span(e.Left.GetRange(), e.Right.GetRange())
	eng := x.Eng

	var t Type
	switch e.Op {
	case syn.Add:
		// One node kind for every +: the Semigroup constraint
		// covers numeric addition and string and array concatenation.
		var ds []Diag
		t, ds = eng.Intersect(l.Type, r.Type, span)
		x.report(ds)
		x.report(eng.Constrain(t, Semigroup{}, span))
	case syn.Sub, syn.Mul, syn.Div:
		t = x.numericBin(l, r, span)
	case syn.Lt, syn.Lte, syn.Gt, syn.Gte:
		x.numericBin(l, r, span)
		t = Bool
	case syn.Mod, syn.BitAnd, syn.BitOr, syn.BitXor:
		var ds []Diag
		t, ds = eng.Intersect(l.Type, r.Type, span)
		x.report(ds)
		x.report(eng.Constrain(t, Integral{}, span))
	case syn.Shl, syn.Shr:
		// The shift amount must be exactly Int regardless of the
		// shifted operand's integral type.
		x.report(eng.Constrain(l.Type, Integral{}, e.Left.GetRange()))
		x.report(eng.UnifyCode(ExpectingIntExpr, Int, r.Type, e.Right.GetRange()))
		t = l.Type
	case syn.Pow:
		if isPrim(eng.Resolve(l.Type), BigInt) {
			x.report(eng.UnifyCode(ExpectingIntExpr, Int, r.Type, e.Right.GetRange()))
			t = BigInt
		} else {
			t = x.numericBin(l, r, span)
		}
	case syn.And, syn.Or:
		x.report(eng.UnifyCode(ExpectingBoolExpr, Bool, l.Type, e.Left.GetRange()))
		x.report(eng.UnifyCode(ExpectingBoolExpr, Bool, r.Type, e.Right.GetRange()))
		// The right operand short-circuits.
		x.shortCircuit(r)
		t = Bool
	case syn.Eq, syn.Neq:
		ct, ds := eng.Intersect(l.Type, r.Type, span)
		x.report(ds)
		x.report(eng.Constrain(ct, Equatable{}, span))
		t = Bool
	default:
		panic(fmt.Sprintf("impossible operator: %d", e.Op))
	}
	return &Expr{
		Kind:    BinExpr{Op: e.Op, Left: l, Right: r},
		Type:    t,
		Quantum: l.Quantum || r.Quantum,
		Rng:     rngPtr(e),
	}
}

func (x *resolver) numericBin(l, r *Expr, span loc.Range) Type {
	t, ds := x.Eng.Intersect(l.Type, r.Type, span)
	x.report(ds)
	x.report(x.Eng.Constrain(t, Numeric{}, span))
	return t
}

// shortCircuit warns when a conditionally evaluated expression
// contains a non-partial operation call: whether the call happens
// then depends on runtime state, which not all targets support.
func (x *resolver) shortCircuit(branch *Expr) {
	if x.opCall(branch) {
		x.err(*branch.Rng, ConditionalEvaluationOfOperationCall)
	}
}

func (x *resolver) opCall(e *Expr) bool {
	if k, ok := e.Kind.(CallExpr); ok && !k.Partial {
		if _, isOp := x.Eng.Resolve(k.Callee.Type).(Op); isOp {
			return true
		}
	}
	for _, kid := range kids(e) {
		if x.opCall(kid) {
			return true
		}
	}
	return false
}

func kids(e *Expr) []*Expr {
	switch k := e.Kind.(type) {
	case StringLit:
		return k.Interp
	case TupleExpr:
		return k.Items
	case ArrayLit:
		return k.Items
	case SizedArrayExpr:
		return []*Expr{k.Val, k.Size}
	case NewArrayExpr:
		return []*Expr{k.Size}
	case ArrayLen:
		return []*Expr{k.Arr}
	case IndexExpr:
		return []*Expr{k.Arr, k.Idx}
	case FieldExpr:
		return []*Expr{k.Rec}
	case UpdateExpr:
		return []*Expr{k.Rec, k.Item, k.Val}
	case CondExpr:
		return []*Expr{k.Cond, k.Then, k.Else}
	case RangeExpr:
		if k.Step != nil {
			return []*Expr{k.Start, k.Step, k.End}
		}
		return []*Expr{k.Start, k.End}
	case BinExpr:
		return []*Expr{k.Left, k.Right}
	case UnExpr:
		return []*Expr{k.Operand}
	case CallExpr:
		return []*Expr{k.Callee, k.Arg}
	case AdjointExpr:
		return []*Expr{k.Op}
	case ControlledExpr:
		return []*Expr{k.Op}
	case UnwrapExpr:
		return []*Expr{k.Operand}
	default:
		return nil
	}
}

func (x *resolver) unOp(e *syn.UnOp) *Expr {
	operand := x.expr(e.Operand)
	r := e.Operand.GetRange()
	var t Type
	switch e.Op {
	case syn.Neg:
		x.report(x.Eng.Constrain(operand.Type, Numeric{}, r))
		t = operand.Type
	case syn.BitNot:
		x.report(x.Eng.Constrain(operand.Type, Integral{}, r))
		t = operand.Type
	case syn.Not:
		x.report(x.Eng.UnifyCode(ExpectingBoolExpr, Bool, operand.Type, r))
		t = Bool
	default:
		panic(fmt.Sprintf("impossible operator: %d", e.Op))
	}
	return &Expr{
		Kind:    UnExpr{Op: e.Op, Operand: operand},
		Type:    t,
		Quantum: operand.Quantum,
		Rng:     rngPtr(e),
	}
}

// call resolves function application and operation invocation.
// In an operation body, or for a partial application, the callee is
// constrained as any callable; in a function body a non-partial call
// must strictly unify with a function type, since functions may not
// invoke operations.
func (x *resolver) call(e *syn.Call) *Expr {
	defer x.tr("call")()

	callee := x.expr(e.Callee)
	arg := x.callArg(e.Arg)
	missing := missingTypes(arg)
	partial := len(missing) > 0

	if !partial {
		required := x.Syms.RequiredFunctorSupport()
		x.report(x.Eng.Constrain(callee.Type, CanGenerateFunctors{Required: required}, e.Callee.GetRange()))
	}
	out := x.Eng.Fresh()
	if x.InOperation || partial {
		x.report(x.Eng.Constrain(callee.Type, Callable{Arg: arg.Type, Ret: out}, e.GetRange()))
	} else {
		x.report(x.Eng.Unify(Fun{Arg: arg.Type, Ret: out}, callee.Type, e.Callee.GetRange()))
	}
	t := out
	if partial {
		shape := missing[0]
		if len(missing) > 1 {
			shape = Tuple{Items: missing}
		}
		res := x.Eng.Fresh()
		x.report(x.Eng.Constrain(callee.Type, HasPartialApplication{Missing: shape, Result: res}, e.GetRange()))
		t = res
	}

	// A value is quantum-dependent unless it provably comes from a
	// function applied to quantum-free inputs; a callee whose kind
	// is not provably a function is treated conservatively.
	_, isFun := x.Eng.Resolve(callee.Type).(Fun)
	q := !isFun || callee.Quantum || arg.Quantum

	return &Expr{
		Kind:    CallExpr{Callee: callee, Arg: arg, Partial: partial},
		Type:    t,
		Quantum: q,
		Rng:     rngPtr(e),
	}
}

// callArg resolves a call argument. An explicit placeholder anywhere
// in the (possibly nested) argument tuple marks partial application;
// its type is a fresh variable that unification binds to the elided
// parameter's type.
func (x *resolver) callArg(e syn.Expr) *Expr {
	switch e := e.(type) {
	case *syn.Missing:
		return &Expr{Kind: MissingExpr{}, Type: x.Eng.Fresh(), Rng: rngPtr(e)}
	case *syn.Tuple:
		if len(e.Items) == 0 {
			panic("impossible: empty tuple")
		}
		items := make([]*Expr, len(e.Items))
		ts := make([]Type, len(e.Items))
		for i, it := range e.Items {
			items[i] = x.callArg(it)
			ts[i] = items[i].Type
		}
		if len(items) == 1 {
			return items[0]
		}
		return &Expr{
			Kind:    TupleExpr{Items: items},
			Type:    Tuple{Items: ts},
			Quantum: anyQuantum(items),
			Rng:     rngPtr(e),
		}
	default:
		return x.expr(e)
	}
}

// missingTypes collects the types of elided argument positions,
// left to right.
func missingTypes(arg *Expr) []Type {
	switch k := arg.Kind.(type) {
	case MissingExpr:
		return []Type{arg.Type}
	case TupleExpr:
		var ts []Type
		for _, it := range k.Items {
			ts = append(ts, missingTypes(it)...)
		}
		return ts
	default:
		return nil
	}
}

func (x *resolver) adjoint(e *syn.Adjoint) *Expr {
	op := x.expr(e.Op)
	x.report(x.Eng.Constrain(op.Type, Adjointable{}, e.Op.GetRange()))
	return &Expr{
		Kind:    AdjointExpr{Op: op},
		Type:    op.Type,
		Quantum: op.Quantum,
		Rng:     rngPtr(e),
	}
}

func (x *resolver) controlled(e *syn.Controlled) *Expr {
	op := x.expr(e.Op)
	ctl := x.Eng.Fresh()
	x.report(x.Eng.Constrain(op.Type, Controllable{Ctl: ctl}, e.Op.GetRange()))
	return &Expr{
		Kind:    ControlledExpr{Op: op},
		Type:    ctl,
		Quantum: op.Quantum,
		Rng:     rngPtr(e),
	}
}

func (x *resolver) unwrap(e *syn.Unwrap) *Expr {
	operand := x.expr(e.Operand)
	under := x.Eng.Fresh()
	x.report(x.Eng.Constrain(operand.Type, Wrapped{Item: under}, e.Operand.GetRange()))
	return &Expr{
		Kind:    UnwrapExpr{Operand: operand},
		Type:    under,
		Quantum: operand.Quantum,
		Rng:     rngPtr(e),
	}
}
