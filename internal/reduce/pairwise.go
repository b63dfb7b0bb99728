package reduce

import (
	"github.com/barblang/barb/internal/errs"
	"github.com/barblang/barb/internal/expr"
	"github.com/barblang/barb/internal/host"
)

// resolvePairwise implements the Pairwise Reducer of spec.md §4.5: it
// rewrites two adjacent nodes (l = head of the walker's left stack, r = head
// of its right queue) into one, spanning l.Offset .. r.Offset+r.Length.
// ok=false means no pairwise rule matches this shape (the walker will try
// the triple reducer, then shift).
func resolvePairwise(l, r expr.Node, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	switch lk := l.Kind.(type) {

	case expr.Obj:
		return resolvePairwiseFromObj(l, lk, r, st, final, h)

	case expr.Prefix:
		if ro, ok := isResolvedObj(r); ok {
			v, err := lk.Fn(ro.Value)
			if err != nil {
				return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
			}
			return expr.Span(l, r, expr.Returned{Value: v}), true, nil
		}

	case expr.InvokableExpr:
		return resolvePairwiseFromInvokable(l, lk, r, final, h)

	case expr.Unknown:
		return resolvePairwiseFromUnknown(l, lk, r, st, final, h)

	case expr.NewTok:
		if _, ok := r.Kind.(expr.Unknown); ok && !r.Unsolved {
			return expr.Span(l, r, r.Kind), true, nil
		}

	case expr.InvokeTok:
		return resolvePairwiseFromInvoke(l, r)

	case expr.AppliedIndexedProperty:
		if args, ok := isResolvedIndexArgs(r); ok {
			v, err := h.ExecuteIndexer(lk.Obj, lk.PInfos, extractObjValues(args.Items))
			if err != nil {
				return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
			}
			return expr.Span(l, r, expr.Returned{Value: v}), true, nil
		}

	case expr.Lambda:
		if _, ok := isResolvedObj(r); ok {
			return expr.Span(l, r, partialApply(lk, r)), true, nil
		}
	}

	return expr.Node{}, false, nil
}

func resolvePairwiseFromObj(l expr.Node, lk expr.Obj, r expr.Node, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	if _, ok := r.Kind.(expr.Postfix); ok {
		post := r.Kind.(expr.Postfix)
		v, err := post.Fn(lk.Value)
		if err != nil {
			return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
		}
		return expr.Span(l, r, expr.Returned{Value: v}), true, nil
	}

	if ai, ok := r.Kind.(expr.AppliedInvoke); ok {
		if lk.Value == nil {
			return expr.Span(l, r, expr.Obj{Value: nil}), true, nil
		}
		if ai.Depth == 0 {
			res, found := h.ResolveInvokeByInstance(lk.Value, ai.Name)
			if !found {
				return expr.Node{}, false, errs.New(errs.UnexpectedCase, r.Offset, r.Length, "no member %q on %v", ai.Name, lk.Value)
			}
			out := expr.Span(l, r, res.Kind)
			out.Unsolved = res.Unsolved
			return out, true, nil
		}
		members, err := h.ResolveInvokeAtDepth(int(ai.Depth), lk.Value, ai.Name)
		if err != nil {
			return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
		}
		return buildMultiTarget(l, r, members, h)
	}

	if args, ok := isResolvedIndexArgs(r); ok {
		v, err := h.CallIndexedProperty(lk.Value, extractObjValues(args.Items))
		if err != nil {
			return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
		}
		return expr.Span(l, r, expr.Returned{Value: v}), true, nil
	}

	return expr.Node{}, false, nil
}

func resolvePairwiseFromInvokable(l expr.Node, lk expr.InvokableExpr, r expr.Node, final bool, h host.Interop) (expr.Node, bool, error) {
	var args []any
	var isUnit bool
	switch rk := r.Kind.(type) {
	case expr.Unit:
		isUnit = true
	case expr.Obj:
		if r.Unsolved {
			return expr.Node{}, false, nil
		}
		args = []any{rk.Value}
	default:
		if t, ok := isResolvedTuple(r); ok {
			args = extractObjValues(t.Items)
		} else {
			return expr.Node{}, false, nil
		}
	}

	if !lk.Multi {
		if isUnit {
			v, err := h.ExecuteUnitMethod(lk.Obj, lk.Methods)
			if err != nil {
				return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
			}
			return expr.Span(l, r, expr.Returned{Value: v}), true, nil
		}
		v, err := h.ExecuteParameterizedMethod(lk.Obj, lk.Methods, args)
		if err != nil {
			return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
		}
		return expr.Span(l, r, expr.Returned{Value: v}), true, nil
	}

	items := make([]expr.Node, len(lk.Targets))
	for i, t := range lk.Targets {
		var v any
		var err error
		if isUnit {
			v, err = h.ExecuteUnitMethod(t.Obj, t.Methods)
		} else {
			v, err = h.ExecuteParameterizedMethod(t.Obj, t.Methods, args)
		}
		if err != nil {
			return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
		}
		items[i] = expr.Resolved(r.Offset, r.Length, expr.Returned{Value: v})
	}
	return expr.Span(l, r, expr.ArrayBuilder{Items: items}), true, nil
}

func resolvePairwiseFromUnknown(l expr.Node, lk expr.Unknown, r expr.Node, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	if ai, ok := r.Kind.(expr.AppliedInvoke); ok {
		if ai.Depth > 0 {
			return expr.Node{}, false, errs.New(errs.StaticDepthUnsupported, r.Offset, r.Length, "static member lookup does not support depth>0: %s.%s", lk.Name, ai.Name)
		}
		if !final && !st.BindGlobalsWhenReducing {
			return expr.Node{}, false, nil
		}
		results, err := h.CachedResolveStatic(st.Namespaces, lk.Name, ai.Name)
		if err != nil {
			return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
		}
		if len(results) == 0 {
			return expr.Node{}, false, nil
		}
		if len(results) > 1 {
			return expr.Node{}, false, errs.New(errs.AmbiguousStaticResolution, r.Offset, r.Length, "ambiguous static resolution for %s.%s (%d candidates)", lk.Name, ai.Name, len(results))
		}
		out := expr.Span(l, r, results[0].Kind)
		out.Unsolved = results[0].Unsolved
		return out, true, nil
	}

	var args []any
	switch rk := r.Kind.(type) {
	case expr.Obj:
		if r.Unsolved {
			return expr.Node{}, false, nil
		}
		args = []any{rk.Value}
	default:
		t, ok := isResolvedTuple(r)
		if !ok {
			return expr.Node{}, false, nil
		}
		args = extractObjValues(t.Items)
	}

	result, ok, err := h.ExecuteConstructor(st.Namespaces, lk.Name, args)
	if err != nil {
		return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
	}
	if !ok {
		return expr.Node{}, false, errs.New(errs.UnexpectedCase, l.Offset, r.End()-l.Offset, "no constructor for %q", lk.Name)
	}
	out := expr.Span(l, r, result.Kind)
	out.Unsolved = result.Unsolved
	return out, true, nil
}

func resolvePairwiseFromInvoke(l, r expr.Node) (expr.Node, bool, error) {
	switch rk := r.Kind.(type) {
	case expr.Unknown:
		if r.Unsolved {
			return expr.Node{}, false, nil
		}
		return expr.Span(l, r, expr.AppliedInvoke{Depth: 0, Name: rk.Name}), true, nil
	case expr.AppliedInvoke:
		return expr.Span(l, r, expr.AppliedInvoke{Depth: rk.Depth + 1, Name: rk.Name}), true, nil
	case expr.IndexArgs:
		out := expr.Span(l, r, rk)
		out.Unsolved = r.Unsolved
		return out, true, nil
	}
	return expr.Node{}, false, nil
}

// buildMultiTarget turns a depth>0 AppliedInvoke's resolved members into
// either a Multi InvokableExpr (method members — resolvePairwiseFromInvokable
// calls each one once a unit/args pairwise match arrives) or, for property
// members, an ArrayBuilder of the values read, which the walker's next
// single-node step collapses into the array value: there is no later rule
// that calls a property, so unlike the method case it is read eagerly here,
// the same way the depth==0 single-property case reads its value immediately
// in resolvePairwiseFromObj.
func buildMultiTarget(l, r expr.Node, members []expr.DepthMember, h host.Interop) (expr.Node, bool, error) {
	if len(members) == 0 {
		return expr.Span(l, r, expr.Obj{Value: []any{}}), true, nil
	}
	wantMethod := members[0].IsMethod
	for _, m := range members[1:] {
		if m.IsMethod != wantMethod {
			return expr.Node{}, false, errs.New(errs.MixedPropertyMethodNested, r.Offset, r.Length, "nested invoke mixes property and method members")
		}
	}
	if wantMethod {
		targets := make([]expr.ObjMethods, len(members))
		for i, m := range members {
			targets[i] = expr.ObjMethods{Obj: m.Obj, Methods: m.Methods}
		}
		return expr.Span(l, r, expr.InvokableExpr{Multi: true, Targets: targets}), true, nil
	}
	items := make([]expr.Node, len(members))
	for i, m := range members {
		v, err := h.ReadProperty(m.Obj, m.Property)
		if err != nil {
			return expr.Node{}, false, errs.Wrap(err, r.Offset, r.Length)
		}
		items[i] = expr.Resolved(r.Offset, r.Length, expr.Obj{Value: v})
	}
	return expr.Span(l, r, expr.ArrayBuilder{Items: items}), true, nil
}
