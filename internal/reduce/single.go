package reduce

import (
	"github.com/barblang/barb/internal/bindenv"
	"github.com/barblang/barb/internal/errs"
	"github.com/barblang/barb/internal/expr"
	"github.com/barblang/barb/internal/host"
)

// resolveSingle implements the Single-Node Resolver of spec.md §4.2: it
// rewrites one node in isolation using the environment. ok=false means no
// rewrite is available for this node right now (the walker will try
// pairwise/triple rules, or shift it).
func resolveSingle(n expr.Node, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	switch k := n.Kind.(type) {

	case expr.Returned:
		res := h.ResolveResultType(k.Value)
		res.Offset, res.Length = n.Offset, n.Length
		return res, true, nil

	case expr.SubExpression:
		items, _, err := Reduce(k.Items, env, st, final, h)
		if err != nil {
			return expr.Node{}, false, err
		}
		if len(items) == 1 {
			return items[0], true, nil
		}
		return n.WithKind(expr.SubExpression{Items: items}).AsUnresolved(), true, nil

	case expr.IndexArgs:
		items, allObj, err := reduceChildren(k.Items, env, st, final, h)
		if err != nil {
			return expr.Node{}, false, err
		}
		out := n.WithKind(expr.IndexArgs{Items: items})
		out.Unsolved = !allObj
		return out, true, nil

	case expr.Tuple:
		items, allObj, err := reduceChildren(k.Items, env, st, final, h)
		if err != nil {
			return expr.Node{}, false, err
		}
		out := n.WithKind(expr.Tuple{Items: items})
		out.Unsolved = !allObj
		return out, true, nil

	case expr.ArrayBuilder:
		return resolveArrayLike(n, k.Items, env, st, final, h, false)

	case expr.SetBuilder:
		return resolveArrayLike(n, k.Items, env, st, final, h, true)

	case expr.Unknown:
		return resolveUnknown(n, k, env, final)

	case expr.Generator:
		return resolveGenerator(n, k, env, st, final, h)

	case expr.IfThenElse:
		return resolveIfThenElse(n, k, env, st, final, h)

	case expr.Lambda:
		return resolveFullyAppliedLambda(n, k, env, st, final, h)

	case expr.And:
		return resolveAnd(n, k, env, st, final, h)

	case expr.Or:
		return resolveOr(n, k, env, st, final, h)
	}

	// Unit, Obj, InvokeTok, NewTok, Prefix/Postfix/Infix, AppliedInvoke and
	// the already-resolved host-member handles have no single-node rule:
	// they only ever advance via a pairwise or triple rewrite.
	return expr.Node{}, false, nil
}

func resolveArrayLike(n expr.Node, items []expr.Node, env *bindenv.Bindings, st Settings, final bool, h host.Interop, isSet bool) (expr.Node, bool, error) {
	reduced, allObj, err := reduceChildren(items, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	kindOf := func(xs []expr.Node) expr.Kind {
		if isSet {
			return expr.SetBuilder{Items: xs}
		}
		return expr.ArrayBuilder{Items: xs}
	}
	if !allObj {
		return n.WithKind(kindOf(reduced)).AsUnresolved(), true, nil
	}
	if len(reduced) == 0 {
		return n.WithKind(expr.Obj{Value: []any{}}).AsResolved(), true, nil
	}
	if isSet {
		return n.WithKind(expr.Obj{Value: dedupUntypedSet(reduced)}).AsResolved(), true, nil
	}
	if sameConcreteType(reduced) {
		return n.WithKind(expr.Obj{Value: buildTypedArray(reduced)}).AsResolved(), true, nil
	}
	return n.WithKind(expr.Obj{Value: buildUntypedArray(reduced)}).AsResolved(), true, nil
}

func resolveUnknown(n expr.Node, k expr.Unknown, env *bindenv.Bindings, final bool) (expr.Node, bool, error) {
	c, found := env.Get(k.Name)
	if !found {
		if !final {
			return expr.Node{}, false, nil
		}
		return expr.Node{}, false, errs.New(errs.UnknownName, n.Offset, n.Length, "unknown name %q", k.Name)
	}
	if c.IsComingLater() {
		if !final {
			return expr.Node{}, false, nil
		}
		return expr.Node{}, false, errs.New(errs.UnboundName, n.Offset, n.Length, "unbound name %q", k.Name)
	}
	raw := c.Resolve(n.Offset, n.Length)
	node, ok := raw.(expr.Node)
	if !ok {
		return expr.Node{}, false, errs.New(errs.UnexpectedCase, n.Offset, n.Length, "binding factory for %q returned %T, not a node", k.Name, raw)
	}
	return node, true, nil
}

func resolveGenerator(n expr.Node, k expr.Generator, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	s, err := reduceToNode(k.Start, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	step, err := reduceToNode(k.Step, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	e, err := reduceToNode(k.End, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}

	so, sOk := isResolvedObj(s)
	stepo, stepOk := isResolvedObj(step)
	eo, eOk := isResolvedObj(e)

	if sOk && stepOk && eOk {
		if si, ok1 := asInt64(so.Value); ok1 {
			if stepi, ok2 := asInt64(stepo.Value); ok2 {
				if ei, ok3 := asInt64(eo.Value); ok3 {
					if stepi == 0 {
						return expr.Node{}, false, errs.New(errs.BadGeneratorTypes, n.Offset, n.Length, "generator step must not be zero")
					}
					return n.WithKind(expr.Obj{Value: expr.NewIntSeq(si, stepi, ei)}).AsResolved(), true, nil
				}
			}
		}
		if sf, ok1 := asFloat64(so.Value); ok1 {
			if stepf, ok2 := asFloat64(stepo.Value); ok2 {
				if ef, ok3 := asFloat64(eo.Value); ok3 {
					if stepf == 0 {
						return expr.Node{}, false, errs.New(errs.BadGeneratorTypes, n.Offset, n.Length, "generator step must not be zero")
					}
					return n.WithKind(expr.Obj{Value: expr.NewFloatSeq(sf, stepf, ef)}).AsResolved(), true, nil
				}
			}
		}
		if final {
			return expr.Node{}, false, errs.New(errs.BadGeneratorTypes, n.Offset, n.Length, "generator bounds are not a single numeric kind: %v, %v, %v", so.Value, stepo.Value, eo.Value)
		}
		return n.WithKind(expr.Generator{Start: s, Step: step, End: e}).AsUnresolved(), true, nil
	}

	if final {
		return expr.Node{}, false, errs.New(errs.GeneratorArgUnresolved, n.Offset, n.Length, "generator bound failed to resolve")
	}
	return n.WithKind(expr.Generator{Start: s, Step: step, End: e}).AsUnresolved(), true, nil
}

func resolveIfThenElse(n expr.Node, k expr.IfThenElse, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	c, err := reduceToNode(k.Cond, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	if cobj, ok := isResolvedObj(c); ok {
		b, isBool := cobj.Value.(bool)
		if !isBool {
			return expr.Node{}, false, errs.New(errs.UnexpectedCase, c.Offset, c.Length, "if-condition is not a bool: %v", expr.Describe(c))
		}
		branch := k.Else
		if b {
			branch = k.Then
		}
		res, err := reduceToNode(branch, env, st, final, h)
		if err != nil {
			return expr.Node{}, false, err
		}
		return res, true, nil
	}
	if final {
		return expr.Node{}, false, errs.New(errs.UnexpectedCase, n.Offset, n.Length, "if-condition failed to resolve")
	}
	t, err := reduceToNode(k.Then, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	e, err := reduceToNode(k.Else, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	return n.WithKind(expr.IfThenElse{Cond: c, Then: t, Else: e}).AsUnresolved(), true, nil
}

func resolveFullyAppliedLambda(n expr.Node, k expr.Lambda, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	if len(k.Params) != 0 {
		return expr.Node{}, false, nil
	}
	bodyEnv := bindenv.Union(k.Bindings, env)
	res, err := reduceToNode(k.Body, bodyEnv, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	if res.Unsolved {
		return expr.Node{}, false, nil
	}
	return res, true, nil
}

func resolveAnd(n expr.Node, k expr.And, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	l, err := reduceToNode(k.L, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	if lobj, ok := isResolvedObj(l); ok {
		if lobj.Value == nil {
			return n.WithKind(expr.Obj{Value: nil}).AsResolved(), true, nil
		}
		if b, isBool := lobj.Value.(bool); isBool {
			if !b {
				return n.WithKind(expr.Obj{Value: false}).AsResolved(), true, nil
			}
			r, err := reduceToNode(k.R, env, st, final, h)
			if err != nil {
				return expr.Node{}, false, err
			}
			return r, true, nil
		}
	}
	if final {
		return expr.Node{}, false, errs.New(errs.AndLHSNotBool, l.Offset, l.Length, "left operand of && is not a bool or null: %s", expr.Describe(l))
	}
	r, err := reduceToNode(k.R, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	return n.WithKind(expr.And{L: l, R: r}).AsUnresolved(), true, nil
}

func resolveOr(n expr.Node, k expr.Or, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, bool, error) {
	l, err := reduceToNode(k.L, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	if lobj, ok := isResolvedObj(l); ok {
		if lobj.Value == nil {
			return n.WithKind(expr.Obj{Value: nil}).AsResolved(), true, nil
		}
		if b, isBool := lobj.Value.(bool); isBool {
			if b {
				return n.WithKind(expr.Obj{Value: true}).AsResolved(), true, nil
			}
			r, err := reduceToNode(k.R, env, st, final, h)
			if err != nil {
				return expr.Node{}, false, err
			}
			return r, true, nil
		}
	}
	if final {
		return expr.Node{}, false, errs.New(errs.OrLHSNotBool, l.Offset, l.Length, "left operand of || is not a bool or null: %s", expr.Describe(l))
	}
	r, err := reduceToNode(k.R, env, st, final, h)
	if err != nil {
		return expr.Node{}, false, err
	}
	return n.WithKind(expr.Or{L: l, R: r}).AsUnresolved(), true, nil
}
