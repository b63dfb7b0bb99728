package reduce

import (
	"github.com/barblang/barb/internal/bindenv"
	"github.com/barblang/barb/internal/expr"
	"github.com/barblang/barb/internal/host"
)

// bindingFactoryFor builds a bindenv.Factory that reconstructs v at a new
// source offset/length — spec.md's requirement that a looked-up binding's
// node carry the *use* site's span, not its definition site's.
func bindingFactoryFor(v expr.Node) bindenv.Factory {
	return func(offset, length uint32) any {
		n := v
		n.Offset, n.Length = offset, length
		return n
	}
}

// resolveBVar implements the walker's binding step (spec.md §4.1 step 3):
// reduce the bound value, detect the recursive-lambda case, and reduce the
// scope under the extended (but still lexical — the caller's env is never
// mutated) environment.
func resolveBVar(bv expr.BVar, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, error) {
	rv, err := reduceToNode(bv.Value, env, st, final, h)
	if err != nil {
		return expr.Node{}, err
	}

	if lam, ok := rv.Kind.(expr.Lambda); ok && !final {
		lp, err := buildRecursiveLambda(bv.Name, lam, st, h)
		if err != nil {
			return expr.Node{}, err
		}
		boundNode := rv.WithKind(lp)
		scopeEnv := env.With(bv.Name, bindenv.Existing(bindingFactoryFor(boundNode)))
		return reduceToNode(bv.Scope, scopeEnv, st, final, h)
	}

	scopeEnv := env.With(bv.Name, bindenv.Existing(bindingFactoryFor(rv)))
	return reduceToNode(bv.Scope, scopeEnv, st, final, h)
}

// buildRecursiveLambda implements spec.md §4.4's recursive-binding
// construction. It ties the self-reference knot with a mutable field on the
// lambda's own (freshly stripped) Bindings — the "heap-allocated reference
// cell" spec.md §9 suggests in place of the source's mutable record, since
// every copy of the returned expr.Lambda value shares that one *bindenv.-
// Bindings pointer.
func buildRecursiveLambda(name string, lam expr.Lambda, st Settings, h host.Interop) (expr.Lambda, error) {
	stripped := paramShadowStrip(lam.Bindings, lam.Params)

	bodyPrime, err := reduceToNode(lam.Body, stripped, st, false, h)
	if err != nil {
		return expr.Lambda{}, err
	}

	lp := expr.Lambda{Params: lam.Params, Bindings: stripped, Body: bodyPrime}
	selfNode := expr.Resolved(lam.Body.Offset, lam.Body.Length, lp)
	stripped.Set(name, bindenv.Existing(bindingFactoryFor(selfNode)))
	return lp, nil
}

// paramShadowStrip removes, from bindings' own scope, any name that one of
// params will shadow — the invariant that a Lambda's body never sees a
// bindings-entry a parameter shadows (spec.md §3 invariants, §4.4).
func paramShadowStrip(bindings *bindenv.Bindings, params []string) *bindenv.Bindings {
	if len(params) == 0 {
		return bindings
	}
	return bindings.WithoutOwn(params...)
}

// partialApply implements spec.md §4.4's partial-application rule: feeding
// one argument to a multi-param lambda yields a lambda with one fewer
// param and an extended binding environment.
func partialApply(lam expr.Lambda, arg expr.Node) expr.Lambda {
	head, tail := lam.Params[0], lam.Params[1:]
	extended := lam.Bindings.With(head, bindenv.Existing(bindingFactoryFor(arg)))
	return expr.Lambda{Params: append([]string{}, tail...), Bindings: extended, Body: lam.Body}
}
