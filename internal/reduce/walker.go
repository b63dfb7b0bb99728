// Package reduce implements the rewrite engine of spec.md §4: a list-walker
// driving Single-Node, Pairwise, and Triple rewrite rules over a binding
// environment, in both non-final (tolerant) and final (diagnostic) modes.
package reduce

import (
	"github.com/barblang/barb/internal/bindenv"
	"github.com/barblang/barb/internal/expr"
	"github.com/barblang/barb/internal/host"
)

// Reduce implements the walker of spec.md §4.1. It consumes root as the
// initial right queue with an empty left stack, applies rewrite rules until
// the right queue is empty, and returns the result in source order (the
// final left stack, reversed). env is never mutated; bindings introduced by
// a BVar step are only visible to that step's reduced scope.
func Reduce(root []expr.Node, env *bindenv.Bindings, st Settings, final bool, h host.Interop) ([]expr.Node, *bindenv.Bindings, error) {
	left := make([]expr.Node, 0, len(root))
	right := append([]expr.Node{}, root...)

	for len(right) > 0 {
		// 1. Flatten trivial SubExpression([x]) wrappers at either frontier.
		if len(right) == 1 {
			if se, ok := right[0].Kind.(expr.SubExpression); ok && len(se.Items) == 1 {
				right[0] = se.Items[0]
			}
		}
		if len(left) > 0 {
			if se, ok := left[0].Kind.(expr.SubExpression); ok && len(se.Items) == 1 {
				left[0] = se.Items[0]
			}
		}

		// 2. Lift: an Unresolved right-head was already run through
		// single-node resolve once (by the step-4 rewrite that produced
		// it) and made no further progress; move it to left as a plain
		// candidate for pairwise/triple matching against its neighbors
		// instead of retrying single-node on it immediately (which would
		// just reproduce the same Unresolved node forever). Resuming
		// reduction of such a residual under a richer environment is
		// reduceToNode's job (helpers.go), not this loop's.
		if right[0].Unsolved {
			lifted := right[0]
			lifted.Unsolved = false
			left = append([]expr.Node{lifted}, left...)
			right = right[1:]
			continue
		}

		// 3. Binding.
		if bv, ok := right[0].Kind.(expr.BVar); ok {
			result, err := resolveBVar(bv, env, st, final, h)
			if err != nil {
				return nil, nil, err
			}
			right = append([]expr.Node{result}, right[1:]...)
			continue
		}

		// 4. Single-node resolve.
		if out, ok, err := resolveSingle(right[0], env, st, final, h); err != nil {
			return nil, nil, err
		} else if ok {
			right = append([]expr.Node{out}, right[1:]...)
			continue
		}

		// 5. Pairwise resolve.
		if len(left) > 0 {
			if out, ok, err := resolvePairwise(left[0], right[0], st, final, h); err != nil {
				return nil, nil, err
			} else if ok {
				left = left[1:]
				right = append([]expr.Node{out}, right[1:]...)
				continue
			}
		}

		// 6. Triple (precedence) resolve — final mode only.
		if final && len(left) >= 2 && len(right) >= 1 {
			var rightOne *expr.Node
			if len(right) >= 2 {
				rightOne = &right[1]
			}
			if out, ok, err := resolveTriple(left[1], left[0], right[0], rightOne); err != nil {
				return nil, nil, err
			} else if ok {
				left = left[2:]
				right = append([]expr.Node{out}, right[1:]...)
				continue
			}
		}

		// 7. Shift.
		left = append([]expr.Node{right[0]}, left...)
		right = right[1:]
	}

	out := make([]expr.Node, len(left))
	for i, n := range left {
		out[len(left)-1-i] = n
	}

	return out, env, nil
}
