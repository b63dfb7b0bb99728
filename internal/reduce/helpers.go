package reduce

import (
	"reflect"

	"github.com/barblang/barb/internal/bindenv"
	"github.com/barblang/barb/internal/expr"
	"github.com/barblang/barb/internal/host"
)

// reduceToNode fully reduces a one-element node list and collapses it back
// to a single Node, wrapping a non-collapsing residual in an Unresolved
// SubExpression that spans it. Used wherever spec.md's rules say "reduce X"
// for a single child (SubExpression, Tuple/IndexArgs elements, Generator
// bounds, If/And/Or operands, a let's value or scope).
//
// When n is itself a SubExpression — whether freshly parsed or a residual
// an earlier non-final pass produced — its Items are resubmitted directly
// rather than n itself. A previously-Unresolved SubExpression's top-level
// flag only records that its *last* pass made no further progress; handing
// the wrapper itself back into Reduce would hit the walker's lift step
// immediately and return unchanged. Resubmitting Items gives every child
// (including any still-unresolved grandchildren) a fresh shot at the single-
// node/pairwise/triple rules against whatever environment this call carries
// — the mechanism by which a later final pass actually finishes a
// non-final residual.
func reduceToNode(n expr.Node, env *bindenv.Bindings, st Settings, final bool, h host.Interop) (expr.Node, error) {
	root := []expr.Node{n}
	if se, ok := n.Kind.(expr.SubExpression); ok {
		root = se.Items
	}
	out, _, err := Reduce(root, env, st, final, h)
	if err != nil {
		return expr.Node{}, err
	}
	if len(out) == 1 {
		return out[0], nil
	}
	first, last := out[0], out[len(out)-1]
	return expr.Unresolved(first.Offset, last.End()-first.Offset, expr.SubExpression{Items: out}), nil
}

func isResolvedObj(n expr.Node) (expr.Obj, bool) {
	if n.Unsolved {
		return expr.Obj{}, false
	}
	o, ok := n.Kind.(expr.Obj)
	return o, ok
}

// reduceChildren reduces every item of a comma-separated group (Tuple,
// IndexArgs, ArrayBuilder, SetBuilder) independently and reports whether all
// of them collapsed to Obj.
func reduceChildren(items []expr.Node, env *bindenv.Bindings, st Settings, final bool, h host.Interop) ([]expr.Node, bool, error) {
	out := make([]expr.Node, len(items))
	allObj := true
	for i, it := range items {
		r, err := reduceToNode(it, env, st, final, h)
		if err != nil {
			return nil, false, err
		}
		out[i] = r
		if _, ok := isResolvedObj(r); !ok {
			allObj = false
		}
	}
	return out, allObj, nil
}

func sameConcreteType(items []expr.Node) bool {
	if len(items) == 0 {
		return true
	}
	o0, _ := isResolvedObj(items[0])
	t0 := reflect.TypeOf(o0.Value)
	for _, it := range items[1:] {
		o, _ := isResolvedObj(it)
		if reflect.TypeOf(o.Value) != t0 {
			return false
		}
	}
	return true
}

// buildTypedArray constructs a reflect-backed slice of the elements'
// concrete Go type, returned as `any` the way an ArrayBuilder with uniform
// Obj children is expected to (spec.md §4.2).
func buildTypedArray(items []expr.Node) any {
	if len(items) == 0 {
		return []any{}
	}
	o0, _ := isResolvedObj(items[0])
	elemType := reflect.TypeOf(o0.Value)
	slice := reflect.MakeSlice(reflect.SliceOf(elemType), len(items), len(items))
	for i, it := range items {
		o, _ := isResolvedObj(it)
		slice.Index(i).Set(reflect.ValueOf(o.Value))
	}
	return slice.Interface()
}

func buildUntypedArray(items []expr.Node) any {
	out := make([]any, len(items))
	for i, it := range items {
		o, _ := isResolvedObj(it)
		out[i] = o.Value
	}
	return out
}

// dedupUntypedSet builds a set's value representation: an order-preserving,
// deduplicated slice of the resolved elements (spec.md §9's SetBuilder open
// question — resolved here symmetrically to ArrayBuilder; see DESIGN.md).
func dedupUntypedSet(items []expr.Node) any {
	out := []any{}
	for _, it := range items {
		o, _ := isResolvedObj(it)
		dup := false
		for _, seen := range out {
			if reflect.DeepEqual(seen, o.Value) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, o.Value)
		}
	}
	return out
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}

func isNullObj(n expr.Node) bool {
	o, ok := isResolvedObj(n)
	return ok && o.Value == nil
}

func isResolvedTuple(n expr.Node) (expr.Tuple, bool) {
	if n.Unsolved {
		return expr.Tuple{}, false
	}
	t, ok := n.Kind.(expr.Tuple)
	return t, ok
}

func isResolvedIndexArgs(n expr.Node) (expr.IndexArgs, bool) {
	if n.Unsolved {
		return expr.IndexArgs{}, false
	}
	ia, ok := n.Kind.(expr.IndexArgs)
	return ia, ok
}

// extractObjValues assumes every item is a resolved Obj (callers check
// isResolvedTuple/reduceChildren's allObj first) and unwraps their values.
func extractObjValues(items []expr.Node) []any {
	out := make([]any, len(items))
	for i, it := range items {
		o, _ := isResolvedObj(it)
		out[i] = o.Value
	}
	return out
}
