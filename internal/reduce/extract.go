package reduce

import (
	"github.com/barblang/barb/internal/errs"
	"github.com/barblang/barb/internal/expr"
)

// Extract implements spec.md §4.7's final-result extraction: after a final
// reduction, exactly one node should remain. An Obj collapses to its raw
// value; a Tuple of Obj children collapses to a slice of values. Anything
// else is the terminal "unexpected case" spec.md §9 leaves as an open
// question — resolved here to gate only this step, not the walker's
// mid-reduction shifts (see Settings.FailOnCatchAll).
func Extract(nodes []expr.Node, st Settings) (any, error) {
	if len(nodes) != 1 {
		if !st.FailOnCatchAll {
			return rawResidual(nodes), nil
		}
		first, last := nodes[0], nodes[len(nodes)-1]
		return nil, errs.New(errs.UnexpectedResult, first.Offset, last.End()-first.Offset,
			"reduction left %d residual nodes, expected exactly one", len(nodes))
	}

	n := nodes[0]

	if o, ok := isResolvedObj(n); ok {
		return o.Value, nil
	}

	if t, ok := isResolvedTuple(n); ok {
		allObj := true
		for _, it := range t.Items {
			if _, ok := isResolvedObj(it); !ok {
				allObj = false
				break
			}
		}
		if allObj {
			return extractObjValues(t.Items), nil
		}
	}

	if !st.FailOnCatchAll {
		return rawResidual(nodes), nil
	}
	return nil, errs.New(errs.UnexpectedResult, n.Offset, n.Length,
		"reduction did not produce a value: %s", expr.Describe(n))
}

// rawResidual is what callers get back when FailOnCatchAll is false and
// extraction hits a shape §4.7 doesn't name a value for: the residual nodes
// themselves, for a caller that wants to inspect or re-reduce them later.
func rawResidual(nodes []expr.Node) any {
	return nodes
}
