package reduce

import (
	"github.com/barblang/barb/internal/errs"
	"github.com/barblang/barb/internal/expr"
)

// resolveTriple implements the Precedence Triple Reducer of spec.md §4.6.
// left1/left0 are the two most recent left-stack entries (left0 closest to
// the cursor, since left is LIFO); right0 is the pending head and right1 —
// if present — is the node just past it. Active only in final reduction;
// the walker gates that.
func resolveTriple(left1, left0, right0 expr.Node, right1 *expr.Node) (expr.Node, bool, error) {
	lf, ok := left0.Kind.(expr.Infix)
	if !ok {
		return expr.Node{}, false, nil
	}
	a, ok := isResolvedObj(left1)
	if !ok {
		return expr.Node{}, false, nil
	}
	b, ok := isResolvedObj(right0)
	if !ok {
		return expr.Node{}, false, nil
	}

	if right1 != nil {
		if rf, ok := right1.Kind.(expr.Infix); ok && lf.Prec > rf.Prec {
			return expr.Node{}, false, nil
		}
	}

	v, err := lf.Fn(a.Value, b.Value)
	if err != nil {
		return expr.Node{}, false, errs.Wrap(err, right0.Offset, right0.Length)
	}
	return expr.Span(left1, right0, expr.Obj{Value: v}), true, nil
}
