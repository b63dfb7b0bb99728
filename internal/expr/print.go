package expr

import (
	"fmt"
	"strings"
)

// Describe renders a short, human-readable label for a node's kind — used to
// build the diagnostic "trace" a BarbExecutionError carries (see
// internal/errs). Mirrors the teacher's habit of giving every Object an
// Inspect()-style renderer (funxy internal/evaluator/object*.go) rather than
// relying on %#v dumps.
func Describe(n Node) string {
	switch k := n.Kind.(type) {
	case Unit:
		return "()"
	case Obj:
		return fmt.Sprintf("%v", k.Value)
	case Unknown:
		return k.Name
	case Returned:
		return fmt.Sprintf("returned(%v)", k.Value)
	case InvokeTok:
		return "."
	case NewTok:
		return "new"
	case AppliedInvoke:
		return fmt.Sprintf(".%s@%d", k.Name, k.Depth)
	case Prefix:
		return "<prefix-op>"
	case Postfix:
		return "<postfix-op>"
	case Infix:
		return fmt.Sprintf("<infix-op prec=%d>", k.Prec)
	case IndexArgs:
		return fmt.Sprintf("[%s]", describeList(k.Items))
	case AppliedProperty:
		return fmt.Sprintf("%v.<property>", k.Obj)
	case AppliedIndexedProperty:
		return fmt.Sprintf("%v[<indexer>]", k.Obj)
	case InvokableExpr:
		if k.Multi {
			return fmt.Sprintf("<%d-way method>", len(k.Targets))
		}
		return fmt.Sprintf("%v.<method>", k.Obj)
	case SubExpression:
		return fmt.Sprintf("(%s)", describeList(k.Items))
	case Tuple:
		return fmt.Sprintf("(%s)", describeList(k.Items))
	case ArrayBuilder:
		return fmt.Sprintf("[%s]", describeList(k.Items))
	case SetBuilder:
		return fmt.Sprintf("{%s}", describeList(k.Items))
	case BVar:
		return fmt.Sprintf("let %s = %s in %s", k.Name, Describe(k.Value), Describe(k.Scope))
	case Lambda:
		return fmt.Sprintf("fun %s -> %s", strings.Join(k.Params, " "), Describe(k.Body))
	case IfThenElse:
		return fmt.Sprintf("if %s then %s else %s", Describe(k.Cond), Describe(k.Then), Describe(k.Else))
	case Generator:
		return fmt.Sprintf("{%s .. %s .. %s}", Describe(k.Start), Describe(k.Step), Describe(k.End))
	case And:
		return fmt.Sprintf("%s && %s", Describe(k.L), Describe(k.R))
	case Or:
		return fmt.Sprintf("%s || %s", Describe(k.L), Describe(k.R))
	default:
		return fmt.Sprintf("<%T>", k)
	}
}

func describeList(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = Describe(n)
	}
	return strings.Join(parts, ", ")
}
