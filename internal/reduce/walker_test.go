package reduce

import (
	"testing"

	"github.com/barblang/barb/internal/bindenv"
	"github.com/barblang/barb/internal/errs"
	"github.com/barblang/barb/internal/expr"
	"github.com/barblang/barb/internal/host"
)

func obj(v any) expr.Node {
	return expr.Resolved(0, 0, expr.Obj{Value: v})
}

func unknown(name string) expr.Node {
	return expr.Resolved(0, 0, expr.Unknown{Name: name})
}

func subExpr(items ...expr.Node) expr.Node {
	return expr.Resolved(0, 0, expr.SubExpression{Items: items})
}

// addOp/mulOp/minusOp/eqOp follow the verified convention that the
// tighter-binding operator takes the lower Prec (see expr.Infix).
func addOp() expr.Node {
	return expr.Resolved(0, 0, expr.Infix{Prec: 2, Fn: func(a, b any) (any, error) {
		return a.(int64) + b.(int64), nil
	}})
}

func mulOp() expr.Node {
	return expr.Resolved(0, 0, expr.Infix{Prec: 1, Fn: func(a, b any) (any, error) {
		return a.(int64) * b.(int64), nil
	}})
}

func minusOp() expr.Node {
	return expr.Resolved(0, 0, expr.Infix{Prec: 1, Fn: func(a, b any) (any, error) {
		return a.(int64) - b.(int64), nil
	}})
}

func eqOp() expr.Node {
	return expr.Resolved(0, 0, expr.Infix{Prec: 1, Fn: func(a, b any) (any, error) {
		return a.(int64) == b.(int64), nil
	}})
}

func mustReduce(t *testing.T, root []expr.Node, env *bindenv.Bindings, st Settings, final bool) []expr.Node {
	t.Helper()
	out, _, err := Reduce(root, env, st, final, host.NewReflect())
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	return out
}

func mustSingle(t *testing.T, out []expr.Node) expr.Node {
	t.Helper()
	if len(out) != 1 {
		t.Fatalf("Reduce() produced %d nodes, want 1: %+v", len(out), out)
	}
	return out[0]
}

func wantObj(t *testing.T, n expr.Node, want any) {
	t.Helper()
	if n.Unsolved {
		t.Fatalf("node did not resolve: %+v", n)
	}
	o, ok := n.Kind.(expr.Obj)
	if !ok {
		t.Fatalf("node Kind = %T, want expr.Obj", n.Kind)
	}
	if o.Value != want {
		t.Errorf("value = %v, want %v", o.Value, want)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3 => 7, never (1+2)*3.
	root := []expr.Node{obj(int64(1)), addOp(), obj(int64(2)), mulOp(), obj(int64(3))}
	out := mustReduce(t, root, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), int64(7))
}

func TestArithmeticPrecedenceOtherOrder(t *testing.T) {
	// a * b + c => (a*b)+c, same rule read the other way.
	root := []expr.Node{obj(int64(2)), mulOp(), obj(int64(3)), addOp(), obj(int64(4))}
	out := mustReduce(t, root, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), int64(10))
}

func TestTiesAreLeftAssociative(t *testing.T) {
	// 10 - 2 - 3 => (10-2)-3 = 5, not 10-(2-3) = 11.
	root := []expr.Node{obj(int64(10)), minusOp(), obj(int64(2)), minusOp(), obj(int64(3))}
	out := mustReduce(t, root, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), int64(5))
}

func TestTripleInactiveInNonFinalMode(t *testing.T) {
	root := []expr.Node{obj(int64(1)), addOp(), obj(int64(2))}
	out := mustReduce(t, root, nil, DefaultSettings(), false)
	if len(out) != 3 {
		t.Fatalf("Reduce() (non-final) = %d nodes, want 3 (no triple collapse)", len(out))
	}
}

func TestLetBindingChain(t *testing.T) {
	// let x = 10 in let y = x + 1 in y * 2 => 22
	xPlus1 := subExpr(unknown("x"), addOp(), obj(int64(1)))
	yTimes2 := subExpr(unknown("y"), mulOp(), obj(int64(2)))
	inner := expr.Resolved(0, 0, expr.BVar{Name: "y", Value: xPlus1, Scope: yTimes2})
	outer := expr.Resolved(0, 0, expr.BVar{Name: "x", Value: obj(int64(10)), Scope: inner})

	out := mustReduce(t, []expr.Node{outer}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), int64(22))
}

func TestIfThenElseShortCircuitsBranches(t *testing.T) {
	// The unreached branch must never be forced: looking it up as an
	// unknown name would error if the resolver touched it.
	ifNode := expr.Resolved(0, 0, expr.IfThenElse{
		Cond: obj(true),
		Then: obj("a"),
		Else: unknown("never_bound"),
	})
	out := mustReduce(t, []expr.Node{ifNode}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), "a")
}

func TestIfThenElseOtherBranch(t *testing.T) {
	ifNode := expr.Resolved(0, 0, expr.IfThenElse{
		Cond: obj(false),
		Then: unknown("never_bound"),
		Else: obj("b"),
	})
	out := mustReduce(t, []expr.Node{ifNode}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), "b")
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	andNode := expr.Resolved(0, 0, expr.And{L: obj(false), R: unknown("never_bound")})
	out := mustReduce(t, []expr.Node{andNode}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), false)
}

func TestAndPropagatesNull(t *testing.T) {
	andNode := expr.Resolved(0, 0, expr.And{L: obj(nil), R: unknown("never_bound")})
	out := mustReduce(t, []expr.Node{andNode}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), nil)
}

func TestOrShortCircuitsOnTrue(t *testing.T) {
	orNode := expr.Resolved(0, 0, expr.Or{L: obj(true), R: unknown("never_bound")})
	out := mustReduce(t, []expr.Node{orNode}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), true)
}

func TestOrFallsThroughOnFalse(t *testing.T) {
	orNode := expr.Resolved(0, 0, expr.Or{L: obj(false), R: obj(true)})
	out := mustReduce(t, []expr.Node{orNode}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), true)
}

func TestPartialApplication(t *testing.T) {
	// (fun a b -> a + b) 3 4 => 7
	sumAB := subExpr(unknown("a"), addOp(), unknown("b"))
	lambda := expr.Resolved(0, 0, expr.Lambda{Params: []string{"a", "b"}, Bindings: bindenv.New(), Body: sumAB})

	out := mustReduce(t, []expr.Node{lambda, obj(int64(3)), obj(int64(4))}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), int64(7))
}

func TestPartialApplicationStopsShortOfFullArity(t *testing.T) {
	sumAB := subExpr(unknown("a"), addOp(), unknown("b"))
	lambda := expr.Resolved(0, 0, expr.Lambda{Params: []string{"a", "b"}, Bindings: bindenv.New(), Body: sumAB})

	out := mustReduce(t, []expr.Node{lambda, obj(int64(3))}, nil, DefaultSettings(), true)
	got := mustSingle(t, out)
	lam, ok := got.Kind.(expr.Lambda)
	if !ok {
		t.Fatalf("Kind = %T, want expr.Lambda (still one arg short)", got.Kind)
	}
	if len(lam.Params) != 1 || lam.Params[0] != "b" {
		t.Errorf("remaining Params = %v, want [b]", lam.Params)
	}
}

func TestRecursiveFactorial(t *testing.T) {
	// let fact = fun n -> if n == 0 then 1 else n * fact(n-1) in fact
	// tied in a non-final pass, then applied to 5 in a final pass => 120.
	nMinus1 := subExpr(unknown("n"), minusOp(), obj(int64(1)))
	callFact := subExpr(unknown("fact"), nMinus1)
	elseBody := subExpr(unknown("n"), mulOp(), callFact)
	cond := subExpr(unknown("n"), eqOp(), obj(int64(0)))
	body := expr.Resolved(0, 0, expr.IfThenElse{Cond: cond, Then: obj(int64(1)), Else: elseBody})
	lambda := expr.Resolved(0, 0, expr.Lambda{Params: []string{"n"}, Bindings: bindenv.New(), Body: body})
	bvar := expr.Resolved(0, 0, expr.BVar{Name: "fact", Value: lambda, Scope: unknown("fact")})

	templateOut := mustReduce(t, []expr.Node{bvar}, nil, DefaultSettings(), false)
	template := mustSingle(t, templateOut)
	if _, ok := template.Kind.(expr.Lambda); !ok {
		t.Fatalf("template Kind = %T, want expr.Lambda", template.Kind)
	}

	appliedOut := mustReduce(t, []expr.Node{template, obj(int64(5))}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, appliedOut), int64(120))
}

func TestGeneratorCollapsesToIntSeq(t *testing.T) {
	gen := expr.Resolved(0, 0, expr.Generator{Start: obj(int64(1)), Step: obj(int64(2)), End: obj(int64(7))})
	out := mustReduce(t, []expr.Node{gen}, nil, DefaultSettings(), true)
	got := mustSingle(t, out)
	o, ok := got.Kind.(expr.Obj)
	if !ok {
		t.Fatalf("Kind = %T, want expr.Obj", got.Kind)
	}
	seq, ok := o.Value.(expr.IntSeq)
	if !ok {
		t.Fatalf("Value = %T, want expr.IntSeq", o.Value)
	}
	want := []int64{1, 3, 5, 7}
	got2 := seq.Values()
	if len(got2) != len(want) {
		t.Fatalf("Values() = %v, want %v", got2, want)
	}
	for i := range want {
		if got2[i] != want[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, got2[i], want[i])
		}
	}
}

func TestGeneratorZeroStepErrors(t *testing.T) {
	gen := expr.Resolved(0, 0, expr.Generator{Start: obj(int64(1)), Step: obj(int64(0)), End: obj(int64(7))})
	_, _, err := Reduce([]expr.Node{gen}, nil, DefaultSettings(), true, host.NewReflect())
	if err == nil {
		t.Fatal("expected an error for a zero-step generator")
	}
}

func TestNonFinalThenFinalTwoPass(t *testing.T) {
	// x + 1 with x -> ComingLater reduces (non-final) to a residual; the
	// same residual re-reduced (final) once x -> Existing(4) yields 5.
	body := subExpr(unknown("x"), addOp(), obj(int64(1)))
	pendingEnv := bindenv.New().With("x", bindenv.ComingLater())
	h := host.NewReflect()

	residual, err := reduceToNode(body, pendingEnv, DefaultSettings(), false, h)
	if err != nil {
		t.Fatalf("non-final reduceToNode() error = %v", err)
	}
	if !residual.Unsolved {
		t.Fatal("non-final reduction with an unresolved name should leave a residual")
	}

	readyEnv := bindenv.New().With("x", bindenv.Existing(func(offset, length uint32) any {
		return expr.Resolved(offset, length, expr.Obj{Value: int64(4)})
	}))
	final, err := reduceToNode(residual, readyEnv, DefaultSettings(), true, h)
	if err != nil {
		t.Fatalf("final reduceToNode() error = %v", err)
	}
	wantObj(t, final, int64(5))
}

func TestUnresolvedNameIsToleratedNonFinal(t *testing.T) {
	out := mustReduce(t, []expr.Node{unknown("nowhere")}, nil, DefaultSettings(), false)
	if len(out) != 1 {
		t.Fatalf("Reduce() = %d nodes, want 1", len(out))
	}
	if _, ok := out[0].Kind.(expr.Unknown); !ok {
		t.Errorf("Kind = %T, want expr.Unknown (left untouched, non-final)", out[0].Kind)
	}
}

func TestUnknownNameErrorsInFinalMode(t *testing.T) {
	_, _, err := Reduce([]expr.Node{unknown("nowhere")}, nil, DefaultSettings(), true, host.NewReflect())
	if err == nil {
		t.Fatal("expected an unknown-name error in final mode")
	}
	bee, ok := err.(*errs.BarbExecutionError)
	if !ok {
		t.Fatalf("error type = %T, want *errs.BarbExecutionError", err)
	}
	if bee.Kind != errs.UnknownName {
		t.Errorf("Kind = %q, want %q", bee.Kind, errs.UnknownName)
	}
}

func TestReductionIsDeterministic(t *testing.T) {
	root := func() []expr.Node {
		return []expr.Node{obj(int64(1)), addOp(), obj(int64(2)), mulOp(), obj(int64(3))}
	}
	out1 := mustReduce(t, root(), nil, DefaultSettings(), true)
	out2 := mustReduce(t, root(), nil, DefaultSettings(), true)
	v1 := mustSingle(t, out1).Kind.(expr.Obj).Value
	v2 := mustSingle(t, out2).Kind.(expr.Obj).Value
	if v1 != v2 {
		t.Errorf("repeated reduction diverged: %v vs %v", v1, v2)
	}
}

func TestFinalReductionOfAlreadyResolvedIsANoop(t *testing.T) {
	n := obj(int64(42))
	out := mustReduce(t, []expr.Node{n}, nil, DefaultSettings(), true)
	wantObj(t, mustSingle(t, out), int64(42))
}
