package expr

import "github.com/barblang/barb/internal/bindenv"

// Env is the binding environment a Lambda closes over. Declared here (not
// imported as a concrete bindenv.Bindings field directly) only to give the
// Lambda kind a friendly field type; it is exactly *bindenv.Bindings.
type Env = bindenv.Bindings

// --- Leaves ---------------------------------------------------------------

// Unit is the empty argument marker, e.g. the `()` in `f()`.
type Unit struct{}

func (Unit) kind() {}

// Obj is a fully-resolved host value, opaque to the reducer.
type Obj struct {
	Value any
}

func (Obj) kind() {}

// Unknown is an identifier not yet resolved from the environment.
type Unknown struct {
	Name string
}

func (Unknown) kind() {}

// Returned is the transient output of a host call; the resolver normalizes
// it to Obj within one step (spec.md §4.3).
type Returned struct {
	Value any
}

func (Returned) kind() {}

// --- Operator / dispatch markers ------------------------------------------

// InvokeTok is the sentinel token for `.`.
type InvokeTok struct{}

func (InvokeTok) kind() {}

// NewTok is the sentinel token for the constructor syntax `new`.
type NewTok struct{}

func (NewTok) kind() {}

// AppliedInvoke is a `.name` suffix waiting for a left-hand object. Depth
// counts nested-collection invocations (descending into lists-of-lists
// before broadcasting the call).
type AppliedInvoke struct {
	Depth uint32
	Name  string
}

func (AppliedInvoke) kind() {}

// PrefixFn/PostfixFn/InfixFn are the host-supplied operator functions
// spec.md §1 treats as an out-of-scope collaborator table; this package
// only needs their call shape.
type PrefixFn func(x any) (any, error)
type PostfixFn func(x any) (any, error)
type InfixFn func(a, b any) (any, error)

type Prefix struct{ Fn PrefixFn }

func (Prefix) kind() {}

type Postfix struct{ Fn PostfixFn }

func (Postfix) kind() {}

// Infix carries the operator's precedence and evaluator function. The
// Triple Reducer's comparison (spec.md §4.6) rewrites a left operator
// whose Prec is lower than or equal to its right neighbor's, so a host wiring up an
// operator table must give its tighter-binding operators (e.g. `*` over
// `+`) the *lower* Prec value; ties resolve left-to-right.
type Infix struct {
	Prec int32
	Fn   InfixFn
}

func (Infix) kind() {}

// IndexArgs is the unresolved form of bracketed index arguments, e.g.
// `xs[i, j]`.
type IndexArgs struct {
	Items []Node
}

func (IndexArgs) kind() {}

// --- Host-member handles ---------------------------------------------------

// PropertyInfo is an opaque handle the host interop layer hands back to
// identify a resolved property/field; the reducer never inspects it.
type PropertyInfo any

// MethodInfo is the method-side equivalent of PropertyInfo.
type MethodInfo any

type AppliedProperty struct {
	Obj   any
	PInfo PropertyInfo
}

func (AppliedProperty) kind() {}

type AppliedIndexedProperty struct {
	Obj    any
	PInfos []PropertyInfo
}

func (AppliedIndexedProperty) kind() {}

// ObjMethods pairs a collection element with its resolved method handles.
type ObjMethods struct {
	Obj     any
	Methods []MethodInfo
}

// DepthMember is one element of what resolve_invoke_at_depth (spec.md §6)
// returns: a collection element paired with whichever kind of member it
// resolved to on that element. The reducer requires every element of one
// ResolveInvokeAtDepth call to agree on IsMethod, else it's the
// mixed-property-method-nested-invoke error (spec.md §4.5).
type DepthMember struct {
	Obj      any
	IsMethod bool
	Property PropertyInfo
	Methods  []MethodInfo
}

// InvokableExpr is a resolved, not-yet-called method handle. Multi is true
// when this handle resolved from a depth>0 AppliedInvoke (a broadcast call);
// in that case Targets carries one (obj, methods) pair per collection
// element and Obj/Methods are unused. This flattens what spec.md describes
// as nested sum-type wrapping (InvokableExpr(AppliedMethod | AppliedMulti-
// Method)) into a discriminant field, per spec.md §9's design note on
// avoiding literal wrapper-variant explosion.
type InvokableExpr struct {
	Multi   bool
	Obj     any
	Methods []MethodInfo
	Targets []ObjMethods
}

func (InvokableExpr) kind() {}

// --- Composites -------------------------------------------------------------

// SubExpression is a parenthesised or synthetic grouping of nodes.
type SubExpression struct {
	Items []Node
}

func (SubExpression) kind() {}

type Tuple struct {
	Items []Node
}

func (Tuple) kind() {}

type ArrayBuilder struct {
	Items []Node
}

func (ArrayBuilder) kind() {}

type SetBuilder struct {
	Items []Node
}

func (SetBuilder) kind() {}

// BVar is `let Name = Value in Scope`.
type BVar struct {
	Name  string
	Value Node
	Scope Node
}

func (BVar) kind() {}

// Lambda is a (possibly partially applied) function value. Bindings is
// mutated in place to tie the recursive self-reference knot for `let rec`
// lambdas (spec.md §4.4) — the one piece of mutable state besides the
// environment itself (spec.md §5).
type Lambda struct {
	Params   []string
	Bindings *Env
	Body     Node
}

func (Lambda) kind() {}

type IfThenElse struct {
	Cond, Then, Else Node
}

func (IfThenElse) kind() {}

// Generator is `{start .. step .. end}`.
type Generator struct {
	Start, Step, End Node
}

func (Generator) kind() {}

type And struct{ L, R Node }

func (And) kind() {}

type Or struct{ L, R Node }

func (Or) kind() {}
