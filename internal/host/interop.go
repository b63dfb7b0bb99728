// Package host declares the reducer's host-interop contract (spec.md §6) —
// the collaborator interface spec.md treats as out of scope for the core
// reducer itself ("host-language reflection glue... operator-function
// tables... are treated as collaborators") — plus one concrete,
// reflection-based implementation (Reflect, in reflect.go) so the reducer is
// testable end-to-end without a production embedder.
package host

import "github.com/barblang/barb/internal/expr"

// Interop is every host call the reducer's Single-Node and Pairwise rules
// may issue. Implementations must be safe for concurrent use: per spec.md
// §5, a reflection cache behind member lookups must tolerate concurrent
// readers and occasional writers.
type Interop interface {
	// ResolveInvokeByInstance resolves a `.name` against a concrete
	// instance, returning the property/field/method handle node (an
	// expr.AppliedProperty, expr.Obj, or expr.InvokableExpr), or ok=false
	// if no such member exists.
	ResolveInvokeByInstance(obj any, name string) (result expr.Node, ok bool)

	// ResolveInvokeAtDepth descends `depth` collection levels from obj and
	// resolves `name` against every element found at that depth.
	ResolveInvokeAtDepth(depth int, obj any, name string) ([]expr.DepthMember, error)

	// CachedResolveStatic looks up a static member (constant, static
	// method) of typeName in the given namespaces. Exactly one result is
	// expected by the caller; returning more than one is how the reducer
	// detects ambiguous-static-resolution.
	CachedResolveStatic(namespaces []string, typeName, member string) ([]expr.Node, error)

	// ReadProperty reads the value a prior ResolveInvokeAtDepth call handed
	// back as a property handle (spec.md §4.5's Multi-target property
	// broadcast: each DepthMember's Property is read the same way the
	// depth==0 field case reads its value directly).
	ReadProperty(obj any, prop expr.PropertyInfo) (any, error)

	ExecuteUnitMethod(obj any, methods []expr.MethodInfo) (any, error)
	ExecuteParameterizedMethod(obj any, methods []expr.MethodInfo, args []any) (any, error)

	// ExecuteConstructor builds a new instance of typeName in one of
	// namespaces. ok=false (with a nil error) means no matching constructor
	// was found; err is reserved for an actual invocation failure.
	ExecuteConstructor(namespaces []string, typeName string, args []any) (result expr.Node, ok bool, err error)

	ExecuteIndexer(obj any, props []expr.PropertyInfo, args []any) (any, error)
	CallIndexedProperty(obj any, args []any) (any, error)

	// ResolveResultType is the return-normalization step (spec.md §4.3):
	// it maps a raw host value coming out of a call into the Node the
	// resolver should substitute for the Returned(_) tag.
	ResolveResultType(value any) expr.Node
}
