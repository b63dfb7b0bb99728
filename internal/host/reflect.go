package host

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/barblang/barb/internal/expr"
)

// methodHandle is the concrete expr.MethodInfo this host hands back: enough
// to re-invoke the method later without walking reflect a second time.
type methodHandle struct {
	name string
}

// propertyHandle is the concrete expr.PropertyInfo this host hands back.
type propertyHandle struct {
	name string
}

// staticKey keys a registered constant or static function value by
// (namespace, typeName, member).
type staticKey struct{ namespace, typeName, member string }

// ctorKey registers a constructor function under (namespace, typeName).
type ctorKey struct{ namespace, typeName string }

// Reflect is a reflection-backed Interop (spec.md §6), grounded on the
// teacher's HostObject/AccessHostMember: instance member lookup walks
// reflect.Value the same way, but the result is produced eagerly as a
// resolver Node instead of a lazily-dispatched Builtin closure, since the
// reducer — not an interpreter loop — owns call scheduling.
//
// Static resolution (CachedResolveStatic/ExecuteConstructor) has no
// reflect-based equivalent of "scan every loaded package for a type named
// X" in Go, so callers register namespace/type bindings explicitly via
// RegisterStatic/RegisterConstructor; the cache still applies to instance
// lookups, which are the hot path spec.md §5 is concerned with.
type Reflect struct {
	cache   *reflectCache
	statics map[staticKey]any
	ctors   map[ctorKey]func(args []any) (any, error)
}

// NewReflect builds a Reflect host with an empty static/constructor
// registry and a fresh member cache of its own; the cache is not shared
// with any other Reflect.
func NewReflect() *Reflect {
	return &Reflect{
		cache:   newReflectCache(),
		statics: make(map[staticKey]any),
		ctors:   make(map[ctorKey]func(args []any) (any, error)),
	}
}

// RegisterStatic binds a namespace-qualified static member (a constant or a
// nullary function treated as one) so CachedResolveStatic can find it.
func (r *Reflect) RegisterStatic(namespace, typeName, member string, value any) {
	r.statics[staticKey{namespace, typeName, member}] = value
}

// RegisterConstructor binds a namespace-qualified constructor function so
// ExecuteConstructor can find it.
func (r *Reflect) RegisterConstructor(namespace, typeName string, ctor func(args []any) (any, error)) {
	r.ctors[ctorKey{namespace, typeName}] = ctor
}

func (r *Reflect) ResolveInvokeByInstance(obj any, name string) (expr.Node, bool) {
	n, kind, ok := r.resolveMember(obj, name)
	if !ok {
		return expr.Node{}, false
	}
	switch kind {
	case memberField:
		return expr.Resolved(0, 0, expr.Obj{Value: n}), true
	case memberMethod:
		return expr.Resolved(0, 0, expr.InvokableExpr{Obj: obj, Methods: []expr.MethodInfo{methodHandle{name: name}}}), true
	}
	return expr.Node{}, false
}

// resolveMember is the reflect walk itself, grounded on host_access.go's
// AccessHostMember: try a method first, then a struct field, dereferencing
// one layer of pointer/interface either way.
func (r *Reflect) resolveMember(obj any, name string) (any, memberKind, bool) {
	val := reflect.ValueOf(obj)
	if !val.IsValid() {
		return nil, memberNone, false
	}
	t := val.Type()

	if entry, ok := r.cache.lookup(t, name); ok {
		switch entry.kind {
		case memberMethod:
			return nil, memberMethod, true
		case memberField:
			fv, ok := fieldValue(val, name)
			return fv, memberField, ok
		}
		return nil, memberNone, false
	}

	if m := val.MethodByName(name); m.IsValid() {
		r.cache.store(t, name, memberEntry{kind: memberMethod})
		return nil, memberMethod, true
	}

	if fv, ok := fieldValue(val, name); ok {
		r.cache.store(t, name, memberEntry{kind: memberField})
		return fv, memberField, true
	}

	return nil, memberNone, false
}

func fieldValue(val reflect.Value, name string) (any, bool) {
	indirect := val
	if indirect.Kind() == reflect.Ptr {
		indirect = indirect.Elem()
	}
	if indirect.Kind() != reflect.Struct {
		return nil, false
	}
	f := indirect.FieldByName(name)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

func (r *Reflect) ResolveInvokeAtDepth(depth int, obj any, name string) ([]expr.DepthMember, error) {
	elems, err := collectAtDepth(obj, depth)
	if err != nil {
		return nil, err
	}
	out := make([]expr.DepthMember, len(elems))
	for i, el := range elems {
		n, kind, ok := r.resolveMember(el, name)
		if !ok {
			return nil, fmt.Errorf("no member %q on %v", name, el)
		}
		switch kind {
		case memberField:
			out[i] = expr.DepthMember{Obj: el, IsMethod: false, Property: propertyHandle{name: name}}
		case memberMethod:
			out[i] = expr.DepthMember{Obj: el, IsMethod: true, Methods: []expr.MethodInfo{methodHandle{name: name}}}
		}
		_ = n
	}
	return out, nil
}

// collectAtDepth descends `depth` collection levels (each level must be a
// slice/array) and returns the flattened leaf elements.
func collectAtDepth(obj any, depth int) ([]any, error) {
	if depth == 0 {
		return []any{obj}, nil
	}
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a collection at depth>0, got %T", obj)
	}
	var out []any
	for i := 0; i < v.Len(); i++ {
		sub, err := collectAtDepth(v.Index(i).Interface(), depth-1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func (r *Reflect) CachedResolveStatic(namespaces []string, typeName, member string) ([]expr.Node, error) {
	var out []expr.Node
	for _, ns := range namespaces {
		if v, ok := r.statics[staticKey{ns, typeName, member}]; ok {
			out = append(out, expr.Resolved(0, 0, expr.Obj{Value: v}))
		}
	}
	return out, nil
}

func (r *Reflect) ExecuteUnitMethod(obj any, methods []expr.MethodInfo) (any, error) {
	return r.invoke(obj, methods, nil)
}

func (r *Reflect) ExecuteParameterizedMethod(obj any, methods []expr.MethodInfo, args []any) (any, error) {
	return r.invoke(obj, methods, args)
}

func (r *Reflect) invoke(obj any, methods []expr.MethodInfo, args []any) (any, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("no method handle to invoke")
	}
	switch mh := methods[0].(type) {
	case methodHandle:
		val := reflect.ValueOf(obj)
		m := val.MethodByName(mh.name)
		if !m.IsValid() {
			return nil, fmt.Errorf("method %q no longer resolves on %T", mh.name, obj)
		}
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			in[i] = reflect.ValueOf(a)
		}
		results := m.Call(in)
		return unpackResults(results)
	case grpcMethodInfo:
		resp, err := mh.method.Invoke(context.Background(), args)
		if err != nil {
			return nil, err
		}
		return unpackGrpcResponse(resp), nil
	}
	return nil, fmt.Errorf("unrecognized method handle %T", methods[0])
}

// unpackGrpcResponse flattens a dynamic.Message response into a plain Go
// map keyed by field name, the same shape ExecuteIndexer/CallIndexedProperty
// already expect a host value to be in, so a gRPC call's result composes
// with the rest of the reducer's member/index rules instead of handing back
// an opaque protoreflect handle.
func unpackGrpcResponse(resp *dynamic.Message) map[string]any {
	out := make(map[string]any)
	for _, fd := range resp.GetKnownFields() {
		out[fd.GetName()] = resp.GetField(fd)
	}
	return out
}

// unpackResults applies the common Go `(value, error)` convention: a
// trailing error result that is non-nil is returned as the call's error; a
// nil trailing error is dropped. Any other result arity is returned as-is
// (a single value, or a slice of values).
func unpackResults(results []reflect.Value) (any, error) {
	if len(results) == 0 {
		return nil, nil
	}
	last := results[len(results)-1]
	if last.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		results = results[:len(results)-1]
		if len(results) == 0 {
			return nil, err
		}
		if len(results) == 1 {
			return results[0].Interface(), err
		}
		out := make([]any, len(results))
		for i, r := range results {
			out[i] = r.Interface()
		}
		return out, err
	}
	if len(results) == 1 {
		return results[0].Interface(), nil
	}
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.Interface()
	}
	return out, nil
}

func (r *Reflect) ExecuteConstructor(namespaces []string, typeName string, args []any) (expr.Node, bool, error) {
	for _, ns := range namespaces {
		if ctor, ok := r.ctors[ctorKey{ns, typeName}]; ok {
			v, err := ctor(args)
			if err != nil {
				return expr.Node{}, true, err
			}
			return expr.Resolved(0, 0, expr.Obj{Value: v}), true, nil
		}
	}
	return expr.Node{}, false, nil
}

// ReadProperty re-resolves a property handle a prior ResolveInvokeAtDepth
// call handed back (propertyHandle only records the field name, not the
// value, since it's read once per collection element at broadcast time —
// mirrors ExecuteIndexer's own re-resolution of each propertyHandle in its
// chain).
func (r *Reflect) ReadProperty(obj any, prop expr.PropertyInfo) (any, error) {
	ph, ok := prop.(propertyHandle)
	if !ok {
		return nil, fmt.Errorf("unrecognized property handle %T", prop)
	}
	v, _, ok := r.resolveMember(obj, ph.name)
	if !ok {
		return nil, fmt.Errorf("property %q no longer resolves on %T", ph.name, obj)
	}
	return v, nil
}

func (r *Reflect) ExecuteIndexer(obj any, props []expr.PropertyInfo, args []any) (any, error) {
	cur := obj
	for _, p := range props {
		ph, ok := p.(propertyHandle)
		if !ok {
			return nil, fmt.Errorf("unrecognized property handle %T", p)
		}
		v, _, ok := r.resolveMember(cur, ph.name)
		if !ok {
			return nil, fmt.Errorf("indexer property %q no longer resolves", ph.name)
		}
		cur = v
	}
	return r.CallIndexedProperty(cur, args)
}

func (r *Reflect) CallIndexedProperty(obj any, args []any) (any, error) {
	val := reflect.ValueOf(obj)
	switch val.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		if len(args) != 1 {
			return nil, fmt.Errorf("indexing expects exactly one index argument, got %d", len(args))
		}
		i, ok := asInt64(args[0])
		if !ok {
			return nil, fmt.Errorf("index argument must be an integer, got %T", args[0])
		}
		if i < 0 || i >= int64(val.Len()) {
			return nil, fmt.Errorf("index %d out of range [0,%d)", i, val.Len())
		}
		return val.Index(int(i)).Interface(), nil
	case reflect.Map:
		if len(args) != 1 {
			return nil, fmt.Errorf("map indexing expects exactly one key argument, got %d", len(args))
		}
		mv := val.MapIndex(reflect.ValueOf(args[0]))
		if !mv.IsValid() {
			return nil, nil
		}
		return mv.Interface(), nil
	}
	return nil, fmt.Errorf("value of type %T is not indexable", obj)
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

// ResolveResultType implements spec.md §4.3's return-normalization: it maps
// any raw Go value into the Obj the resolver should substitute for
// Returned(_). A nil interface normalizes to a canonical Obj{Value: nil}.
func (r *Reflect) ResolveResultType(value any) expr.Node {
	return expr.Resolved(0, 0, expr.Obj{Value: value})
}
