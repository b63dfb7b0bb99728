package host

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// memberKind tags whether a cached reflect lookup was a field/property or a
// method, mirroring what ResolveInvokeByInstance needs to build an expr.Obj
// (the field's value) vs an expr.InvokableExpr.
type memberKind int

const (
	memberNone memberKind = iota
	memberField
	memberMethod
)

type memberEntry struct {
	kind memberKind
}

// cacheKey is reflect.Type + member name — concrete values never enter the
// cache key, only the shape of the type that produced this lookup.
type cacheKey struct {
	t    reflect.Type
	name string
}

// reflectCache is a concurrency-safe member cache guarded by one coarse
// RWMutex: once a type's member shape is known it never changes, so a lookup
// is a pure function of (type, name) and is safe for every concurrent
// reduction that uses the same Reflect. Each Reflect owns its own cache
// (NewReflect creates it); lookups made through one Reflect are not visible
// to another.
//
// Each cache instance is tagged with a random id (google/uuid) purely so a
// host embedding multiple independent Reflect caches (e.g. one per test, or
// one per tenant namespace) can correlate cache hits/misses in logs without
// the entries themselves colliding — the id never affects lookup behavior.
type reflectCache struct {
	id uuid.UUID
	mu sync.RWMutex
	m  map[cacheKey]memberEntry
}

func newReflectCache() *reflectCache {
	return &reflectCache{id: uuid.New(), m: make(map[cacheKey]memberEntry)}
}

func (c *reflectCache) lookup(t reflect.Type, name string) (memberEntry, bool) {
	c.mu.RLock()
	e, ok := c.m[cacheKey{t, name}]
	c.mu.RUnlock()
	return e, ok
}

func (c *reflectCache) store(t reflect.Type, name string, e memberEntry) {
	c.mu.Lock()
	c.m[cacheKey{t, name}] = e
	c.mu.Unlock()
}

// ID returns this cache's correlation id, useful for logging which Reflect
// instance served a given lookup.
func (c *reflectCache) ID() uuid.UUID { return c.id }
