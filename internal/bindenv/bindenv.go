// Package bindenv implements the reducer's binding environment: an ordered
// name -> contents mapping that supports forward-declared ("coming later")
// names, resolved value factories, and the lexical-scope chaining a let
// binding or lambda call needs.
//
// The chained-map shape (store + outer pointer, RWMutex-guarded) mirrors the
// teacher's Environment (funxy internal/evaluator/environment.go); what's new
// here is the two-state Contents (ComingLater vs Existing) spec.md calls for.
package bindenv

import "sync"

// Factory reconstructs the bound expression at a given source offset/length
// so that diagnostics raised against a *use* of the name point at the use
// site, not the definition site. It returns the resolver-level node type
// (internal/expr.Node) as `any` to avoid an import cycle between this
// package and internal/expr, which embeds *Bindings in its Lambda kind.
type Factory func(offset, length uint32) any

// Contents is a binding's payload: either a promise that the name will be
// supplied later (ComingLater) or a concrete factory (Existing).
type Contents struct {
	comingLater bool
	factory     Factory
}

// ComingLater marks a name as promised-but-not-yet-supplied. In final
// reduction, looking it up is a hard error; in non-final it is left pending.
func ComingLater() Contents {
	return Contents{comingLater: true}
}

// Existing wraps a factory that reconstructs the bound node on demand.
func Existing(f Factory) Contents {
	return Contents{factory: f}
}

func (c Contents) IsComingLater() bool { return c.comingLater }

// IsZero reports whether c is the zero Contents value (absent binding).
func (c Contents) IsZero() bool { return !c.comingLater && c.factory == nil }

// Resolve invokes the Existing factory. Callers must check IsComingLater
// first.
func (c Contents) Resolve(offset, length uint32) any {
	return c.factory(offset, length)
}

// Bindings is an ordered, lexically-chained name -> Contents map. A child
// Bindings shadows its outer on conflicting names. Per spec.md §5, a
// compiled expression's initial Bindings is immutable and freely shareable
// across threads; per-invocation reduction should Clone before adding input
// values so concurrent invocations never observe each other's bindings.
type Bindings struct {
	mu    sync.RWMutex
	store map[string]Contents
	outer *Bindings
}

// New creates an empty, top-level Bindings.
func New() *Bindings {
	return &Bindings{store: make(map[string]Contents)}
}

// Extend returns a new child Bindings with outer as its parent. Lookups
// that miss in the child fall through to outer.
func Extend(outer *Bindings) *Bindings {
	return &Bindings{store: make(map[string]Contents), outer: outer}
}

// With returns a child Bindings with a single extra binding — the common
// case for let-bindings and lambda parameter binding.
func (b *Bindings) With(name string, c Contents) *Bindings {
	child := Extend(b)
	child.Set(name, c)
	return child
}

func (b *Bindings) Set(name string, c Contents) {
	b.mu.Lock()
	b.store[name] = c
	b.mu.Unlock()
}

// Get looks up name, walking outer chains. ok is false if name is bound
// nowhere in the chain.
func (b *Bindings) Get(name string) (Contents, bool) {
	if b == nil {
		return Contents{}, false
	}
	b.mu.RLock()
	c, ok := b.store[name]
	b.mu.RUnlock()
	if ok {
		return c, true
	}
	return b.outer.Get(name)
}

// Clone makes a shallow copy of this Bindings' own store (not its outer
// chain) so per-invocation mutation (e.g. seeding additional_bindings)
// never leaks back into a shared, compiled template.
func (b *Bindings) Clone() *Bindings {
	if b == nil {
		return New()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	store := make(map[string]Contents, len(b.store))
	for k, v := range b.store {
		store[k] = v
	}
	return &Bindings{store: store, outer: b.outer}
}

// Has reports whether name is bound in this env's own store (not outer).
func (b *Bindings) Has(name string) bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	_, ok := b.store[name]
	b.mu.RUnlock()
	return ok
}

// Union returns a Bindings whose lookups consult primary's whole chain
// first and fall back to other's chain only for names primary doesn't have
// anywhere — spec.md §4.2's `initial_env ∪ lambda.bindings` (lambda bindings
// win on conflict). Neither input is mutated.
func Union(primary, other *Bindings) *Bindings {
	if primary == nil {
		return other
	}
	primary.mu.RLock()
	store := make(map[string]Contents, len(primary.store))
	for k, v := range primary.store {
		store[k] = v
	}
	outer := primary.outer
	primary.mu.RUnlock()
	return &Bindings{store: store, outer: Union(outer, other)}
}

// WithoutOwn returns a Bindings equivalent to b but with the given names
// removed from its own (non-outer) store — used to strip a lambda's
// captured bindings of any name that one of its parameters will shadow.
func (b *Bindings) WithoutOwn(names ...string) *Bindings {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	store := make(map[string]Contents, len(b.store))
	for k, v := range b.store {
		if !drop[k] {
			store[k] = v
		}
	}
	return &Bindings{store: store, outer: b.outer}
}
