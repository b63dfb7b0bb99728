package bindenv

import "testing"

func resolveInt(c Contents) int {
	v := c.Resolve(0, 0)
	n, _ := v.(int)
	return n
}

func TestComingLaterIsNotResolvable(t *testing.T) {
	env := New().With("x", ComingLater())
	c, ok := env.Get("x")
	if !ok {
		t.Fatal("x not found")
	}
	if !c.IsComingLater() {
		t.Error("IsComingLater() = false, want true")
	}
}

func TestExistingResolvesThroughFactory(t *testing.T) {
	env := New().With("x", Existing(func(offset, length uint32) any { return 7 }))
	c, ok := env.Get("x")
	if !ok {
		t.Fatal("x not found")
	}
	if c.IsComingLater() {
		t.Error("IsComingLater() = true, want false")
	}
	if got := resolveInt(c); got != 7 {
		t.Errorf("Resolve() = %d, want 7", got)
	}
}

func TestGetMissesFallThroughToOuter(t *testing.T) {
	outer := New().With("x", Existing(func(offset, length uint32) any { return 1 }))
	inner := Extend(outer)
	c, ok := inner.Get("x")
	if !ok {
		t.Fatal("x not found via outer chain")
	}
	if got := resolveInt(c); got != 1 {
		t.Errorf("Resolve() = %d, want 1", got)
	}
}

func TestWithShadowsOuter(t *testing.T) {
	outer := New().With("x", Existing(func(offset, length uint32) any { return 1 }))
	inner := outer.With("x", Existing(func(offset, length uint32) any { return 2 }))
	c, _ := inner.Get("x")
	if got := resolveInt(c); got != 2 {
		t.Errorf("Resolve() = %d, want 2 (inner should shadow outer)", got)
	}
	// outer is untouched.
	oc, _ := outer.Get("x")
	if got := resolveInt(oc); got != 1 {
		t.Errorf("outer Resolve() = %d, want 1 (With must not mutate outer)", got)
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	b := New().With("x", Existing(func(offset, length uint32) any { return 1 }))
	clone := b.Clone()
	clone.Set("y", Existing(func(offset, length uint32) any { return 2 }))

	if _, ok := b.Get("y"); ok {
		t.Error("mutating a clone's store leaked back into the original")
	}
	if _, ok := clone.Get("x"); !ok {
		t.Error("clone lost the original's own bindings")
	}
}

func TestHasChecksOwnStoreOnly(t *testing.T) {
	outer := New().With("x", Existing(func(offset, length uint32) any { return 1 }))
	inner := Extend(outer)
	if inner.Has("x") {
		t.Error("Has(x) = true on inner, want false (x lives in outer, not inner's own store)")
	}
	if !outer.Has("x") {
		t.Error("Has(x) = false on outer, want true")
	}
}

func TestWithoutOwnDropsOnlyNamedKeys(t *testing.T) {
	b := New().
		With("x", Existing(func(offset, length uint32) any { return 1 })).
		With("y", Existing(func(offset, length uint32) any { return 2 }))
	stripped := b.WithoutOwn("y")
	if stripped.Has("y") {
		t.Error("WithoutOwn(y) left y in the own store")
	}
	if _, ok := stripped.Get("x"); !ok {
		t.Error("WithoutOwn(y) dropped an unrelated name")
	}
}

func TestUnionPrefersPrimaryOnConflict(t *testing.T) {
	primary := New().With("x", Existing(func(offset, length uint32) any { return 1 }))
	other := New().With("x", Existing(func(offset, length uint32) any { return 2 })).
		With("y", Existing(func(offset, length uint32) any { return 3 }))

	u := Union(primary, other)

	xc, ok := u.Get("x")
	if !ok {
		t.Fatal("x not found in union")
	}
	if got := resolveInt(xc); got != 1 {
		t.Errorf("Union x = %d, want 1 (primary must win on conflict)", got)
	}

	yc, ok := u.Get("y")
	if !ok {
		t.Fatal("y not found in union")
	}
	if got := resolveInt(yc); got != 3 {
		t.Errorf("Union y = %d, want 3 (fall back to other for names primary lacks)", got)
	}
}

func TestUnionDoesNotMutateInputs(t *testing.T) {
	primary := New().With("x", Existing(func(offset, length uint32) any { return 1 }))
	other := New().With("y", Existing(func(offset, length uint32) any { return 2 }))

	_ = Union(primary, other)

	if _, ok := primary.Get("y"); ok {
		t.Error("Union leaked other's bindings into primary")
	}
	if _, ok := other.Get("x"); ok {
		t.Error("Union leaked primary's bindings into other")
	}
}

func TestUnionWithNilPrimaryReturnsOther(t *testing.T) {
	other := New().With("y", Existing(func(offset, length uint32) any { return 2 }))
	u := Union(nil, other)
	if u != other {
		t.Error("Union(nil, other) should return other directly")
	}
}
