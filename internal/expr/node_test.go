package expr

import "testing"

func TestSpanCoversBothOperands(t *testing.T) {
	a := Resolved(3, 2, Obj{Value: int64(1)}) // [3,5)
	b := Resolved(10, 4, Obj{Value: int64(2)}) // [10,14)

	got := Span(a, b, Obj{Value: int64(3)})
	if got.Offset != 3 {
		t.Errorf("Offset = %d, want 3", got.Offset)
	}
	if got.End() != 14 {
		t.Errorf("End() = %d, want 14", got.End())
	}
}

func TestResolvedUnresolvedFlag(t *testing.T) {
	r := Resolved(0, 1, Unit{})
	if r.Unsolved {
		t.Error("Resolved node has Unsolved = true")
	}
	u := Unresolved(0, 1, Unit{})
	if !u.Unsolved {
		t.Error("Unresolved node has Unsolved = false")
	}
}

func TestAsResolvedAsUnresolvedRoundTrip(t *testing.T) {
	n := Resolved(0, 1, Unit{})
	if got := n.AsUnresolved(); !got.Unsolved {
		t.Error("AsUnresolved did not set the flag")
	}
	if got := n.AsUnresolved().AsResolved(); got.Unsolved {
		t.Error("AsResolved did not clear the flag")
	}
}

func TestWithKindReplacesKindOnly(t *testing.T) {
	n := Resolved(5, 2, Obj{Value: int64(1)})
	got := n.WithKind(Obj{Value: int64(2)})
	if got.Offset != 5 || got.Length != 2 {
		t.Errorf("WithKind changed span: %+v", got)
	}
	if o, ok := got.Kind.(Obj); !ok || o.Value != int64(2) {
		t.Errorf("WithKind did not replace Kind: %+v", got.Kind)
	}
}

func TestIntSeqNextExhausts(t *testing.T) {
	s := NewIntSeq(1, 2, 7)
	got := s.Values()
	want := []int64{1, 3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestIntSeqDescendingStep(t *testing.T) {
	s := NewIntSeq(5, -2, 1)
	got := s.Values()
	want := []int64{5, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestIntSeqCopyIndependence(t *testing.T) {
	s := NewIntSeq(1, 1, 3)
	first := s.Values()
	second := s.Values()
	if len(first) != len(second) {
		t.Fatalf("repeated Values() calls diverged: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Values()[%d] = %d then %d, want stable", i, first[i], second[i])
		}
	}
}

func TestFloatSeqValues(t *testing.T) {
	s := NewFloatSeq(0.5, 0.5, 1.5)
	got := s.Values()
	want := []float64{0.5, 1.0, 1.5}
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
