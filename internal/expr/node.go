// Package expr implements the tagged-variant expression tree the reducer
// rewrites: source-span-carrying nodes over a closed set of kinds.
package expr

// Node is one position in the expression tree. Offset/Length locate it in the
// original source and are preserved across rewrites; a node built from two
// others spans from the earlier offset through the later end (see Span).
//
// Resolved/Unresolved is carried as a flag rather than as separate wrapper
// kinds (the source language wraps any kind in Resolved(k)/Unresolved(k));
// flattening keeps container kinds from nesting one layer deeper every time
// a child resolves.
type Node struct {
	Offset   uint32
	Length   uint32
	Kind     Kind
	Unsolved bool // true: this node (or something inside it) still awaits input
}

// End returns the offset just past this node's span.
func (n Node) End() uint32 { return n.Offset + n.Length }

// Span returns a Node spanning from a through b (inclusive of both), used
// when a pairwise or triple rewrite collapses two or three nodes into one.
func Span(a, b Node, k Kind) Node {
	return Node{Offset: a.Offset, Length: b.End() - a.Offset, Kind: k}
}

func Resolved(offset, length uint32, k Kind) Node {
	return Node{Offset: offset, Length: length, Kind: k}
}

func Unresolved(offset, length uint32, k Kind) Node {
	return Node{Offset: offset, Length: length, Kind: k, Unsolved: true}
}

func (n Node) WithKind(k Kind) Node {
	n.Kind = k
	return n
}

func (n Node) AsUnresolved() Node {
	n.Unsolved = true
	return n
}

func (n Node) AsResolved() Node {
	n.Unsolved = false
	return n
}

// Kind is the closed sum of expression-node shapes. It is implemented by the
// types in this package; kind() is unexported so no other package can add
// variants.
type Kind interface {
	kind()
}
