// Package errs defines the reducer's error surface: BarbExecutionError and
// the error-kind taxonomy of spec.md §7.
//
// The teacher represents runtime errors as a first-class Object
// (funxy internal/evaluator/object_control.go: Error, with Line/Column and a
// StackFrame trace rendered by Inspect()) that flows through the same
// channel as ordinary values. This reducer is a library called from regular
// Go control flow rather than an interpreter loop threading a sentinel
// value, so BarbExecutionError implements the standard `error` interface
// instead — but its shape (message, location, a local-context trace) and
// its rendering are carried over directly from Error.Inspect().
package errs

import (
	"fmt"
	"strings"
)

// Kind enumerates the error kinds spec.md §7 names. It is a kind, not a Go
// type, per spec.md's instruction: every BarbExecutionError carries one.
type Kind string

const (
	UnboundName               Kind = "unbound-name"
	UnknownName               Kind = "unknown-name"
	GeneratorArgUnresolved    Kind = "generator-arg-unresolved"
	AndLHSNotBool             Kind = "and-lhs-not-bool"
	OrLHSNotBool              Kind = "or-lhs-not-bool"
	StaticDepthUnsupported    Kind = "static-depth-unsupported"
	MixedPropertyMethodNested Kind = "mixed-property-method-nested-invoke"
	AmbiguousStaticResolution Kind = "ambiguous-static-resolution"
	HostInvocationFailed      Kind = "host-invocation-failed"
	BadTupleIndex             Kind = "bad-tuple-index"
	BadGeneratorTypes         Kind = "bad-generator-types"
	UnexpectedResult          Kind = "unexpected-result"
	UnexpectedCase            Kind = "unexpected-case"
)

// Frame is one entry in a BarbExecutionError's diagnostic trace — the local
// context (which rule was being tried, against which node) at the point the
// error was raised. Mirrors the teacher's StackFrame, minus the
// interpreter-call-stack fields that don't apply to a single reduction step.
type Frame struct {
	Rule string // e.g. "single:Generator", "pairwise:Obj,AppliedInvoke"
	Note string
}

// BarbExecutionError is the reducer's sole error type (spec.md §6/§7).
// Offset/Length locate the offending node(s) in the original source.
type BarbExecutionError struct {
	Kind    Kind
	Message string
	Offset  uint32
	Length  uint32
	Trace   []Frame
	Cause   error // wrapped host-invocation error, if any
}

func New(kind Kind, offset, length uint32, format string, a ...any) *BarbExecutionError {
	return &BarbExecutionError{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
		Offset:  offset,
		Length:  length,
	}
}

// Wrap builds a host-invocation-failed error from an underlying host error,
// per spec.md §4.5 ("translate to BarbExecutionError with the source span of
// the right-hand operand") and §7's propagation policy.
func Wrap(cause error, offset, length uint32) *BarbExecutionError {
	return &BarbExecutionError{
		Kind:    HostInvocationFailed,
		Message: cause.Error(),
		Offset:  offset,
		Length:  length,
		Cause:   cause,
	}
}

func (e *BarbExecutionError) WithFrame(rule, note string) *BarbExecutionError {
	e.Trace = append(e.Trace, Frame{Rule: rule, Note: note})
	return e
}

func (e *BarbExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at [%d,%d): %s", e.Kind, e.Offset, e.Offset+e.Length, e.Message)
	for _, f := range e.Trace {
		fmt.Fprintf(&b, "\n  at %s: %s", f.Rule, f.Note)
	}
	return b.String()
}

func (e *BarbExecutionError) Unwrap() error { return e.Cause }
