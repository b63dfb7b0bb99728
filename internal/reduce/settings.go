package reduce

import (
	"github.com/barblang/barb/internal/bindenv"
	"github.com/barblang/barb/internal/expr"
)

// Settings mirrors spec.md §6's enumerated reducer options. The zero value
// is not a usable default (Namespaces would be empty and BindGlobals false);
// callers should start from DefaultSettings(), matching the teacher's habit
// of exposing a New()/Default() constructor rather than relying on zero
// values (funxy internal/evaluator/evaluator.go: New()).
type Settings struct {
	// BindGlobalsWhenReducing allows static namespace lookups during
	// non-final passes, enabling constant folding of host constants.
	BindGlobalsWhenReducing bool

	// FailOnCatchAll, if true, makes Extract's terminal "unexpected case"
	// (a residual that is not one Obj or one Tuple of Obj) raise an
	// unexpected-result error; if false Extract returns the residual nodes.
	// The walker itself never reads it (spec.md §9 open question — the
	// asymmetry is intentional: even with FailOnCatchAll=false, final
	// reduction's other error paths still raise; only the catch-all is
	// gated).
	FailOnCatchAll bool

	// Namespaces are searched for static lookups and constructors.
	Namespaces []string

	// AdditionalBindings are seed values injected into the environment as
	// Existing bindings before reduction starts.
	AdditionalBindings map[string]any
}

// SeedEnv extends base (nil is treated as an empty top-level Bindings) with
// one Existing binding per st.AdditionalBindings entry, wrapping each raw
// value as a resolved Obj the way any other host value reaches the reducer.
// Callers reduce a tree against the returned env rather than base directly;
// base itself is never mutated.
func SeedEnv(base *bindenv.Bindings, st Settings) *bindenv.Bindings {
	env := base
	if env == nil {
		env = bindenv.New()
	}
	for name, v := range st.AdditionalBindings {
		v := v
		env = env.With(name, bindenv.Existing(func(offset, length uint32) any {
			return expr.Resolved(offset, length, expr.Obj{Value: v})
		}))
	}
	return env
}

// DefaultSettings matches spec.md §6's stated defaults: bind_globals_when_-
// reducing true, namespaces covering the empty/null namespace plus a short
// host-standard list.
func DefaultSettings() Settings {
	return Settings{
		BindGlobalsWhenReducing: true,
		FailOnCatchAll:          true,
		Namespaces:              []string{"", "System"},
		AdditionalBindings:      map[string]any{},
	}
}
