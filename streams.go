// Package htmldiff implements a structural HTML diff engine: given two
// well-formed HTML fragments, it produces a single combined HTML fragment
// marking textual and structural differences with <ins>/<del> elements and
// class-based markers, so a downstream UI can present, accept, or reject
// individual changes.
//
// The hard parts (atomization, alignment, the specialized rewriters, the
// context-aware emitter) live in internal/diff. This package only wires
// that engine to real HTML text via internal/htmlio.
package htmldiff

import (
	"github.com/dpotapov/htmldiff/internal/diff"
)

// Config re-exports the engine's tunables so callers never need to import
// internal/diff directly.
type Config = diff.Config

// DefaultConfig returns a Config with the engine's recommended defaults.
func DefaultConfig() Config { return diff.DefaultConfig() }

// Event is one token of a parsed HTML stream: an element start, an element
// end, or a run of text.
type Event = diff.Event

// DiffEventStreams runs the engine over two already-parsed event streams and
// returns the combined output stream. Callers that already have a parsed
// representation, or want to skip the wrapper element entirely, use this
// instead of RenderDiff.
func DiffEventStreams(oldEvents, newEvents []Event, cfg Config) []Event {
	ids := diff.NewIDAllocator()
	e := diff.NewEmitter(cfg, ids)
	diff.Run(e, oldEvents, newEvents, cfg, ids)
	e.LeaveAll()
	out := e.Output()
	if cfg.MergeAdjacentChangeTags {
		out = diff.MergeAdjacentChangeTags(out, cfg.DiffIDAttr)
	}
	return out
}
