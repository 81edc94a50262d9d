package diff

// Run is the top-level entry point for one diff operation. It applies the
// global bulk-replace gate first: when the two sides' text similarity falls
// below the configured threshold, the whole diff is emitted as one grouped
// del/ins pair instead of an interleaved token-by-token shredding. Above
// the threshold it hands off to the recursive pipeline.
func Run(e *Emitter, oldEvents, newEvents []Event, cfg Config, ids *IDAllocator) {
	if cfg.BulkReplaceSimilarityThresh > 0 && (len(oldEvents) > 0 || len(newEvents) > 0) {
		if bulkSimilarity(oldEvents, newEvents, cfg) < cfg.BulkReplaceSimilarityThresh {
			id := ids.Alloc()
			e.EmitChanged(oldEvents, CtxDel, id)
			e.EmitChanged(newEvents, CtxIns, id)
			return
		}
	}
	DiffEvents(e, oldEvents, newEvents, cfg, ids)
}

// DiffEvents runs the recursive pipeline (atomize, outer-align, dispatch)
// over two event slices and writes the combined output into e. The
// top-level Run call and every specialized rewriter that needs to reconcile
// two matched containers' deep content both come through here, rather than
// each re-implementing alignment.
func DiffEvents(e *Emitter, oldEvents, newEvents []Event, cfg Config, ids *IDAllocator) {
	oldAtoms := Atomize(oldEvents, cfg)
	newAtoms := Atomize(newEvents, cfg)
	ops := AlignAtoms(oldAtoms, newAtoms, cfg)
	Dispatch(e, oldAtoms, newAtoms, ops, cfg, ids)
}

// flattenAtoms concatenates the underlying events of a run of atoms, which
// by construction reconstitutes the original event subsequence they were
// atomized from.
func flattenAtoms(atoms []Atom) []Event {
	var out []Event
	for _, a := range atoms {
		out = append(out, a.Events...)
	}
	return out
}

// singleBlock reports whether a run of atoms is exactly one BlockAtom, and
// returns it. Several rewriters only apply when both sides of a Replace
// opcode reduce to a single element this way.
func singleBlock(atoms []Atom) (Atom, bool) {
	if len(atoms) == 1 && atoms[0].Kind == BlockAtom {
		return atoms[0], true
	}
	return Atom{}, false
}
