package diff

import "strings"

// TextDiffOpcodes aligns two already-tokenized sequences with small-match
// suppression: matching blocks shorter than min(SequenceMatchThreshold,
// min(na,nb)/4) tokens are dropped from the matcher's block list before
// opcodes are built, so coincidental matches (the letters "de" appearing in
// unrelated words) don't shred the diff into tiny interleavings. The
// threshold shrinks on very short sequences to avoid over-filtering.
func TextDiffOpcodes(oldToks, newToks []string, cfg Config) []Opcode {
	eff := cfg.SequenceMatchThreshold
	if minLen := min(len(oldToks), len(newToks)) / 4; minLen < eff {
		eff = minLen
	}
	blocks := matchingBlocks(oldToks, newToks)
	if eff > 0 {
		kept := blocks[:0]
		for _, b := range blocks {
			if b.Size >= eff || b.Size == 0 {
				kept = append(kept, b)
			}
		}
		blocks = kept
	}
	return opcodesFromMatches(blocks, len(oldToks), len(newToks))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// TextDiff renders the minimal meaningful diff of oldText -> newText into e.
// It assumes e's current context is None: the differ itself opens
// and closes <ins>/<del> around only the changed spans, leaving unchanged
// text as plain content.
func TextDiff(e *Emitter, oldText, newText string, cfg Config, ids *IDAllocator) {
	oldToks := tokenize(oldText, cfg.TokenizeRegex)
	newToks := tokenize(newText, cfg.TokenizeRegex)
	ops := TextDiffOpcodes(oldToks, newToks, cfg)

	var pendingDel, pendingIns []string
	flush := func() {
		if len(pendingDel) == 0 && len(pendingIns) == 0 {
			return
		}
		switch {
		case len(pendingDel) > 0 && len(pendingIns) > 0:
			id := ids.Alloc()
			e.OpenChange(CtxDel, id)
			e.Text(strings.Join(pendingDel, ""))
			e.CloseChange()
			e.OpenChange(CtxIns, id)
			e.Text(strings.Join(pendingIns, ""))
			e.CloseChange()
		case len(pendingDel) > 0:
			id := ids.Alloc()
			e.OpenChange(CtxDel, id)
			e.Text(strings.Join(pendingDel, ""))
			e.CloseChange()
		default:
			id := ids.Alloc()
			e.OpenChange(CtxIns, id)
			e.Text(strings.Join(pendingIns, ""))
			e.CloseChange()
		}
		pendingDel, pendingIns = nil, nil
	}

	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			flush()
			e.Text(strings.Join(oldToks[op.OldLo:op.OldHi], ""))
		case OpDelete:
			pendingDel = append(pendingDel, oldToks[op.OldLo:op.OldHi]...)
		case OpInsert:
			pendingIns = append(pendingIns, newToks[op.NewLo:op.NewHi]...)
		case OpReplace:
			oldSeg := strings.Join(oldToks[op.OldLo:op.OldHi], "")
			newSeg := strings.Join(newToks[op.NewLo:op.NewHi], "")
			if isAllWhitespace(oldSeg) && isAllWhitespace(newSeg) {
				flush()
				emitWhitespaceReplace(e, oldSeg, newSeg, ids)
				continue
			}
			pendingDel = append(pendingDel, oldToks[op.OldLo:op.OldHi]...)
			pendingIns = append(pendingIns, newToks[op.NewLo:op.NewHi]...)
		}
	}
	flush()
}

// emitWhitespaceReplace implements the whitespace-only Replace special
// case: the common whitespace prefix is kept unchanged; only the extra
// spaces are wrapped.
func emitWhitespaceReplace(e *Emitter, oldSeg, newSeg string, ids *IDAllocator) {
	prefix := commonPrefix(oldSeg, newSeg)
	if prefix != "" {
		e.Text(prefix)
	}
	oldRest := oldSeg[len(prefix):]
	newRest := newSeg[len(prefix):]
	if oldRest == "" && newRest == "" {
		return
	}
	id := ids.Alloc()
	if oldRest != "" {
		e.OpenChange(CtxDel, id)
		e.Text(oldRest)
		e.CloseChange()
	}
	if newRest != "" {
		e.OpenChange(CtxIns, id)
		e.Text(newRest)
		e.CloseChange()
	}
}

func isAllWhitespace(s string) bool {
	if s == "" {
		return true
	}
	return strings.TrimLeft(s, " \t\r\n\f") == ""
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func commonSuffix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return a[len(a)-i:]
}
