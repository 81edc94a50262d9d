package diff

import "strings"

// AlignAtoms runs the outer aligner over two atom sequences and applies
// opcode normalization. The bulk-replace gate is not applied here: it is a
// global decision made once per diff operation (see Run), not per recursive
// alignment.
func AlignAtoms(oldAtoms, newAtoms []Atom, cfg Config) []Opcode {
	ops := lcsOpcodes(atomKeys(oldAtoms), atomKeys(newAtoms))
	return normalizeOpcodes(ops, cfg)
}

func atomKeys(atoms []Atom) []string {
	keys := make([]string, len(atoms))
	for i, a := range atoms {
		keys[i] = a.Key
	}
	return keys
}

// bulkSimilarity computes the whitespace-collapsed token similarity ratio
// of the concatenated text of both sides, with one space between separate
// text events so that words from adjacent elements never fuse into a single
// token. Whitespace tokens are excluded:
// two unrelated sentences still share their spaces, and counting those
// would keep genuinely unrelated inputs above the threshold.
func bulkSimilarity(oldEvents, newEvents []Event, cfg Config) float64 {
	oldText := collapseWS(textRunsOf(oldEvents))
	newText := collapseWS(textRunsOf(newEvents))
	oldToks := wordTokens(oldText, cfg.TokenizeRegex)
	newToks := wordTokens(newText, cfg.TokenizeRegex)
	return similarityRatio(oldToks, newToks)
}

func textRunsOf(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Kind == TextEvent {
			b.WriteString(e.Text)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func wordTokens(s string, re interface {
	FindAllStringIndex(string, int) [][]int
}) []string {
	toks := tokenize(s, re)
	out := toks[:0]
	for _, t := range toks {
		if t != "" && !isAllWhitespace(t) {
			out = append(out, t)
		}
	}
	return out
}

// normalizeOpcodes enforces the delete-first ordering invariant. In this
// formulation a single gap between two matches always becomes one Replace
// opcode spanning both sides, which already reads as "deletions before
// insertions" once the dispatcher emits <del> before <ins> for a Replace;
// this pass only guards the residual case where two standalone
// Delete/Insert opcodes end up adjacent with no intervening Equal (possible
// after a caller pre-filters or edits an opcode list), swapping them so the
// reader always sees the deletion first.
func normalizeOpcodes(ops []Opcode, cfg Config) []Opcode {
	if !cfg.DeleteFirst {
		return ops
	}
	out := make([]Opcode, len(ops))
	copy(out, ops)
	for i := 0; i+1 < len(out); i++ {
		if out[i].Kind == OpInsert && out[i+1].Kind == OpDelete {
			out[i], out[i+1] = out[i+1], out[i]
		}
	}
	return out
}
