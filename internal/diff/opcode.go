package diff

import "github.com/pmezard/go-difflib/difflib"

// OpKind is one of the four edit instructions.
type OpKind uint8

const (
	OpEqual OpKind = iota
	OpReplace
	OpDelete
	OpInsert
)

// Opcode is a single edit instruction over a range of the old and new
// sequences (atoms for the outer aligner, events for the inner differ).
type Opcode struct {
	Kind                       OpKind
	OldLo, OldHi, NewLo, NewHi int
}

// matchingBlocks runs difflib's SequenceMatcher over two key sequences and
// returns its merged matching blocks, terminal sentinel included. It is the
// shared primitive behind the outer aligner, the inner event differ and the
// text differ.
func matchingBlocks(a, b []string) []difflib.Match {
	return difflib.NewMatcher(a, b).GetMatchingBlocks()
}

// opcodesFromMatches turns matching blocks into the standard
// Equal/Replace/Delete/Insert opcode list covering the full [0,n) x [0,m)
// ranges. Blocks must be in increasing order of both indices, as
// GetMatchingBlocks guarantees.
func opcodesFromMatches(matches []difflib.Match, n, m int) []Opcode {
	var ops []Opcode
	oi, ni := 0, 0
	flushGap := func(oldHi, newHi int) {
		switch {
		case oldHi > oi && newHi > ni:
			ops = append(ops, Opcode{OpReplace, oi, oldHi, ni, newHi})
		case oldHi > oi:
			ops = append(ops, Opcode{OpDelete, oi, oldHi, ni, ni})
		case newHi > ni:
			ops = append(ops, Opcode{OpInsert, oi, oi, ni, newHi})
		}
	}
	for _, mt := range matches {
		if mt.Size == 0 {
			continue
		}
		flushGap(mt.A, mt.B)
		ops = append(ops, Opcode{OpEqual, mt.A, mt.A + mt.Size, mt.B, mt.B + mt.Size})
		oi, ni = mt.A+mt.Size, mt.B+mt.Size
	}
	flushGap(n, m)
	return ops
}

// lcsOpcodes computes the full opcode list for two key sequences.
func lcsOpcodes(a, b []string) []Opcode {
	return opcodesFromMatches(matchingBlocks(a, b), len(a), len(b))
}

// similarityRatio is difflib's 2*M/T measure, where M is the total length
// of the matching blocks and T the sum of both sequence lengths. The
// threshold for treating two ranges as unrelated (and thus a bulk
// replacement) is exposed as config so callers can tune it.
func similarityRatio(a, b []string) float64 {
	return difflib.NewMatcher(a, b).Ratio()
}
