package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTextDiff(t *testing.T, oldText, newText string, cfg Config) []Event {
	t.Helper()
	ids := NewIDAllocator()
	e := NewEmitter(cfg, ids)
	TextDiff(e, oldText, newText, cfg, ids)
	e.LeaveAll()
	require.True(t, e.Idle())
	return e.Output()
}

func TestTextDiff_SingleWordReplace(t *testing.T) {
	cfg := DefaultConfig()
	out := runTextDiff(t, "Foo bar baz", "Foo blah baz", cfg)

	want := []Event{
		tx("Foo "),
		st("del", "data-diff-id", "1"), tx("bar"), en("del"),
		st("ins", "data-diff-id", "1"), tx("blah"), en("ins"),
		tx(" baz"),
	}
	require.True(t, EventsEqual(want, out), "got: %v", out)
}

func TestTextDiff_UnpairedChangesGetOwnIDs(t *testing.T) {
	cfg := DefaultConfig()
	out := runTextDiff(t, "a b", "a b c", cfg)

	ins := starts(out, "ins")
	require.Len(t, ins, 1)
	require.Empty(t, starts(out, "del"))
	id, hasID := ins[0].Attrs.Get(cfg.DiffIDAttr)
	require.True(t, hasID, "an unpaired insert carries its own diff id")
	require.Equal(t, "1", id)
}

func TestTextDiff_JunkSuppression(t *testing.T) {
	cfg := DefaultConfig()
	// Eight tokens a side; the lone shared token "delta" is below the
	// effective threshold min(2, 8/4)=2 and must not split the replace.
	oldToks := []string{"alpha", "beta", "gamma", "delta", "eps", "zeta", "eta", "theta"}
	newToks := []string{"one", "two", "three", "delta", "four", "five", "six", "seven"}
	ops := TextDiffOpcodes(oldToks, newToks, cfg)
	want := []Opcode{{OpReplace, 0, 8, 0, 8}}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("junk match must be suppressed (-want +got):\n%s", diff)
	}
}

func TestTextDiff_ShortInputsKeepSmallMatches(t *testing.T) {
	cfg := DefaultConfig()
	// min(2, 2/4)=0 disables suppression entirely on tiny inputs.
	ops := TextDiffOpcodes([]string{"a", "b"}, []string{"a", "c"}, cfg)
	want := []Opcode{{OpEqual, 0, 1, 0, 1}, {OpReplace, 1, 2, 1, 2}}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestTextDiff_WhitespaceOnlyReplaceKeepsCommonPrefix(t *testing.T) {
	cfg := DefaultConfig()
	out := runTextDiff(t, "a b", "a  b", cfg)

	// The shared single space stays unchanged; only the extra space is
	// marked, rendered as a non-breaking space.
	dels := starts(out, "del")
	ins := starts(out, "ins")
	require.Empty(t, dels)
	require.Len(t, ins, 1)

	var insText string
	inIns := false
	for _, ev := range out {
		switch {
		case ev.Kind == Start && ev.Tag == "ins":
			inIns = true
		case ev.Kind == End && ev.Tag == "ins":
			inIns = false
		case ev.Kind == TextEvent && inIns:
			insText += ev.Text
		}
	}
	require.Equal(t, " ", insText, "the one marked space is rendered as NBSP")
}

func TestTextDiff_WhitespaceVisibleInsideMarkers(t *testing.T) {
	cfg := DefaultConfig()
	out := runTextDiff(t, "x", "x  trailing", cfg)
	var marked string
	depth := 0
	for _, ev := range out {
		switch {
		case ev.Kind == Start && ev.Tag == "ins":
			depth++
		case ev.Kind == End && ev.Tag == "ins":
			depth--
		case ev.Kind == TextEvent && depth > 0:
			marked += ev.Text
		}
	}
	assert.NotContains(t, marked, "  ", "double spaces become NBSP runs")
	assert.Contains(t, marked, "trailing")
}

func TestCommonPrefixSuffix(t *testing.T) {
	assert.Equal(t, "pre", commonPrefix("preXfix", "preYfix"))
	assert.Equal(t, "fix", commonSuffix("Xfix", "Yfix"))
	assert.Equal(t, "", commonPrefix("a", "b"))
	assert.Equal(t, "", commonSuffix("a", "b"))
	assert.Equal(t, "ab", commonPrefix("ab", "ab"))
	assert.Equal(t, "ab", commonSuffix("ab", "ab"))
	assert.Equal(t, "", commonSuffix("", "x"))
}

func TestMakeWhitespaceVisible(t *testing.T) {
	nbsp := " "
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a b", "a b"},
		{" a", nbsp + "a"},
		{"a ", "a" + nbsp},
		{"a  b", "a" + strings.Repeat(nbsp, 2) + "b"},
		{"  ", strings.Repeat(nbsp, 2)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, makeWhitespaceVisible(tt.in), "makeWhitespaceVisible(%q)", tt.in)
	}
}
