package htmlio

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/htmldiff/internal/diff"
)

func st(tag string, kv ...string) diff.Event {
	var attrs diff.Attrs
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, diff.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return diff.NewStart(tag, attrs, diff.Pos{})
}

func en(tag string) diff.Event { return diff.NewEnd(tag, diff.Pos{}) }
func tx(s string) diff.Event   { return diff.NewText(s, diff.Pos{}) }

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []diff.Event
	}{
		{
			"empty input yields just the wrapper",
			"",
			[]diff.Event{st("div", "class", "diff"), en("div")},
		},
		{
			"paragraph",
			"<p>Hi</p>",
			[]diff.Event{st("div", "class", "diff"), st("p"), tx("Hi"), en("p"), en("div")},
		},
		{
			"void element becomes start plus end",
			"a<br>b",
			[]diff.Event{st("div", "class", "diff"), tx("a"), st("br"), en("br"), tx("b"), en("div")},
		},
		{
			"attributes preserved in order",
			`<span style="color:red" class="x">y</span>`,
			[]diff.Event{
				st("div", "class", "diff"),
				st("span", "style", "color:red", "class", "x"), tx("y"), en("span"),
				en("div"),
			},
		},
		{
			"whitespace preserved verbatim",
			"<p>a\n  b</p>",
			[]diff.Event{st("div", "class", "diff"), st("p"), tx("a\n  b"), en("p"), en("div")},
		},
		{
			"comments dropped",
			"<!-- note --><p>x</p>",
			[]diff.Event{st("div", "class", "diff"), st("p"), tx("x"), en("p"), en("div")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFragment(tt.html, "div", "diff")
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFragment_RecoverableInputDoesNotError(t *testing.T) {
	got, err := ParseFragment("<p>unclosed", "div", "diff")
	require.NoError(t, err)
	assert.Equal(t, "div", got[0].Tag)
	assert.Equal(t, "div", got[len(got)-1].Tag)
}

func TestSerializeString(t *testing.T) {
	tests := []struct {
		name   string
		events []diff.Event
		want   string
	}{
		{
			"simple",
			[]diff.Event{st("p"), tx("Hi"), en("p")},
			"<p>Hi</p>",
		},
		{
			"void self-closes",
			[]diff.Event{st("img", "src", "x.png"), en("img")},
			`<img src="x.png"/>`,
		},
		{
			"text escaped",
			[]diff.Event{tx("a<b & c>d")},
			"a&lt;b &amp; c&gt;d",
		},
		{
			"attr escaped",
			[]diff.Event{st("span", "title", `say "hi" & go`), en("span")},
			`<span title="say &quot;hi&quot; &amp; go"></span>`,
		},
		{
			"attribute order preserved",
			[]diff.Event{st("span", "b", "2", "a", "1"), en("span")},
			`<span b="2" a="1"></span>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SerializeString(tt.events)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSerializeRoundTrip(t *testing.T) {
	inputs := []string{
		"<p>Hello <strong>world</strong></p>",
		"<table><tbody><tr><td>1</td><td>2</td></tr></tbody></table>",
		"<ul><li>a</li><li>b</li></ul>",
		"line one<br/>line two",
	}
	for _, in := range inputs {
		events, err := ParseFragment(in, "div", "diff")
		require.NoError(t, err)
		out, err := SerializeString(events)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, `<div class="diff">`))
		assert.True(t, strings.HasSuffix(out, "</div>"))

		// Reparsing the serialization must reproduce the same events.
		again, err := ParseFragment(out[len(`<div class="diff">`):len(out)-len("</div>")], "div", "diff")
		require.NoError(t, err)
		if diff := cmp.Diff(events, again, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip of %q (-first +second):\n%s", in, diff)
		}
	}
}
