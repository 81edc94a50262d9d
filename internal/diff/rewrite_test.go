package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffEvents_ImgSwapWrappedInDelIns(t *testing.T) {
	cfg := DefaultConfig()
	oldEvents := []Event{st("img", "src", "a.png"), en("img")}
	newEvents := []Event{st("img", "src", "b.png"), en("img")}
	out := runDiff(t, oldEvents, newEvents, cfg)

	require.True(t, balancedEvents(out))
	dels := starts(out, "del")
	ins := starts(out, "ins")
	require.Len(t, dels, 1)
	require.Len(t, ins, 1)
	imgs := starts(out, "img")
	require.Len(t, imgs, 2, "both renditions stay visible")
	delID, _ := dels[0].Attrs.Get(cfg.DiffIDAttr)
	insID, _ := ins[0].Attrs.Get(cfg.DiffIDAttr)
	assert.Equal(t, delID, insID)
}

func TestDiffEvents_ImgNonVisualAttrChangeStillWrapped(t *testing.T) {
	// alt is not a tracked visual attribute, so the two img atoms share a
	// key; the forced event diff must still render a clean del/ins pair.
	cfg := DefaultConfig()
	oldEvents := []Event{st("img", "src", "a.png", "alt", "old"), en("img")}
	newEvents := []Event{st("img", "src", "a.png", "alt", "new"), en("img")}
	out := runDiff(t, oldEvents, newEvents, cfg)

	require.True(t, balancedEvents(out))
	require.Len(t, starts(out, "del"), 1)
	require.Len(t, starts(out, "ins"), 1)
	require.Len(t, starts(out, "img"), 2)
}

func TestDiffEvents_HrChangeMarkedInPlace(t *testing.T) {
	// hr is not in WrapVoidTagChangesWithInsDel: its change is recorded on
	// the element itself instead of duplicating it.
	cfg := DefaultConfig()
	oldEvents := []Event{st("hr", "class", "thin"), en("hr")}
	newEvents := []Event{st("hr", "class", "wide"), en("hr")}
	out := runDiff(t, oldEvents, newEvents, cfg)

	require.True(t, balancedEvents(out))
	hrs := starts(out, "hr")
	require.Len(t, hrs, 1)
	assert.True(t, hasClassWord(hrs[0], "tagdiff_replaced"))
	oldClass, _ := hrs[0].Attrs.Get("data-old-class")
	assert.Equal(t, "thin", oldClass)
	require.Empty(t, starts(out, "del"))
}

func TestDiffEvents_StyleOnlyChangeReplaysContent(t *testing.T) {
	cfg := DefaultConfig()
	oldEvents := []Event{st("span", "style", "color:blue"), tx("same words"), en("span")}
	newEvents := []Event{st("span", "style", "color:red"), tx("same words"), en("span")}
	out := runDiff(t, oldEvents, newEvents, cfg)

	require.True(t, balancedEvents(out))
	spans := starts(out, "span")
	require.Len(t, spans, 1, "the element itself is emitted once, with the new attrs")
	style, _ := spans[0].Attrs.Get("style")
	assert.Equal(t, "color:red", style)

	dels := starts(out, "del")
	require.Len(t, dels, 1)
	delStyle, _ := dels[0].Attrs.Get("style")
	assert.Equal(t, "color:blue", delStyle, "the del copy shows the old rendering")
	require.Len(t, starts(out, "ins"), 1)
}

func TestDiffEvents_HeadingSwapKeepsBlockOutsideMarker(t *testing.T) {
	cfg := DefaultConfig()
	oldEvents := []Event{st("h2"), tx("Section title"), en("h2")}
	newEvents := []Event{st("h3"), tx("Section title"), en("h3")}
	out := runDiff(t, oldEvents, newEvents, cfg)

	require.True(t, balancedEvents(out))
	h3s := starts(out, "h3")
	require.Len(t, h3s, 1)
	assert.True(t, hasClassWord(h3s[0], "tagdiff_replaced"))
	oldTag, _ := h3s[0].Attrs.Get("data-old-tag")
	assert.Equal(t, "h2", oldTag)
	require.Empty(t, starts(out, "h2"), "the old heading tag does not survive")
	assert.Empty(t, starts(out, "del"))
	assert.Empty(t, starts(out, "ins"))
}

func TestDiffEvents_InlineWrapperToPlainKeepsSharedAffixes(t *testing.T) {
	// The tokenizer sees "preXfix" and "preYfix" as single words, so only
	// the raw-text prefix/suffix pass can keep "pre" and "fix" unchanged.
	cfg := DefaultConfig()
	oldEvents := []Event{
		st("p"), tx("alpha beta pre"), st("u"), tx("X"), en("u"), tx("fix mostly same tail"), en("p"),
	}
	newEvents := []Event{
		st("p"), tx("alpha beta preYfix mostly same tail"), en("p"),
	}
	out := runDiff(t, oldEvents, newEvents, cfg)
	require.True(t, balancedEvents(out))

	dels := starts(out, "del")
	ins := starts(out, "ins")
	require.Len(t, dels, 1)
	require.Len(t, ins, 1)
	delID, _ := dels[0].Attrs.Get(cfg.DiffIDAttr)
	insID, _ := ins[0].Attrs.Get(cfg.DiffIDAttr)
	assert.Equal(t, delID, insID)

	var delText, insText, plainText string
	depthDel, depthIns := 0, 0
	for _, ev := range out {
		switch {
		case ev.Kind == Start && ev.Tag == "del":
			depthDel++
		case ev.Kind == End && ev.Tag == "del":
			depthDel--
		case ev.Kind == Start && ev.Tag == "ins":
			depthIns++
		case ev.Kind == End && ev.Tag == "ins":
			depthIns--
		case ev.Kind == TextEvent && depthDel > 0:
			delText += ev.Text
		case ev.Kind == TextEvent && depthIns > 0:
			insText += ev.Text
		case ev.Kind == TextEvent:
			plainText += ev.Text
		}
	}
	assert.Equal(t, "X", delText, "only the wrapper subtree is deleted")
	assert.Equal(t, "Y", insText, "only the changed middle is inserted")
	assert.Equal(t, "alpha beta prefix mostly same tail", plainText,
		"shared prefix and suffix stay outside the markers")
	require.Len(t, starts(out, "u"), 1)
}

func TestDiffEvents_PlainToInlineWrapperKeepsSharedAffixes(t *testing.T) {
	cfg := DefaultConfig()
	oldEvents := []Event{
		st("p"), tx("alpha beta preYfix mostly same tail"), en("p"),
	}
	newEvents := []Event{
		st("p"), tx("alpha beta pre"), st("u"), tx("X"), en("u"), tx("fix mostly same tail"), en("p"),
	}
	out := runDiff(t, oldEvents, newEvents, cfg)
	require.True(t, balancedEvents(out))

	require.Len(t, starts(out, "del"), 1)
	require.Len(t, starts(out, "ins"), 1)
	us := starts(out, "u")
	require.Len(t, us, 1)

	// del(Y) must come before ins(<u>X</u>).
	var delIdx, insIdx int
	for i, ev := range out {
		if ev.Kind == Start && ev.Tag == "del" {
			delIdx = i
		}
		if ev.Kind == Start && ev.Tag == "ins" {
			insIdx = i
		}
	}
	require.Less(t, delIdx, insIdx)
}

func TestDiffEvents_InsertedParagraphUnderListGetsSyntheticItem(t *testing.T) {
	cfg := DefaultConfig()
	oldEvents := []Event{
		st("ul"), st("li"), tx("keep"), en("li"), en("ul"),
	}
	newEvents := []Event{
		st("ul"), st("li"), tx("keep"), en("li"), st("p"), tx("loose para"), en("p"), en("ul"),
	}
	out := runDiff(t, oldEvents, newEvents, cfg)

	require.True(t, balancedEvents(out))
	lis := starts(out, "li")
	require.Len(t, lis, 2, "the inserted paragraph gains a synthetic list item")
}
