package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmitter(cfg Config) (*Emitter, *IDAllocator) {
	ids := NewIDAllocator()
	return NewEmitter(cfg, ids), ids
}

func TestEmitter_LeaveUnmatchedIsNoOp(t *testing.T) {
	e, _ := newTestEmitter(DefaultConfig())
	e.Enter("p", nil)
	e.Leave("div")
	e.Leave("p")
	assert.True(t, e.Idle())
	require.True(t, EventsEqual([]Event{st("p"), en("p")}, e.Output()))
}

func TestEmitter_LeaveAllClosesEverything(t *testing.T) {
	e, _ := newTestEmitter(DefaultConfig())
	e.Enter("div", nil)
	e.Enter("p", nil)
	e.Text("x")
	e.LeaveAll()
	assert.True(t, e.Idle())
	assert.True(t, balancedEvents(e.Output()))
}

func TestEmitter_BlockWrapperInversion(t *testing.T) {
	e, ids := newTestEmitter(DefaultConfig())
	e.EmitChanged([]Event{st("p"), tx("gone"), en("p")}, CtxDel, ids.Alloc())
	e.LeaveAll()
	out := e.Output()

	// <del><p>gone</p></del>, not <p><del>gone</del></p>.
	require.Equal(t, "del", out[0].Tag)
	require.Equal(t, "p", out[1].Tag)
	assert.True(t, balancedEvents(out))
	assert.True(t, e.Idle())
}

func TestEmitter_StructuralTagsGetClassMarkers(t *testing.T) {
	cfg := DefaultConfig()
	e, ids := newTestEmitter(cfg)
	row := []Event{st("tr"), st("td"), tx("cell"), en("td"), en("tr")}
	id := ids.Alloc()
	e.EmitChanged(row, CtxDel, id)
	e.LeaveAll()
	out := e.Output()

	trs := starts(out, "tr")
	tds := starts(out, "td")
	require.Len(t, trs, 1)
	require.Len(t, tds, 1)
	assert.True(t, hasClassWord(trs[0], "tagdiff_deleted"))
	assert.True(t, hasClassWord(tds[0], "tagdiff_deleted"))
	trID, _ := trs[0].Attrs.Get(cfg.DiffIDAttr)
	assert.Equal(t, id, trID)

	// The cell text still gets a del wrapper inside the marked td.
	dels := starts(out, "del")
	require.Len(t, dels, 1)
	assert.True(t, balancedEvents(out))
}

func TestEmitter_ClassInjectionPreservesExistingClasses(t *testing.T) {
	e, ids := newTestEmitter(DefaultConfig())
	e.EmitChanged([]Event{st("td", "class", "num wide"), tx("8"), en("td")}, CtxIns, ids.Alloc())
	e.LeaveAll()
	tds := starts(e.Output(), "td")
	require.Len(t, tds, 1)
	cls, _ := tds[0].Attrs.Get("class")
	assert.Equal(t, "num wide tagdiff_added", cls)
}

func TestEmitter_SyntheticLiUnderOpenList(t *testing.T) {
	e, ids := newTestEmitter(DefaultConfig())
	e.Enter("ul", nil)
	e.EmitChanged([]Event{st("p"), tx("new para"), en("p")}, CtxIns, ids.Alloc())
	e.Leave("ul")
	out := e.Output()

	require.True(t, e.Idle())
	require.True(t, balancedEvents(out))
	// ul > li > ins > p
	require.Equal(t, "ul", out[0].Tag)
	require.Equal(t, "li", out[1].Tag)
	require.Equal(t, "ins", out[2].Tag)
	require.Equal(t, "p", out[3].Tag)
}

func TestEmitter_DeletedBrStaysInsideDel(t *testing.T) {
	cfg := DefaultConfig()
	e, ids := newTestEmitter(cfg)
	e.EmitChanged([]Event{st("br"), en("br")}, CtxDel, ids.Alloc())
	e.LeaveAll()
	out := e.Output()

	require.True(t, balancedEvents(out))
	require.Equal(t, "del", out[0].Tag)
	require.Equal(t, TextEvent, out[1].Kind)
	require.Equal(t, cfg.LinebreakMarker, out[1].Text)
	require.Equal(t, "br", out[2].Tag)
}

func TestEmitter_InsertedBrStaysOutsideIns(t *testing.T) {
	cfg := DefaultConfig()
	e, ids := newTestEmitter(cfg)
	e.EmitChanged([]Event{st("br"), en("br")}, CtxIns, ids.Alloc())
	e.LeaveAll()
	out := e.Output()

	// <ins>marker</ins><br/>
	require.Equal(t, "ins", out[0].Tag)
	require.Equal(t, cfg.LinebreakMarker, out[1].Text)
	require.Equal(t, End, out[2].Kind)
	require.Equal(t, "ins", out[2].Tag)
	require.Equal(t, "br", out[3].Tag)
}

func TestEmitter_BrMarkerDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinebreakMarker = ""
	e, ids := newTestEmitter(cfg)
	e.EmitChanged([]Event{st("br"), en("br")}, CtxIns, ids.Alloc())
	e.LeaveAll()
	out := e.Output()
	require.Empty(t, starts(out, "ins"))
	require.Len(t, starts(out, "br"), 1)
}

func TestEmitter_StyleBufferReplaysTwice(t *testing.T) {
	cfg := DefaultConfig()
	e, ids := newTestEmitter(cfg)
	oldAttrs := Attrs{{Key: "style", Val: "color:blue"}}
	newAttrs := Attrs{{Key: "style", Val: "color:red"}}
	id := ids.Alloc()
	e.Enter("span", newAttrs)
	e.BeginStyleBuffer("span", oldAttrs, newAttrs, id)
	e.EmitVerbatim([]Event{tx("text")})
	e.EndStyleBuffer()
	e.Leave("span")
	out := e.Output()

	require.True(t, e.Idle())
	require.True(t, balancedEvents(out))

	dels := starts(out, "del")
	ins := starts(out, "ins")
	require.Len(t, dels, 1)
	require.Len(t, ins, 1)
	delStyle, _ := dels[0].Attrs.Get("style")
	assert.Equal(t, "color:blue", delStyle, "the del copy carries the old style")
	delID, _ := dels[0].Attrs.Get(cfg.DiffIDAttr)
	insID, _ := ins[0].Attrs.Get(cfg.DiffIDAttr)
	assert.Equal(t, delID, insID)

	var texts []string
	for _, ev := range out {
		if ev.Kind == TextEvent {
			texts = append(texts, ev.Text)
		}
	}
	assert.Equal(t, []string{"text", "text"}, texts)
}

func TestEmitter_CloseChangeForceClosesSplitElements(t *testing.T) {
	// The inner event differ can hand the emitter a run holding a Start
	// whose End lives in a later opcode. The change wrapper must still
	// close where it opened and the output must balance.
	e, ids := newTestEmitter(DefaultConfig())
	e.EmitChanged([]Event{st("span"), tx("x")}, CtxDel, ids.Alloc())
	e.EmitChanged([]Event{en("span")}, CtxDel, ids.Alloc())
	e.LeaveAll()
	out := e.Output()
	require.True(t, balancedEvents(out))
	require.True(t, e.Idle())
}

func TestEmitter_NoDiffIDsWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AddDiffIDs = false
	e, ids := newTestEmitter(cfg)
	e.EmitChanged([]Event{tx("gone")}, CtxDel, ids.Alloc())
	e.LeaveAll()
	dels := starts(e.Output(), "del")
	require.Len(t, dels, 1)
	_, ok := dels[0].Attrs.Get(cfg.DiffIDAttr)
	assert.False(t, ok)
}
