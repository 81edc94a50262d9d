package diff

import "strings"

// Context tracks whether the emitter is currently outside any change
// marker, or wrapping plain text in <ins> or <del>.
type Context uint8

const (
	CtxNone Context = iota
	CtxIns
	CtxDel
)

func (c Context) tag() string {
	if c == CtxDel {
		return "del"
	}
	return "ins"
}

// wrapChangeEnd records a block wrapper's pending close, so that, e.g., a
// synthetic <li> injected around an inserted/deleted <p> closes at the
// right moment relative to the <ins>/<del> wrapper.
type wrapChangeEnd struct {
	tag            string
	changeWrapper  string
	restoreContext Context
}

// styleBuf buffers one element's children while its tag is open so that,
// on End, the buffered content can be replayed twice for the same-tag,
// style-only change pattern: once inside a <del style=old> copy and once
// inside the new <ins> copy.
type styleBuf struct {
	tag      string
	oldAttrs Attrs
	newAttrs Attrs
	id       string
	content  []Event
}

// Emitter is the context-aware, stack-based output builder. It
// enforces that <ins>/<del> never wrap a structural container (redirecting
// to a class marker instead), inverts block-wrapper nesting, and renders
// void-element changes with visible markers.
type Emitter struct {
	cfg Config
	ids *IDAllocator
	out []Event

	tagStack []string
	context  []Context

	skipEndFor       []string
	wrapChangeEndFor []wrapChangeEnd
	styleDelBuffer   []*styleBuf
}

// NewEmitter creates an Emitter sharing the given id allocator, so ids stay
// monotone across every recursive call that touches this output.
func NewEmitter(cfg Config, ids *IDAllocator) *Emitter {
	return &Emitter{cfg: cfg, ids: ids}
}

// Output returns the accumulated event stream. Callers should call LeaveAll
// first so tagStack is empty.
func (e *Emitter) Output() []Event { return e.out }

// Idle reports whether every helper stack is empty, the invariant asserted
// at the end of a diff operation.
func (e *Emitter) Idle() bool {
	return len(e.tagStack) == 0 && len(e.context) == 0 &&
		len(e.skipEndFor) == 0 && len(e.wrapChangeEndFor) == 0 && len(e.styleDelBuffer) == 0
}

func (e *Emitter) push(ev Event) {
	if len(e.styleDelBuffer) > 0 {
		buf := e.styleDelBuffer[len(e.styleDelBuffer)-1]
		buf.content = append(buf.content, ev)
		return
	}
	e.out = append(e.out, ev)
}

func (e *Emitter) curContext() Context {
	if len(e.context) == 0 {
		return CtxNone
	}
	return e.context[len(e.context)-1]
}

// Enter opens tag. If the current context is ins/del and tag is a
// structural container, the ins/del marker is not opened around it at all
// (the caller is expected to have routed here instead of OpenChange) and
// this call injects the tagdiff_added/tagdiff_deleted class onto the
// element itself.
func (e *Emitter) Enter(tag string, attrs Attrs) {
	if e.curContext() != CtxNone && isStructural(tag) {
		marker := "tagdiff_added"
		if e.curContext() == CtxDel {
			marker = "tagdiff_deleted"
		}
		cls, _ := attrs.Get("class")
		attrs = attrs.With("class", addClass(cls, marker))
		if e.cfg.AddDiffIDs {
			attrs = attrs.With(e.cfg.DiffIDAttr, e.ids.Alloc())
		}
	}
	e.push(NewStart(tag, attrs, Pos{}))
	e.tagStack = append(e.tagStack, tag)
}

// Leave closes tag. Closing an unmatched tag, or one whose End is
// suppressed via skipEndFor, is a no-op and never surfaces as an error.
func (e *Emitter) Leave(tag string) {
	if n := len(e.skipEndFor); n > 0 && e.skipEndFor[n-1] == tag {
		e.skipEndFor = e.skipEndFor[:n-1]
		e.popTagStackTop(tag)
		return
	}
	if n := len(e.tagStack); n == 0 || e.tagStack[n-1] != tag {
		return
	}
	e.tagStack = e.tagStack[:len(e.tagStack)-1]
	e.push(NewEnd(tag, Pos{}))
}

func (e *Emitter) popTagStackTop(tag string) {
	if n := len(e.tagStack); n > 0 && e.tagStack[n-1] == tag {
		e.tagStack = e.tagStack[:n-1]
	}
}

// LeaveAll closes every tag still open, guaranteeing balanced output even
// if a caller forgot to close something explicitly.
func (e *Emitter) LeaveAll() {
	for len(e.tagStack) > 0 {
		e.Leave(e.tagStack[len(e.tagStack)-1])
	}
}

// SuppressNextEnd marks tag so its next Leave is a pure stack-pop with no
// End event emitted. Used when a <br> has already been force-closed inside
// a <del> block by the inner event differ operating on raw events rather
// than atoms.
func (e *Emitter) SuppressNextEnd(tag string) {
	e.skipEndFor = append(e.skipEndFor, tag)
}

// OpenChange opens an <ins> or <del> wrapper carrying id, and pushes ctx so
// nested Enter calls know to redirect structural tags to class markers.
func (e *Emitter) OpenChange(ctx Context, id string) {
	e.OpenChangeStyled(ctx, id, "")
}

// OpenChangeStyled opens a change wrapper like OpenChange with an extra
// style attribute. Used when a deleted cell rendering must inherit the old
// table wrapper's font styles so the removed content keeps its pre-change
// appearance.
func (e *Emitter) OpenChangeStyled(ctx Context, id, style string) {
	attrs := Attrs{}
	if style != "" {
		attrs = attrs.With("style", style)
	}
	if e.cfg.AddDiffIDs {
		attrs = attrs.With(e.cfg.DiffIDAttr, id)
	}
	e.push(NewStart(ctx.tag(), attrs, Pos{}))
	e.tagStack = append(e.tagStack, ctx.tag())
	e.context = append(e.context, ctx)
}

// CloseChange closes the innermost open change wrapper. Any tags opened
// inside the wrapper that never saw their End in the same run (the inner
// event differ splits raw events mid-element) are force-closed first so the
// wrapper itself always closes where it opened.
func (e *Emitter) CloseChange() {
	ctx := e.curContext()
	for n := len(e.tagStack); n > 0 && e.tagStack[n-1] != ctx.tag(); n = len(e.tagStack) {
		e.Leave(e.tagStack[n-1])
	}
	e.Leave(ctx.tag())
	if len(e.context) > 0 {
		e.context = e.context[:len(e.context)-1]
	}
}

// Text emits character data. Inside an active change context, whitespace is
// made visible: leading/trailing spaces and runs of 2+ spaces
// become non-breaking spaces.
func (e *Emitter) Text(s string) {
	if e.curContext() != CtxNone && e.cfg.PreserveWhitespaceInDiff {
		s = makeWhitespaceVisible(s)
	}
	e.push(NewText(s, Pos{}))
}

// RawText emits character data unconditionally unchanged, used to re-emit
// unchanged atoms/events verbatim.
func (e *Emitter) RawText(s string) {
	e.push(NewText(s, Pos{}))
}

// EmitVerbatim appends a matched (unchanged) event slice exactly as parsed,
// adjusting the tag stack for any Start/End it contains so later Leave
// calls stay consistent.
func (e *Emitter) EmitVerbatim(events []Event) {
	for _, ev := range events {
		switch ev.Kind {
		case Start:
			e.tagStack = append(e.tagStack, ev.Tag)
		case End:
			e.popTagStackTop(ev.Tag)
		}
		e.push(ev)
	}
}

// EmitBr emits a <br>, with a pilcrow marker first if inside an active
// change context and a marker glyph is configured.
func (e *Emitter) EmitBr() {
	if e.curContext() != CtxNone && e.cfg.LinebreakMarker != "" {
		e.Text(e.cfg.LinebreakMarker)
	}
	e.push(NewStart("br", nil, Pos{}))
	e.push(NewEnd("br", Pos{}))
}

// EmitChanged marks an entire event subsequence (one or more sibling
// elements/text runs) as inserted or deleted under one diff id. Top-level
// structural children are never wrapped in <ins>/<del> (instead getting a
// class marker); everything else is wrapped in one <ins>/<del>
// spanning the run, which is also what gives block wrappers (p, h1..h6)
// their inverted nesting: the wrapper opens before the element itself
// rather than after.
func (e *Emitter) EmitChanged(events []Event, ctx Context, id string) {
	i, n := 0, len(events)
	for i < n {
		ev := events[i]
		if isBrPairAt(events, i) {
			e.emitChangedBr(ctx, id)
			i += 2
			continue
		}
		if ev.Kind == Start && isStructural(ev.Tag) {
			j := matchEndIdx(events, i)
			e.emitStructuralMarked(events[i:j+1], ctx, id)
			i = j + 1
			continue
		}
		j := i
		for j < n && !(events[j].Kind == Start && isStructural(events[j].Tag)) && !isBrPairAt(events, j) {
			if events[j].Kind == Start {
				j = matchEndIdx(events, j) + 1
			} else {
				j++
			}
		}
		e.emitWrappedRun(events[i:j], ctx, id)
		i = j
	}
}

func isBrPairAt(events []Event, i int) bool {
	return events[i].Kind == Start && events[i].Tag == "br" && i+1 < len(events) &&
		events[i+1].Kind == End && events[i+1].Tag == "br"
}

// emitChangedBr renders an inserted or deleted line break. A deleted <br>
// stays inside the <del> so accepting the change removes it; an inserted
// <br> is prefixed by a marker-only <ins> and emitted bare, so the new line
// break itself is never inside a change wrapper.
func (e *Emitter) emitChangedBr(ctx Context, id string) {
	if ctx == CtxDel {
		e.OpenChange(CtxDel, id)
		if e.cfg.LinebreakMarker != "" {
			e.Text(e.cfg.LinebreakMarker)
		}
		e.push(NewStart("br", nil, Pos{}))
		e.push(NewEnd("br", Pos{}))
		e.CloseChange()
		return
	}
	if e.cfg.LinebreakMarker != "" {
		e.OpenChange(CtxIns, id)
		e.Text(e.cfg.LinebreakMarker)
		e.CloseChange()
	}
	e.push(NewStart("br", nil, Pos{}))
	e.push(NewEnd("br", Pos{}))
}

// emitWrappedRun opens one <ins>/<del> around a run with no top-level
// structural element, recurses through its content, and closes it. A block
// wrapper inserted or deleted directly under an open <ul>/<ol> gets a
// synthetic <li> so the output stays valid HTML.
func (e *Emitter) emitWrappedRun(run []Event, ctx Context, id string) {
	if len(run) == 0 {
		return
	}
	synthLi := false
	if top := e.topTag(); (top == "ul" || top == "ol") &&
		run[0].Kind == Start && isBlockWrapper(run[0].Tag) {
		e.Enter("li", nil)
		e.PushWrapChangeEnd(run[0].Tag, "li", e.curContext())
		synthLi = true
	}
	e.OpenChange(ctx, id)
	e.emitContent(run)
	e.CloseChange()
	if synthLi {
		e.PopWrapChangeEnd(run[0].Tag)
	}
}

func (e *Emitter) topTag() string {
	if len(e.tagStack) == 0 {
		return ""
	}
	return e.tagStack[len(e.tagStack)-1]
}

// emitStructuralMarked marks a structural top-level element (table, tr, td,
// li, ul, ol, ...) as added/deleted by class only, with no surrounding
// <ins>/<del>, then routes its children back through EmitChanged under the
// same id so nested structural tags get their own class markers and text
// runs still get wrapped.
func (e *Emitter) emitStructuralMarked(elem []Event, ctx Context, id string) {
	start := elem[0]
	marker := "tagdiff_added"
	if ctx == CtxDel {
		marker = "tagdiff_deleted"
	}
	cls, _ := start.Attrs.Get("class")
	attrs := start.Attrs.With("class", addClass(cls, marker))
	if e.cfg.AddDiffIDs {
		attrs = attrs.With(e.cfg.DiffIDAttr, id)
	}
	e.push(NewStart(start.Tag, attrs, Pos{}))
	e.tagStack = append(e.tagStack, start.Tag)
	e.EmitChanged(innerEvents(elem), ctx, id)
	e.Leave(start.Tag)
}

// emitContent walks a content slice under whatever context is currently
// active (possibly CtxNone), recursively applying the same structural
// redirection, void-element, and text-visibility rules.
func (e *Emitter) emitContent(events []Event) {
	i, n := 0, len(events)
	for i < n {
		ev := events[i]
		switch {
		case ev.Kind == Start && ev.Tag == "br" && i+1 < n && events[i+1].Kind == End && events[i+1].Tag == "br":
			e.EmitBr()
			i += 2
		case ev.Kind == Start:
			j := matchEndIdx(events, i)
			if j <= i || events[j].Kind != End || events[j].Tag != ev.Tag {
				// Start whose End lives in a different slice (the inner
				// event differ splits raw events mid-element). Open it and
				// let the stray End, or the enclosing CloseChange/LeaveAll,
				// close it.
				if ev.Tag == "br" {
					e.EmitBr()
					e.SuppressNextEnd("br")
				} else {
					e.Enter(ev.Tag, ev.Attrs)
				}
				i++
				continue
			}
			e.Enter(ev.Tag, ev.Attrs)
			e.emitContent(events[i+1 : j])
			e.Leave(ev.Tag)
			i = j + 1
		case ev.Kind == TextEvent:
			e.Text(ev.Text)
			i++
		default:
			// Stray End with no matching Start in this slice: Leave is a
			// silent no-op unless this exact tag is what's open.
			e.Leave(ev.Tag)
			i++
		}
	}
}

// makeWhitespaceVisible replaces leading/trailing spaces and runs of 2+
// spaces with non-breaking spaces, leaving single interior spaces
// untouched so normal word wrapping still reads naturally.
func makeWhitespaceVisible(s string) string {
	const nbsp = " "
	if s == "" {
		return s
	}
	var b strings.Builder
	runs := splitSpaceRuns(s)
	for idx, r := range runs {
		if !r.isSpace {
			b.WriteString(r.text)
			continue
		}
		if idx == 0 || idx == len(runs)-1 || len(r.text) >= 2 {
			b.WriteString(strings.Repeat(nbsp, len(r.text)))
		} else {
			b.WriteString(r.text)
		}
	}
	return b.String()
}

type spaceRun struct {
	text    string
	isSpace bool
}

func splitSpaceRuns(s string) []spaceRun {
	var runs []spaceRun
	i := 0
	for i < len(s) {
		isSpace := s[i] == ' '
		j := i + 1
		for j < len(s) && (s[j] == ' ') == isSpace {
			j++
		}
		runs = append(runs, spaceRun{text: s[i:j], isSpace: isSpace})
		i = j
	}
	return runs
}

// BeginStyleBuffer starts buffering content for the same-tag, style-only
// change pattern: the caller has already entered the new element
// normally; children emitted until EndStyleBuffer are captured instead of
// appended to output.
func (e *Emitter) BeginStyleBuffer(tag string, oldAttrs, newAttrs Attrs, id string) {
	e.styleDelBuffer = append(e.styleDelBuffer, &styleBuf{tag: tag, oldAttrs: oldAttrs, newAttrs: newAttrs, id: id})
}

// EndStyleBuffer replays the buffered content once inside a <del> carrying
// the old style value so the removed appearance stays legible, and once
// inside a plain <ins>, sharing one diff id.
func (e *Emitter) EndStyleBuffer() {
	n := len(e.styleDelBuffer)
	buf := e.styleDelBuffer[n-1]
	e.styleDelBuffer = e.styleDelBuffer[:n-1]

	delAttrs := Attrs{}
	if style, ok := buf.oldAttrs.Get("style"); ok {
		delAttrs = delAttrs.With("style", style)
	}
	if e.cfg.AddDiffIDs {
		delAttrs = delAttrs.With(e.cfg.DiffIDAttr, buf.id)
	}
	e.push(NewStart("del", delAttrs, Pos{}))
	e.tagStack = append(e.tagStack, "del")
	e.context = append(e.context, CtxDel)
	e.EmitVerbatim(buf.content)
	e.context = e.context[:len(e.context)-1]
	e.Leave("del")

	e.OpenChange(CtxIns, buf.id)
	e.EmitVerbatim(buf.content)
	e.CloseChange()
}

// PushWrapChangeEnd records that tag's close must also close a synthetic
// wrapper (e.g. an <li> injected around an inserted/deleted <p>) and
// restore the given context afterward.
func (e *Emitter) PushWrapChangeEnd(tag, changeWrapper string, restore Context) {
	e.wrapChangeEndFor = append(e.wrapChangeEndFor, wrapChangeEnd{tag, changeWrapper, restore})
}

// PopWrapChangeEnd closes a wrapper recorded via PushWrapChangeEnd, if tag
// matches the most recently pushed one.
func (e *Emitter) PopWrapChangeEnd(tag string) {
	n := len(e.wrapChangeEndFor)
	if n == 0 || e.wrapChangeEndFor[n-1].tag != tag {
		return
	}
	w := e.wrapChangeEndFor[n-1]
	e.wrapChangeEndFor = e.wrapChangeEndFor[:n-1]
	e.Leave(w.changeWrapper)
}
