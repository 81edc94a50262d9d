package diff

import "strings"

// rewriteVisualContainerReplace handles the "same text, different outer
// shape" pattern: the wrapping tag or its attributes changed
// but the rendered text did not. Block wrappers (p, h1..h6) are kept outside
// the change marker, since a whole paragraph never lives inside an
// <ins>/<del>, and are instead flagged with a tagdiff_replaced class and a
// data-old-tag attribute recording what they used to be. Anything else
// (inline containers like span/strong/em) gets the del(OLD_WRAP)/
// ins(NEW_WRAP) inline pair, unless VisualReplaceInline is off, in which
// case the new shape is marked in place.
func rewriteVisualContainerReplace(e *Emitter, oldElem, newElem []Event, cfg Config, ids *IDAllocator) bool {
	if len(oldElem) == 0 || len(newElem) == 0 {
		return false
	}
	oldStart, newStart := oldElem[0], newElem[0]
	id := ids.Alloc()

	markReplaced := func(elem []Event, oldTag string) {
		start := elem[0]
		cls, _ := start.Attrs.Get("class")
		attrs := start.Attrs.With("class", addClass(cls, "tagdiff_replaced")).
			With("data-old-tag", oldTag)
		if cfg.AddDiffIDs {
			attrs = attrs.With(cfg.DiffIDAttr, id)
		}
		e.Enter(start.Tag, attrs)
		if EventsEqual(innerEvents(oldElem), innerEvents(newElem)) {
			e.EmitVerbatim(innerEvents(newElem))
		} else {
			DiffEvents(e, innerEvents(oldElem), innerEvents(newElem), cfg, ids)
		}
		e.Leave(start.Tag)
	}

	switch {
	case isBlockWrapper(newStart.Tag):
		markReplaced(newElem, oldStart.Tag)
	case isBlockWrapper(oldStart.Tag):
		markReplaced(oldElem, oldStart.Tag)
	case !cfg.VisualReplaceInline:
		markReplaced(newElem, oldStart.Tag)
	default:
		e.EmitChanged(oldElem, CtxDel, id)
		e.EmitChanged(newElem, CtxIns, id)
	}
	return true
}

// rewriteVisualWrapperToggle catches an inline wrapper appearing or
// disappearing around otherwise identical text: "10.8" becoming
// "<strong style=...>10.8</strong>" (or the reverse) renders as a single
// copy of the text inside the new shape, marked tagdiff_replaced with a
// data-old-tag breadcrumb, rather than a del/ins duplicate pair.
func rewriteVisualWrapperToggle(e *Emitter, oldRange, newRange []Atom, cfg Config, ids *IDAllocator) bool {
	wrapped, ok := singleBlock(newRange)
	plain := oldRange
	added := true
	if !ok || !isInlineFormatting(wrapped.Tag) {
		wrapped, ok = singleBlock(oldRange)
		plain = newRange
		added = false
		if !ok || !isInlineFormatting(wrapped.Tag) {
			return false
		}
	}
	if !stringSet(cfg.VisualContainerTags)[wrapped.Tag] {
		return false
	}
	plainEvents := flattenAtoms(plain)
	if hasElement(plainEvents) {
		return false
	}
	if collapseWS(textOf(plainEvents)) != collapseWS(textOf(wrapped.Events)) {
		return false
	}

	id := ids.Alloc()
	if added {
		// Wrapper added: emit the new element once, recording that there
		// was no old wrapper.
		start := wrapped.Events[0]
		cls, _ := start.Attrs.Get("class")
		attrs := start.Attrs.With("class", addClass(cls, "tagdiff_replaced")).
			With("data-old-tag", "none")
		if cfg.AddDiffIDs {
			attrs = attrs.With(cfg.DiffIDAttr, id)
		}
		e.Enter(start.Tag, attrs)
		e.EmitVerbatim(innerEvents(wrapped.Events))
		e.Leave(start.Tag)
		return true
	}

	// Wrapper removed: emit the new side's bare text inside a neutral span
	// recording the wrapper it replaced.
	attrs := Attrs{}.With("class", "tagdiff_replaced").With("data-old-tag", wrapped.Tag)
	if cfg.AddDiffIDs {
		attrs = attrs.With(cfg.DiffIDAttr, id)
	}
	e.Enter("span", attrs)
	e.EmitVerbatim(plainEvents)
	e.Leave("span")
	return true
}

func hasElement(events []Event) bool {
	for _, ev := range events {
		if ev.Kind == Start {
			return true
		}
	}
	return false
}

// rewriteInlineWrapperToPlain handles an inline wrapper collapsing into (or
// growing out of) plain text while the text around it is untouched:
// "Text <u>X</u> tail" becoming "Text Y tail". The shared prefix and suffix
// are found on the raw text, so they survive even when the tokenizer sees
// no word boundary between them and the changed middle ("pre<u>X</u>fix" to
// "preYfix"). The prefix and suffix re-emit unchanged; only the wrapper
// subtree and its replacement middle become a del/ins pair.
func rewriteInlineWrapperToPlain(e *Emitter, oldRange, newRange []Atom, cfg Config, ids *IDAllocator) bool {
	wrapped, before, after, ok := splitSingleInlineWrapper(oldRange, cfg)
	plain := oldRange
	wrapIsOld := true
	if ok {
		plain = newRange
	} else {
		wrapped, before, after, ok = splitSingleInlineWrapper(newRange, cfg)
		wrapIsOld = false
		if !ok {
			return false
		}
	}
	plainEvents := flattenAtoms(plain)
	if hasElement(plainEvents) {
		return false
	}

	plainText := textOf(plainEvents)
	wrapText := before + textOf(wrapped.Events) + after
	if collapseWS(plainText) == collapseWS(wrapText) {
		// Identical text with only the wrapper toggled: the toggle
		// rewriter renders that as a single marked copy instead.
		return false
	}
	oldText, newText := wrapText, plainText
	if !wrapIsOld {
		oldText, newText = plainText, wrapText
	}

	pre := commonPrefix(oldText, newText)
	if len(pre) > len(before) {
		pre = pre[:len(before)]
	}
	suf := commonSuffix(oldText[len(pre):], newText[len(pre):])
	if len(suf) > len(after) {
		suf = suf[len(suf)-len(after):]
	}
	if pre == "" && suf == "" {
		return false
	}

	var wrapMiddle []Event
	if rest := before[len(pre):]; rest != "" {
		wrapMiddle = append(wrapMiddle, NewText(rest, Pos{}))
	}
	wrapMiddle = append(wrapMiddle, wrapped.Events...)
	if rest := after[:len(after)-len(suf)]; rest != "" {
		wrapMiddle = append(wrapMiddle, NewText(rest, Pos{}))
	}
	plainMiddle := plainText[len(pre) : len(plainText)-len(suf)]

	if pre != "" {
		e.RawText(pre)
	}
	id := ids.Alloc()
	if wrapIsOld {
		e.EmitChanged(wrapMiddle, CtxDel, id)
		if plainMiddle != "" {
			e.EmitChanged([]Event{NewText(plainMiddle, Pos{})}, CtxIns, id)
		}
	} else {
		if plainMiddle != "" {
			e.EmitChanged([]Event{NewText(plainMiddle, Pos{})}, CtxDel, id)
		}
		e.EmitChanged(wrapMiddle, CtxIns, id)
	}
	if suf != "" {
		e.RawText(suf)
	}
	return true
}

// splitSingleInlineWrapper decomposes an atom range of the shape
// "text*, one inline wrapper, text*" into the wrapper atom and the raw text
// on each side of it. Any other shape reports false.
func splitSingleInlineWrapper(atoms []Atom, cfg Config) (Atom, string, string, bool) {
	var wrapped Atom
	found := false
	var before, after strings.Builder
	for _, a := range atoms {
		switch {
		case a.Kind == BlockAtom && isInlineFormatting(a.Tag):
			if found {
				return Atom{}, "", "", false
			}
			wrapped = a
			found = true
		case a.Kind == TextAtom:
			if found {
				after.WriteString(a.Events[0].Text)
			} else {
				before.WriteString(a.Events[0].Text)
			}
		default:
			return Atom{}, "", "", false
		}
	}
	if !found || !stringSet(cfg.VisualContainerTags)[wrapped.Tag] {
		return Atom{}, "", "", false
	}
	return wrapped, before.String(), after.String(), true
}
