package diff

import "strings"

// rewriteListConversion handles the structural conversions between
// a run of paragraphs and a list, and between two differently-tagged lists
// (ul <-> ol). The conversion keeps a hidden structural-revert-data copy of
// the original side so rejecting the change can restore it losslessly.
func rewriteListConversion(e *Emitter, oldRange, newRange []Atom, cfg Config, ids *IDAllocator) bool {
	if !cfg.EnableListAtomization {
		return false
	}
	if newList, ok := singleBlock(newRange); ok && isListTag(newList.Tag) && allParagraphs(oldRange) {
		convertParasToList(e, oldRange, newList, cfg, ids)
		return true
	}
	if oldList, ok := singleBlock(oldRange); ok && isListTag(oldList.Tag) && allParagraphs(newRange) {
		convertListToParas(e, oldList, newRange, cfg, ids)
		return true
	}
	oldList, ok1 := singleBlock(oldRange)
	newList, ok2 := singleBlock(newRange)
	if ok1 && ok2 && isListTag(oldList.Tag) && isListTag(newList.Tag) && oldList.Tag != newList.Tag {
		convertListStyle(e, oldList, newList, cfg, ids)
		return true
	}
	return false
}

func isListTag(tag string) bool { return tag == "ul" || tag == "ol" }

func allParagraphs(atoms []Atom) bool {
	if len(atoms) == 0 {
		return false
	}
	for _, a := range atoms {
		if a.Kind != BlockAtom || a.Tag != "p" {
			return false
		}
	}
	return true
}

func itemText(events []Event) string {
	return stripListMarker(collapseWS(textOf(events)))
}

// convertParasToList renders a run of old <p> paragraphs as a new <ul>/<ol>.
// One hidden revert carries the entire old side; one group id covers the
// whole conversion. Each new <li> is matched against the first unused old
// paragraph with the same (marker-stripped) text: matched items re-diff
// their content so real text edits still show, unmatched items render as
// plain insertions.
func convertParasToList(e *Emitter, paras []Atom, list Atom, cfg Config, ids *IDAllocator) {
	id := ids.Alloc()
	emitHiddenRevert(e, flattenAtoms(paras), id, cfg)

	listAttrs := list.Events[0].Attrs
	cls, _ := listAttrs.Get("class")
	listAttrs = listAttrs.With("class", addClass(cls, "tagdiff_added"))
	if cfg.AddDiffIDs {
		listAttrs = listAttrs.With(cfg.DiffIDAttr, id)
	}
	e.Enter(list.Tag, listAttrs)

	liSlices := directChildrenTag(list.Events, map[string]bool{"li": true}, nil)
	used := make([]bool, len(paras))
	matchFor := func(liInner []Event) int {
		want := itemText(liInner)
		for idx, p := range paras {
			if used[idx] {
				continue
			}
			if itemText(innerEvents(p.Events)) == want {
				return idx
			}
		}
		return -1
	}

	for _, li := range liSlices {
		liInner := innerEvents(li)
		liAttrs := li[0].Attrs
		lcls, _ := liAttrs.Get("class")
		liAttrs = liAttrs.With("class", addClass(lcls, "diff-bullet-ins"))
		if cfg.AddDiffIDs {
			liAttrs = liAttrs.With(cfg.DiffIDAttr, id)
		}
		e.Enter("li", liAttrs)
		if idx := matchFor(liInner); idx >= 0 {
			used[idx] = true
			oldSide := paras[idx].Events
			if !hasBlockChild(liInner) {
				oldSide = innerEvents(oldSide)
			}
			if EventsEqual(oldSide, liInner) {
				e.EmitVerbatim(liInner)
			} else {
				DiffEvents(e, oldSide, liInner, cfg, ids)
			}
		} else {
			e.EmitChanged(liInner, CtxIns, id)
		}
		e.Leave("li")
	}
	e.Leave(list.Tag)
}

// convertListToParas is the mirror image of convertParasToList: the old
// list's full markup goes into one hidden revert, each surviving paragraph
// is flagged diff-bullet-del, and matched item content is re-diffed.
func convertListToParas(e *Emitter, list Atom, paras []Atom, cfg Config, ids *IDAllocator) {
	id := ids.Alloc()
	emitHiddenRevert(e, list.Events, id, cfg)

	liSlices := directChildrenTag(list.Events, map[string]bool{"li": true}, nil)
	used := make([]bool, len(liSlices))
	matchFor := func(pInner []Event) int {
		want := itemText(pInner)
		for idx, li := range liSlices {
			if used[idx] {
				continue
			}
			if itemText(innerEvents(li)) == want {
				return idx
			}
		}
		return -1
	}

	for _, p := range paras {
		pInner := innerEvents(p.Events)
		pAttrs := p.Events[0].Attrs
		cls, _ := pAttrs.Get("class")
		pAttrs = pAttrs.With("class", addClass(cls, "diff-bullet-del"))
		if cfg.AddDiffIDs {
			pAttrs = pAttrs.With(cfg.DiffIDAttr, id)
		}
		e.Enter(p.Tag, pAttrs)
		if idx := matchFor(pInner); idx >= 0 {
			used[idx] = true
			oldInner := innerEvents(liSlices[idx])
			if hasBlockChild(oldInner) && len(oldInner) > 0 && matchEndIdx(oldInner, 0) == len(oldInner)-1 {
				oldInner = innerEvents(oldInner)
			}
			if EventsEqual(oldInner, pInner) {
				e.EmitVerbatim(pInner)
			} else {
				DiffEvents(e, oldInner, pInner, cfg, ids)
			}
		} else {
			e.EmitChanged(pInner, CtxIns, id)
		}
		e.Leave(p.Tag)
	}
}

// convertListStyle handles a list keeping its items but switching between
// ul and ol: hidden revert of the old list, the new tag flagged
// tagdiff_added with a data-old-tag breadcrumb, and each item flagged
// diff-bullet-ins since the visible bullet shape changed.
func convertListStyle(e *Emitter, oldList, newList Atom, cfg Config, ids *IDAllocator) {
	id := ids.Alloc()
	emitHiddenRevert(e, oldList.Events, id, cfg)

	attrs := newList.Events[0].Attrs
	cls, _ := attrs.Get("class")
	attrs = attrs.With("class", addClass(cls, "tagdiff_added")).With("data-old-tag", oldList.Tag)
	if cfg.AddDiffIDs {
		attrs = attrs.With(cfg.DiffIDAttr, id)
	}
	e.Enter(newList.Tag, attrs)

	oldItems := directChildrenTag(oldList.Events, map[string]bool{"li": true}, nil)
	newItems := directChildrenTag(newList.Events, map[string]bool{"li": true}, nil)
	n := min(len(oldItems), len(newItems))
	for i := 0; i < n; i++ {
		liAttrs := newItems[i][0].Attrs
		lcls, _ := liAttrs.Get("class")
		liAttrs = liAttrs.With("class", addClass(lcls, "diff-bullet-ins"))
		if cfg.AddDiffIDs {
			liAttrs = liAttrs.With(cfg.DiffIDAttr, id)
		}
		e.Enter("li", liAttrs)
		if EventsEqual(innerEvents(oldItems[i]), innerEvents(newItems[i])) {
			e.EmitVerbatim(innerEvents(newItems[i]))
		} else {
			DiffEvents(e, innerEvents(oldItems[i]), innerEvents(newItems[i]), cfg, ids)
		}
		e.Leave("li")
	}
	for i := n; i < len(oldItems); i++ {
		e.EmitChanged(oldItems[i], CtxDel, id)
	}
	for i := n; i < len(newItems); i++ {
		e.EmitChanged(newItems[i], CtxIns, id)
	}
	e.Leave(newList.Tag)
}

// reconcileListRestyle handles a list that kept its tag but changed its
// attributes. A list-style-type change alters the visible bullet shape, so
// items are flagged diff-bullet-ins; an inheritable-style-only change
// (font, color) instead replays each item's content as del(old style)/ins
// so the reader can see both renderings.
func reconcileListRestyle(e *Emitter, oldList, newList []Event, cfg Config, ids *IDAllocator) {
	oldStart, newStart := oldList[0], newList[0]
	id := ids.Alloc()
	emitHiddenRevert(e, oldList, id, cfg)

	cls, _ := newStart.Attrs.Get("class")
	attrs := newStart.Attrs.With("class", addClass(cls, "tagdiff_added"))
	if cfg.AddDiffIDs {
		attrs = attrs.With(cfg.DiffIDAttr, id)
	}
	e.Enter(newStart.Tag, attrs)

	bulletChanged := listStyleType(oldStart.Attrs) != listStyleType(newStart.Attrs)
	oldItems := directChildrenTag(oldList, map[string]bool{"li": true}, nil)
	newItems := directChildrenTag(newList, map[string]bool{"li": true}, nil)
	n := min(len(oldItems), len(newItems))
	for i := 0; i < n; i++ {
		liAttrs := newItems[i][0].Attrs
		if bulletChanged {
			lcls, _ := liAttrs.Get("class")
			liAttrs = liAttrs.With("class", addClass(lcls, "diff-bullet-ins"))
			if cfg.AddDiffIDs {
				liAttrs = liAttrs.With(cfg.DiffIDAttr, id)
			}
			e.Enter("li", liAttrs)
			if EventsEqual(innerEvents(oldItems[i]), innerEvents(newItems[i])) {
				e.EmitVerbatim(innerEvents(newItems[i]))
			} else {
				DiffEvents(e, innerEvents(oldItems[i]), innerEvents(newItems[i]), cfg, ids)
			}
			e.Leave("li")
			continue
		}
		itemID := ids.Alloc()
		e.Enter("li", liAttrs)
		e.OpenChangeStyled(CtxDel, itemID, inheritableStyle(oldStart.Attrs))
		e.emitContent(innerEvents(oldItems[i]))
		e.CloseChange()
		e.OpenChange(CtxIns, itemID)
		e.emitContent(innerEvents(newItems[i]))
		e.CloseChange()
		e.Leave("li")
	}
	for i := n; i < len(oldItems); i++ {
		e.EmitChanged(oldItems[i], CtxDel, id)
	}
	for i := n; i < len(newItems); i++ {
		e.EmitChanged(newItems[i], CtxIns, id)
	}
	e.Leave(newStart.Tag)
}

// listStyleType extracts the list-style-type declaration from a style
// attribute, lowercased, or "" when absent.
func listStyleType(attrs Attrs) string {
	style, _ := attrs.Get("style")
	for _, part := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(part, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), "list-style-type") {
			return strings.ToLower(strings.TrimSpace(v))
		}
	}
	return ""
}

// hasBlockChild reports whether a content slice opens a block wrapper
// (p, h1..h6) at any depth.
func hasBlockChild(events []Event) bool {
	for _, ev := range events {
		if ev.Kind == Start && isBlockWrapper(ev.Tag) {
			return true
		}
	}
	return false
}

// emitHiddenRevert wraps an element's original markup in a hidden
// structural-revert-data <del> carrying the conversion's group id, used by
// the UI to restore the pre-conversion markup on reject.
func emitHiddenRevert(e *Emitter, elem []Event, id string, cfg Config) {
	attrs := Attrs{}.With("class", "structural-revert-data").With("style", "display:none")
	if cfg.AddDiffIDs {
		attrs = attrs.With(cfg.DiffIDAttr, id)
	}
	e.push(NewStart("del", attrs, Pos{}))
	e.tagStack = append(e.tagStack, "del")
	e.EmitVerbatim(elem)
	e.Leave("del")
}
