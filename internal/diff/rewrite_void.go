package diff

// rewriteVoidElement handles a Replace range that reduces to a single void
// element (img, hr, ...) whose attributes changed. Tags listed in
// WrapVoidTagChangesWithInsDel get the familiar
// del(OLD)/ins(NEW) pair; anything else is marked in place with
// tagdiff_replaced and a data-old-src/data-old-* style breadcrumb instead,
// since wrapping a bare void tag in two copies is rarely useful UI.
func rewriteVoidElement(e *Emitter, oldRange, newRange []Atom, cfg Config, ids *IDAllocator) bool {
	oldAtom, ok1 := singleVoid(oldRange)
	newAtom, ok2 := singleVoid(newRange)
	if !ok1 || !ok2 || oldAtom.Tag != newAtom.Tag {
		return false
	}

	wrap := stringSet(cfg.WrapVoidTagChangesWithInsDel)
	id := ids.Alloc()
	if wrap[oldAtom.Tag] {
		e.EmitChanged(oldAtom.Events, CtxDel, id)
		e.EmitChanged(newAtom.Events, CtxIns, id)
		return true
	}

	start := newAtom.Events[0]
	cls, _ := start.Attrs.Get("class")
	attrs := start.Attrs.With("class", addClass(cls, "tagdiff_replaced"))
	for _, a := range oldAtom.Events[0].Attrs {
		attrs = attrs.With("data-old-"+a.Key, a.Val)
	}
	if cfg.AddDiffIDs {
		attrs = attrs.With(cfg.DiffIDAttr, id)
	}
	e.Enter(start.Tag, attrs)
	e.Leave(start.Tag)
	return true
}

func singleVoid(atoms []Atom) (Atom, bool) {
	if len(atoms) != 1 {
		return Atom{}, false
	}
	a := atoms[0]
	if a.Kind != EventAtom || len(a.Events) != 2 || a.Events[0].Kind != Start || !isVoid(a.Events[0].Tag) {
		return Atom{}, false
	}
	return a, true
}
