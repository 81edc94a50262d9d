package diff

// InnerDiffEvents is the default, atom-free differ used for a Replace opcode
// whose sides were not claimed by a specialized rewriter, and for an outer
// Equal atom of a ForceEventDiffOnEqualForTags tag whose events still
// differ and which the void rewriter does not claim; other Equal atoms with
// differing events go through reconcileElement instead. It threads the shared id allocator so group ids stay monotone
// across recursive calls; there is no module-level allocator singleton.
func InnerDiffEvents(e *Emitter, oldEvents, newEvents []Event, cfg Config, ids *IDAllocator) {
	if ok, oldSub, newSub := canVisualContainerReplace(oldEvents, newEvents, cfg); ok {
		id := ids.Alloc()
		e.EmitChanged(oldSub, CtxDel, id)
		e.EmitChanged(newSub, CtxIns, id)
		return
	}

	ops := lcsOpcodes(eventKeys(oldEvents), eventKeys(newEvents))
	ops = normalizeOpcodes(ops, cfg)

	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			e.EmitVerbatim(oldEvents[op.OldLo:op.OldHi])
		case OpDelete:
			id := ids.Alloc()
			e.EmitChanged(oldEvents[op.OldLo:op.OldHi], CtxDel, id)
		case OpInsert:
			id := ids.Alloc()
			e.EmitChanged(newEvents[op.NewLo:op.NewHi], CtxIns, id)
		case OpReplace:
			id := ids.Alloc()
			e.EmitChanged(oldEvents[op.OldLo:op.OldHi], CtxDel, id)
			e.EmitChanged(newEvents[op.NewLo:op.NewHi], CtxIns, id)
		}
	}
}

func eventKeys(events []Event) []string {
	keys := make([]string, len(events))
	for i, ev := range events {
		keys[i] = eventKey(ev)
	}
	return keys
}

// canVisualContainerReplace detects "same outer container, same collapsed
// text, only attributes/tag differ": when it applies, the whole slice
// short-circuits straight to one Replace instead of running LCS over the
// container's raw events.
func canVisualContainerReplace(oldEvents, newEvents []Event, cfg Config) (bool, []Event, []Event) {
	if len(oldEvents) < 2 || len(newEvents) < 2 {
		return false, nil, nil
	}
	if oldEvents[0].Kind != Start || newEvents[0].Kind != Start {
		return false, nil, nil
	}
	if matchEndIdx(oldEvents, 0) != len(oldEvents)-1 || matchEndIdx(newEvents, 0) != len(newEvents)-1 {
		return false, nil, nil
	}
	vct := stringSet(cfg.VisualContainerTags)
	if !vct[oldEvents[0].Tag] && !vct[newEvents[0].Tag] {
		return false, nil, nil
	}
	oldText := collapseWS(textOf(oldEvents))
	newText := collapseWS(textOf(newEvents))
	if oldText == "" || oldText != newText {
		return false, nil, nil
	}
	if oldEvents[0].Tag == newEvents[0].Tag && attrsEqualVisual(oldEvents[0].Attrs, newEvents[0].Attrs, cfg) {
		// Same tag and no visual attribute changed; whatever differs is not
		// worth a replace rendering.
		return false, nil, nil
	}
	return true, oldEvents, newEvents
}
