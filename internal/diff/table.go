package diff

// rewriteTable is the Replace-opcode entry point for table reconciliation:
// it only applies when both sides of the range reduce to a single
// <table> element, and then hands the pair to reconcileTable, which also
// serves the (far more common) case where the outer aligner already judged
// the two tables Equal by key but their contents still differ.
func rewriteTable(e *Emitter, oldRange, newRange []Atom, cfg Config, ids *IDAllocator) bool {
	if !cfg.EnableTableAtomization {
		return false
	}
	oldTable, ok1 := singleBlock(oldRange)
	newTable, ok2 := singleBlock(newRange)
	if !ok1 || !ok2 || oldTable.Tag != "table" || newTable.Tag != "table" {
		return false
	}
	reconcileTable(e, oldTable.Events, newTable.Events, cfg, ids)
	return true
}

// reconcileTable rewrites a table by aligning rows and, within a row,
// aligning cells, including the single-column removal/insertion case that
// plain per-cell matching cannot reliably detect. A changed table wrapper is
// rendered via the hidden-revert pattern, and its old inheritable font
// styles follow deleted cell content down the reconcile so the removed
// rendering still shows the pre-change font.
func reconcileTable(e *Emitter, oldTable, newTable []Event, cfg Config, ids *IDAllocator) {
	oldStart, newStart := oldTable[0], newTable[0]

	inherit := ""
	if !oldStart.Attrs.equal(newStart.Attrs) {
		inherit = inheritableStyle(oldStart.Attrs)
		id := ids.Alloc()
		emitHiddenRevert(e, oldTable, id, cfg)
		cls, _ := newStart.Attrs.Get("class")
		attrs := newStart.Attrs.With("class", addClass(cls, "tagdiff_added"))
		for _, a := range oldStart.Attrs {
			attrs = attrs.With("data-old-"+a.Key, a.Val)
		}
		if cfg.AddDiffIDs {
			attrs = attrs.With(cfg.DiffIDAttr, id)
		}
		e.Enter(newStart.Tag, attrs)
	} else {
		e.Enter(newStart.Tag, newStart.Attrs)
	}

	oldRows := directRowSlices(oldTable)
	newRows := directRowSlices(newTable)
	ops := lcsOpcodes(rowKeys(oldRows, cfg), rowKeys(newRows, cfg))
	if !hasEqualOp(ops) && len(oldRows) > 0 && len(newRows) > 0 {
		// A removed or inserted leading column shifts every row's
		// second-cell text, defeating the two-cell key; row identity then
		// falls back to the first cell alone.
		ops = lcsOpcodes(firstCellKeys(oldRows), firstCellKeys(newRows))
	}
	ops = normalizeOpcodes(ops, cfg)
	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			for k := op.OldLo; k < op.OldHi; k++ {
				j := k - op.OldLo + op.NewLo
				reconcileRow(e, oldRows[k], newRows[j], inherit, cfg, ids)
			}
		case OpDelete:
			for k := op.OldLo; k < op.OldHi; k++ {
				id := ids.Alloc()
				e.EmitChanged(oldRows[k], CtxDel, id)
			}
		case OpInsert:
			for j := op.NewLo; j < op.NewHi; j++ {
				id := ids.Alloc()
				e.EmitChanged(newRows[j], CtxIns, id)
			}
		case OpReplace:
			if op.OldHi-op.OldLo == op.NewHi-op.NewLo {
				// Same row count on both sides: pair rows positionally so
				// cell-level reconciliation still happens.
				for d := 0; d < op.OldHi-op.OldLo; d++ {
					reconcileRow(e, oldRows[op.OldLo+d], newRows[op.NewLo+d], inherit, cfg, ids)
				}
				continue
			}
			id := ids.Alloc()
			e.EmitChanged(concatRows(oldRows[op.OldLo:op.OldHi]), CtxDel, id)
			e.EmitChanged(concatRows(newRows[op.NewLo:op.NewHi]), CtxIns, id)
		}
	}
	e.Leave(newStart.Tag)
}

func rowKeys(rows [][]Event, cfg Config) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = blockKey("tr", r, cfg)
	}
	return keys
}

func firstCellKeys(rows [][]Event) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		cells := directCellSlices(r)
		if len(cells) > 0 {
			keys[i] = collapseWS(textOf(cells[0]))
		}
	}
	return keys
}

func hasEqualOp(ops []Opcode) bool {
	for _, op := range ops {
		if op.Kind == OpEqual {
			return true
		}
	}
	return false
}

func concatRows(rows [][]Event) []Event {
	var out []Event
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

func reconcileRow(e *Emitter, oldRow, newRow []Event, inherit string, cfg Config, ids *IDAllocator) {
	e.Enter("tr", newRow[0].Attrs)
	oldCells := directCellSlices(oldRow)
	newCells := directCellSlices(newRow)

	switch {
	case len(oldCells) == len(newCells)+1:
		k := bestSingleColumnIndex(oldCells, newCells, cfg)
		for i := 0; i < k; i++ {
			reconcileCellPair(e, oldCells[i], newCells[i], inherit, cfg, ids)
		}
		id := ids.Alloc()
		e.EmitChanged(oldCells[k], CtxDel, id)
		for i := k; i < len(newCells); i++ {
			reconcileCellPair(e, oldCells[i+1], newCells[i], inherit, cfg, ids)
		}
	case len(newCells) == len(oldCells)+1:
		k := bestSingleColumnIndex(newCells, oldCells, cfg)
		for i := 0; i < k; i++ {
			reconcileCellPair(e, oldCells[i], newCells[i], inherit, cfg, ids)
		}
		id := ids.Alloc()
		e.EmitChanged(newCells[k], CtxIns, id)
		for i := k; i < len(oldCells); i++ {
			reconcileCellPair(e, oldCells[i], newCells[i+1], inherit, cfg, ids)
		}
	default:
		reconcileCellsGreedy(e, oldCells, newCells, inherit, cfg, ids)
	}
	e.Leave("tr")
}

// bestSingleColumnIndex scores each candidate column index k as the
// removal/insertion point: the number of index-aligned cell-key matches in
// the prefix before k plus the suffix after it, maximized, ties broken
// toward the smallest k. This is what preserves column identity under
// duplicate cell values: two identical "8" cells still resolve to the
// column whose neighbors line up.
func bestSingleColumnIndex(longer, shorter [][]Event, cfg Config) int {
	best, bestScore := 0, -1
	for k := 0; k <= len(shorter); k++ {
		score := cellMatches(longer[:k], shorter[:k], cfg) + cellMatches(longer[k+1:], shorter[k:], cfg)
		if score > bestScore {
			bestScore, best = score, k
		}
	}
	return best
}

func cellMatches(a, b [][]Event, cfg Config) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	count := 0
	for i := 0; i < n; i++ {
		if cellKey(a[i], cfg) == cellKey(b[i], cfg) {
			count++
		}
	}
	return count
}

func cellKey(cell []Event, cfg Config) string {
	if len(cell) == 0 {
		return ""
	}
	return blockKey(cell[0].Tag, cell, cfg)
}

// reconcileCellsGreedy aligns two rows' cells with the same LCS-over-keys
// machinery as everything else, merging a mismatched pair into one <td>
// holding del(old)/ins(new) rather than ever emitting two adjacent cells
// for what a reader sees as one changed column.
func reconcileCellsGreedy(e *Emitter, oldCells, newCells [][]Event, inherit string, cfg Config, ids *IDAllocator) {
	oldKeys := make([]string, len(oldCells))
	for i, c := range oldCells {
		oldKeys[i] = cellKey(c, cfg)
	}
	newKeys := make([]string, len(newCells))
	for i, c := range newCells {
		newKeys[i] = cellKey(c, cfg)
	}
	ops := normalizeOpcodes(lcsOpcodes(oldKeys, newKeys), cfg)
	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			for k := op.OldLo; k < op.OldHi; k++ {
				j := k - op.OldLo + op.NewLo
				reconcileCellPair(e, oldCells[k], newCells[j], inherit, cfg, ids)
			}
		case OpDelete:
			for k := op.OldLo; k < op.OldHi; k++ {
				id := ids.Alloc()
				e.EmitChanged(oldCells[k], CtxDel, id)
			}
		case OpInsert:
			for j := op.NewLo; j < op.NewHi; j++ {
				id := ids.Alloc()
				e.EmitChanged(newCells[j], CtxIns, id)
			}
		case OpReplace:
			oldN, newN := op.OldHi-op.OldLo, op.NewHi-op.NewLo
			if oldN == newN {
				for d := 0; d < oldN; d++ {
					oc, nc := oldCells[op.OldLo+d], newCells[op.NewLo+d]
					if oc[0].Tag == nc[0].Tag && collapseWS(textOf(oc)) == collapseWS(textOf(nc)) {
						// Visual-only cell change: the element reconciler
						// keeps a single cell (style buffer, wrapper
						// toggle) instead of a del/ins content pair.
						reconcileCellPair(e, oc, nc, inherit, cfg, ids)
					} else {
						mergeCellReplace(e, oc, nc, inherit, cfg, ids)
					}
				}
				continue
			}
			// Surplus cells on the longer side are deleted or inserted
			// first; the remaining cells pair up into single merged cells.
			pairs := min(oldN, newN)
			for k := op.OldLo; k < op.OldHi-pairs; k++ {
				id := ids.Alloc()
				e.EmitChanged(oldCells[k], CtxDel, id)
			}
			for j := op.NewLo; j < op.NewHi-pairs; j++ {
				id := ids.Alloc()
				e.EmitChanged(newCells[j], CtxIns, id)
			}
			for d := 0; d < pairs; d++ {
				mergeCellReplace(e, oldCells[op.OldHi-pairs+d], newCells[op.NewHi-pairs+d], inherit, cfg, ids)
			}
		}
	}
}

// mergeCellReplace renders one changed column as a single <td> (taken from
// the new side's shape) containing del(old content)/ins(new content).
func mergeCellReplace(e *Emitter, oldCell, newCell []Event, inherit string, cfg Config, ids *IDAllocator) {
	start := newCell[0]
	e.Enter(start.Tag, start.Attrs)
	id := ids.Alloc()
	if inherit != "" {
		e.OpenChangeStyled(CtxDel, id, inherit)
		e.emitContent(innerEvents(oldCell))
		e.CloseChange()
		e.OpenChange(CtxIns, id)
		e.emitContent(innerEvents(newCell))
		e.CloseChange()
	} else {
		e.EmitChanged(innerEvents(oldCell), CtxDel, id)
		e.EmitChanged(innerEvents(newCell), CtxIns, id)
	}
	e.Leave(start.Tag)
}

func reconcileCellPair(e *Emitter, oldCell, newCell []Event, inherit string, cfg Config, ids *IDAllocator) {
	if EventsEqual(oldCell, newCell) {
		e.EmitVerbatim(oldCell)
		return
	}
	// A paired td/th must never degrade into two sibling cells, since that
	// would change the column count. When tag and text both changed, merge
	// into one cell holding del(old)/ins(new).
	if oldCell[0].Tag != newCell[0].Tag &&
		collapseWS(textOf(oldCell)) != collapseWS(textOf(newCell)) {
		mergeCellReplace(e, oldCell, newCell, inherit, cfg, ids)
		return
	}
	// Same text, attribute-only change on the cell while the table wrapper
	// restyled: the del copy inherits the old table's font so the deleted
	// rendering shows the pre-change appearance.
	if inherit != "" && len(oldCell) > 0 && len(newCell) > 0 &&
		oldCell[0].Tag == newCell[0].Tag &&
		collapseWS(textOf(oldCell)) == collapseWS(textOf(newCell)) &&
		!oldCell[0].Attrs.equal(newCell[0].Attrs) {
		mergeCellReplace(e, oldCell, newCell, inherit, cfg, ids)
		return
	}
	reconcileElement(e, oldCell, newCell, cfg, ids)
}
