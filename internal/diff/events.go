package diff

// matchEndIdx returns the index of the End event matching the Start event at
// events[start], honoring nesting of same-tag elements. If no matching End
// exists it returns len(events)-1.
func matchEndIdx(events []Event, start int) int {
	tag := events[start].Tag
	depth := 0
	for i := start; i < len(events); i++ {
		switch events[i].Kind {
		case Start:
			if events[i].Tag == tag {
				depth++
			}
		case End:
			if events[i].Tag == tag {
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}
	return len(events) - 1
}

// directChildren splits the event slice of an element (events[0] is its
// Start, events[len-1] its matching End) into the Start..End ranges of its
// direct element children, skipping interleaved text/other events.
func directChildren(events []Event) [][]Event {
	if len(events) < 2 {
		return nil
	}
	var out [][]Event
	i, n := 1, len(events)-1
	for i < n {
		if events[i].Kind == Start {
			j := matchEndIdx(events, i)
			out = append(out, events[i:j+1])
			i = j + 1
		} else {
			i++
		}
	}
	return out
}

// directChildrenTag returns the direct element children whose tag is in
// tags, recursing through container tags that are transparent for this
// purpose (e.g. thead/tbody/tfoot when looking for tr).
func directChildrenTag(events []Event, tags map[string]bool, transparent map[string]bool) [][]Event {
	var out []Event
	var walk func(children [][]Event)
	walk = func(children [][]Event) {
		for _, c := range children {
			if len(c) == 0 {
				continue
			}
			t := c[0].Tag
			if tags[t] {
				out = append(out, c...)
				continue
			}
			if transparent[t] {
				walk(directChildren(c))
			}
		}
	}
	walk(directChildren(events))
	// Re-split the flat accumulation back into per-element slices.
	return splitElements(out)
}

// splitElements splits a flat run of concatenated Start..End element
// sequences back into one slice per top-level element.
func splitElements(events []Event) [][]Event {
	var out [][]Event
	i := 0
	for i < len(events) {
		if events[i].Kind == Start {
			j := matchEndIdx(events, i)
			out = append(out, events[i:j+1])
			i = j + 1
		} else {
			i++
		}
	}
	return out
}

// directCellSlices returns the direct td/th children of a tr's event slice.
func directCellSlices(trEvents []Event) [][]Event {
	return directChildrenTag(trEvents, map[string]bool{"td": true, "th": true}, nil)
}

// directRowSlices returns the direct tr descendants of a table's event
// slice, transparently descending into thead/tbody/tfoot.
func directRowSlices(tableEvents []Event) [][]Event {
	return directChildrenTag(tableEvents, map[string]bool{"tr": true}, tableRowContainerTags)
}

// innerEvents strips the outer Start/End wrapper from an element's event
// slice, returning just its children's events.
func innerEvents(elemEvents []Event) []Event {
	if len(elemEvents) < 2 {
		return nil
	}
	return elemEvents[1 : len(elemEvents)-1]
}
