package diff

import "strings"

// AtomKind identifies which variant of Atom a value holds.
type AtomKind uint8

const (
	// TextAtom is a single tokenized string.
	TextAtom AtomKind = iota
	// BrAtom is a collapsed Start(br)+End(br) pair.
	BrAtom
	// EventAtom is any other single event, preserved verbatim.
	EventAtom
	// BlockAtom is a matched Start..End region of a structural or visual tag.
	BlockAtom
)

// Atom is the outer aligner's unit of comparison. Every atom carries its
// underlying event slice so that, once aligned, unchanged atoms can be
// re-emitted verbatim.
type Atom struct {
	Kind   AtomKind
	Key    string // alignment key, see blockKey/textKey/brKey/eventKey
	Tag    string // set for BlockAtom
	Events []Event
}

func textKey(token string) string { return "t\x00" + token }
func brKey() string               { return "br" }
func eventKey(e Event) string {
	switch e.Kind {
	case Start:
		var b strings.Builder
		b.WriteString("e\x00start\x00")
		b.WriteString(e.Tag)
		for _, a := range e.Attrs {
			b.WriteByte('\x00')
			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Val)
		}
		return b.String()
	case End:
		return "e\x00end\x00" + e.Tag
	default: // TextEvent
		return "e\x00text\x00" + e.Text
	}
}

// inlineStructureSignature is the tuple of inline wrapper localnames
// encountered in the subtree in order, excluding br.
func inlineStructureSignature(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Kind == Start && isInlineFormatting(e.Tag) {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(e.Tag)
		}
	}
	return b.String()
}

// blockKey computes the alignment key for a matched Start(tag)..End(tag)
// region, varying by tag family so that e.g. two table rows align on their
// first two cells' text rather than the whole subtree.
func blockKey(tag string, events []Event, cfg Config) string {
	text := collapseWS(textOf(events))
	switch {
	case tag == "li" || isBlockWrapper(tag):
		return "block\x00" + strings.ToLower(stripListMarker(text))
	case tag == "td" || tag == "th":
		vsig := visualAttrSignature(firstEventAttrs(events), cfg)
		return "cell\x00" + tag + "\x00" + text + "\x00" + vsig + "\x00" + inlineStructureSignature(events)
	case tag == "tr":
		c1, c2 := firstTwoCellTexts(events)
		return "tr\x00" + c1 + "\x00" + c2
	case tag == "ul" || tag == "ol":
		return "list\x00" + tag
	case tag == "table":
		return "table"
	case isInlineFormatting(tag):
		vsig := visualAttrSignature(firstEventAttrs(events), cfg)
		return "visual\x00" + tag + "\x00" + text + "\x00" + vsig + "\x00" + inlineStructureSignature(events)
	default:
		vsig := visualAttrSignature(firstEventAttrs(events), cfg)
		return "block-generic\x00" + tag + "\x00" + text + "\x00" + vsig
	}
}

// firstEventAttrs returns the attributes of the opening Start event of a
// block's event slice (events[0] is always that Start by construction).
func firstEventAttrs(events []Event) Attrs {
	if len(events) == 0 || events[0].Kind != Start {
		return nil
	}
	return events[0].Attrs
}

// firstTwoCellTexts extracts the collapsed text of the first two direct
// td/th cells within a tr's event slice, used for row-identity keys.
func firstTwoCellTexts(trEvents []Event) (string, string) {
	cells := directCellSlices(trEvents)
	var c1, c2 string
	if len(cells) > 0 {
		c1 = collapseWS(textOf(cells[0]))
	}
	if len(cells) > 1 {
		c2 = collapseWS(textOf(cells[1]))
	}
	return c1, c2
}
