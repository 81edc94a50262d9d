package diff

// Atomize groups a flat event stream into alignment units: each void
// element (its Start/End pair) collapses to a single atom, configured block/visual tags collapse
// to one atom each, and everything else tokenizes down to text atoms or
// single verbatim events. The concatenation of every returned atom's
// Events equals events; callers may assert this in debug builds.
func Atomize(events []Event, cfg Config) []Atom {
	visualAtomize := stringSet(cfg.VisualAtomizeTags)
	var atoms []Atom
	i := 0
	for i < len(events) {
		e := events[i]

		// 1. Start(br) + End(br) collapses to one BrAtom.
		if e.Kind == Start && e.Tag == "br" && i+1 < len(events) &&
			events[i+1].Kind == End && events[i+1].Tag == "br" {
			atoms = append(atoms, Atom{Kind: BrAtom, Key: brKey(), Events: events[i : i+2]})
			i += 2
			continue
		}

		// 1b. Any other void element (img, hr, ...) collapses to a single
		// atom keyed by tag+attrs, so an attribute-only change (e.g. a
		// swapped img src) is seen as one replace rather than two unrelated
		// single-event replaces.
		if e.Kind == Start && isVoid(e.Tag) && i+1 < len(events) &&
			events[i+1].Kind == End && events[i+1].Tag == e.Tag {
			atoms = append(atoms, Atom{
				Kind:   EventAtom,
				Key:    "void\x00" + e.Tag + "\x00" + visualAttrSignature(e.Attrs, cfg),
				Tag:    e.Tag,
				Events: events[i : i+2],
			})
			i += 2
			continue
		}

		// 2. A configured block/visual tag becomes a BlockAtom, unless it
		// is the artificial diff wrapper or a generic div with structural
		// children.
		if e.Kind == Start && visualAtomize[e.Tag] && !isDiffWrapper(e) {
			j := matchEndIdx(events, i)
			sub := events[i : j+1]
			if e.Tag == "div" && hasStructuralChild(sub) {
				// fall through to EventAtom for the div's own Start token
			} else if atomKindEnabled(e.Tag, cfg) {
				atoms = append(atoms, Atom{
					Kind:   BlockAtom,
					Key:    blockKey(e.Tag, sub, cfg),
					Tag:    e.Tag,
					Events: sub,
				})
				i = j + 1
				continue
			}
		}

		// Generic div: atomized only if it has no structural children,
		// using the same block-atom machinery as other containers so its
		// text still aligns usefully.
		if e.Kind == Start && e.Tag == "div" && !isDiffWrapper(e) {
			j := matchEndIdx(events, i)
			sub := events[i : j+1]
			if !hasStructuralChild(sub) {
				atoms = append(atoms, Atom{
					Kind:   BlockAtom,
					Key:    blockKey(e.Tag, sub, cfg),
					Tag:    e.Tag,
					Events: sub,
				})
				i = j + 1
				continue
			}
		}

		// 3. Text tokenization.
		if e.Kind == TextEvent && cfg.TokenizeText {
			toks := tokenize(e.Text, cfg.TokenizeRegex)
			for _, tok := range toks {
				if tok == "" {
					continue
				}
				atoms = append(atoms, Atom{
					Kind:   TextAtom,
					Key:    textKey(tok),
					Events: []Event{NewText(tok, e.Pos)},
				})
			}
			i++
			continue
		}

		// 4. Fallback: a single verbatim event.
		atoms = append(atoms, Atom{Kind: EventAtom, Key: eventKey(e), Events: []Event{e}})
		i++
	}
	return atoms
}

// CheckAtomizeInvariant verifies that atomization reconstitutes its input:
// the concatenated text of all atoms equals the input text and the tag
// sequence is untouched. It is a debug aid; the pipeline does not pay for
// it on every call.
func CheckAtomizeInvariant(events []Event, cfg Config) error {
	flat := flattenAtoms(Atomize(events, cfg))
	if textOf(flat) != textOf(events) {
		return &EngineInvariantViolationError{Invariant: "atom text reconstitution"}
	}
	shape := func(evs []Event) []Event {
		var out []Event
		for _, ev := range evs {
			if ev.Kind != TextEvent {
				out = append(out, ev)
			}
		}
		return out
	}
	if !EventsEqual(shape(flat), shape(events)) {
		return &EngineInvariantViolationError{Invariant: "atom event reconstitution"}
	}
	return nil
}

// atomKindEnabled gates block-atom creation per the Enable*Atomization
// config flags.
func atomKindEnabled(tag string, cfg Config) bool {
	switch tag {
	case "li", "ul", "ol":
		return cfg.EnableListAtomization
	case "table", "tr", "td", "th":
		return cfg.EnableTableAtomization
	case "span", "strong", "b", "em", "i", "u":
		return cfg.EnableInlineWrapperAtomization
	default:
		return true
	}
}

func isDiffWrapper(e Event) bool {
	if e.Tag != "div" {
		return false
	}
	cls, _ := e.Attrs.Get("class")
	return cls == "diff"
}

var structuralChildTags = stringSet([]string{
	"p", "table", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6",
})

// hasStructuralChild reports whether a div's event subsequence has any
// direct or nested structural child, which disqualifies it from block
// atomization (it would otherwise swallow an entire section).
func hasStructuralChild(events []Event) bool {
	for _, e := range events {
		if e.Kind == Start && structuralChildTags[e.Tag] {
			return true
		}
	}
	return false
}

// tokenize splits text with the configured regex, keeping every
// non-overlapping match (including whitespace and punctuation runs) so the
// concatenation of tokens reconstitutes the original string.
func tokenize(text string, re interface {
	FindAllStringIndex(string, int) [][]int
}) []string {
	if text == "" {
		return nil
	}
	idx := re.FindAllStringIndex(text, -1)
	if idx == nil {
		return []string{text}
	}
	var out []string
	pos := 0
	for _, m := range idx {
		if m[0] > pos {
			out = append(out, text[pos:m[0]])
		}
		out = append(out, text[m[0]:m[1]])
		pos = m[1]
	}
	if pos < len(text) {
		out = append(out, text[pos:])
	}
	return out
}
