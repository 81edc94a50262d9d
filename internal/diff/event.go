// Package diff implements the structural HTML diff engine: atomization,
// outer alignment, the text-level differ, the context-aware emitter, the
// specialized rewriters and the diff-id allocation and merge passes.
// Parsing and serialization live outside this package in internal/htmlio;
// this package only ever sees and produces Event values.
package diff

import "strings"

// Kind identifies which variant of Event a value holds.
type Kind uint8

const (
	// Start opens a tag.
	Start Kind = iota
	// End closes the matching tag. Closing an unmatched tag is a no-op in
	// the emitter, never an error.
	End
	// TextEvent carries character data. Empty text is permitted.
	TextEvent
)

// Pos is opaque source-position information. It is carried along with
// events but never consulted for alignment or equality; the htmlio parser
// adapter leaves it zero.
type Pos struct {
	Line, Col int
}

// Attribute is one name/value pair. Values are always strings, never nil.
type Attribute struct {
	Key string
	Val string
}

// Attrs is an insertion-ordered attribute list. Order matters for emission
// and is irrelevant for equality.
type Attrs []Attribute

// Get returns the value of the named attribute and whether it was present.
func (a Attrs) Get(key string) (string, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Val, true
		}
	}
	return "", false
}

// With returns a copy of a with key set to val, preserving the position of
// an existing key or appending a new one at the end.
func (a Attrs) With(key, val string) Attrs {
	out := make(Attrs, len(a))
	copy(out, a)
	for i := range out {
		if out[i].Key == key {
			out[i].Val = val
			return out
		}
	}
	return append(out, Attribute{Key: key, Val: val})
}

// equal reports whether two attribute lists carry the same key/value pairs,
// ignoring order.
func (a Attrs) equal(b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for _, at := range a {
		v, ok := b.Get(at.Key)
		if !ok || v != at.Val {
			return false
		}
	}
	return true
}

// Event is a single token of the parsed HTML stream. Only one of Tag/Attrs
// or Text is meaningful, depending on Kind.
type Event struct {
	Kind  Kind
	Tag   string // localname, namespace prefix already stripped
	Attrs Attrs
	Text  string
	Pos   Pos
}

// NewStart builds a Start event.
func NewStart(tag string, attrs Attrs, pos Pos) Event {
	return Event{Kind: Start, Tag: tag, Attrs: attrs, Pos: pos}
}

// NewEnd builds an End event.
func NewEnd(tag string, pos Pos) Event {
	return Event{Kind: End, Tag: tag, Pos: pos}
}

// NewText builds a Text event.
func NewText(text string, pos Pos) Event {
	return Event{Kind: TextEvent, Text: text, Pos: pos}
}

// Equal compares two events by variant and payload. Pos is never part of
// equality.
func (e Event) Equal(o Event) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case Start:
		return e.Tag == o.Tag && e.Attrs.equal(o.Attrs)
	case End:
		return e.Tag == o.Tag
	case TextEvent:
		return e.Text == o.Text
	}
	return false
}

// EventsEqual compares two event slices with Equal, element by element.
func EventsEqual(a, b []Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// collapseWS folds any whitespace run to a single space and trims the ends.
// Used throughout the atomizer and rewriters for text-based alignment keys.
func collapseWS(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			inWS = true
			continue
		}
		if inWS {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			inWS = false
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

// textOf returns the concatenated, unnormalized text of an event slice.
func textOf(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Kind == TextEvent {
			b.WriteString(e.Text)
		}
	}
	return b.String()
}
