// Package htmlio adapts the diff engine's Event stream (internal/diff) to
// and from real HTML text using golang.org/x/net/html. It is the only
// package that touches HTML as text: the diff engine itself never imports
// golang.org/x/net/html.
package htmlio

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dpotapov/htmldiff/internal/diff"
)

// voidTags lists HTML void elements: tags with no children, self-closed on
// output and represented internally as a Start immediately followed by its
// own End.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ParseFragment parses html as an HTML fragment and wraps it under one root
// element with the given tag and class attribute, yielding a flat Event
// stream. It never raises on malformed-but-recoverable HTML, since
// golang.org/x/net/html's tokenizer is itself forgiving, and empty input
// yields just the wrapper's Start/End.
func ParseFragment(htmlSrc, wrapperElement, wrapperClass string) ([]diff.Event, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(htmlSrc), context)
	if err != nil {
		return nil, &diff.ParseFailureError{Reason: "parse HTML fragment", Err: err}
	}

	events := make([]diff.Event, 0, 64)
	events = append(events, diff.NewStart(wrapperElement, diff.Attrs{{Key: "class", Val: wrapperClass}}, diff.Pos{}))
	for _, n := range nodes {
		events = appendNodeEvents(events, n)
	}
	events = append(events, diff.NewEnd(wrapperElement, diff.Pos{}))
	return events, nil
}

func appendNodeEvents(events []diff.Event, n *html.Node) []diff.Event {
	switch n.Type {
	case html.TextNode:
		return append(events, diff.NewText(n.Data, diff.Pos{}))
	case html.ElementNode:
		tag := n.Data // localname; golang.org/x/net/html already strips namespace prefixes
		attrs := make(diff.Attrs, 0, len(n.Attr))
		for _, a := range n.Attr {
			attrs = append(attrs, diff.Attribute{Key: a.Key, Val: a.Val})
		}
		events = append(events, diff.NewStart(tag, attrs, diff.Pos{}))
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			events = appendNodeEvents(events, c)
		}
		events = append(events, diff.NewEnd(tag, diff.Pos{}))
		return events
	case html.CommentNode, html.DoctypeNode:
		// Comments and doctypes never participate in alignment or
		// rendering differences relevant to this engine; dropping them
		// keeps the event stream free of tokens the atomizer would have
		// to special-case for no visual benefit.
		return events
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			events = appendNodeEvents(events, c)
		}
		return events
	}
}

// Serialize writes an Event stream back to HTML text:
// attribute values are escaped, void elements self-close, attribute and
// event order is preserved, and no extra whitespace is injected around
// tags.
func Serialize(w io.Writer, events []diff.Event) error {
	var b strings.Builder

	for _, ev := range events {
		switch ev.Kind {
		case diff.Start:
			b.WriteString(openTag(ev.Tag, ev.Attrs, voidTags[ev.Tag]))
		case diff.End:
			// A void element's Start already self-closed; its paired End
			// produces no output.
			if voidTags[ev.Tag] {
				continue
			}
			b.WriteString("</")
			b.WriteString(ev.Tag)
			b.WriteByte('>')
		case diff.TextEvent:
			b.WriteString(escapeText(ev.Text))
		}
	}
	_, err := w.Write([]byte(b.String()))
	return err
}

// SerializeString is a convenience wrapper around Serialize for callers
// that just want the resulting HTML as a string.
func SerializeString(events []diff.Event) (string, error) {
	var b strings.Builder
	if err := Serialize(&b, events); err != nil {
		return "", err
	}
	return b.String(), nil
}

func openTag(tag string, attrs diff.Attrs, void bool) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Val))
		b.WriteByte('"')
	}
	if void {
		b.WriteString("/>")
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
