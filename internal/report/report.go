// Package report exports the diff-id groups produced by internal/diff as a
// machine-readable XML summary built with github.com/beevik/etree: create a
// document, build elements top-down with CreateElement/CreateAttr, then
// write it out.
package report

import (
	"io"

	"github.com/beevik/etree"

	"github.com/dpotapov/htmldiff/internal/diff"
)

// Kind classifies one reported change group by what survived it: the
// tagdiff_added/tagdiff_deleted/tagdiff_replaced markers and paired ins/del
// all collapse to one of insert, delete or replace for reporting purposes.
type Kind string

const (
	KindInsert  Kind = "insert"
	KindDelete  Kind = "delete"
	KindReplace Kind = "replace"
)

// Change is one diff-id group: its kind and the old/new text snippets that
// belong to it.
type Change struct {
	ID      string
	Kind    Kind
	OldText string
	NewText string
}

// Collect walks a combined output event stream (the result of RenderDiff or
// DiffEventStreams) and groups its <ins>/<del>/tagdiff_* marked content by
// diff id.
func Collect(events []diff.Event, diffIDAttr string) []Change {
	groups := map[string]*Change{}
	var order []string

	get := func(id string) *Change {
		if c, ok := groups[id]; ok {
			return c
		}
		c := &Change{ID: id}
		groups[id] = c
		order = append(order, id)
		return c
	}

	var walk func(events []diff.Event, inDel, inIns bool)
	walk = func(events []diff.Event, inDel, inIns bool) {
		i := 0
		for i < len(events) {
			ev := events[i]
			switch ev.Kind {
			case diff.Start:
				id, hasID := ev.Attrs.Get(diffIDAttr)
				cls, _ := ev.Attrs.Get("class")
				nextDel, nextIns := inDel, inIns
				switch {
				case ev.Tag == "del":
					nextDel = true
				case ev.Tag == "ins":
					nextIns = true
				case containsWord(cls, "tagdiff_deleted"):
					nextDel = true
				case containsWord(cls, "tagdiff_added"):
					nextIns = true
				}
				end := matchEnd(events, i)
				if hasID && (nextDel != inDel || nextIns != inIns) {
					text := collectText(events[i : end+1])
					c := get(id)
					if nextDel {
						c.OldText += text
					}
					if nextIns {
						c.NewText += text
					}
				}
				walk(events[i+1:end], nextDel, nextIns)
				i = end + 1
			default:
				i++
			}
		}
	}
	walk(events, false, false)

	out := make([]Change, 0, len(order))
	for _, id := range order {
		c := groups[id]
		switch {
		case c.OldText != "" && c.NewText != "":
			c.Kind = KindReplace
		case c.OldText != "":
			c.Kind = KindDelete
		default:
			c.Kind = KindInsert
		}
		out = append(out, *c)
	}
	return out
}

func matchEnd(events []diff.Event, start int) int {
	tag := events[start].Tag
	depth := 0
	for i := start; i < len(events); i++ {
		switch events[i].Kind {
		case diff.Start:
			if events[i].Tag == tag {
				depth++
			}
		case diff.End:
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

func collectText(events []diff.Event) string {
	var out string
	for _, e := range events {
		if e.Kind == diff.TextEvent {
			out += e.Text
		}
	}
	return out
}

func containsWord(classes, word string) bool {
	start := 0
	for start <= len(classes) {
		end := start
		for end < len(classes) && classes[end] != ' ' {
			end++
		}
		if classes[start:end] == word {
			return true
		}
		start = end + 1
	}
	return false
}

// Write serializes changes as an XML document to w, one <change> element
// per group carrying <old>/<new> children.
func Write(w io.Writer, changes []Change) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("changes")

	for _, c := range changes {
		ce := root.CreateElement("change")
		ce.CreateAttr("id", c.ID)
		ce.CreateAttr("kind", string(c.Kind))
		if c.OldText != "" {
			ce.CreateElement("old").SetText(c.OldText)
		}
		if c.NewText != "" {
			ce.CreateElement("new").SetText(c.NewText)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
