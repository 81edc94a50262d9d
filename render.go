package htmldiff

import (
	"github.com/dpotapov/htmldiff/internal/diff"
	"github.com/dpotapov/htmldiff/internal/htmlio"
)

// Diff renders oldHTML against newHTML using the default wrapper
// ("div", class "diff") and DefaultConfig. It is the common case of
// RenderDiff.
func Diff(oldHTML, newHTML string) (string, error) {
	return RenderDiff(oldHTML, newHTML, "div", "diff", DefaultConfig())
}

// RenderDiff parses oldHTML and newHTML as HTML fragments, runs the diff
// pipeline, and serializes the result into a single wrapper element. Output
// begins with "<wrapperElement class=\"wrapperClass\">" and ends with the
// matching close tag.
//
// The wrapper is pushed onto the emitter's tag stack directly, not routed
// through the diff pipeline itself, so no rewriter ever needs a special
// case for "this Start/End pair happens to be the synthetic root".
func RenderDiff(oldHTML, newHTML string, wrapperElement, wrapperClass string, cfg Config) (string, error) {
	out, err := RenderDiffEvents(oldHTML, newHTML, wrapperElement, wrapperClass, cfg)
	if err != nil {
		return "", err
	}
	return htmlio.SerializeString(out)
}

// RenderDiffEvents runs the same pipeline as RenderDiff but returns the
// combined output event stream instead of serialized HTML, for callers that
// want to inspect the diff-id groups directly (e.g. internal/report) rather
// than re-parsing rendered markup.
func RenderDiffEvents(oldHTML, newHTML string, wrapperElement, wrapperClass string, cfg Config) ([]Event, error) {
	oldEvents, err := htmlio.ParseFragment(oldHTML, wrapperElement, wrapperClass)
	if err != nil {
		return nil, err
	}
	newEvents, err := htmlio.ParseFragment(newHTML, wrapperElement, wrapperClass)
	if err != nil {
		return nil, err
	}

	ids := diff.NewIDAllocator()
	e := diff.NewEmitter(cfg, ids)
	e.Enter(wrapperElement, diff.Attrs{{Key: "class", Val: wrapperClass}})
	diff.Run(e, innerSlice(oldEvents), innerSlice(newEvents), cfg, ids)
	e.Leave(wrapperElement)
	e.LeaveAll()

	out := e.Output()
	if cfg.MergeAdjacentChangeTags {
		out = diff.MergeAdjacentChangeTags(out, cfg.DiffIDAttr)
	}
	return out, nil
}

// innerSlice strips the outer Start/End wrapper htmlio.ParseFragment always
// adds, returning just the fragment's own content events.
func innerSlice(events []Event) []Event {
	if len(events) < 2 {
		return nil
	}
	return events[1 : len(events)-1]
}
