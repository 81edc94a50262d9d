package diff

import "regexp"

// structuralTags are tags whose children's identity depends on placement;
// they are never nested inside <ins>/<del> and instead carry a class marker
// when changed.
var structuralTags = stringSet([]string{
	"table", "thead", "tbody", "tfoot", "tr", "td", "th", "ul", "ol", "li",
})

// blockWrapperTags wrap a line-level unit and are best deleted/inserted
// whole.
var blockWrapperTags = stringSet([]string{
	"p", "h1", "h2", "h3", "h4", "h5", "h6",
})

// inlineFormattingTags are wrappers with no structural identity.
var inlineFormattingTags = stringSet([]string{
	"span", "strong", "b", "em", "i", "u",
})

var voidTags = stringSet([]string{
	"br", "img", "hr", "input", "meta", "link", "area", "base", "col",
	"embed", "param", "source", "track", "wbr",
})

var tableRowContainerTags = stringSet([]string{"thead", "tbody", "tfoot"})

func isStructural(tag string) bool       { return structuralTags[tag] }
func isBlockWrapper(tag string) bool     { return blockWrapperTags[tag] }
func isInlineFormatting(tag string) bool { return inlineFormattingTags[tag] }
func isVoid(tag string) bool             { return voidTags[tag] }

// listMarkerPrefix matches a leading bullet/number marker such as "1. ",
// "- ", "* ", "a) " so that paragraph text can be compared against list item
// text that differs only by the marker the browser/editor prepends.
var listMarkerPrefix = regexp.MustCompile(`^(\s*([0-9]+|[a-zA-Z])[.)]\s+|\s*[-*•]\s+)`)

func stripListMarker(s string) string {
	return listMarkerPrefix.ReplaceAllString(s, "")
}
