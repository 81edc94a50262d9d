package diff

import (
	"regexp"
	"sort"
	"strings"
)

// Config enumerates every tunable of the diff engine. A zero Config is not
// usable directly; call DefaultConfig and override individual fields.
type Config struct {
	DeleteFirst bool

	LinebreakMarker string

	TrackAttrs []string

	VisualContainerTags []string
	VisualAtomizeTags   []string

	TokenizeText  bool
	TokenizeRegex *regexp.Regexp

	PreserveWhitespaceInDiff bool
	MergeAdjacentChangeTags  bool
	VisualReplaceInline      bool

	EnableListAtomization          bool
	EnableTableAtomization         bool
	EnableInlineWrapperAtomization bool

	ForceEventDiffOnEqualForTags []string
	WrapVoidTagChangesWithInsDel []string

	AddDiffIDs bool
	DiffIDAttr string

	SequenceMatchThreshold      int
	BulkReplaceSimilarityThresh float64
}

// defaultTokenizeRegex separates runs of word characters, runs of
// non-word/non-space characters, and runs of whitespace. Used both by the
// atomizer's text tokenization and the text-level differ.
var defaultTokenizeRegex = regexp.MustCompile(`[\p{L}\p{N}_]+|[ \t\r\n\f]+|[^\p{L}\p{N}_ \t\r\n\f]+`)

// DefaultConfig returns the engine's recommended default tunables.
func DefaultConfig() Config {
	return Config{
		DeleteFirst:                    true,
		LinebreakMarker:                "¶",
		TrackAttrs:                     []string{"style", "class", "src", "href", "ref", "data-ref"},
		VisualContainerTags:            []string{"span", "strong", "b", "em", "i", "u", "td", "th"},
		VisualAtomizeTags:              []string{"li", "p", "h1", "h2", "h3", "h4", "h5", "h6", "td", "th", "tr", "ul", "ol", "table", "span", "strong", "b", "em", "i", "u"},
		TokenizeText:                   true,
		TokenizeRegex:                  defaultTokenizeRegex,
		PreserveWhitespaceInDiff:       true,
		MergeAdjacentChangeTags:        true,
		VisualReplaceInline:            true,
		EnableListAtomization:          true,
		EnableTableAtomization:         true,
		EnableInlineWrapperAtomization: true,
		ForceEventDiffOnEqualForTags:   []string{"img"},
		WrapVoidTagChangesWithInsDel:   []string{"img"},
		AddDiffIDs:                     true,
		DiffIDAttr:                     "data-diff-id",
		SequenceMatchThreshold:         2,
		BulkReplaceSimilarityThresh:    0.30,
	}
}

func stringSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

// normalizeStyle implements the style-equality rule: split on ';',
// trim, lowercase property names, trim values, drop empties, sort
// lexicographically by property name, and rejoin.
func normalizeStyle(style string) string {
	parts := strings.Split(style, ";")
	type decl struct{ prop, val string }
	decls := make([]decl, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, ":", 2)
		prop := strings.ToLower(strings.TrimSpace(kv[0]))
		val := ""
		if len(kv) == 2 {
			val = strings.TrimSpace(kv[1])
		}
		if prop == "" {
			continue
		}
		decls = append(decls, decl{prop, val})
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].prop < decls[j].prop })
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(d.prop)
		b.WriteString(": ")
		b.WriteString(d.val)
	}
	return b.String()
}

// inheritableProps are the CSS properties a deleted rendering inherits from
// its old wrapper so the removed content keeps its pre-change appearance.
var inheritableProps = stringSet([]string{
	"font-family", "font-size", "font-style", "font-weight", "color",
})

// inheritableStyle extracts the inheritable declarations from an element's
// style attribute, or "" when there are none.
func inheritableStyle(attrs Attrs) string {
	style, ok := attrs.Get("style")
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(k))
		if !inheritableProps[prop] {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(v))
	}
	return b.String()
}

// addClass appends a class to an existing class attribute string, joined by
// a single space, preserving existing classes and not deduplicating.
func addClass(existing, cls string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return cls
	}
	return existing + " " + cls
}

// visualAttrSignature builds the normalized signature of a tag's visual
// attributes, used as part of block/visual-container atom keys. Attributes
// are visited in TrackAttrs order (then the implicit id) rather than input
// order, so the signature is stable regardless of how the source HTML
// ordered its attributes.
func visualAttrSignature(attrs Attrs, cfg Config) string {
	var b strings.Builder
	write := func(key string) {
		val, ok := attrs.Get(key)
		if !ok {
			return
		}
		if key == "style" {
			val = normalizeStyle(val)
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(val)
		b.WriteByte(';')
	}
	sawID := false
	for _, key := range cfg.TrackAttrs {
		write(key)
		if key == "id" {
			sawID = true
		}
	}
	if !sawID {
		write("id")
	}
	return b.String()
}

// attrsEqualVisual reports whether two attribute lists are equal once
// restricted to the visual-attribute set and style normalization is
// applied. Used by rewriters that decide whether "only a visual attribute
// changed".
func attrsEqualVisual(a, b Attrs, cfg Config) bool {
	return visualAttrSignature(a, cfg) == visualAttrSignature(b, cfg)
}
