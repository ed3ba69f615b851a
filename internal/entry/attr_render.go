package entry

import "strings"

// attrRenderers maps each attribute kind to its markup.
var attrRenderers = map[AttrKind]func(string) string{
	AttrPronunciation: func(v string) string {
		return "<span class='pr'>" + v + "</span>"
	},
	AttrPronunciationWarning: func(v string) string {
		return "<span class='pr'><span class='attention'>!</span> " + v + "</span>"
	},
	AttrLevel:        subAttr(AttrLevel),
	AttrReading:      subAttr(AttrReading),
	AttrSegmentation: subAttr(AttrSegmentation),
	AttrConjugation:  subAttr(AttrConjugation),
}

func subAttr(kind AttrKind) func(string) string {
	return func(v string) string {
		return "<span class='attr'><span class='" + kind.String() + "'>" + v + "</span></span>"
	}
}

// RenderAttr renders a single attribute value.
func RenderAttr(kind AttrKind, value string) string {
	if render, ok := attrRenderers[kind]; ok {
		return render(value)
	}
	return ""
}

// RenderPronunciations renders the pronunciation attributes shown in the
// entry title, in the given kind order.
func RenderPronunciations(attrs Attrs, order []AttrKind) string {
	var b strings.Builder
	for _, kind := range order {
		if !kind.IsPronunciation() {
			continue
		}
		if v, ok := attrs[kind]; ok {
			b.WriteString(RenderAttr(kind, v))
		}
	}
	return b.String()
}

// RenderSubAttrs renders conjugation, segmentation and level (and reading
// when withReading is set) as one attribute paragraph, or "" when none of
// them is present. Kinds are rendered in the given order.
func RenderSubAttrs(attrs Attrs, order []AttrKind, withReading bool) string {
	var b strings.Builder
	for _, kind := range order {
		if kind.IsPronunciation() || (kind == AttrReading && !withReading) {
			continue
		}
		if v, ok := attrs[kind]; ok {
			b.WriteString(RenderAttr(kind, v))
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "<p class='attr'>" + b.String() + "</p>"
}
