package entry

import (
	"strings"
)

// ExamFlag marks entries that appear in university entrance exams.
// It carries no value and is deleted from descriptions.
const ExamFlag = "【大学入試】"

// boundaryGlyphs close any attribute block. Attributes have no closing
// bracket of their own: a block runs until the next section boundary.
var boundaryGlyphs = []rune{'◆', '【'}

// Drain extracts every attribute block from desc in DrainOrder and returns
// the attributes together with the residual description.
func Drain(desc string) (Attrs, string) {
	attrs := Attrs{}
	for _, kind := range DrainOrder {
		value, ok, rest := DrainAttr(kind, desc)
		if ok {
			attrs[kind] = value
		}
		desc = rest
	}
	return attrs, RemoveExamFlag(desc)
}

// DrainAttr extracts the first block of the given kind.
//
// The block starts at the kind's marker (position P, in characters) and ends
// at the nearest boundary glyph after the marker (Q). The character just
// before P is a separator in the source and is dropped with the block:
//
//	residual = desc[0:max(0,P-1)] + desc[Q:]
//
// Without a boundary the block runs to the end of desc and the residual is
// desc[0:max(0,P-1)]. ok is false when the marker does not occur.
func DrainAttr(kind AttrKind, desc string) (value string, ok bool, residual string) {
	marker := kind.Marker()
	bytePos := strings.Index(desc, marker)
	if bytePos < 0 {
		return "", false, desc
	}

	runes := []rune(desc)
	p := len([]rune(desc[:bytePos]))
	q := findBoundary(runes, p+len([]rune(marker)))

	head := string(runes[:max(0, p-1)])
	if q < 0 {
		return cleanAttrValue(string(runes[p:])), true, head
	}
	return cleanAttrValue(string(runes[p:q])), true, head + string(runes[q:])
}

// findBoundary returns the index of the nearest boundary glyph at or after
// from, or -1.
func findBoundary(runes []rune, from int) int {
	for i := from; i < len(runes); i++ {
		for _, g := range boundaryGlyphs {
			if runes[i] == g {
				return i
			}
		}
	}
	return -1
}

// cleanAttrValue drops one trailing 、 and one leading "label】" fragment,
// which is normally the block's own marker.
func cleanAttrValue(value string) string {
	value = strings.TrimSuffix(value, "、")
	if i := strings.Index(value, "】"); i > 0 {
		value = value[i+len("】"):]
	}
	return value
}

// RemoveExamFlag deletes every exam flag from desc.
func RemoveExamFlag(desc string) string {
	return strings.ReplaceAll(desc, ExamFlag, "")
}
