package entry

// AttrKind identifies a bracket-delimited attribute embedded in a description.
type AttrKind int

// Attribute kinds in drain order. Later kinds are drained from the residual
// left by earlier ones.
const (
	AttrConjugation AttrKind = iota
	AttrSegmentation
	AttrReading
	AttrPronunciation
	AttrPronunciationWarning
	AttrLevel
)

// DrainOrder lists every attribute kind in the order it is extracted.
var DrainOrder = []AttrKind{
	AttrConjugation,
	AttrSegmentation,
	AttrReading,
	AttrPronunciation,
	AttrPronunciationWarning,
	AttrLevel,
}

var attrMarkers = map[AttrKind]string{
	AttrConjugation:          "【変化】",
	AttrSegmentation:         "【分節】",
	AttrReading:              "【＠】",
	AttrPronunciation:        "【発音】",
	AttrPronunciationWarning: "【発音！】",
	AttrLevel:                "【レベル】",
}

var attrNames = map[AttrKind]string{
	AttrConjugation:          "conj",
	AttrSegmentation:         "part",
	AttrReading:              "kana",
	AttrPronunciation:        "pronounce",
	AttrPronunciationWarning: "pronounce_attn",
	AttrLevel:                "level",
}

// Marker returns the opening bracket marker of the kind.
func (k AttrKind) Marker() string {
	return attrMarkers[k]
}

// String returns the short name used for the kind's CSS class.
func (k AttrKind) String() string {
	if name, ok := attrNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsPronunciation reports whether the kind renders into the entry title.
func (k AttrKind) IsPronunciation() bool {
	return k == AttrPronunciation || k == AttrPronunciationWarning
}

// Attrs maps attribute kinds to their cleaned values.
// An empty value is still present: the marker occurred with nothing after it.
type Attrs map[AttrKind]string

// Kinds returns the kinds present in a in drain order, which is the order
// a single record collects them in.
func (a Attrs) Kinds() []AttrKind {
	var kinds []AttrKind
	for _, k := range DrainOrder {
		if _, ok := a[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Merge copies every attribute of other into a, overwriting existing kinds.
// Kinds new to a are appended to order and the extended order is returned,
// so each kind keeps the position where it was first seen.
func (a Attrs) Merge(order []AttrKind, other Attrs) []AttrKind {
	for _, k := range other.Kinds() {
		if _, seen := a[k]; !seen {
			order = append(order, k)
		}
		a[k] = other[k]
	}
	return order
}
