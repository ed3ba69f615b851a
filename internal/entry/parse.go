// Package entry turns one line of the Eijiro flat-text format into a
// rendered dictionary record.
//
// A source line looks like
//
//	■abandon {動-1} : 見捨てる◆【発音】əbǽndən、【変化】abandons | abandoning
//
// The record marker ■ is followed by the headword, an optional class label in
// braces, the record colon and the annotated description.
package entry

import (
	"errors"
	"regexp"

	"github.com/runger/eijiro/internal/wordutil"
)

// RecordMarker prefixes every record line.
const RecordMarker = "■"

// ErrNotARecord is returned for lines without the "■left : right" shape.
// Loaders count and skip these lines.
var ErrNotARecord = errors.New("not a record line")

var (
	lineRe = regexp.MustCompile(`^■(.+?)\s:\s(.+)`)
	leftRe = regexp.MustCompile(`(.+)\{(.+)\}`)
)

// Fields are the three raw parts of a record line.
type Fields struct {
	Word  string
	Klass string
	Desc  string
}

// ParseLine splits a newline-stripped source line into its fields.
// The first " : " separates the left part from the description, so
// cross-reference blocks in the description may contain the separator.
func ParseLine(line string) (Fields, error) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, ErrNotARecord
	}
	word, klass := ParseLeft(m[1])
	return Fields{Word: word, Klass: klass, Desc: m[2]}, nil
}

// ParseLeft splits "word{class}" into headword and class label.
// The class is empty when no braces are present.
func ParseLeft(left string) (word, klass string) {
	if m := leftRe.FindStringSubmatch(left); m != nil {
		return wordutil.NormalizeHeadword(m[1]), m[2]
	}
	return wordutil.NormalizeHeadword(left), ""
}
