// Package wordclass classifies part-of-speech labels and orders them by a
// fixed priority table.
package wordclass

import (
	"fmt"
	"regexp"
	"strconv"
)

// UnknownPrefix prefixes the major key of classes missing from the table so
// they sort after every known class.
const UnknownPrefix = "ZZZ"

// DefaultMinor is the minor key of labels without a sense number.
const DefaultMinor = "0000"

// Class is one row of the priority table.
type Class struct {
	Key      string
	Label    string
	Priority int
}

// table is the fixed priority table. Lower priorities sort first.
var table = []Class{
	{"名", "名詞", 1},
	{"代", "代名詞", 2},
	{"形", "形容詞", 3},
	{"動", "動詞", 4},
	{"他動", "他動詞", 5},
	{"自動", "自動詞", 6},
	{"助", "助動詞", 7},
	{"句動", "句動詞", 8},
	{"副", "副詞", 9},
	{"接", "接続詞", 10},
	{"間", "間投詞", 11},
	{"前", "前置詞", 12},
	{"略", "略語", 13},
	{"組織", "組織名（会社名、団体名など）", 14},
}

var byKey = func() map[string]Class {
	m := make(map[string]Class, len(table))
	for _, c := range table {
		m[c.Key] = c
	}
	return m
}()

// Table returns a copy of the priority table in priority order.
func Table() []Class {
	out := make([]Class, len(table))
	copy(out, table)
	return out
}

// Lookup returns the table row for a class key.
func Lookup(key string) (Class, bool) {
	c, ok := byKey[key]
	return c, ok
}

// Descriptor is a classified label.
type Descriptor struct {
	Class string // class key extracted from the label
	Label string // display label, the table label or the raw class
	Major string // "%04d" priority, or UnknownPrefix+Class
	Minor string // zero-padded sense numbers
}

// Known reports whether the class is in the priority table.
func (d Descriptor) Known() bool {
	_, ok := byKey[d.Class]
	return ok
}

// Less orders descriptors by major key, then minor key.
func (d Descriptor) Less(other Descriptor) bool {
	if d.Major != other.Major {
		return d.Major < other.Major
	}
	return d.Minor < other.Minor
}

type shape struct {
	re    *regexp.Regexp
	class int
	nums  []int
}

// shapes are tried in order; the first match wins.
var shapes = []shape{
	{regexp.MustCompile(`(\d+)-(\D+)-(\d+)`), 2, []int{1, 3}},
	{regexp.MustCompile(`(\d+)-(\D+)`), 2, []int{1}},
	{regexp.MustCompile(`(\D+)-(\d+)`), 1, []int{2}},
}

// Classify parses a raw class label such as "12-動-3", "動-5", "7-動" or "動".
func Classify(label string) Descriptor {
	class, minor := label, DefaultMinor
	for _, s := range shapes {
		m := s.re.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		class = m[s.class]
		minor = ""
		for i, n := range s.nums {
			if i > 0 {
				minor += "-"
			}
			minor += pad(m[n])
		}
		break
	}

	d := Descriptor{Class: class, Label: class, Minor: minor}
	if c, ok := byKey[class]; ok {
		d.Label = c.Label
		d.Major = fmt.Sprintf("%04d", c.Priority)
	} else {
		d.Major = UnknownPrefix + class
	}
	return d
}

// pad zero-pads a decimal sense number to four digits. Numbers too large to
// parse keep their digits.
func pad(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits
	}
	return fmt.Sprintf("%04d", n)
}
