// Package chunk merges every record of one headword into a single rendered
// dictionary entry.
package chunk

import (
	"sort"
	"strings"

	"github.com/runger/eijiro/internal/entry"
	"github.com/runger/eijiro/internal/wordclass"
)

// Options control entry rendering.
type Options struct {
	// ShowReading adds the kana reading to the attribute paragraph.
	ShowReading bool
}

// Item is one record with its classified label.
type Item struct {
	Class  wordclass.Descriptor
	Record *entry.Record
}

// Group holds the items sharing one major key, sorted by minor key.
type Group struct {
	Major string
	Label string
	Items []Item
}

// Chunk is the set of records sharing one headword identity.
type Chunk struct {
	Word      string
	ID        string
	Records   []*entry.Record
	Attrs     entry.Attrs
	AttrOrder []entry.AttrKind // kinds of Attrs in the order records first supplied them
	Groups    []Group
}

// New builds a chunk from records in storage order. The headword and
// identity are taken from the first record; records must not be empty.
func New(records []*entry.Record) *Chunk {
	c := &Chunk{
		Word:    records[0].Word,
		ID:      records[0].ID(),
		Records: records,
		Attrs:   entry.Attrs{},
	}
	for _, r := range records {
		c.AttrOrder = c.Attrs.Merge(c.AttrOrder, r.Attrs())
	}
	c.Groups = groupRecords(records)
	return c
}

// Empty reports whether no record has a non-empty body. Empty chunks are not
// rendered.
func (c *Chunk) Empty() bool {
	return len(c.Groups) == 0
}

func groupRecords(records []*entry.Record) []Group {
	byMajor := make(map[string]*Group)
	for _, r := range records {
		if r.Rendered() == "" {
			continue
		}
		d := wordclass.Classify(r.Klass)
		g, ok := byMajor[d.Major]
		if !ok {
			g = &Group{Major: d.Major, Label: d.Label}
			byMajor[d.Major] = g
		}
		g.Items = append(g.Items, Item{Class: d, Record: r})
	}

	groups := make([]Group, 0, len(byMajor))
	for _, g := range byMajor {
		sort.SliceStable(g.Items, func(i, j int) bool {
			return g.Items[i].Class.Minor < g.Items[j].Class.Minor
		})
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Major < groups[j].Major })
	return groups
}

// Render returns the entry block for the chunk. ok is false for empty chunks.
func (c *Chunk) Render(opts Options) (block string, ok bool) {
	if c.Empty() {
		return "", false
	}

	var b strings.Builder
	b.WriteString("<d:entry id='")
	b.WriteString(c.ID)
	b.WriteString("' d:title=")
	b.WriteString(entry.QuoteAttr(c.Word))
	b.WriteString(">\n<d:index d:value=")
	b.WriteString(entry.QuoteAttr(c.Word))
	b.WriteString("/>")
	for _, r := range c.Records {
		b.WriteString(r.ConjugationIndexes())
	}
	b.WriteString("\n<h1>")
	b.WriteString(entry.EscapeText(c.Word))
	b.WriteString(entry.RenderPronunciations(c.Attrs, c.AttrOrder))
	b.WriteString("</h1>\n")
	b.WriteString(entry.RenderSubAttrs(c.Attrs, c.AttrOrder, opts.ShowReading))
	for _, g := range c.Groups {
		b.WriteString(g.render())
	}
	b.WriteString("\n</d:entry>\n")
	return b.String(), true
}

func (g Group) render() string {
	var b strings.Builder
	if g.Label == "" {
		for _, it := range g.Items {
			b.WriteString("<p>")
			b.WriteString(it.Record.Body())
			b.WriteString("</p>")
		}
		return b.String()
	}

	b.WriteString("<span class='wordclass'>")
	b.WriteString(entry.EscapeText(g.Label))
	b.WriteString("</span><br/><ol>")
	for _, it := range g.Items {
		b.WriteString("<li>")
		b.WriteString(it.Record.Body())
		b.WriteString("</li>")
	}
	b.WriteString("</ol>")
	return b.String()
}
