package entry

import (
	"strings"

	"github.com/runger/eijiro/internal/wordutil"
)

// Record is one sense of one headword. It is rendered once on construction
// and not modified afterwards.
type Record struct {
	Word         string
	Klass        string
	Desc         string
	Conjugations []string

	attrs Attrs
	body  string
}

// New builds and renders a record from parsed fields.
func New(f Fields) *Record {
	r := &Record{
		Word:         f.Word,
		Klass:        f.Klass,
		Desc:         f.Desc,
		Conjugations: Conjugations(f.Desc),
	}
	r.attrs, r.body = RenderBody(r.Desc)
	return r
}

// FromLine parses and renders a newline-stripped source line.
func FromLine(line string) (*Record, error) {
	f, err := ParseLine(line)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// FromRow rebuilds a record from its stored columns.
func FromRow(word, klass, desc string) *Record {
	return New(Fields{Word: word, Klass: klass, Desc: desc})
}

// ID returns the headword identity shared by all senses of the word.
func (r *Record) ID() string {
	return wordutil.Identity(r.Word)
}

// Attrs returns the attributes drained from the description.
func (r *Record) Attrs() Attrs {
	return r.attrs
}

// Body returns the rendered description without a paragraph wrapper.
func (r *Record) Body() string {
	return r.body
}

// Rendered returns the body wrapped in a paragraph, or "" for an empty body.
func (r *Record) Rendered() string {
	if r.body == "" {
		return ""
	}
	return "<p>" + r.body + "</p>"
}

// ConjugationIndexes renders one index node per conjugated form so the
// dictionary finds the entry from any inflection.
func (r *Record) ConjugationIndexes() string {
	var b strings.Builder
	for _, c := range r.Conjugations {
		b.WriteString("<d:index d:value=")
		b.WriteString(QuoteAttr(c))
		b.WriteString(" d:title=")
		b.WriteString(QuoteAttr(c + " (" + r.Word + ")"))
		b.WriteString("/>")
	}
	return b.String()
}
