package entry

import (
	"regexp"
	"strings"

	"github.com/runger/eijiro/internal/wordutil"
)

// ReferenceScheme prefixes cross-reference hrefs; the target is the
// referenced headword's identity.
const ReferenceScheme = "x-dictionary:r:"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

	breakReplacer = strings.NewReplacer("◆", "<br/>", "■・", "<br/>・")

	urlRe          = regexp.MustCompile(`https?://[A-Za-z0-9\-._~:/?#\[\]@!$&()*+,;=%]+`)
	referenceRe    = regexp.MustCompile(`&lt;→(.+?)&gt;`)
	referenceSepRe = regexp.MustCompile(`\s:\s`)
	annotationRe   = regexp.MustCompile(`\[.+?\]|\(.+?\)|\{.+?\}`)
	rubyRe         = regexp.MustCompile(`(\p{Han}+?)｛([\s\p{Katakana}\p{Hiragana}]+?)｝`)
)

// EscapeText escapes s for use as XML character data.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// QuoteAttr escapes s and wraps it in double quotes for use as an XML
// attribute value.
func QuoteAttr(s string) string {
	return `"` + attrEscaper.Replace(s) + `"`
}

// RenderBody escapes desc, drains its attributes and renders the residual
// into markup. The body is returned without a paragraph wrapper and is empty
// when nothing but attributes was present.
func RenderBody(desc string) (Attrs, string) {
	attrs, rest := Drain(EscapeText(desc))
	for _, render := range bodyRenderers {
		rest = render(rest)
	}
	return attrs, rest
}

// bodyRenderers run in order over the drained residual.
var bodyRenderers = []func(string) string{
	RenderBreaks,
	RenderURLs,
	RenderReferences,
	RenderRuby,
}

// RenderBreaks turns section separators into line breaks.
func RenderBreaks(desc string) string {
	return breakReplacer.Replace(desc)
}

// RenderURLs links http and https URLs to themselves.
func RenderURLs(desc string) string {
	return urlRe.ReplaceAllStringFunc(desc, func(u string) string {
		return "<a href='" + u + "'>" + u + "</a>"
	})
}

// RenderReferences links every sub-term of a <→a : b> block to the entry of
// the referenced headword.
func RenderReferences(desc string) string {
	return referenceRe.ReplaceAllStringFunc(desc, func(block string) string {
		inner := referenceRe.FindStringSubmatch(block)[1]
		terms := splitDropTrailing(referenceSepRe, inner)
		links := make([]string, 0, len(terms))
		for _, term := range terms {
			links = append(links, "<a href='"+ReferenceScheme+ReferenceTarget(term)+"'>"+strings.TrimSpace(term)+"</a>")
		}
		return "&lt;→" + strings.Join(links, " ; ") + "&gt;"
	})
}

// ReferenceTarget returns the identity a cross-reference sub-term links to.
// Bracketed annotations are removed before hashing but the remaining text is
// not trimmed, so "dog (animal)" targets "dog " rather than "dog".
func ReferenceTarget(term string) string {
	return wordutil.Identity(annotationRe.ReplaceAllString(term, ""))
}

// RenderRuby annotates kanji followed by a ｛kana｝ reading.
func RenderRuby(desc string) string {
	return rubyRe.ReplaceAllString(desc, "<ruby><rb>${1}</rb><rp>(</rp><rt>${2}</rt><rp>)</rp></ruby>")
}
