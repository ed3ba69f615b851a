package entry

import (
	"regexp"
	"strings"
)

// ConjugationMarker opens the inflected-forms section of a description.
const ConjugationMarker = "【変化】"

var (
	conjSectionRe = regexp.MustCompile(`【変化】([^【■]+)`)
	conjAsideRe   = regexp.MustCompile(`《.+?》`)
	conjSplitRe   = regexp.MustCompile(`[^a-zA-Z()]+`)
	conjAltRe     = regexp.MustCompile(`\(.+?\)`)
	parenStripper = strings.NewReplacer("(", "", ")", "")
)

// Conjugations extracts the inflected forms listed after 【変化】.
//
// Annotation asides such as 《複》 are dropped and the remainder is split on
// anything that is not an ASCII letter or parenthesis. A token with an
// optional segment, travel(l)ed, yields both spellings: travelled, traveled.
// Tokens are neither validated nor deduplicated.
func Conjugations(desc string) []string {
	m := conjSectionRe.FindStringSubmatch(desc)
	if m == nil {
		return []string{}
	}

	section := conjAsideRe.ReplaceAllString(m[1], "")
	tokens := splitDropTrailing(conjSplitRe, section)

	forms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if conjAltRe.MatchString(tok) {
			forms = append(forms,
				parenStripper.Replace(tok),
				conjAltRe.ReplaceAllString(tok, ""),
			)
			continue
		}
		forms = append(forms, tok)
	}
	return forms
}
