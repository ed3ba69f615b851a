package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		word  string
		klass string
		desc  string
	}{
		{"no class", "■cat : a small feline", "cat", "", "a small feline"},
		{"class braces", "■cat{名} : a domestic animal", "cat", "名", "a domestic animal"},
		{"spaced class", "■abandon {動-1} : 見捨てる", "abandon", "動-1", "見捨てる"},
		{"phrase headword", "■give up {句動} : あきらめる", "give up", "句動", "あきらめる"},
		// The first " : " splits the line. Splitting at the last one would
		// make "a : b" the headword and cut references like <→cat : kitten>.
		{"separator in description", "■a : b : c", "a", "", "b : c"},
		{"reference in description", "■kitty : 子猫<→cat : kitten>", "kitty", "", "子猫<→cat : kitten>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.word, f.Word)
			assert.Equal(t, tt.klass, f.Klass)
			assert.Equal(t, tt.desc, f.Desc)
		})
	}
}

func TestParseLine_NotARecord(t *testing.T) {
	lines := []string{
		"",
		"cat : no marker",
		"■cat: no space before colon",
		"■cat :",
		"■ : ",
		"◆cat : wrong marker",
	}

	for _, line := range lines {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrNotARecord, "line %q", line)
	}
}

func TestParseLeft(t *testing.T) {
	tests := []struct {
		left  string
		word  string
		klass string
	}{
		{"cat", "cat", ""},
		{"cat ", "cat", ""},
		{"cat {名}", "cat", "名"},
		{"run{自動-2}", "run", "自動-2"},
		{"{名}", "{名}", ""}, // braces without a word are not a class
	}

	for _, tt := range tests {
		word, klass := ParseLeft(tt.left)
		assert.Equal(t, tt.word, word, "ParseLeft(%q) word", tt.left)
		assert.Equal(t, tt.klass, klass, "ParseLeft(%q) klass", tt.left)
	}
}
