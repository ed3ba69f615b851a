package entry

import "regexp"

// splitDropTrailing splits s around re and drops trailing empty fields.
// A leading empty field is kept when s starts with a separator.
func splitDropTrailing(re *regexp.Regexp, s string) []string {
	parts := re.Split(s, -1)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
