package textutil

import "strings"

// SanitizeFileName makes a song title safe to use as a file name. Path
// separators, colons, and asterisks become dashes so word boundaries stay
// visible; quoting and redirection characters are dropped outright.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteByte('-')
		case '?', '"', '<', '>', '|':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
