package domain

import "strings"

// Slugify derives a URL-safe slug from a name: lowercase letters and
// digits with single dashes between words. Any other rune acts as a
// separator so "The Forest Hiker!" becomes "the-forest-hiker".
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
