package listing

import "strings"

// Slug lowercases s and collapses every non-alphanumeric run into a single
// dash, suitable for a path segment. "Yamaha TMAX 560" -> "yamaha-tmax-560".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
