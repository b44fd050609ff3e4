package manifest

import "strings"

// HumanizeName turns a repository slug into a display name: hyphens and
// underscores become spaces, and a lowercase ASCII letter at the start of the
// string or after a space is upper-cased. Other characters are left alone.
func HumanizeName(slug string) string {
	b := []byte(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	for i, c := range b {
		if c >= 'a' && c <= 'z' && (i == 0 || b[i-1] == ' ') {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
