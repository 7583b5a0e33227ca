package career

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// slugAlphabet is the character set for the random suffix appended to every
// generated slug. Matches the namespace rules of the cache keys: URL-safe,
// lower-cased, no colon.
const slugAlphabet = "0123456789_abcdefghijklmnopqrstuvwxyz-"

// slugSuffixLen is the length of the random suffix.
const slugSuffixLen = 12

// GenerateSlug derives a URL-safe, unique-within-scope identifier from a
// human title: the slugified title plus a 12-character random suffix.
// Titles that slugify to nothing still get a usable suffix-only slug.
func GenerateSlug(title string) string {
	base := Slugify(title)
	suffix := randomSuffix(slugSuffixLen)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// Slugify lower-cases title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	return b.String()
}

// randomSuffix draws n characters from slugAlphabet using UUID-sourced
// entropy. Two UUIDs provide 32 random bytes, more than enough for n <= 32.
func randomSuffix(n int) string {
	entropy := make([]byte, 0, 32)
	for len(entropy) < n {
		u := uuid.New()
		entropy = append(entropy, u[:]...)
	}

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = slugAlphabet[int(entropy[i])%len(slugAlphabet)]
	}
	return string(out)
}
