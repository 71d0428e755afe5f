package preferenceresolver

import (
	"regexp"
	"strings"
	"unicode"
)

// An @ only counts as a group marker at the start of a word, so addresses
// like jo@example.com are ignored.
var (
	groupSigil  = regexp.MustCompile(`(?:^|\s)@(\S*)`)
	markerSigil = regexp.MustCompile(`(?:^|\s)@\s*(\S*)`)
)

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// groupMarker reports whether text carries an @ marker and the group token
// written directly after it.
func groupMarker(text string) (token string, present bool) {
	m := groupSigil.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimFunc(m[1], func(r rune) bool { return !isAlnum(r) }), true
}

// isBareMarker reports an @ whose next word has no alphanumeric character.
// "dinner @ 7pm" is not bare: 7pm is the next word.
func isBareMarker(text string) bool {
	m := markerSigil.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	return strings.IndexFunc(m[1], isAlnum) < 0
}
