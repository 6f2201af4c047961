package parse

import (
	"strings"
	"unicode/utf8"
)

// DefaultHeaderSlack is how many characters longer than a region name a line
// may be and still count as that region's header.
const DefaultHeaderSlack = 5

// HeaderDetector decides whether line is a region header. It returns the
// canonical reference name on a match.
type HeaderDetector func(line string, refs []string) (string, bool)

// SubstringHeader matches a line that equals a reference name, or contains
// one while being shorter than the name plus slack characters. The length
// bound keeps data rows such as "West Bengal Hills 30.1 9.0" from being read
// as headers. Comparison is case-insensitive and refs are tried in order.
func SubstringHeader(slack int) HeaderDetector {
	return func(line string, refs []string) (string, bool) {
		lower := strings.ToLower(strings.TrimSpace(line))
		n := utf8.RuneCountInString(lower)
		for _, ref := range refs {
			r := strings.ToLower(ref)
			if lower == r {
				return ref, true
			}
			if strings.Contains(lower, r) && n < utf8.RuneCountInString(r)+slack {
				return ref, true
			}
		}
		return "", false
	}
}

// ExactHeader matches only lines equal to a reference name, ignoring case.
func ExactHeader(line string, refs []string) (string, bool) {
	for _, ref := range refs {
		if strings.EqualFold(strings.TrimSpace(line), ref) {
			return ref, true
		}
	}
	return "", false
}
