package plate

import (
	"regexp"
	"strings"
)

var (
	// stripRe removes anything that is not a plate character. Raw recognizer
	// output carries dashes, dots, whitespace and the occasional OCR garbage.
	stripRe = regexp.MustCompile(`[^A-Z0-9]+`)

	// civilianRe matches a 2-digit province code, a series of one letter
	// optionally followed by a second letter or digit, and a 3-5 digit
	// suffix. The second series character is lazy so that a 5-digit suffix
	// wins over a digit-bearing series ("29A12345" is 29A-123.45, not
	// 29A1-2345).
	civilianRe = regexp.MustCompile(`^(\d{2})([A-Z][A-Z0-9]??)(\d{3,5})$`)

	// militaryRe matches military and other special plates: a 2-letter
	// prefix and a 3-5 digit suffix.
	militaryRe = regexp.MustCompile(`^([A-Z]{2})(\d{3,5})$`)
)

// Normalize cleans raw recognizer text into the canonical display form:
// uppercase, a dash between prefix and suffix, and a dot before the last two
// digits of a 5-digit suffix. Input that matches no known grammar comes back
// as the best-effort cleaned string; Normalize never fails.
func Normalize(raw string) string {
	s := stripRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")
	if m := civilianRe.FindStringSubmatch(s); m != nil {
		return m[1] + m[2] + "-" + dotSuffix(m[3])
	}
	if m := militaryRe.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + dotSuffix(m[2])
	}
	return s
}

// Valid reports whether the string, once cleaned, matches one of the known
// Vietnamese plate grammars. Callers decide what to do with invalid plates;
// an unrecognized string still normalizes and can be stored as-is.
func Valid(raw string) bool {
	s := stripRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")
	return civilianRe.MatchString(s) || militaryRe.MatchString(s)
}

func dotSuffix(digits string) string {
	if len(digits) == 5 {
		return digits[:3] + "." + digits[3:]
	}
	return digits
}
