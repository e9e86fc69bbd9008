package invoice

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NumberFunc draws the numeric part of an invoice number.
type NumberFunc func() int64

// RandomSuffix returns a random 10-digit number.
func RandomSuffix() int64 {
	return 1_000_000_000 + rand.Int64N(9_000_000_000)
}

// NumberPrefix takes the upper-cased initials of the first three words of a
// company name, e.g. "Leads To Company" -> "LTC".
func NumberPrefix(companyName string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(companyName) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 3 {
			break
		}
	}
	return b.String()
}

// GenerateNumber builds "<prefix>-<10 digits>". It does not check for
// collisions; callers retry on a uniqueness violation.
func GenerateNumber(companyName string, suffix NumberFunc) string {
	if suffix == nil {
		suffix = RandomSuffix
	}
	return fmt.Sprintf("%s-%d", NumberPrefix(companyName), suffix())
}
