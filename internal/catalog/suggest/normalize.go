package suggest

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 2,5 -> 2.5
var decComma = regexp.MustCompile(`(\d),(\d)`)

const unitWord = `mm|cm|m|kg|t|buc`

// "40 mm" -> "40mm", so a dimension and its unit stay one token
var reAttachNumUnit = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s+(` + unitWord + `)\b`)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize lowercases, folds Romanian diacritics, keeps letters, digits,
// '.', 'x' separators and glues number+unit pairs.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = decComma.ReplaceAllString(s, "$1.$2")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	return reAttachNumUnit.ReplaceAllString(out, "$1$2")
}

func tokenSort(s string) string {
	t := strings.Fields(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}

func trigrams(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	r := []rune(" " + s + " ")
	if len(r) < 3 {
		m[string(r)] = struct{}{}
		return m
	}
	for i := 0; i+3 <= len(r); i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}
