package fileio

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText converts an uploaded CSV to UTF-8. Excel on Romanian Windows exports
// Windows-1250, so that is the fallback when detection is inconclusive.
func DecodeText(b []byte) (string, error) {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return string(b[len(bomUTF8):]), nil
	case bytes.HasPrefix(b, bomUTF16LE), bytes.HasPrefix(b, bomUTF16BE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err != nil {
			return "", ErrUndecodable
		}
		return string(out), nil
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return "", ErrUndecodable
	}
	if utf8.Valid(b) {
		return string(b), nil
	}

	out, err := legacyDecoder(b).Bytes(b)
	if err != nil {
		return "", ErrUndecodable
	}
	return string(out), nil
}

func legacyDecoder(b []byte) *encoding.Decoder {
	peek := b
	if len(peek) > 4096 {
		peek = peek[:4096]
	}
	cs := ""
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		cs = strings.ToLower(det.Charset)
	}
	switch cs {
	case "iso-8859-2":
		return charmap.ISO8859_2.NewDecoder()
	case "iso-8859-16":
		return charmap.ISO8859_16.NewDecoder()
	case "windows-1252", "iso-8859-1":
		return charmap.Windows1252.NewDecoder()
	default:
		return charmap.Windows1250.NewDecoder()
	}
}

// Tokenize splits CSV text into rows of trimmed cells.
// Lines are split first, so a newline inside quotes ends the row; quoted cells
// spanning lines are not supported. Blank lines never produce a row.
func Tokenize(text string) [][]string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, tokenizeLine(line))
	}
	return rows
}

func tokenizeLine(line string) []string {
	var (
		cells   []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuote && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			inQuote = !inQuote
		case c == ',' && !inQuote:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(cells, strings.TrimSpace(cur.String()))
}
