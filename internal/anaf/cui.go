// Package anaf validates Romanian fiscal codes (CUI) and looks companies up in
// the ANAF public VAT registry.
package anaf

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCUI = errors.New("invalid CUI")
	ErrUpstream   = errors.New("anaf upstream error")
)

const cuiKey = "753217532"

// NormalizeCUI strips an optional RO prefix and whitespace.
func NormalizeCUI(s string) string {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	return strings.TrimPrefix(s, "RO")
}

// ValidateCUI returns the normalized digits of s, or ErrInvalidCUI when s is
// not 2-10 digits or its control digit does not match.
func ValidateCUI(s string) (string, error) {
	cui := NormalizeCUI(s)
	if len(cui) < 2 || len(cui) > 10 {
		return "", ErrInvalidCUI
	}
	for _, r := range cui {
		if r < '0' || r > '9' {
			return "", ErrInvalidCUI
		}
	}

	body := cui[:len(cui)-1]
	// right-align the body against the 9-digit key
	offset := len(cuiKey) - len(body)
	sum := 0
	for i := range len(body) {
		sum += int(body[i]-'0') * int(cuiKey[offset+i]-'0')
	}
	ctrl := sum * 10 % 11
	if ctrl == 10 {
		ctrl = 0
	}
	if ctrl != int(cui[len(cui)-1]-'0') {
		return "", ErrInvalidCUI
	}
	return cui, nil
}
