// Package chars classifies and regularizes runes before they reach the
// matching strategies.
package chars

import (
	"unicode"

	"golang.org/x/text/width"
)

// CharType is the coarse class of a rune as seen by the strategies.
type CharType uint8

const (
	// Useless covers whitespace, punctuation and any rune no strategy matches.
	Useless CharType = iota
	// Arabic is an ASCII digit.
	Arabic
	// English is an ASCII letter.
	English
	// Chinese is a Han ideograph.
	Chinese
	// OtherCJK covers kana, hangul and the remaining East Asian scripts.
	OtherCJK
)

func (t CharType) String() string {
	switch t {
	case Arabic:
		return "arabic"
	case English:
		return "english"
	case Chinese:
		return "chinese"
	case OtherCJK:
		return "other_cjk"
	default:
		return "useless"
	}
}

var otherCJK = []*unicode.RangeTable{
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Bopomofo,
}

// Identify returns the CharType of r. Callers are expected to pass
// regularized runes, so full-width digits and letters are already ASCII.
func Identify(r rune) CharType {
	switch {
	case r >= '0' && r <= '9':
		return Arabic
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return English
	case unicode.Is(unicode.Han, r):
		return Chinese
	case unicode.In(r, otherCJK...):
		return OtherCJK
	}
	return Useless
}

// Regularize folds full-width forms to their narrow equivalents (including
// the ideographic space) and optionally lowercases the result.
func Regularize(r rune, lowercase bool) rune {
	if n := width.LookupRune(r).Narrow(); n != 0 {
		r = n
	}
	if lowercase {
		r = unicode.ToLower(r)
	}
	return r
}

// RegularizeString applies Regularize to every rune of s.
func RegularizeString(s string, lowercase bool) string {
	out := []rune(s)
	for i, r := range out {
		out[i] = Regularize(r, lowercase)
	}
	return string(out)
}
