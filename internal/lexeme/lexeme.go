// Package lexeme defines the token value type shared by the scanner, the
// matching strategies and the arbitrator.
package lexeme

import (
	"cmp"
	"fmt"
)

// Type tags what kind of span a Lexeme covers.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeEnglish
	TypeArabic
	TypeLetter
	TypeCNWord
	TypeCNChar
	TypeOtherCJK
	TypeCNum
	TypeCount
	TypeCQuan
	TypeOther
)

var typeNames = [...]string{
	TypeUnknown:  "UNKNOWN",
	TypeEnglish:  "ENGLISH",
	TypeArabic:   "ARABIC",
	TypeLetter:   "LETTER",
	TypeCNWord:   "CN_WORD",
	TypeCNChar:   "CN_CHAR",
	TypeOtherCJK: "OTHER_CJK",
	TypeCNum:     "TYPE_CNUM",
	TypeCount:    "COUNT",
	TypeCQuan:    "TYPE_CQUAN",
	TypeOther:    "OTHER",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Lexeme is a matched span of the input stream.
//
// Start and Length are measured in runes; Start is absolute within the
// stream, not relative to the scan window. A Lexeme is a value and must not
// be mutated after it has been emitted.
type Lexeme struct {
	Start  int
	Length int
	Type   Type
	Text   string

	// Parts holds the constituents of a combined lexeme (numeral followed by
	// a classifier, for example). Nil for plain lexemes.
	Parts []Lexeme
}

// End returns the absolute offset one past the last rune of l.
func (l Lexeme) End() int {
	return l.Start + l.Length
}

// Overlaps reports whether l and o share at least one rune.
func (l Lexeme) Overlaps(o Lexeme) bool {
	return l.Start < o.End() && o.Start < l.End()
}

// SameSpan reports whether l and o cover exactly the same runes.
func (l Lexeme) SameSpan(o Lexeme) bool {
	return l.Start == o.Start && l.Length == o.Length
}

func (l Lexeme) String() string {
	return fmt.Sprintf("%d-%d : %s : %s", l.Start, l.End(), l.Text, l.Type)
}

// Compare orders lexemes by start ascending, then length descending.
func Compare(a, b Lexeme) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(b.Length, a.Length)
}

// Join combines a and a directly following b into one lexeme of type t.
// It returns false when b does not start where a ends.
func Join(a, b Lexeme, t Type) (Lexeme, bool) {
	if a.End() != b.Start {
		return a, false
	}
	parts := a.Parts
	if parts == nil {
		parts = []Lexeme{a}
	}
	joined := Lexeme{
		Start:  a.Start,
		Length: a.Length + b.Length,
		Type:   t,
		Text:   a.Text + b.Text,
		Parts:  append(append([]Lexeme(nil), parts...), b),
	}
	return joined, true
}
