// Package strategy holds the matching strategies that propose candidate
// lexemes while the scan cursor walks the window.
package strategy

import "GoIK/internal/scan"

// Strategy proposes candidate lexemes for the rune under the cursor.
//
// Analyze is called once per cursor position, in stream order, and
// matches against the dictionary view pinned on the context. A strategy
// that is extending a span across positions must Hold its start on the
// context and Release it once the span is finished. Reset is called at the
// end of every buffer cycle; the unresolved tail is rescanned from scratch
// in the next one.
type Strategy interface {
	Name() string
	Analyze(ctx *scan.Context)
	Reset()
}

// Defaults returns the standard strategies in the order they run. The
// order matters: when two strategies propose the same span, the one that
// ran first owns it.
func Defaults() []Strategy {
	return []Strategy{
		NewLetter(),
		NewQuantifier(),
		NewCJK(),
	}
}
