package strategy

import (
	"strings"

	"GoIK/internal/chars"
	"GoIK/internal/lexeme"
	"GoIK/internal/scan"
)

const letterName = "letter"

// Connectors allowed inside a mixed letter run, as in "c++", "e-mail" or
// "user@example.com". A run never ends on a connector.
const letterConnectors = "#&+-.@_"

// Separators allowed between digits of an arabic run, as in "1,000.5".
const numConnectors = ",."

// run is an in-flight span of window positions, idle when start < 0.
type run struct {
	start, end int
}

func idle() run { return run{-1, -1} }

func (r run) active() bool { return r.start >= 0 }

// Letter proposes ENGLISH runs of ASCII letters, ARABIC runs of digits and
// LETTER runs mixing both with connectors.
type Letter struct {
	english run
	arabic  run
	mixed   run
}

// NewLetter creates a Letter strategy.
func NewLetter() *Letter {
	l := &Letter{}
	l.Reset()
	return l
}

// Name returns "letter".
func (l *Letter) Name() string { return letterName }

// Analyze advances every open run over the rune under the cursor.
func (l *Letter) Analyze(ctx *scan.Context) {
	l.english = l.scanRun(ctx, l.english, lexeme.TypeEnglish, isEnglish, "")
	l.arabic = l.scanRun(ctx, l.arabic, lexeme.TypeArabic, isArabic, numConnectors)
	l.mixed = l.scanRun(ctx, l.mixed, lexeme.TypeLetter, isLetter, letterConnectors)

	start := -1
	for _, r := range []run{l.english, l.arabic, l.mixed} {
		if r.active() && (start < 0 || r.start < start) {
			start = r.start
		}
	}
	if start >= 0 {
		ctx.Hold(letterName, start)
	} else {
		ctx.Release(letterName)
	}
}

// Reset closes every run without emitting it.
func (l *Letter) Reset() {
	l.english, l.arabic, l.mixed = idle(), idle(), idle()
}

// scanRun advances r over the rune under the cursor. Members extend the
// run, connectors are tolerated but never become its end, and anything
// else closes it.
func (l *Letter) scanRun(ctx *scan.Context, r run, t lexeme.Type, member func(chars.CharType) bool, connectors string) run {
	cur := ctx.Cursor()
	ct := ctx.CurrentCharType()

	switch {
	case !r.active():
		if member(ct) {
			r = run{cur, cur}
		}
	case member(ct):
		r.end = cur
	case ct == chars.Useless && strings.ContainsRune(connectors, ctx.CurrentChar()):
		// pending connector
	default:
		ctx.AddCandidate(ctx.NewLexeme(r.start, r.end-r.start+1, t))
		r = idle()
	}

	if r.active() && ctx.IsBufferConsumed() {
		ctx.AddCandidate(ctx.NewLexeme(r.start, r.end-r.start+1, t))
		r = idle()
	}
	return r
}

func isEnglish(ct chars.CharType) bool { return ct == chars.English }

func isArabic(ct chars.CharType) bool { return ct == chars.Arabic }

func isLetter(ct chars.CharType) bool { return ct == chars.English || ct == chars.Arabic }
