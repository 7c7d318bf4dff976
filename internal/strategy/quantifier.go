package strategy

import (
	"slices"
	"strings"

	"GoIK/internal/chars"
	"GoIK/internal/dict"
	"GoIK/internal/lexeme"
	"GoIK/internal/scan"
)

const quantifierName = "quantifier"

const chineseNumerals = "一二两三四五六七八九十零壹贰叁肆伍陆柒捌玖拾百千万亿佰仟萬億兆卅廿"

func isChineseNumeral(r rune) bool {
	return strings.ContainsRune(chineseNumerals, r)
}

// Quantifier proposes TYPE_CNUM runs of Chinese numerals and COUNT
// classifiers from the quantifier dictionary that directly follow a
// numeral.
type Quantifier struct {
	num     run
	numHold int
	hits    []dict.Hit
	anchor  int
}

// NewQuantifier creates a Quantifier strategy.
func NewQuantifier() *Quantifier {
	q := &Quantifier{}
	q.Reset()
	return q
}

// Name returns "quantifier".
func (q *Quantifier) Name() string { return quantifierName }

// Analyze extends the numeral run and the pending classifiers over the
// rune under the cursor.
func (q *Quantifier) Analyze(ctx *scan.Context) {
	q.scanNumeral(ctx)
	q.scanCount(ctx)

	start := -1
	if q.num.active() {
		start = q.numHold
	}
	if len(q.hits) > 0 {
		if start < 0 || q.anchor < start {
			start = q.anchor
		}
	}
	if start >= 0 {
		ctx.Hold(quantifierName, start)
	} else {
		ctx.Release(quantifierName)
	}
}

// Reset drops the numeral run and any pending classifier.
func (q *Quantifier) Reset() {
	q.num = idle()
	q.numHold = -1
	q.hits = q.hits[:0]
	q.anchor = -1
}

func (q *Quantifier) scanNumeral(ctx *scan.Context) {
	cur := ctx.Cursor()
	numeral := ctx.CurrentCharType() == chars.Chinese && isChineseNumeral(ctx.CurrentChar())

	switch {
	case !q.num.active():
		if numeral {
			q.num = run{cur, cur}
			q.numHold = cur
			// Keep a directly preceding arabic number with the run so
			// the two can be compounded.
			if a, ok := endingAt(ctx, runStart(ctx, cur), cur, lexeme.TypeArabic); ok {
				q.numHold = a.Start - ctx.Origin()
			}
		}
	case numeral:
		q.num.end = cur
	default:
		q.emitNumeral(ctx)
	}

	if q.num.active() && ctx.IsBufferConsumed() {
		q.emitNumeral(ctx)
	}
}

func (q *Quantifier) emitNumeral(ctx *scan.Context) {
	ctx.AddCandidate(ctx.NewLexeme(q.num.start, q.num.end-q.num.start+1, lexeme.TypeCNum))
	q.num = idle()
}

func (q *Quantifier) scanCount(ctx *scan.Context) {
	if ctx.CurrentCharType() != chars.Chinese {
		q.hits = q.hits[:0]
		q.anchor = -1
		return
	}
	if !q.countable(ctx) {
		return
	}
	cur := ctx.Cursor()
	buf := ctx.Buffer()
	view := ctx.View()

	kept := q.hits[:0]
	for _, h := range q.hits {
		h = view.MatchWithHit(buf, cur, h)
		if h.IsMatch() {
			ctx.AddCandidate(ctx.NewLexeme(h.Begin, cur-h.Begin+1, lexeme.TypeCount))
		}
		if h.IsPrefix() {
			kept = append(kept, h)
		}
	}
	q.hits = kept

	single := view.MatchQuantifier(buf, cur, 1)
	if single.IsMatch() {
		ctx.AddCandidate(ctx.NewLexeme(cur, 1, lexeme.TypeCount))
	}
	if single.IsPrefix() {
		q.hits = append(q.hits, single)
	}

	if ctx.IsBufferConsumed() {
		q.hits = q.hits[:0]
	}
	if len(q.hits) == 0 {
		q.anchor = -1
	}
}

// countable reports whether a classifier may start or continue at the
// cursor: inside a numeral run, while a classifier prefix is pending, or
// right after a numeral candidate. It records where the whole numeral
// starts, including an arabic number in front of a Chinese one, so a
// pending classifier holds all of it back.
func (q *Quantifier) countable(ctx *scan.Context) bool {
	if len(q.hits) > 0 {
		return true
	}
	if q.num.active() {
		q.anchor = q.numHold
		return true
	}
	start, ok := numeralStart(ctx, ctx.Cursor())
	if !ok {
		return false
	}
	q.anchor = start
	return true
}

// numeralStart returns the window position where a numeral ending at end
// begins. An arabic number directly before a TYPE_CNUM run counts as part
// of it.
func numeralStart(ctx *scan.Context, end int) (int, bool) {
	lo := runStart(ctx, end)
	l, ok := endingAt(ctx, lo, end, lexeme.TypeCNum, lexeme.TypeArabic)
	if !ok {
		return 0, false
	}
	start := l.Start - ctx.Origin()
	if l.Type == lexeme.TypeCNum {
		if a, ok := endingAt(ctx, lo, start, lexeme.TypeArabic); ok {
			start = a.Start - ctx.Origin()
		}
	}
	return start, true
}

// runStart walks back from window position end over digits, Chinese
// numerals and number connectors.
func runStart(ctx *scan.Context, end int) int {
	buf := ctx.Buffer()
	i := end
	for i > 0 {
		r, ct := buf[i-1], ctx.CharTypeAt(i-1)
		if ct != chars.Arabic && !isChineseNumeral(r) && !strings.ContainsRune(numConnectors, r) {
			break
		}
		i--
	}
	return i
}

// endingAt finds the earliest starting candidate of one of types that
// ends at window position end and starts no earlier than lo.
func endingAt(ctx *scan.Context, lo, end int, types ...lexeme.Type) (lexeme.Lexeme, bool) {
	cs := ctx.Candidates()
	lo, end = ctx.Origin()+lo, ctx.Origin()+end
	var found lexeme.Lexeme
	ok := false
	for i := len(cs) - 1; i >= 0 && cs[i].Start >= lo; i-- {
		if cs[i].End() == end && slices.Contains(types, cs[i].Type) {
			found, ok = cs[i], true
		}
	}
	return found, ok
}
