package strategy

import (
	"GoIK/internal/chars"
	"GoIK/internal/dict"
	"GoIK/internal/lexeme"
	"GoIK/internal/scan"
)

const cjkName = "cjk"

// CJK proposes CN_WORD candidates for every main dictionary word found in
// the window, including words nested in longer ones.
type CJK struct {
	hits []dict.Hit
}

// NewCJK creates a CJK strategy.
func NewCJK() *CJK {
	return &CJK{}
}

// Name returns "cjk".
func (s *CJK) Name() string { return cjkName }

// Analyze extends the pending dictionary prefixes over the rune under the
// cursor and starts a new one there.
func (s *CJK) Analyze(ctx *scan.Context) {
	cur := ctx.Cursor()
	buf := ctx.Buffer()
	view := ctx.View()

	if ctx.CurrentCharType() != chars.Useless {
		kept := s.hits[:0]
		for _, h := range s.hits {
			h = view.MatchWithHit(buf, cur, h)
			if h.IsMatch() {
				ctx.AddCandidate(ctx.NewLexeme(h.Begin, cur-h.Begin+1, lexeme.TypeCNWord))
			}
			if h.IsPrefix() {
				kept = append(kept, h)
			}
		}
		s.hits = kept

		single := view.MatchMain(buf, cur, 1)
		if single.IsMatch() {
			ctx.AddCandidate(ctx.NewLexeme(cur, 1, lexeme.TypeCNWord))
		}
		if single.IsPrefix() {
			s.hits = append(s.hits, single)
		}
	} else {
		s.hits = s.hits[:0]
	}

	if ctx.IsBufferConsumed() {
		s.hits = s.hits[:0]
	}

	if len(s.hits) > 0 {
		start := s.hits[0].Begin
		for _, h := range s.hits[1:] {
			start = min(start, h.Begin)
		}
		ctx.Hold(cjkName, start)
	} else {
		ctx.Release(cjkName)
	}
}

// Reset drops the pending prefixes.
func (s *CJK) Reset() {
	s.hits = s.hits[:0]
}
