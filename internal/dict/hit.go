package dict

// HitState is a bit set describing how a rune sequence relates to the
// dictionary.
type HitState uint8

const (
	Unmatch HitState = 0
	Match   HitState = 1 << 0
	Prefix  HitState = 1 << 1
)

// Hit is the result of a dictionary match. A prefix Hit can be extended one
// rune at a time with View.MatchWithHit; Begin and End are indexes into the
// rune slice the match was run against (End inclusive).
type Hit struct {
	State HitState
	Begin int
	End   int

	node *node
}

// IsMatch reports whether the matched runes form a complete word.
func (h Hit) IsMatch() bool { return h.State&Match != 0 }

// IsPrefix reports whether the matched runes are a prefix of a longer word.
func (h Hit) IsPrefix() bool { return h.State&Prefix != 0 }

// IsUnmatch reports whether the matched runes are neither a word nor a prefix.
func (h Hit) IsUnmatch() bool { return h.State == Unmatch }

func hitAt(n *node, begin, end int) Hit {
	h := Hit{Begin: begin, End: end, node: n}
	if n == nil {
		return h
	}
	if n.word {
		h.State |= Match
	}
	if len(n.kids) > 0 {
		h.State |= Prefix
	}
	return h
}
