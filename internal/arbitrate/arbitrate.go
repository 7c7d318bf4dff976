// Package arbitrate resolves overlapping candidate lexemes into a single
// non-overlapping path per cluster.
package arbitrate

import (
	"cmp"
	"slices"

	"GoIK/internal/lexeme"
	"GoIK/internal/scan"
)

// Arbitrator groups the candidates of a scan window into clusters of
// mutually overlapping lexemes and picks one path through each cluster.
type Arbitrator struct{}

// New creates an Arbitrator.
func New() *Arbitrator {
	return &Arbitrator{}
}

// Process reads the settled candidates of ctx and records one resolved
// path per cluster, in stream order. In smart mode each cluster resolves
// to its maximum-coverage path; otherwise the greedy path is used.
func (a *Arbitrator) Process(ctx *scan.Context, smart bool) {
	var cluster lexeme.Path
	flush := func() {
		if cluster.Len() == 0 {
			return
		}
		ctx.AddPath(a.resolve(cluster.Lexemes(), smart))
		cluster = lexeme.Path{}
	}
	for _, l := range ctx.Candidates() {
		if !cluster.AddCross(l) {
			flush()
			cluster.AddCross(l)
		}
	}
	flush()
}

func (a *Arbitrator) resolve(ls []lexeme.Lexeme, smart bool) lexeme.Path {
	if len(ls) == 1 || !smart {
		return Greedy(ls)
	}
	return MaxCoverage(ls)
}

// Greedy walks ls in Compare order and keeps every lexeme that does not
// overlap the ones already kept, so the longest lexeme at the earliest
// free start wins.
func Greedy(ls []lexeme.Lexeme) lexeme.Path {
	var p lexeme.Path
	for _, l := range ls {
		p.AddNonCross(l)
	}
	return p
}

// choice is a node of the best path found starting with ls[idx].
type choice struct {
	idx   int
	next  *choice
	cover int
	count int
}

// MaxCoverage returns the non-overlapping subset of ls that covers the
// most runes. Ties prefer fewer lexemes, then earlier start offsets, then
// longer lexemes at the first difference. ls must be in Compare order.
//
// best[i] is the best path starting with ls[i] and suf[i] the best of
// best[i:], so the tail of ls[i] is suf[k] for the first k starting at or
// after its end. Two different heads never tie past their first lexeme,
// which keeps the whole pass at O(n log n).
func MaxCoverage(ls []lexeme.Lexeme) lexeme.Path {
	n := len(ls)
	if n == 0 {
		return lexeme.Path{}
	}
	best := make([]*choice, n)
	suf := make([]*choice, n+1)
	for i := n - 1; i >= 0; i-- {
		k, _ := slices.BinarySearchFunc(ls[i+1:], ls[i].End(), func(l lexeme.Lexeme, end int) int {
			return cmp.Compare(l.Start, end)
		})
		tail := suf[i+1+k]
		c := &choice{idx: i, next: tail, cover: ls[i].Length, count: 1}
		if tail != nil {
			c.cover += tail.cover
			c.count += tail.count
		}
		best[i] = c

		suf[i] = c
		if next := suf[i+1]; next != nil && better(next, c, ls) {
			suf[i] = next
		}
	}

	var p lexeme.Path
	for c := suf[0]; c != nil; c = c.next {
		p.AddNonCross(ls[c.idx])
	}
	return p
}

// better reports whether path a ranks strictly above path b.
func better(a, b *choice, ls []lexeme.Lexeme) bool {
	if a.cover != b.cover {
		return a.cover > b.cover
	}
	if a.count != b.count {
		return a.count < b.count
	}
	for x, y := a, b; x != nil && y != nil; x, y = x.next, y.next {
		lx, ly := ls[x.idx], ls[y.idx]
		if lx.Start != ly.Start {
			return lx.Start < ly.Start
		}
		if lx.Length != ly.Length {
			return lx.Length > ly.Length
		}
	}
	return false
}
