package lexeme

// Path is an ordered run of lexemes together with the span it touches.
//
// A Path is built in one of two ways: AddCross accumulates a cluster of
// mutually overlapping candidates, AddNonCross builds a non-overlapping
// token path.
type Path struct {
	lexemes []Lexeme
	begin   int
	end     int
	payload int
}

// AddCross appends l if it overlaps the span of the path (or the path is
// empty). Lexemes must arrive in Compare order.
func (p *Path) AddCross(l Lexeme) bool {
	if len(p.lexemes) == 0 {
		p.lexemes = append(p.lexemes, l)
		p.begin, p.end = l.Start, l.End()
		p.payload = l.Length
		return true
	}
	if !p.Crosses(l) {
		return false
	}
	p.lexemes = append(p.lexemes, l)
	if l.End() > p.end {
		p.end = l.End()
	}
	p.payload = p.end - p.begin
	return true
}

// AddNonCross appends l if it does not overlap the span of the path.
// Lexemes must arrive in Compare order.
func (p *Path) AddNonCross(l Lexeme) bool {
	if len(p.lexemes) == 0 {
		p.lexemes = append(p.lexemes, l)
		p.begin, p.end = l.Start, l.End()
		p.payload = l.Length
		return true
	}
	if p.Crosses(l) {
		return false
	}
	p.lexemes = append(p.lexemes, l)
	p.payload += l.Length
	p.end = l.End()
	return true
}

// Crosses reports whether l overlaps the span [Begin, End) of the path.
func (p *Path) Crosses(l Lexeme) bool {
	return (l.Start >= p.begin && l.Start < p.end) ||
		(p.begin >= l.Start && p.begin < l.End())
}

// Begin returns the absolute start of the path.
func (p *Path) Begin() int { return p.begin }

// End returns the absolute end of the path.
func (p *Path) End() int { return p.end }

// Payload returns the number of runes covered by lexemes of the path.
func (p *Path) Payload() int { return p.payload }

// Len returns the number of lexemes in the path.
func (p *Path) Len() int { return len(p.lexemes) }

// Lexemes returns the lexemes of the path in order.
func (p *Path) Lexemes() []Lexeme { return p.lexemes }

// NewPath builds a non-overlapping path from ordered lexemes.
// It panics if two lexemes overlap.
func NewPath(ls []Lexeme) Path {
	var p Path
	for _, l := range ls {
		if !p.AddNonCross(l) {
			panic("lexeme: overlapping lexemes in path")
		}
	}
	return p
}
