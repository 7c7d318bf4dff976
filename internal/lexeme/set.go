package lexeme

import "slices"

// Set is an ordered collection of candidate lexemes with no two entries on
// the same span. Entries stay sorted by Compare.
type Set struct {
	items []Lexeme
}

// Add inserts l in order. If a candidate with the same span is already
// present the set is left unchanged and Add returns false, so the first
// strategy to propose a span owns it.
func (s *Set) Add(l Lexeme) bool {
	i, found := slices.BinarySearchFunc(s.items, l, Compare)
	if found {
		return false
	}
	s.items = slices.Insert(s.items, i, l)
	return true
}

// Len returns the number of candidates.
func (s *Set) Len() int {
	return len(s.items)
}

// Items returns the candidates in order. The slice must not be modified.
func (s *Set) Items() []Lexeme {
	return s.items
}

// Retain drops every candidate for which keep returns false.
func (s *Set) Retain(keep func(Lexeme) bool) {
	s.items = slices.DeleteFunc(s.items, func(l Lexeme) bool { return !keep(l) })
}

// Clear removes all candidates.
func (s *Set) Clear() {
	s.items = s.items[:0]
}
