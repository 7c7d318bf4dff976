package dict

// View is an immutable snapshot of every trie in a Dictionary. All lookups
// made through one View observe the same generation.
type View struct {
	Generation uint64

	main       *node
	quantifier *node
	stop       *node
}

// MatchMain matches text[begin:begin+length] against the main dictionary.
func (v *View) MatchMain(text []rune, begin, length int) Hit {
	return match(v.main, text, begin, length)
}

// MatchQuantifier matches text[begin:begin+length] against the classifier
// dictionary.
func (v *View) MatchQuantifier(text []rune, begin, length int) Hit {
	return match(v.quantifier, text, begin, length)
}

// MatchWithHit extends a prefix hit by text[index]. The hit must come from
// this View and index must directly follow h.End.
func (v *View) MatchWithHit(text []rune, index int, h Hit) Hit {
	if h.node == nil || index != h.End+1 || index >= len(text) {
		return Hit{Begin: h.Begin, End: index}
	}
	return hitAt(h.node.child(text[index]), h.Begin, index)
}

// IsStopWord reports whether text[begin:begin+length] is a stop word.
func (v *View) IsStopWord(text []rune, begin, length int) bool {
	return match(v.stop, text, begin, length).IsMatch()
}

// ContainsMain reports whether word is an enabled main dictionary entry.
// The word must already be regularized.
func (v *View) ContainsMain(word []rune) bool {
	n := v.main.lookup(word)
	return len(word) > 0 && n != nil && n.word
}

func match(root *node, text []rune, begin, length int) Hit {
	if length <= 0 || begin < 0 || begin+length > len(text) {
		return Hit{Begin: begin, End: begin + length - 1}
	}
	return hitAt(root.lookup(text[begin:begin+length]), begin, begin+length-1)
}
