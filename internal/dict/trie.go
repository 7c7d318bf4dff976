package dict

import (
	"slices"
	"sort"
)

// node is a trie node. Nodes reachable from a published View are never
// mutated; writers copy every node on the path they touch.
type node struct {
	r    rune
	word bool
	kids []*node // sorted by r
}

func (n *node) child(r rune) *node {
	i := sort.Search(len(n.kids), func(i int) bool { return n.kids[i].r >= r })
	if i < len(n.kids) && n.kids[i].r == r {
		return n.kids[i]
	}
	return nil
}

// lookup walks text from the root and returns the node reached, or nil.
func (n *node) lookup(text []rune) *node {
	cur := n
	for _, r := range text {
		if cur = cur.child(r); cur == nil {
			return nil
		}
	}
	return cur
}

// txn batches writes against one trie root. Nodes created or copied inside
// the batch are owned by it and may be mutated in place; all other nodes are
// shared with published views and are copied before modification.
type txn struct {
	root  *node
	owned map[*node]struct{}
}

func newTxn(root *node) *txn {
	return &txn{root: root, owned: make(map[*node]struct{})}
}

func (t *txn) own(n *node) *node {
	if _, ok := t.owned[n]; ok {
		return n
	}
	c := &node{r: n.r, word: n.word, kids: slices.Clone(n.kids)}
	t.owned[c] = struct{}{}
	return c
}

// insert adds word and reports whether it was absent.
func (t *txn) insert(word []rune) bool {
	if len(word) == 0 {
		return false
	}
	if n := t.root.lookup(word); n != nil && n.word {
		return false
	}

	t.root = t.own(t.root)
	cur := t.root
	for _, r := range word {
		i := sort.Search(len(cur.kids), func(i int) bool { return cur.kids[i].r >= r })
		var next *node
		if i < len(cur.kids) && cur.kids[i].r == r {
			next = t.own(cur.kids[i])
			cur.kids[i] = next
		} else {
			next = &node{r: r}
			t.owned[next] = struct{}{}
			cur.kids = slices.Insert(cur.kids, i, next)
		}
		cur = next
	}
	cur.word = true
	return true
}

// remove clears word and prunes branches left without words. It reports
// whether the word was present.
func (t *txn) remove(word []rune) bool {
	if n := t.root.lookup(word); n == nil || !n.word || len(word) == 0 {
		return false
	}

	t.root = t.own(t.root)
	path := make([]*node, 0, len(word)+1)
	path = append(path, t.root)
	cur := t.root
	for _, r := range word {
		i := sort.Search(len(cur.kids), func(i int) bool { return cur.kids[i].r >= r })
		next := t.own(cur.kids[i])
		cur.kids[i] = next
		path = append(path, next)
		cur = next
	}
	cur.word = false

	for i := len(path) - 1; i > 0; i-- {
		n := path[i]
		if n.word || len(n.kids) > 0 {
			break
		}
		parent := path[i-1]
		parent.kids = slices.DeleteFunc(parent.kids, func(k *node) bool { return k == n })
	}
	return true
}
