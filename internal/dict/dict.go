// Package dict holds the process-wide vocabulary consulted by the matching
// strategies.
//
// Concurrency model:
//   - Readers call Snapshot and match against the returned *View without
//     taking any lock. A View is immutable.
//   - Writers (AddWords, DisableWords, ...) serialize on mu, path-copy the
//     trie nodes they touch and publish a complete new View with one atomic
//     store, so a reader sees either all or none of a batch.
//   - Every published View has a generation one greater than the previous.
package dict

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"GoIK/internal/chars"
)

type trieKind int

const (
	kindMain trieKind = iota
	kindQuantifier
	kindStop
)

func (k trieKind) String() string {
	switch k {
	case kindQuantifier:
		return "quantifier"
	case kindStop:
		return "stopword"
	default:
		return "main"
	}
}

// Stats summarizes the current dictionary contents.
type Stats struct {
	Generation  uint64 `json:"generation"`
	MainWords   int    `json:"main_words"`
	Quantifiers int    `json:"quantifiers"`
	StopWords   int    `json:"stop_words"`
}

// Dictionary is a concurrent, incrementally patched vocabulary.
type Dictionary struct {
	mu   sync.Mutex
	view atomic.Pointer[View]

	counts [3]int              // guarded by mu
	pinned map[string]struct{} // guarded by mu

	logger *slog.Logger
}

// New creates an empty Dictionary at generation 0.
func New(logger *slog.Logger) *Dictionary {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dictionary{logger: logger, pinned: make(map[string]struct{})}
	d.view.Store(&View{main: &node{}, quantifier: &node{}, stop: &node{}})
	return d
}

// Snapshot returns the current immutable View.
func (d *Dictionary) Snapshot() *View {
	return d.view.Load()
}

// Generation returns the generation of the current View.
func (d *Dictionary) Generation() uint64 {
	return d.view.Load().Generation
}

// AddWords merges words into the main dictionary and returns how many were
// new. Adding a present word is a no-op.
func (d *Dictionary) AddWords(words []string) int {
	return d.apply(kindMain, words, true)
}

// DisableWords retracts words from the main dictionary and returns how many
// were present.
func (d *Dictionary) DisableWords(words []string) int {
	return d.apply(kindMain, words, false)
}

// Pin marks words as owned by a static source. Pinning does not add them;
// it only lets dynamic sources ask whether a word must survive their
// retractions.
func (d *Dictionary) Pin(words []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range words {
		if rs := Normalize(w); len(rs) > 0 {
			d.pinned[string(rs)] = struct{}{}
		}
	}
}

// Pinned reports whether word was pinned by a static source.
func (d *Dictionary) Pinned(word string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pinned[string(Normalize(word))]
	return ok
}

// AddQuantifiers merges classifier words.
func (d *Dictionary) AddQuantifiers(words []string) int {
	return d.apply(kindQuantifier, words, true)
}

// AddStopWords merges stop words.
func (d *Dictionary) AddStopWords(words []string) int {
	return d.apply(kindStop, words, true)
}

// DisableStopWords retracts stop words.
func (d *Dictionary) DisableStopWords(words []string) int {
	return d.apply(kindStop, words, false)
}

// Contains reports whether word is an enabled main dictionary entry.
func (d *Dictionary) Contains(word string) bool {
	return d.Snapshot().ContainsMain(Normalize(word))
}

// IsStopWord reports whether word is a stop word.
func (d *Dictionary) IsStopWord(word string) bool {
	rs := Normalize(word)
	return d.Snapshot().IsStopWord(rs, 0, len(rs))
}

// Stats returns the entry counts of the current View.
func (d *Dictionary) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		Generation:  d.view.Load().Generation,
		MainWords:   d.counts[kindMain],
		Quantifiers: d.counts[kindQuantifier],
		StopWords:   d.counts[kindStop],
	}
}

// Normalize trims and regularizes a dictionary entry the same way the
// scanner regularizes input runes.
func Normalize(word string) []rune {
	return []rune(chars.RegularizeString(strings.TrimSpace(word), true))
}

func (d *Dictionary) apply(kind trieKind, words []string, add bool) int {
	if len(words) == 0 {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.view.Load()
	next := *cur

	var root **node
	switch kind {
	case kindQuantifier:
		root = &next.quantifier
	case kindStop:
		root = &next.stop
	default:
		root = &next.main
	}

	t := newTxn(*root)
	changed := 0
	for _, w := range words {
		rs := Normalize(w)
		if len(rs) == 0 {
			continue
		}
		var ok bool
		if add {
			ok = t.insert(rs)
		} else {
			ok = t.remove(rs)
		}
		if ok {
			changed++
		}
	}
	if changed == 0 {
		return 0
	}

	*root = t.root
	next.Generation = cur.Generation + 1
	d.view.Store(&next)

	if add {
		d.counts[kind] += changed
	} else {
		d.counts[kind] -= changed
	}

	d.logger.Debug("dictionary updated",
		"trie", kind.String(),
		"add", add,
		"requested", len(words),
		"changed", changed,
		"generation", next.Generation,
	)
	return changed
}
