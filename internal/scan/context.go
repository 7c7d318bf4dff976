// Package scan implements the sliding rune window that the matching
// strategies walk over.
//
// A Context owns a fixed-size window of regularized runes, a cursor into
// it, the candidate lexemes proposed for the current window, the resolved
// paths produced by arbitration and a queue of finished lexemes. The
// segmenter drives it through a fill, scan, settle, output and shift cycle.
//
// A window is never cut in the middle of a match that is still in
// progress: strategies Hold the start of any span they are extending, and
// Settle only commits the prefix of the window that no hold or candidate
// crosses. The unresolved tail is shifted to the front of the window and
// scanned again once more input has arrived.
package scan

import (
	"fmt"
	"io"

	"GoIK/internal/chars"
	"GoIK/internal/dict"
	"GoIK/internal/lexeme"
)

const (
	// DefaultBufferSize is the window capacity in runes.
	DefaultBufferSize = 4096
	// DefaultLookahead is the distance from the end of a full window at
	// which scanning stops to refill.
	DefaultLookahead = 100
)

// State tracks where a Context is in its buffer cycle.
type State int

const (
	// NeedsFill means the window has to be (re)filled before scanning.
	NeedsFill State = iota
	// Scanning means the cursor is walking the window.
	Scanning
	// NeedsRefill means scanning stopped near the end of a full window.
	NeedsRefill
	// Drained means the input is exhausted and the window is empty.
	Drained
)

func (s State) String() string {
	switch s {
	case NeedsFill:
		return "needs_fill"
	case Scanning:
		return "scanning"
	case NeedsRefill:
		return "needs_refill"
	case Drained:
		return "drained"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Source is the input a Context fills from. *bufio.Reader satisfies it.
type Source interface {
	io.RuneReader
	// Buffered returns the number of bytes that can be read without
	// blocking.
	Buffered() int
}

// Options configures a Context.
type Options struct {
	BufferSize int
	Lookahead  int
	Lowercase  bool
}

// DefaultOptions returns the options used by the segmenter by default.
func DefaultOptions() Options {
	return Options{
		BufferSize: DefaultBufferSize,
		Lookahead:  DefaultLookahead,
		Lowercase:  true,
	}
}

// Context is the scan state for one input stream. It is not safe for
// concurrent use.
type Context struct {
	opts Options

	buf       []rune
	types     []chars.CharType
	available int
	origin    int
	cursor    int
	eof       bool
	state     State
	view      *dict.View

	holds      map[string]int
	candidates lexeme.Set
	paths      []lexeme.Path
	resolved   int

	results []lexeme.Lexeme
	head    int
}

// New creates a Context. Zero or out-of-range option values fall back to
// the defaults; the lookahead is clamped below the buffer size.
func New(opts Options) *Context {
	if opts.BufferSize <= 1 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultLookahead
	}
	if opts.Lookahead >= opts.BufferSize {
		opts.Lookahead = opts.BufferSize / 2
	}
	return &Context{
		opts:  opts,
		buf:   make([]rune, opts.BufferSize),
		types: make([]chars.CharType, opts.BufferSize),
		holds: make(map[string]int),
	}
}

// Options returns the effective options.
func (c *Context) Options() Options { return c.opts }

// SetView pins the dictionary snapshot strategies match against for the
// next buffer cycle.
func (c *Context) SetView(v *dict.View) { c.view = v }

// View returns the snapshot set by SetView.
func (c *Context) View() *dict.View { return c.view }

// FillBuffer tops up the window from src and returns the number of runes
// available for scanning, including any tail retained from the previous
// cycle. It blocks for at most one rune and then takes whatever src has
// already buffered. A zero return means the input is exhausted.
func (c *Context) FillBuffer(src Source) (int, error) {
	if !c.eof && c.available < len(c.buf) {
		if err := c.read(src); err != nil {
			return c.available, err
		}
	}
	if c.available == 0 {
		c.state = Drained
	} else {
		c.state = NeedsFill
	}
	return c.available, nil
}

func (c *Context) read(src Source) error {
	r, _, err := src.ReadRune()
	if err == io.EOF {
		c.eof = true
		return nil
	}
	if err != nil {
		return err
	}
	c.put(r)
	for c.available < len(c.buf) && src.Buffered() > 0 {
		r, _, err = src.ReadRune()
		if err == io.EOF {
			c.eof = true
			return nil
		}
		if err != nil {
			return err
		}
		c.put(r)
	}
	return nil
}

func (c *Context) put(r rune) {
	r = chars.Regularize(r, c.opts.Lowercase)
	c.buf[c.available] = r
	c.types[c.available] = chars.Identify(r)
	c.available++
}

// InitCursor positions the cursor on the first rune of the window.
func (c *Context) InitCursor() {
	if c.available == 0 {
		panic("scan: InitCursor on empty window")
	}
	c.cursor = 0
	c.state = Scanning
}

// MoveCursor advances the cursor by one rune. It returns false when the
// cursor is already on the last available rune.
func (c *Context) MoveCursor() bool {
	if c.cursor < c.available-1 {
		c.cursor++
		return true
	}
	return false
}

// Cursor returns the cursor position relative to the window.
func (c *Context) Cursor() int { return c.cursor }

// Origin returns the absolute stream offset of the first rune in the
// window.
func (c *Context) Origin() int { return c.origin }

// Available returns the number of valid runes in the window.
func (c *Context) Available() int { return c.available }

// Buffer returns the valid part of the window. The slice is only valid
// until the next FillBuffer or MarkBufferOffset and must not be modified.
func (c *Context) Buffer() []rune { return c.buf[:c.available] }

// CurrentChar returns the regularized rune under the cursor.
func (c *Context) CurrentChar() rune { return c.buf[c.cursor] }

// CurrentCharType returns the class of the rune under the cursor.
func (c *Context) CurrentCharType() chars.CharType { return c.types[c.cursor] }

// CharTypeAt returns the class of the rune at window position i.
func (c *Context) CharTypeAt(i int) chars.CharType { return c.types[i] }

// EOF reports whether the input has been read to the end.
func (c *Context) EOF() bool { return c.eof }

// State returns the current cycle state.
func (c *Context) State() State { return c.state }

// IsBufferConsumed reports whether the cursor is on the last rune that
// will be scanned in this window. Strategies flush any in-flight span
// when it returns true.
func (c *Context) IsBufferConsumed() bool {
	return c.cursor == c.available-1 && (c.eof || c.available == len(c.buf))
}

// Hold records that owner is extending a span starting at window position
// start. Nothing at or after start is committed while the hold exists.
func (c *Context) Hold(owner string, start int) {
	if start < 0 || start > c.cursor {
		panic(fmt.Sprintf("scan: hold at %d outside [0,%d]", start, c.cursor))
	}
	c.holds[owner] = start
}

// Release drops the hold of owner, if any.
func (c *Context) Release(owner string) {
	delete(c.holds, owner)
}

// NeedRefillBuffer reports whether scanning should stop so the window can
// be shifted and refilled. That is the case when the window is full, the
// input is not exhausted, the cursor has entered the lookahead zone and
// at least one rune can be committed.
func (c *Context) NeedRefillBuffer() bool {
	if c.eof || c.available < len(c.buf) {
		return false
	}
	if c.cursor < c.available-c.opts.Lookahead {
		return false
	}
	if c.boundary() <= 0 {
		return false
	}
	c.state = NeedsRefill
	return true
}

// boundary returns the window position up to which everything is
// resolved: one past the cursor, lowered to the earliest hold and then to
// the start of any candidate crossing it.
func (c *Context) boundary() int {
	if c.eof && c.cursor == c.available-1 {
		return c.available
	}
	p := c.cursor + 1
	for _, h := range c.holds {
		if h < p {
			p = h
		}
	}
	for changed := true; changed; {
		changed = false
		for _, l := range c.candidates.Items() {
			s, e := l.Start-c.origin, l.End()-c.origin
			if s < p && e > p {
				p = s
				changed = true
			}
		}
	}
	return p
}

// Settle fixes the resolved prefix of the window and drops candidates that
// reach past it; they will be proposed again when the tail is rescanned.
// A full window that would otherwise resolve nothing is committed up to
// the cursor so the stream always makes progress.
func (c *Context) Settle() {
	p := c.boundary()
	if p <= 0 && c.available == len(c.buf) {
		p = c.cursor + 1
	}
	if p < 0 {
		p = 0
	}
	c.resolved = p
	end := c.origin + p
	c.candidates.Retain(func(l lexeme.Lexeme) bool { return l.End() <= end })
}

// Resolved returns the number of window runes committed by Settle.
func (c *Context) Resolved() int { return c.resolved }

// NewLexeme builds a lexeme at window position start.
func (c *Context) NewLexeme(start, length int, t lexeme.Type) lexeme.Lexeme {
	return lexeme.Lexeme{Start: c.origin + start, Length: length, Type: t}
}

// AddCandidate registers a candidate lexeme. If a candidate with the same
// span already exists the first one is kept. It panics if l lies outside
// the window.
func (c *Context) AddCandidate(l lexeme.Lexeme) bool {
	rel := l.Start - c.origin
	if l.Length <= 0 || rel < 0 || rel+l.Length > c.available {
		panic(fmt.Sprintf("scan: candidate %v outside window [%d,%d)", l, c.origin, c.origin+c.available))
	}
	return c.candidates.Add(l)
}

// Candidates returns the candidates in Compare order. The slice must not
// be modified.
func (c *Context) Candidates() []lexeme.Lexeme { return c.candidates.Items() }

// AddPath records a resolved path. Paths must be added in stream order.
func (c *Context) AddPath(p lexeme.Path) {
	c.paths = append(c.paths, p)
}

// OutputToResult turns the resolved paths into finished lexemes and fills
// every uncovered rune of the resolved prefix with a single-rune lexeme,
// so the output covers the prefix without gaps or overlaps.
func (c *Context) OutputToResult() {
	index := 0
	for _, p := range c.paths {
		for _, l := range p.Lexemes() {
			rel := l.Start - c.origin
			if rel < index || rel+l.Length > c.resolved {
				panic(fmt.Sprintf("scan: path lexeme %v outside resolved range [%d,%d)", l, c.origin+index, c.origin+c.resolved))
			}
			for ; index < rel; index++ {
				c.emitSingle(index)
			}
			l.Text = string(c.buf[rel : rel+l.Length])
			c.results = append(c.results, l)
			index = rel + l.Length
		}
	}
	for ; index < c.resolved; index++ {
		c.emitSingle(index)
	}
	c.paths = c.paths[:0]
}

func (c *Context) emitSingle(i int) {
	var t lexeme.Type
	switch c.types[i] {
	case chars.Chinese:
		t = lexeme.TypeCNChar
	case chars.OtherCJK:
		t = lexeme.TypeOtherCJK
	case chars.English:
		t = lexeme.TypeEnglish
	case chars.Arabic:
		t = lexeme.TypeArabic
	default:
		t = lexeme.TypeOther
	}
	c.results = append(c.results, lexeme.Lexeme{
		Start:  c.origin + i,
		Length: 1,
		Type:   t,
		Text:   string(c.buf[i]),
	})
}

// MarkBufferOffset shifts the unresolved tail to the front of the window
// and clears the per-cycle state.
func (c *Context) MarkBufferOffset() {
	p := c.resolved
	copy(c.buf, c.buf[p:c.available])
	copy(c.types, c.types[p:c.available])
	c.available -= p
	c.origin += p
	c.cursor = 0
	c.resolved = 0
	c.candidates.Clear()
	c.paths = c.paths[:0]
	clear(c.holds)
	c.state = NeedsFill
}

// NextLexeme pops the next finished lexeme.
func (c *Context) NextLexeme() (lexeme.Lexeme, bool) {
	if c.head >= len(c.results) {
		c.results = c.results[:0]
		c.head = 0
		return lexeme.Lexeme{}, false
	}
	l := c.results[c.head]
	c.results[c.head] = lexeme.Lexeme{}
	c.head++
	return l, true
}

// PeekLexeme returns the next finished lexeme without removing it.
func (c *Context) PeekLexeme() (lexeme.Lexeme, bool) {
	if c.head >= len(c.results) {
		return lexeme.Lexeme{}, false
	}
	return c.results[c.head], true
}

// Reset returns the Context to its initial state for a new stream.
func (c *Context) Reset() {
	c.available = 0
	c.origin = 0
	c.cursor = 0
	c.eof = false
	c.state = NeedsFill
	c.view = nil
	c.resolved = 0
	c.candidates.Clear()
	c.paths = c.paths[:0]
	clear(c.holds)
	c.results = c.results[:0]
	c.head = 0
}
