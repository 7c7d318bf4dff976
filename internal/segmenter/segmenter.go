// Package segmenter turns a rune stream into a sequence of lexemes.
package segmenter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"GoIK/internal/arbitrate"
	"GoIK/internal/dict"
	"GoIK/internal/lexeme"
	"GoIK/internal/scan"
	"GoIK/internal/strategy"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("segmenter: invalid config")

// Config controls segmentation.
type Config struct {
	// Smart selects maximum-coverage arbitration and numeral/classifier
	// compounding. When false every cluster resolves greedily.
	Smart bool `toml:"smart" yaml:"smart" json:"smart"`
	// Lowercase folds ASCII and fullwidth letters to lower case.
	Lowercase bool `toml:"lowercase" yaml:"lowercase" json:"lowercase"`
	// BufferSize is the scan window capacity in runes.
	BufferSize int `toml:"buffer_size" yaml:"buffer_size" json:"buffer_size"`
	// Lookahead is the refill distance from the end of a full window.
	Lookahead int `toml:"lookahead" yaml:"lookahead" json:"lookahead"`
}

// DefaultConfig returns smart segmentation with the default window.
func DefaultConfig() Config {
	return Config{
		Smart:      true,
		Lowercase:  true,
		BufferSize: scan.DefaultBufferSize,
		Lookahead:  scan.DefaultLookahead,
	}
}

// Validate checks the window settings.
func (c Config) Validate() error {
	if c.BufferSize < 2 {
		return fmt.Errorf("%w: buffer_size %d must be at least 2", ErrInvalidConfig, c.BufferSize)
	}
	if c.Lookahead < 1 || c.Lookahead >= c.BufferSize {
		return fmt.Errorf("%w: lookahead %d must be in [1, %d)", ErrInvalidConfig, c.Lookahead, c.BufferSize)
	}
	return nil
}

// Segmenter produces lexemes from one input stream at a time. Next and
// Reset may be called from different goroutines; calls are serialized.
type Segmenter struct {
	mu sync.Mutex

	id         string
	cfg        Config
	dict       *dict.Dictionary
	input      *bufio.Reader
	ctx        *scan.Context
	strategies []strategy.Strategy
	arbitrator *arbitrate.Arbitrator
	logger     *slog.Logger
}

// New creates a Segmenter reading from r and matching against d.
func New(r io.Reader, d *dict.Dictionary, cfg Config, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Segmenter{
		id:   uuid.New().String(),
		cfg:  cfg,
		dict: d,
		ctx:  scan.New(scan.Options{
			BufferSize: cfg.BufferSize,
			Lookahead:  cfg.Lookahead,
			Lowercase:  cfg.Lowercase,
		}),
		strategies: strategy.Defaults(),
		arbitrator: arbitrate.New(),
	}
	s.logger = logger.With("segmenter", s.id)
	s.input = s.newReader(r)
	return s
}

// ID returns the identifier used in this segmenter's log records.
func (s *Segmenter) ID() string { return s.id }

// Config returns the configuration the segmenter was built with.
func (s *Segmenter) Config() Config { return s.cfg }

func (s *Segmenter) newReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, 4*s.ctx.Options().BufferSize)
}

// Next returns the next lexeme. It returns io.EOF once the input is
// exhausted, after which the segmenter is reset and keeps returning
// io.EOF until Reset supplies a new stream. Read errors are returned
// wrapped.
func (s *Segmenter) Next() (lexeme.Lexeme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if l, ok := s.ctx.NextLexeme(); ok {
			return s.compound(l), nil
		}
		n, err := s.ctx.FillBuffer(s.input)
		if err != nil {
			return lexeme.Lexeme{}, fmt.Errorf("segmenter: fill buffer: %w", err)
		}
		if n == 0 {
			s.ctx.Reset()
			s.resetStrategies()
			return lexeme.Lexeme{}, io.EOF
		}
		s.analyze()
	}
}

// analyze runs one buffer cycle over the current window. Every strategy
// matches against the same dictionary snapshot for the whole cycle.
func (s *Segmenter) analyze() {
	s.ctx.SetView(s.dict.Snapshot())
	s.ctx.InitCursor()
	for {
		for _, st := range s.strategies {
			st.Analyze(s.ctx)
		}
		if s.ctx.NeedRefillBuffer() {
			break
		}
		if !s.ctx.MoveCursor() {
			break
		}
	}
	s.ctx.Settle()
	s.resetStrategies()
	s.arbitrator.Process(s.ctx, s.cfg.Smart)
	s.ctx.OutputToResult()

	s.logger.Debug("buffer cycle",
		"origin", s.ctx.Origin(),
		"available", s.ctx.Available(),
		"resolved", s.ctx.Resolved(),
		"eof", s.ctx.EOF(),
	)
	s.ctx.MarkBufferOffset()
}

func (s *Segmenter) resetStrategies() {
	for _, st := range s.strategies {
		st.Reset()
	}
}

// compound merges a numeral with a directly following numeral or
// classifier in smart mode: ARABIC+TYPE_CNUM becomes TYPE_CNUM and a
// numeral followed by COUNT becomes TYPE_CQUAN.
func (s *Segmenter) compound(l lexeme.Lexeme) lexeme.Lexeme {
	if !s.cfg.Smart {
		return l
	}
	if l.Type == lexeme.TypeArabic {
		if next, ok := s.ctx.PeekLexeme(); ok && next.Type == lexeme.TypeCNum {
			if j, ok := lexeme.Join(l, next, lexeme.TypeCNum); ok {
				s.ctx.NextLexeme()
				l = j
			}
		}
	}
	if l.Type == lexeme.TypeArabic || l.Type == lexeme.TypeCNum {
		if next, ok := s.ctx.PeekLexeme(); ok && next.Type == lexeme.TypeCount {
			if j, ok := lexeme.Join(l, next, lexeme.TypeCQuan); ok {
				s.ctx.NextLexeme()
				l = j
			}
		}
	}
	return l
}

// Reset discards any pending state and starts over on r.
func (s *Segmenter) Reset(r io.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx.Reset()
	s.resetStrategies()
	s.input = s.newReader(r)
}

// All reads every remaining lexeme.
func (s *Segmenter) All() ([]lexeme.Lexeme, error) {
	var out []lexeme.Lexeme
	for {
		l, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, l)
	}
}

// Segment is a convenience wrapper that segments text in one call.
func Segment(text string, d *dict.Dictionary, cfg Config) ([]lexeme.Lexeme, error) {
	return New(strings.NewReader(text), d, cfg, nil).All()
}
