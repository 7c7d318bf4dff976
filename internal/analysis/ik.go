package analysis

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"GoIK/internal/dict"
	"GoIK/internal/lexeme"
	"GoIK/internal/segmenter"
)

// IKAnalyzer segments text with a pool of segmenters sharing one
// dictionary. OTHER lexemes (whitespace, punctuation) and stop words are
// dropped; positions count the tokens that are kept.
type IKAnalyzer struct {
	dict   *dict.Dictionary
	cfg    segmenter.Config
	logger *slog.Logger
	pool   sync.Pool
}

// NewIKAnalyzer creates an analyzer using cfg for every segmenter.
func NewIKAnalyzer(d *dict.Dictionary, cfg segmenter.Config, logger *slog.Logger) *IKAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &IKAnalyzer{dict: d, cfg: cfg, logger: logger}
	a.pool.New = func() any {
		return segmenter.New(strings.NewReader(""), a.dict, a.cfg, a.logger)
	}
	return a
}

// Config returns the segmenter configuration of the analyzer.
func (a *IKAnalyzer) Config() segmenter.Config { return a.cfg }

// Analyze tokenizes text. Byte offsets index into text.
func (a *IKAnalyzer) Analyze(_ string, text string) []Token {
	seg := a.pool.Get().(*segmenter.Segmenter)
	defer a.pool.Put(seg)
	seg.Reset(strings.NewReader(text))

	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	view := a.dict.Snapshot()
	var tokens []Token
	for {
		l, err := seg.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			a.logger.Error("segmentation failed", "error", err)
			break
		}
		if l.Type == lexeme.TypeOther {
			continue
		}
		term := []rune(l.Text)
		if view.IsStopWord(term, 0, len(term)) {
			continue
		}
		tokens = append(tokens, Token{
			Term:      l.Text,
			Type:      l.Type.String(),
			Position:  len(tokens),
			StartByte: offsets[l.Start],
			EndByte:   offsets[l.End()],
		})
	}
	return tokens
}
