package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"GoIK/internal/dict"
	"GoIK/internal/lexeme"
	"GoIK/internal/segmenter"
)

// SegmentCmd prints the lexemes of a file or of standard input.
type SegmentCmd struct {
	Smart     bool   `help:"Pick the maximum-coverage segmentation instead of fine-grained output"`
	KeepCase  bool   `name:"keep-case" help:"Do not lowercase letters"`
	Format    string `short:"f" help:"Output format" enum:"text,json" default:"text"`
	SkipOther bool   `name:"skip-other" help:"Omit OTHER lexemes such as punctuation"`
	File      string `arg:"" optional:"" help:"Input file; standard input when omitted" type:"existingfile"`
}

type lexemeRecord struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	Text  string `json:"text"`
	Parts int    `json:"parts,omitempty"`
}

func (c *SegmentCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Server.LogLevel)

	d, err := g.openDictionary(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	segCfg := cfg.Segmenter
	segCfg.Smart = c.Smart
	segCfg.Lowercase = !c.KeepCase

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	return c.segment(out, in, d, segCfg)
}

func (c *SegmentCmd) segment(w io.Writer, r io.Reader, d *dict.Dictionary, cfg segmenter.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	seg := segmenter.New(r, d, cfg, nil)
	enc := json.NewEncoder(w)
	for {
		l, err := seg.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if c.SkipOther && l.Type == lexeme.TypeOther {
			continue
		}
		rec := lexemeRecord{Start: l.Start, End: l.End(), Type: l.Type.String(), Text: l.Text, Parts: len(l.Parts)}
		if c.Format == "json" {
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%d-%d\t%s\t%s\n", rec.Start, rec.End, rec.Type, rec.Text); err != nil {
			return err
		}
	}
}
