package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"GoIK/internal/dict"
	"GoIK/internal/vocab"
)

// DictLookupCmd reports dictionary membership for each word.
type DictLookupCmd struct {
	Words []string `arg:"" help:"Words to look up"`
}

func (c *DictLookupCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	d, err := g.openDictionary(context.Background(), cfg, newLogger(os.Stderr, cfg.Server.LogLevel))
	if err != nil {
		return err
	}
	return lookup(os.Stdout, d, c.Words)
}

func lookup(w io.Writer, d *dict.Dictionary, words []string) error {
	for _, word := range words {
		if _, err := fmt.Fprintf(w, "%s\tmain=%t\tstop=%t\n", word, d.Contains(word), d.IsStopWord(word)); err != nil {
			return err
		}
	}
	return nil
}

// DictFetchCmd fetches a remote word list the way a profile sync does and
// prints it.
type DictFetchCmd struct {
	Location string        `arg:"" help:"HTTP(S) location of the word list"`
	Timeout  time.Duration `help:"Overall timeout" default:"2m"`
}

func (c *DictFetchCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Server.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	words, err := vocab.NewHTTPFetcher(cfg.Vocabulary.Vocab(), logger).Fetch(ctx, c.Location)
	if err != nil {
		return err
	}
	for _, word := range words {
		fmt.Fprintln(os.Stdout, word)
	}
	logger.Info("fetched word list", "location", c.Location, "words", len(words), "fingerprint", vocab.Fingerprint(words))
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("ikseg", Version)
	return nil
}
