package dict

import (
	"bufio"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

//go:embed data/*.dic
var defaults embed.FS

var ErrNoQuery = errors.New("dict: sqlite source has no query")

// SQLiteSource describes a SQLite database whose query yields one word per
// row in its first column.
type SQLiteSource struct {
	DSN   string `toml:"dsn" yaml:"dsn"`
	Query string `toml:"query" yaml:"query"`
}

// Config lists the static sources a Dictionary is populated from at startup.
// Files ending in .xz are decompressed on the fly.
type Config struct {
	Main         []string     `toml:"main" yaml:"main"`
	Quantifier   []string     `toml:"quantifier" yaml:"quantifier"`
	StopWords    []string     `toml:"stopwords" yaml:"stopwords"`
	Ext          []string     `toml:"ext" yaml:"ext"`
	ExtStopWords []string     `toml:"ext_stopwords" yaml:"ext_stopwords"`
	SQLite       SQLiteSource `toml:"sqlite" yaml:"sqlite"`

	// SkipDefaults disables the embedded starter dictionaries.
	SkipDefaults bool `toml:"skip_defaults" yaml:"skip_defaults"`
}

// Open builds a Dictionary from cfg.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Dictionary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := New(logger)

	if !cfg.SkipDefaults {
		for name, add := range map[string]func([]string) int{
			"data/main.dic":       d.addStatic,
			"data/quantifier.dic": d.AddQuantifiers,
			"data/stopword.dic":   d.AddStopWords,
		} {
			f, err := defaults.Open(name)
			if err != nil {
				return nil, fmt.Errorf("open embedded %s: %w", name, err)
			}
			words, err := ReadWords(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read embedded %s: %w", name, err)
			}
			add(words)
		}
	}

	groups := []struct {
		paths []string
		add   func([]string) int
	}{
		{cfg.Main, d.addStatic},
		{cfg.Ext, d.AddWords},
		{cfg.Quantifier, d.AddQuantifiers},
		{cfg.StopWords, d.AddStopWords},
		{cfg.ExtStopWords, d.AddStopWords},
	}
	for _, g := range groups {
		for _, path := range g.paths {
			words, err := ReadFile(path)
			if err != nil {
				return nil, err
			}
			n := g.add(words)
			logger.Info("dictionary file loaded", "path", path, "words", len(words), "added", n)
		}
	}

	if cfg.SQLite.DSN != "" {
		words, err := ReadSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		n := d.addStatic(words)
		logger.Info("dictionary sqlite source loaded", "words", len(words), "added", n)
	}

	logger.Info("dictionary ready", "stats", d.Stats())
	return d, nil
}

// addStatic pins words and adds them to the main dictionary. Extension
// files are loaded with AddWords instead since a watcher may retract them.
func (d *Dictionary) addStatic(words []string) int {
	d.Pin(words)
	return d.AddWords(words)
}

// ReadWords reads one word per line. A leading byte order mark, surrounding
// whitespace and blank lines are dropped.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	br := bufio.NewReader(r)
	first := true
	for {
		line, err := br.ReadString('\n')
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if w := strings.TrimSpace(line); w != "" {
			words = append(words, w)
		}
		if err == io.EOF {
			return words, nil
		}
		if err != nil {
			return words, err
		}
	}
}

// ReadFile reads a word list from disk, transparently decompressing .xz.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz dictionary %s: %w", path, err)
		}
		r = xr
	}

	words, err := ReadWords(r)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return words, nil
}

// ReadSQLite runs src.Query against the database at src.DSN.
func ReadSQLite(ctx context.Context, src SQLiteSource) ([]string, error) {
	if src.Query == "" {
		return nil, ErrNoQuery
	}
	db, err := sql.Open(sqliteDriver, src.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite dictionary: %w", err)
	}
	defer db.Close()
	return ReadSQL(ctx, db, src.Query)
}

// ReadSQL collects the first column of every row returned by query.
func ReadSQL(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dictionary: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w sql.NullString
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan dictionary row: %w", err)
		}
		if s := strings.TrimSpace(w.String); w.Valid && s != "" {
			words = append(words, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary rows: %w", err)
	}
	return words, nil
}
