package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"GoIK/internal/config"
	"GoIK/internal/dict"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config     string   `name:"config" short:"c" help:"Path to a TOML or YAML config file" type:"existingfile" env:"IKSEG_CONFIG"`
	LogLevel   string   `name:"log-level" help:"Log level (debug, info, warn, error); overrides server.log_level" env:"IKSEG_LOG_LEVEL"`
	Main       []string `name:"main" help:"Main dictionary files, replacing the configured ones" type:"existingfile" env:"IKSEG_MAIN"`
	Ext        []string `name:"ext" help:"Extension word files" type:"existingfile" env:"IKSEG_EXT"`
	StopWords  []string `name:"stopwords" help:"Extension stop word files" type:"existingfile" env:"IKSEG_STOPWORDS"`
	NoDefaults bool     `name:"no-defaults" help:"Do not load the embedded starter dictionaries" env:"IKSEG_NO_DEFAULTS"`
}

// load reads the configuration file, if any, and applies the flags over it.
func (g *Globals) load() (config.Config, error) {
	cfg := config.Default()
	cfg.Profiles = config.DefaultProfiles()
	if g.Config != "" {
		var err error
		if cfg, err = config.Load(g.Config); err != nil {
			return config.Config{}, err
		}
	}
	if len(g.Main) > 0 {
		cfg.Dictionary.Main = g.Main
	}
	cfg.Dictionary.Ext = append(cfg.Dictionary.Ext, g.Ext...)
	cfg.Dictionary.ExtStopWords = append(cfg.Dictionary.ExtStopWords, g.StopWords...)
	if g.NoDefaults {
		cfg.Dictionary.SkipDefaults = true
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	return cfg, nil
}

func (g *Globals) openDictionary(ctx context.Context, cfg config.Config, logger *slog.Logger) (*dict.Dictionary, error) {
	d, err := dict.Open(ctx, cfg.Dictionary, logger)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	stats := d.Stats()
	logger.Info("dictionary loaded",
		"main_words", stats.MainWords,
		"quantifiers", stats.Quantifiers,
		"stop_words", stats.StopWords,
	)
	return d, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
