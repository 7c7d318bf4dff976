// Package config loads the service configuration from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"GoIK/internal/dict"
	"GoIK/internal/segmenter"
	"GoIK/internal/vocab"
)

var (
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	ErrInvalid           = errors.New("config: invalid")
)

// ParseError reports a file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Duration is a time.Duration written as a string such as "60s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	LogLevel        string   `toml:"log_level" yaml:"log_level"`
	CacheSize       int      `toml:"cache_size" yaml:"cache_size"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// VocabularyConfig configures remote and local vocabulary sync.
type VocabularyConfig struct {
	DefaultLocation       string   `toml:"default_location" yaml:"default_location"`
	Interval              Duration `toml:"interval" yaml:"interval"`
	ConnectTimeout        Duration `toml:"connect_timeout" yaml:"connect_timeout"`
	ResponseHeaderTimeout Duration `toml:"response_header_timeout" yaml:"response_header_timeout"`
	RequestTimeout        Duration `toml:"request_timeout" yaml:"request_timeout"`
	AllowedHosts          []string `toml:"allowed_hosts" yaml:"allowed_hosts"`
	// WatchLocal reloads the dictionary ext files when they change.
	WatchLocal bool `toml:"watch_local" yaml:"watch_local"`
}

// Vocab converts the section to a vocab.Config.
func (v VocabularyConfig) Vocab() vocab.Config {
	cfg := vocab.DefaultConfig()
	cfg.DefaultLocation = v.DefaultLocation
	cfg.Interval = v.Interval.Duration
	cfg.ConnectTimeout = v.ConnectTimeout.Duration
	cfg.ResponseHeaderTimeout = v.ResponseHeaderTimeout.Duration
	cfg.RequestTimeout = v.RequestTimeout.Duration
	cfg.AllowedHosts = v.AllowedHosts
	return cfg
}

// ProfileConfig describes one consumer of the segmenter.
type ProfileConfig struct {
	Name      string `toml:"name" yaml:"name"`
	Smart     bool   `toml:"smart" yaml:"smart"`
	Lowercase *bool  `toml:"lowercase" yaml:"lowercase"`
	Location  string `toml:"location" yaml:"location"`
}

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Dictionary dict.Config      `toml:"dictionary" yaml:"dictionary"`
	Vocabulary VocabularyConfig `toml:"vocabulary" yaml:"vocabulary"`
	Segmenter  segmenter.Config `toml:"segmenter" yaml:"segmenter"`
	Profiles   []ProfileConfig  `toml:"profiles" yaml:"profiles"`
}

// DefaultProfiles are used when a configuration names none.
func DefaultProfiles() []ProfileConfig {
	return []ProfileConfig{
		{Name: "ik_smart", Smart: true},
		{Name: "ik_greedy", Smart: false},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	v := vocab.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			LogLevel:        "info",
			CacheSize:       1024,
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Vocabulary: VocabularyConfig{
			Interval:              Duration{v.Interval},
			ConnectTimeout:        Duration{v.ConnectTimeout},
			ResponseHeaderTimeout: Duration{v.ResponseHeaderTimeout},
			RequestTimeout:        Duration{v.RequestTimeout},
		},
		Segmenter: segmenter.DefaultConfig(),
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes data in the given format (an extension such as ".toml")
// over the defaults and validates the result.
func Parse(data []byte, format string) (Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		err = toml.Unmarshal(data, &cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Config{}, &ParseError{Path: "<data>", Err: err}
	}
	if len(cfg.Profiles) == 0 {
		cfg.Profiles = DefaultProfiles()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run
// with.
func (c Config) Validate() error {
	if err := c.Segmenter.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("%w: server.cache_size %d is negative", ErrInvalid, c.Server.CacheSize)
	}
	if c.Vocabulary.Interval.Duration < 0 {
		return fmt.Errorf("%w: vocabulary.interval is negative", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Profiles))
	for i, p := range c.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: profiles[%d] has no name", ErrInvalid, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate profile %q", ErrInvalid, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// SegmenterConfig returns the segmenter configuration for profile p.
func (c Config) SegmenterConfig(p ProfileConfig) segmenter.Config {
	cfg := c.Segmenter
	cfg.Smart = p.Smart
	if p.Lowercase != nil {
		cfg.Lowercase = *p.Lowercase
	}
	return cfg
}
