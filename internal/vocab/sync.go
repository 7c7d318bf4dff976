package vocab

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// WordStore is the dictionary a Syncer writes to.
type WordStore interface {
	AddWords(words []string) int
	DisableWords(words []string) int
	Generation() uint64
}

// Mode says what a sync does with the fetched list.
type Mode string

const (
	// ModeAdd adds the consumer's own list.
	ModeAdd Mode = "add"
	// ModeRetract disables the words of the default list.
	ModeRetract Mode = "retract"
	// ModeNone means there is nothing to sync.
	ModeNone Mode = "none"
)

// Result describes one sync run.
type Result struct {
	RunID       string `json:"run_id"`
	Mode        Mode   `json:"mode"`
	Location    string `json:"location,omitempty"`
	Words       int    `json:"words"`
	Changed     int    `json:"changed"`
	Unchanged   bool   `json:"unchanged"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Syncer keeps a dictionary in step with one consumer's remote word list.
//
// A consumer with a location adds the words found there. A consumer
// without one retracts the words of the default location instead. The
// fetched list is fingerprinted; when neither the list nor the dictionary
// changed since the last run, the dictionary is left alone.
type Syncer struct {
	store    WordStore
	fetcher  Fetcher
	location string
	cfg      Config
	logger   *slog.Logger

	mu          sync.Mutex
	fingerprint string
	generation  uint64
	applied     bool
}

// NewSyncer creates a Syncer for the consumer at location (may be empty).
func NewSyncer(store WordStore, fetcher Fetcher, location string, cfg Config, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		store:    store,
		fetcher:  fetcher,
		location: strings.TrimSpace(location),
		cfg:      cfg,
		logger:   logger.With("component", "vocab_syncer"),
	}
}

// Mode returns what SyncOnce will do.
func (s *Syncer) Mode() Mode {
	switch {
	case s.location != "":
		return ModeAdd
	case strings.TrimSpace(s.cfg.DefaultLocation) != "":
		return ModeRetract
	default:
		return ModeNone
	}
}

// Location returns the consumer's own location.
func (s *Syncer) Location() string { return s.location }

// SyncOnce fetches the list once and applies it. Fetch errors are returned
// and leave the dictionary untouched.
func (s *Syncer) SyncOnce(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{RunID: uuid.New().String(), Mode: s.Mode()}
	switch res.Mode {
	case ModeNone:
		return res, nil
	case ModeAdd:
		res.Location = s.location
	case ModeRetract:
		res.Location = strings.TrimSpace(s.cfg.DefaultLocation)
	}

	words, err := s.fetcher.Fetch(ctx, res.Location)
	if err != nil {
		return res, err
	}

	res.Words = len(words)
	res.Fingerprint = Fingerprint(words)
	if s.applied && res.Fingerprint == s.fingerprint && s.store.Generation() == s.generation {
		res.Unchanged = true
		return res, nil
	}

	if res.Mode == ModeAdd {
		res.Changed = s.store.AddWords(words)
	} else {
		res.Changed = s.store.DisableWords(words)
	}
	s.fingerprint = res.Fingerprint
	s.generation = s.store.Generation()
	s.applied = true
	return res, nil
}

// Run syncs immediately and then every Interval until ctx is done.
// Failures are logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context) error {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = DefaultConfig().Interval
	}
	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context) {
	res, err := s.SyncOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("vocabulary sync failed",
			"run_id", res.RunID,
			"mode", res.Mode,
			"location", res.Location,
			"error", err,
		)
		return
	}
	if res.Mode == ModeNone {
		return
	}
	if res.Unchanged {
		s.logger.Debug("vocabulary unchanged", "run_id", res.RunID, "location", res.Location)
		return
	}
	s.logger.Info("vocabulary synced",
		"run_id", res.RunID,
		"mode", res.Mode,
		"location", res.Location,
		"words", res.Words,
		"changed", res.Changed,
	)
}

// Fingerprint returns the hex BLAKE3 digest of words in order.
func Fingerprint(words []string) string {
	h := blake3.New()
	for _, w := range words {
		io.WriteString(h, w)
		io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}
