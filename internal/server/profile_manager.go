package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"GoIK/internal/analysis"
	"GoIK/internal/dict"
	"GoIK/internal/segmenter"
	"GoIK/internal/vocab"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidProfile  = errors.New("invalid profile")
)

var profileName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ProfileSpec describes a consumer: how it segments and where its own
// vocabulary lives.
type ProfileSpec struct {
	Name      string `json:"name"`
	Smart     bool   `json:"smart"`
	Lowercase *bool  `json:"lowercase,omitempty"`
	Location  string `json:"location,omitempty"`
}

// ProfileInstance holds all runtime state for a single profile.
type ProfileInstance struct {
	ID        string
	Spec      ProfileSpec
	Analyzer  *analysis.IKAnalyzer
	Syncer    *vocab.Syncer
	CreatedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}
	logger *slog.Logger
}

// ProfileManager manages the profiles served by one process. All profiles
// share the same dictionary.
type ProfileManager struct {
	dict     *dict.Dictionary
	fetcher  vocab.Fetcher
	vocabCfg vocab.Config
	segCfg   segmenter.Config
	registry *analysis.Registry
	logger   *slog.Logger

	mu       sync.RWMutex
	profiles map[string]*ProfileInstance
}

// NewProfileManager creates a manager. Profiles created on it run their
// vocabulary sync in the background when vocabCfg.Interval is positive.
func NewProfileManager(d *dict.Dictionary, fetcher vocab.Fetcher, vocabCfg vocab.Config, segCfg segmenter.Config, logger *slog.Logger) *ProfileManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileManager{
		dict:     d,
		fetcher:  fetcher,
		vocabCfg: vocabCfg,
		segCfg:   segCfg,
		registry: analysis.NewRegistry(d, segCfg, logger),
		logger:   logger,
		profiles: make(map[string]*ProfileInstance),
	}
}

// Dictionary returns the shared dictionary.
func (m *ProfileManager) Dictionary() *dict.Dictionary { return m.dict }

// Analyzers returns the named analyzers available without a profile.
func (m *ProfileManager) Analyzers() *analysis.Registry { return m.registry }

// CreateProfile validates spec and starts serving it.
func (m *ProfileManager) CreateProfile(spec ProfileSpec) (*ProfileInstance, error) {
	if !profileName.MatchString(spec.Name) {
		return nil, fmt.Errorf("%w: name %q must match %s", ErrInvalidProfile, spec.Name, profileName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[spec.Name]; exists {
		return nil, ErrProfileExists
	}

	cfg := m.segCfg
	cfg.Smart = spec.Smart
	if spec.Lowercase != nil {
		cfg.Lowercase = *spec.Lowercase
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	logger := m.logger.With("profile", spec.Name)
	inst := &ProfileInstance{
		ID:        uuid.New().String(),
		Spec:      spec,
		Analyzer:  analysis.NewIKAnalyzer(m.dict, cfg, logger),
		Syncer:    vocab.NewSyncer(m.dict, m.fetcher, spec.Location, m.vocabCfg, logger),
		CreatedAt: time.Now().UTC(),
		logger:    logger,
	}

	if m.vocabCfg.Interval > 0 && inst.Syncer.Mode() != vocab.ModeNone {
		ctx, cancel := context.WithCancel(context.Background())
		inst.cancel = cancel
		inst.done = make(chan struct{})
		go func() {
			defer close(inst.done)
			_ = inst.Syncer.Run(ctx)
		}()
	}

	m.profiles[spec.Name] = inst
	m.logger.Info("profile created", "name", spec.Name, "smart", spec.Smart, "sync_mode", inst.Syncer.Mode())
	return inst, nil
}

// DeleteProfile stops and removes a profile.
func (m *ProfileManager) DeleteProfile(name string) error {
	m.mu.Lock()
	inst, exists := m.profiles[name]
	if !exists {
		m.mu.Unlock()
		return ErrProfileNotFound
	}
	delete(m.profiles, name)
	m.mu.Unlock()

	inst.stop()
	m.logger.Info("profile deleted", "name", name)
	return nil
}

// GetProfile returns the ProfileInstance for the given name.
func (m *ProfileManager) GetProfile(name string) (*ProfileInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, exists := m.profiles[name]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return inst, nil
}

// ListProfiles returns the names of all profiles in sorted order.
func (m *ProfileManager) ListProfiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close stops every background sync.
func (m *ProfileManager) Close() {
	m.mu.Lock()
	profiles := m.profiles
	m.profiles = make(map[string]*ProfileInstance)
	m.mu.Unlock()

	for _, inst := range profiles {
		inst.stop()
	}
}

func (inst *ProfileInstance) stop() {
	if inst.cancel == nil {
		return
	}
	inst.cancel()
	<-inst.done
}

// ProfileInfo returns a JSON-friendly summary of the profile.
func (inst *ProfileInstance) ProfileInfo() map[string]interface{} {
	cfg := inst.Analyzer.Config()
	return map[string]interface{}{
		"name":       inst.Spec.Name,
		"id":         inst.ID,
		"smart":      cfg.Smart,
		"lowercase":  cfg.Lowercase,
		"location":   inst.Spec.Location,
		"sync_mode":  inst.Syncer.Mode(),
		"created_at": inst.CreatedAt,
	}
}
