package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GoIK/internal/config"
	"GoIK/internal/dict"
	"GoIK/internal/server"
	"GoIK/internal/vocab"
)

// ServeCmd runs the HTTP service.
type ServeCmd struct {
	Addr string `help:"Listen address; overrides server.addr" env:"IKSEG_ADDR"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}

	logger := newLogger(os.Stdout, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting ikseg",
		"version", Version,
		"addr", cfg.Server.Addr,
		"config", g.Config,
		"profiles", len(cfg.Profiles),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := g.openDictionary(ctx, cfg, logger)
	if err != nil {
		return err
	}

	vcfg := cfg.Vocabulary.Vocab()
	mgr := server.NewProfileManager(d, vocab.NewHTTPFetcher(vcfg, logger), vcfg, cfg.Segmenter, logger)
	defer mgr.Close()
	if err := createProfiles(mgr, cfg); err != nil {
		return err
	}

	if cfg.Vocabulary.WatchLocal && len(cfg.Dictionary.Ext) > 0 {
		if err := watchLocal(ctx, d, cfg.Dictionary.Ext, logger); err != nil {
			return err
		}
	}

	// Create HTTP handler and register API routes.
	handler := server.NewHandler(mgr, cfg.Server.CacheSize, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	registerProbes(mux, d)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout.Duration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func createProfiles(mgr *server.ProfileManager, cfg config.Config) error {
	for _, p := range cfg.Profiles {
		spec := server.ProfileSpec{
			Name:      p.Name,
			Smart:     p.Smart,
			Lowercase: p.Lowercase,
			Location:  p.Location,
		}
		if _, err := mgr.CreateProfile(spec); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}
	return nil
}

func watchLocal(ctx context.Context, d *dict.Dictionary, paths []string, logger *slog.Logger) error {
	w, err := vocab.NewFileWatcher(d, paths, logger)
	if err != nil {
		return err
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("file watcher stopped", "error", err)
		}
	}()
	return nil
}

func registerProbes(mux *http.ServeMux, d *dict.Dictionary) {
	// Health check endpoint.
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Readiness probe.
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "ready",
			"generation": d.Generation(),
		})
	})

	// Root info endpoint.
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":    "ikseg",
			"version": Version,
		})
	})
}
