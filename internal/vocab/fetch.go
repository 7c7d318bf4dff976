package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	ErrEmptyLocation      = errors.New("vocab: empty location")
	ErrLocationNotGranted = errors.New("vocab: location not granted")
	ErrUnexpectedStatus   = errors.New("vocab: unexpected response status")
	ErrUnsupportedCharset = errors.New("vocab: unsupported charset")
)

// Fetcher retrieves a word list from a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]string, error)
}

type cached struct {
	etag         string
	lastModified string
	words        []string
}

// HTTPFetcher fetches word lists over HTTP(S). It remembers the ETag,
// Last-Modified and words of every location and sends conditional
// requests, so an unchanged list costs a 304 and is served from memory.
type HTTPFetcher struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]cached
}

// NewHTTPFetcher creates a fetcher with the timeouts from cfg.
func NewHTTPFetcher(cfg Config, logger *slog.Logger) *HTTPFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{Transport: transport, Timeout: cfg.RequestTimeout},
		cfg:    cfg,
		logger: logger.With("component", "vocab_fetcher"),
		seen:   make(map[string]cached),
	}
}

// Fetch downloads and parses the word list at location.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]string, error) {
	u, err := f.grant(location)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("vocab: build request for %s: %w", location, err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	f.mu.Lock()
	v := f.seen[location]
	f.mu.Unlock()
	if v.words != nil {
		if v.etag != "" {
			req.Header.Set("If-None-Match", v.etag)
		}
		if v.lastModified != "" {
			req.Header.Set("If-Modified-Since", v.lastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vocab: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotModified:
		if v.words != nil {
			f.logger.Debug("word list not modified", "location", location)
			return slices.Clone(v.words), nil
		}
		fallthrough
	default:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, location, resp.StatusCode)
	}

	words, skipped, err := ParseWordList(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("vocab: parse %s: %w", location, err)
	}
	if skipped > 0 {
		f.logger.Debug("skipped malformed lines", "location", location, "skipped", skipped)
	}

	f.mu.Lock()
	f.seen[location] = cached{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		words:        append([]string{}, words...),
	}
	f.mu.Unlock()
	return words, nil
}

// Forget drops what is cached for location so the next fetch is
// unconditional.
func (f *HTTPFetcher) Forget(location string) {
	f.mu.Lock()
	delete(f.seen, location)
	f.mu.Unlock()
}

func (f *HTTPFetcher) grant(location string) (*url.URL, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationNotGranted, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrLocationNotGranted, u.Scheme)
	}
	if len(f.cfg.AllowedHosts) > 0 && !slices.Contains(f.cfg.AllowedHosts, u.Hostname()) {
		return nil, fmt.Errorf("%w: host %q", ErrLocationNotGranted, u.Hostname())
	}
	return u, nil
}
