package vocab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ConnectTimeout = time.Second
	cfg.ResponseHeaderTimeout = 200 * time.Millisecond
	cfg.RequestTimeout = 2 * time.Second
	return cfg
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != DefaultConfig().UserAgent {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "中国\n人民\n")
	}))
	defer srv.Close()

	words, err := NewHTTPFetcher(testConfig(), nil).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(words, []string{"中国", "人民"}) {
		t.Errorf("words = %v", words)
	}
}

func TestHTTPFetcher_Conditional(t *testing.T) {
	var full, notModified atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			notModified.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		full.Add(1)
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, "中国\n")
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig(), nil)
	for i := 0; i < 3; i++ {
		words, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(words, []string{"中国"}) {
			t.Fatalf("fetch %d words = %v", i, words)
		}
	}
	if full.Load() != 1 || notModified.Load() != 2 {
		t.Errorf("full=%d notModified=%d, want 1 and 2", full.Load(), notModified.Load())
	}

	f.Forget(srv.URL)
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatal(err)
	}
	if full.Load() != 2 {
		t.Errorf("after Forget full=%d, want 2", full.Load())
	}
}

func TestHTTPFetcher_Errors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	f := NewHTTPFetcher(testConfig(), nil)
	tests := []struct {
		name     string
		location string
		want     error
	}{
		{"server error", failing.URL, ErrUnexpectedStatus},
		{"empty location", "  ", ErrEmptyLocation},
		{"bad scheme", "file:///etc/passwd", ErrLocationNotGranted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.location)
			if !errors.Is(err, tt.want) {
				t.Errorf("Fetch(%q) = %v, want %v", tt.location, err, tt.want)
			}
		})
	}

	t.Run("timeout", func(t *testing.T) {
		start := time.Now()
		if _, err := f.Fetch(context.Background(), slow.URL); err == nil {
			t.Fatal("expected timeout error")
		}
		if time.Since(start) > 1500*time.Millisecond {
			t.Errorf("timeout took %v", time.Since(start))
		}
	})
}

func TestHTTPFetcher_AllowedHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "中国\n")
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.AllowedHosts = []string{"dict.example.com"}
	if _, err := NewHTTPFetcher(cfg, nil).Fetch(context.Background(), srv.URL); !errors.Is(err, ErrLocationNotGranted) {
		t.Errorf("err = %v, want ErrLocationNotGranted", err)
	}

	cfg.AllowedHosts = []string{"127.0.0.1"}
	if _, err := NewHTTPFetcher(cfg, nil).Fetch(context.Background(), srv.URL); err != nil {
		t.Errorf("allowed host: %v", err)
	}
}
