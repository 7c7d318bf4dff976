package vocab

import "time"

// Config configures remote vocabulary fetching and the sync interval.
type Config struct {
	// DefaultLocation is the shared word list retracted by consumers that
	// have no location of their own. Empty disables retraction.
	DefaultLocation string `json:"default_location"`

	// Interval is how often a running Syncer fetches its list.
	Interval time.Duration `json:"interval"`

	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration `json:"connect_timeout"`

	// ResponseHeaderTimeout bounds the wait for response headers once the
	// request has been written.
	ResponseHeaderTimeout time.Duration `json:"response_header_timeout"`

	// RequestTimeout bounds the whole request including the body.
	RequestTimeout time.Duration `json:"request_timeout"`

	// AllowedHosts restricts fetches to these host names. Empty allows any
	// host.
	AllowedHosts []string `json:"allowed_hosts"`

	// UserAgent is sent with every request.
	UserAgent string `json:"user_agent"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:              60 * time.Second,
		ConnectTimeout:        10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		RequestTimeout:        70 * time.Second,
		UserAgent:             "GoIK-vocab/1.0",
	}
}
