package server

import (
	"time"

	"github.com/agentstation/modelreg/pkg/constants"
)

// Config holds server settings.
type Config struct {
	Addr       string
	PathPrefix string

	CORSEnabled bool
	CORSOrigins []string

	AuthEnabled bool
	AuthHeader  string

	// RateLimit is requests per minute per IP; zero disables it.
	RateLimit int
	CacheTTL  time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MetricsEnabled bool
}

// DefaultConfig returns the serve defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           constants.DefaultListenAddr,
		PathPrefix:     "/v1",
		AuthHeader:     "X-API-Key",
		RateLimit:      100,
		CacheTTL:       5 * time.Minute,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   constants.VerifyTimeout,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}
