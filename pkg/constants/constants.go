// Package constants provides shared constants used throughout the modelreg codebase.
// This includes timeouts, retry limits, file permissions and well-known names
// that should be consistent across the registry, the catalog client and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the model hub
	DefaultHTTPTimeout = 30 * time.Second

	// VerifyTimeout bounds a full verification sweep started from the CLI or the API
	VerifyTimeout = 10 * time.Minute

	// ShutdownTimeout is how long the HTTP server waits for in-flight requests
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout protects the HTTP server against slow clients
	ReadHeaderTimeout = 10 * time.Second

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of retry attempts for failed hub requests
	MaxRetries = 3

	// DefaultConcurrency is the default number of concurrent verification lookups
	DefaultConcurrency = 1

	// MaxConcurrency caps concurrent verification lookups to stay polite with the hub
	MaxConcurrency = 16
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached hub lookups
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Well-known names
const (
	// DefaultHubURL is the base URL of the Hugging Face Hub
	DefaultHubURL = "https://huggingface.co"

	// DefaultPublisher is the org that republishes quantized model variants
	DefaultPublisher = "unsloth"

	// DefaultListenAddr is the default address for the HTTP API
	DefaultListenAddr = ":8080"

	// HubTokenEnv is the environment variable holding the hub access token
	HubTokenEnv = "HF_TOKEN"

	// EnvPrefix is the prefix for modelreg environment variables
	EnvPrefix = "MODELREG"

	// ConfigName is the config file name searched in $HOME and the working directory
	ConfigName = ".modelreg"
)
