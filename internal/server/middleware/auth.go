package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/internal/server/response"
	"github.com/agentstation/modelreg/pkg/constants"
)

// APIKeyEnv is the environment variable DefaultAuthConfig reads the key from.
const APIKeyEnv = constants.EnvPrefix + "_API_KEY"

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	Enabled     bool
	APIKey      string
	HeaderName  string
	PublicPaths []string
}

// DefaultAuthConfig returns a disabled config keyed from APIKeyEnv, with
// the health and metrics endpoints public.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		APIKey:      os.Getenv(APIKeyEnv),
		HeaderName:  "X-API-Key",
		PublicPaths: []string{"/healthz", "/readyz", "/metrics"},
	}
}

// Auth rejects requests to non-public paths that lack the API key. The key
// is read from HeaderName or an Authorization bearer token.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || slices.Contains(config.PublicPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := extractAPIKey(r, config.HeaderName)
			if key == "" || config.APIKey == "" ||
				subtle.ConstantTimeCompare([]byte(key), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", key != "").
					Msg("Authentication failed")
				response.Unauthorized(w, "Invalid or missing API key",
					"Provide a valid API key in the "+config.HeaderName+" header")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractAPIKey(r *http.Request, header string) string {
	if key := r.Header.Get(header); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return auth
}
