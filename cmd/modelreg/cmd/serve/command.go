// Package serve provides the command that runs the registry HTTP API.
package serve

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/server"
	"github.com/agentstation/modelreg/internal/server/middleware"
	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
)

// NewCommand creates the serve command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cfg := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the registry over HTTP",
		Long: `Start the registry HTTP API.

Endpoints:
  GET  /healthz, /readyz         liveness and readiness
  GET  /metrics                  Prometheus metrics
  GET  /v1/models                filtered, paginated identifiers
  GET  /v1/models/{org}/{name}   one identifier (hub=true adds the hub record)
  GET  /v1/families              family registration state
  GET  /v1/hub/models            hub search
  POST /v1/verify                verify every identifier against the hub
  GET  /v1/verify/stream         verification progress as SSE
  GET  /v1/verify/ws             verification progress over WebSocket

With --auth the key is read from ` + middleware.APIKeyEnv + `.`,
		Example: `  modelreg serve
  modelreg serve --addr 127.0.0.1:9000 --cors
  MODELREG_API_KEY=secret modelreg serve --auth --rate-limit 60`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") && app.Settings().ListenAddr != "" {
				cfg.Addr = app.Settings().ListenAddr
			}
			if cfg.AuthEnabled && os.Getenv(middleware.APIKeyEnv) == "" {
				return errors.NewConfigError(middleware.APIKeyEnv, "--auth requires an API key", nil)
			}
			if cfg.RateLimit < 0 {
				return errors.NewValidationError("rate-limit", cfg.RateLimit, "must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return errors.WrapIO("listen", cfg.Addr, err)
			}
			return Run(cmd.Context(), app, cfg, ln)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.PathPrefix, "prefix", cfg.PathPrefix, "API path prefix")
	cmd.Flags().BoolVar(&cfg.CORSEnabled, "cors", false, "enable CORS")
	cmd.Flags().StringSliceVar(&cfg.CORSOrigins, "cors-origins", nil, "allowed CORS origins (default all)")
	cmd.Flags().BoolVar(&cfg.AuthEnabled, "auth", false, "require an API key")
	cmd.Flags().StringVar(&cfg.AuthHeader, "auth-header", cfg.AuthHeader, "API key header")
	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "requests per minute per IP (0 to disable)")
	cmd.Flags().DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "response cache TTL")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	cmd.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	cmd.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "HTTP idle timeout")
	cmd.Flags().BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "expose /metrics")
	return cmd
}

// Run serves the API on ln until ctx is done (the CLI cancels it on SIGINT
// or SIGTERM), then drains in-flight
// requests for up to constants.ShutdownTimeout.
func Run(ctx context.Context, app appcontext.Interface, cfg server.Config, ln net.Listener) error {
	logger := app.Logger()

	// build the registry up front so /readyz reflects it immediately
	reg, err := app.Registry(ctx)
	if err != nil {
		return err
	}

	srv := server.New(app, cfg)
	srv.Start()
	httpServer := srv.HTTPServer()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("prefix", cfg.PathPrefix).
		Int("models", reg.Len()).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Serving registry API")

	select {
	case err := <-serveErr:
		_ = srv.Shutdown(context.Background())
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.WrapIO("serve", ln.Addr().String(), err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	err = errors.Join(httpServer.Shutdown(shutdownCtx), srv.Shutdown(shutdownCtx))
	if err != nil {
		logger.Warn().Err(err).Msg("Shutdown incomplete")
		return err
	}
	logger.Info().Dur("took", time.Since(start)).Msg("Server stopped")
	return nil
}
