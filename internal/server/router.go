package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/modelreg/internal/server/handlers"
	"github.com/agentstation/modelreg/internal/server/middleware"
	"github.com/agentstation/modelreg/internal/server/response"
)

// setupRouter builds the chi router with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	h := handlers.New(
		s.app,
		s.cache,
		s.broker,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
		s.startTime,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP)
	r.Use(middleware.Recovery(s.logger), middleware.Logger(s.logger))
	if s.config.MetricsEnabled {
		r.Use(middleware.Metrics)
	}
	if s.config.CORSEnabled {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = s.config.CORSOrigins
		r.Use(middleware.CORS(cors))
	}
	if s.config.AuthEnabled {
		auth := middleware.DefaultAuthConfig()
		auth.Enabled = true
		if s.config.AuthHeader != "" {
			auth.HeaderName = s.config.AuthHeader
		}
		r.Use(middleware.Auth(auth, s.logger))
	}
	if s.rateLimiter != nil {
		r.Use(middleware.RateLimit(s.rateLimiter))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found", r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method)
	})

	r.Get("/healthz", h.HandleHealth)
	r.Get("/readyz", h.HandleReady)
	if s.config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route(s.config.PathPrefix, func(r chi.Router) {
		r.Get("/models", h.HandleListModels)
		r.Get("/models/{org}/{name}", h.HandleGetModel)
		r.Get("/families", h.HandleListFamilies)
		r.Get("/hub/models", h.HandleSearchHub)

		r.Post("/verify", h.HandleVerify)
		r.Get("/verify/stream", h.HandleSSE)
		r.Get("/verify/ws", h.HandleWebSocket)
	})

	return r
}
