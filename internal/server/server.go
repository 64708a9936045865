// Package server serves the model registry over HTTP: listings, family
// state, hub search and verification runs whose progress streams over SSE
// and WebSocket.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/server/cache"
	"github.com/agentstation/modelreg/internal/server/events"
	"github.com/agentstation/modelreg/internal/server/events/adapters"
	"github.com/agentstation/modelreg/internal/server/middleware"
	"github.com/agentstation/modelreg/internal/server/sse"
	ws "github.com/agentstation/modelreg/internal/server/websocket"
	"github.com/agentstation/modelreg/pkg/constants"
)

// Server holds the HTTP server state.
type Server struct {
	app            appcontext.Interface
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	rateLimiter    *middleware.RateLimiter
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	started        atomic.Bool
	startTime      time.Time
}

// New creates a server. Call Start before serving Handler.
func New(app appcontext.Interface, cfg Config) *Server {
	logger := app.Logger()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		app:            app,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}
	return s
}

// Start runs the broker and the streaming transports in the background.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	var wg sync.WaitGroup
	for _, run := range []func(context.Context){s.broker.Run, s.wsHub.Run, s.sseBroadcaster.Run} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(s.ctx)
		}()
	}
	go func() {
		wg.Wait()
		close(s.done)
	}()
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer returns an http.Server for the configured address and
// timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
}

// Shutdown stops the background services and waits for them until ctx is
// done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if !s.started.Load() {
		return nil
	}
	select {
	case <-s.done:
		s.logger.Debug().Msg("Background services stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}
