// Package handlers implements the registry API endpoints.
package handlers

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/server/cache"
	"github.com/agentstation/modelreg/internal/server/events"
	"github.com/agentstation/modelreg/internal/server/sse"
	ws "github.com/agentstation/modelreg/internal/server/websocket"
)

// Handlers carries the dependencies shared by every endpoint.
type Handlers struct {
	app            appcontext.Interface
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	startTime      time.Time

	// verifying is set while a verification run is in progress.
	verifying atomic.Bool
}

// New creates the handlers.
func New(
	app appcontext.Interface,
	cache *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		app:            app,
		cache:          cache,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
		startTime:      startTime,
	}
}
