package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/modelreg/internal/server/response"
)

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"version": h.app.Version(),
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HandleReady handles GET /readyz. The server is ready once the registry
// has been built.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	reg, err := h.app.Registry(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Registry not available")
		response.ServiceUnavailable(w, "Registry not available")
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"models":            reg.Len(),
		"families":          reg.Families(),
		"cache_items":       h.cache.ItemCount(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
