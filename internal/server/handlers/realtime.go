package handlers

import (
	"fmt"
	"net/http"
	"time"

	ws "github.com/agentstation/modelreg/internal/server/websocket"
)

// HandleWebSocket handles GET /v1/verify/ws, streaming verification events
// as JSON messages.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano()), h.wsHub, conn)
	h.wsHub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE handles GET /v1/verify/stream, streaming verification events as
// Server-Sent Events.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
