// Package adapters connects the event broker to the streaming transports.
package adapters

import (
	"github.com/agentstation/modelreg/internal/server/events"
	ws "github.com/agentstation/modelreg/internal/server/websocket"
)

// WebSocketSubscriber forwards broker events to a WebSocket hub.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber creates a WebSocket subscriber.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send implements events.Subscriber.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(ws.Message{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close implements events.Subscriber. The hub owns its lifecycle.
func (w *WebSocketSubscriber) Close() error {
	return nil
}
