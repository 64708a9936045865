// Package events fans verification progress out to the streaming
// transports (WebSocket and SSE) through one broker.
package events

import "time"

// EventType names an event.
type EventType string

// Event types.
const (
	// VerifyStarted is published once per run with the number of models.
	VerifyStarted EventType = "verify.started"
	// VerifyResult carries one verify.Result.
	VerifyResult EventType = "verify.result"
	// VerifyFinished carries the run summary.
	VerifyFinished EventType = "verify.finished"

	// ClientConnected is sent by the transports when a client joins.
	ClientConnected EventType = "client.connected"
)

// Event is one published event.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
