package events

// Subscriber consumes events for one transport. Send must not block.
type Subscriber interface {
	Send(Event) error
	Close() error
}
