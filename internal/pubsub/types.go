package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	codec
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub. It doubles as the topic name.
type EventType string

const (
	EventSessionLocked         EventType = "session-locked"
	EventRecalculationFinished EventType = "recalculation-finished"
)

// SessionLockedEvent is published by the club application when a session is SUBMITTED or EDITED.
type SessionLockedEvent struct {
	SessionID int64 `msgpack:"session_id"`
}
