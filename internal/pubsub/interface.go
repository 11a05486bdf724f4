package pubsub

import "context"

// Decoder turns a message payload back into a value.
type Decoder interface {
	ProcessMessage(data []byte, returnValue any) error
}

type PubSubClient interface {
	Decoder
	SendMessage(ctx context.Context, topic EventType, data any) error
	Close() error
}
