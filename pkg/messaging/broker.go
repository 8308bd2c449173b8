package messaging

import "context"

// Broker publishes domain events to interested consumers.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
