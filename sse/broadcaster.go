package sse

import "context"

// Publisher is the publish surface of a Hub. Handlers that only send events
// can depend on this abstraction rather than a concrete Hub.
type Publisher interface {
	// Publish delivers one event, blocking for queue space bounded by ctx.
	Publish(ctx context.Context, data string, opts ...PublishOption) error
	// PublishNowait delivers one event without ever blocking the caller;
	// full subscriber queues drop it.
	PublishNowait(data string, opts ...PublishOption) error
}

var _ Publisher = (*Hub)(nil)
