// Package sse provides Server-Sent Events (SSE) broadcast infrastructure:
// channel-partitioned fan-out of events to long-lived HTTP connections.
//
// # Architecture
//
//   - Event: a single SSE record with its wire-format codec
//   - Subscriber: bounded per-connection mailbox of pending events
//   - Hub: concurrency-safe channel registry plus the publish fan-out
//   - Handler/Attach: the per-connection streaming loop on a Gin route
//   - Gatekeeper: optional admission hook run before a subscription exists
//
// # Usage
//
//	hub := sse.NewHub()
//	sse.Attach(router, "/sse", hub)
//
//	// from any handler:
//	err := hub.Publish(ctx, "tick", sse.WithChannel("clock"))
//
// Delivery is best-effort and at-most-once: a subscriber that falls behind
// its queue capacity loses events under PublishNowait, or applies
// backpressure to the caller under Publish. Nothing is persisted; clients
// reconnect after a restart.
package sse
