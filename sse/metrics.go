package sse

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/ssekit/observability"
)

const instrumentationName = "github.com/kbukum/ssekit/sse"

// hubMetrics holds the OpenTelemetry instruments for hub activity. Instrument
// creation on the noop default provider never fails, so a hub is usable with
// or without a configured meter provider.
type hubMetrics struct {
	subscribers metric.Int64UpDownCounter
	events      metric.Int64Counter
	delivered   metric.Int64Counter
	dropped     metric.Int64Counter
}

func newHubMetrics() *hubMetrics {
	meter := observability.Meter(instrumentationName)
	m := &hubMetrics{}

	m.subscribers, _ = meter.Int64UpDownCounter("sse.subscribers.active",
		metric.WithDescription("Number of currently registered subscribers"),
	)
	m.events, _ = meter.Int64Counter("sse.events.published",
		metric.WithDescription("Total number of published events"),
	)
	m.delivered, _ = meter.Int64Counter("sse.events.delivered",
		metric.WithDescription("Total number of event enqueues into subscriber queues"),
	)
	m.dropped, _ = meter.Int64Counter("sse.events.dropped",
		metric.WithDescription("Total number of events dropped on full subscriber queues"),
	)
	return m
}

func channelAttr(channel string) metric.MeasurementOption {
	if channel == "" {
		channel = "(broadcast)"
	}
	return metric.WithAttributes(attribute.String("channel", channel))
}

func (m *hubMetrics) subscriberAdded(channel string) {
	m.subscribers.Add(context.Background(), 1, channelAttr(channel))
}

func (m *hubMetrics) subscriberRemoved(channel string) {
	m.subscribers.Add(context.Background(), -1, channelAttr(channel))
}

func (m *hubMetrics) published(channel string, deliveries int) {
	ctx := context.Background()
	m.events.Add(ctx, 1, channelAttr(channel))
	if deliveries > 0 {
		m.delivered.Add(ctx, int64(deliveries), channelAttr(channel))
	}
}

func (m *hubMetrics) droppedEvents(channel string, n int) {
	m.dropped.Add(context.Background(), int64(n), channelAttr(channel))
}
