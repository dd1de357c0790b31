package sse

import (
	"context"
	"net/http"
	"sync"

	"github.com/kbukum/ssekit/errors"
	"github.com/kbukum/ssekit/logger"
)

// DefaultQueueSize is the per-subscriber mailbox capacity unless overridden
// with WithQueueSize.
const DefaultQueueSize = 64

// broadcastChannel is the reserved name holding the union of all subscribers.
const broadcastChannel = ""

// Hub is the channel registry and fan-out engine. It maps channel names to
// their current subscriber sets and delivers published events to them.
// Channels come into existence with their first subscriber and disappear
// with their last; there is no channel management API.
//
// A Hub is an explicit instance — construct one per server so independent
// servers can coexist in a process.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[string]*Subscriber
	closed   bool

	queueSize int
	log       *logger.Logger
	metrics   *hubMetrics
}

// Option configures a Hub.
type Option func(*Hub)

// WithQueueSize sets the per-subscriber mailbox capacity.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// WithLogger sets the logger used for hub events.
func WithLogger(log *logger.Logger) Option {
	return func(h *Hub) { h.log = log }
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		channels:  make(map[string]map[string]*Subscriber),
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Get("sse")
	}
	h.metrics = newHubMetrics()
	return h
}

// Subscribe registers a new subscriber under the given channel ("" joins only
// the broadcast set). Named subscribers are also members of the broadcast
// union, so channel-less publishes reach them too.
//
// On a closed hub the returned subscriber is already done; a session draining
// it terminates immediately.
func (h *Hub) Subscribe(channel string) *Subscriber {
	sub := newSubscriber(channel, h.queueSize)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub
	}
	h.addLocked(broadcastChannel, sub)
	if channel != broadcastChannel {
		h.addLocked(channel, sub)
	}
	total := len(h.channels[broadcastChannel])
	h.mu.Unlock()

	h.metrics.subscriberAdded(channel)
	h.log.Debug("subscriber registered", map[string]interface{}{
		"token":   sub.token,
		"channel": channel,
		"total":   total,
	})
	return sub
}

// Unsubscribe removes the subscriber from the registry and wakes its session.
// It is idempotent: unsubscribing an already-removed reference is a no-op.
// The channel entry is dropped once its last subscriber leaves.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	removed := h.removeLocked(broadcastChannel, sub)
	if sub.channel != broadcastChannel {
		h.removeLocked(sub.channel, sub)
	}
	total := len(h.channels[broadcastChannel])
	h.mu.Unlock()

	sub.close()
	if !removed {
		return
	}
	h.metrics.subscriberRemoved(sub.channel)
	h.log.Debug("subscriber unregistered", map[string]interface{}{
		"token":   sub.token,
		"channel": sub.channel,
		"total":   total,
	})
}

// Subscribers returns the current number of subscribers of a channel, or the
// total across all channels when channel is "".
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Publish builds one event from data and the options, then enqueues it into
// every subscriber of the target channel (all subscribers when no channel is
// given). It blocks only for queue space, bounded by ctx — never for the
// event to be read by a client.
//
// Publishing to a named channel with no subscribers fails with a channel
// not-found error (errors.IsChannelNotFound); a channel-less publish with no
// subscribers at all succeeds and delivers to nobody.
func (h *Hub) Publish(ctx context.Context, data string, opts ...PublishOption) error {
	ev, channel, err := buildEvent(data, opts)
	if err != nil {
		return err
	}
	subs, err := h.snapshot(channel)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := sub.send(ctx, ev); err != nil {
			return err
		}
	}
	h.metrics.published(channel, len(subs))
	return nil
}

// PublishNowait is Publish without backpressure: full subscriber queues drop
// the event instead of suspending the caller. Resolution and validation are
// identical, including the channel not-found error.
func (h *Hub) PublishNowait(data string, opts ...PublishOption) error {
	ev, channel, err := buildEvent(data, opts)
	if err != nil {
		return err
	}
	subs, err := h.snapshot(channel)
	if err != nil {
		return err
	}
	dropped := 0
	for _, sub := range subs {
		if !sub.trySend(ev) {
			dropped++
		}
	}
	h.metrics.published(channel, len(subs)-dropped)
	if dropped > 0 {
		h.metrics.droppedEvents(channel, dropped)
		h.log.Warn("dropped events for slow subscribers", map[string]interface{}{
			"channel": channel,
			"dropped": dropped,
		})
	}
	return nil
}

// Close shuts the hub down: every subscriber is marked done so its session
// exits, and the registry is cleared. Subsequent publishes fail and
// subsequent subscriptions are stillborn. Safe to call multiple times.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	all := h.channels[broadcastChannel]
	h.channels = make(map[string]map[string]*Subscriber)
	h.mu.Unlock()

	for _, sub := range all {
		sub.close()
	}
	h.log.Info("hub closed", map[string]interface{}{"subscribers": len(all)})
}

// snapshot resolves the target subscriber set under the read lock so fan-out
// never observes a half-updated membership set.
func (h *Hub) snapshot(channel string) ([]*Subscriber, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "sse hub is closed", http.StatusServiceUnavailable)
	}
	set := h.channels[channel]
	if channel != broadcastChannel && len(set) == 0 {
		return nil, errors.ChannelNotFound(channel)
	}
	subs := make([]*Subscriber, 0, len(set))
	for _, sub := range set {
		subs = append(subs, sub)
	}
	return subs, nil
}

func (h *Hub) addLocked(channel string, sub *Subscriber) {
	set := h.channels[channel]
	if set == nil {
		set = make(map[string]*Subscriber)
		h.channels[channel] = set
	}
	set[sub.token] = sub
}

func (h *Hub) removeLocked(channel string, sub *Subscriber) bool {
	set := h.channels[channel]
	if _, ok := set[sub.token]; !ok {
		return false
	}
	delete(set, sub.token)
	if len(set) == 0 {
		delete(h.channels, channel)
	}
	return true
}

// PublishOption customizes a single publish call.
type PublishOption func(*publishOptions)

type publishOptions struct {
	channel string
	id      string
	typ     string
	retry   int
}

// WithChannel targets the event at one named channel instead of broadcasting.
func WithChannel(name string) PublishOption {
	return func(o *publishOptions) { o.channel = name }
}

// WithID sets the event id line.
func WithID(id string) PublishOption {
	return func(o *publishOptions) { o.id = id }
}

// WithType sets the event type line.
func WithType(t string) PublishOption {
	return func(o *publishOptions) { o.typ = t }
}

// WithRetry sets the client reconnection delay in milliseconds.
func WithRetry(ms int) PublishOption {
	return func(o *publishOptions) { o.retry = ms }
}

func buildEvent(data string, opts []PublishOption) (Event, string, error) {
	var o publishOptions
	for _, opt := range opts {
		opt(&o)
	}
	ev := Event{Data: data, ID: o.id, Type: o.typ, Retry: o.retry}
	if err := ev.Validate(); err != nil {
		return Event{}, "", err
	}
	return ev, o.channel, nil
}
