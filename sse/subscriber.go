package sse

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Subscriber is the bounded per-connection mailbox a stream session drains.
// It is created by Hub.Subscribe and torn down by Hub.Unsubscribe; the hub
// keeps a non-owning reference for fan-out while the owning session is the
// only reader of Events.
type Subscriber struct {
	token   string
	channel string
	events  chan Event

	done      chan struct{}
	closeOnce sync.Once
}

func newSubscriber(channel string, capacity int) *Subscriber {
	return &Subscriber{
		token:   uuid.New().String(),
		channel: channel,
		events:  make(chan Event, capacity),
		done:    make(chan struct{}),
	}
}

// Token returns the connection-scoped identifier of this subscriber.
func (s *Subscriber) Token() string { return s.token }

// Channel returns the channel this subscriber registered under, "" for the
// broadcast-only default.
func (s *Subscriber) Channel() string { return s.channel }

// Events returns the mailbox to drain. Only the owning stream session may
// receive from it.
func (s *Subscriber) Events() <-chan Event { return s.events }

// Done is closed when the subscriber has been unsubscribed or the hub shut
// down. Sessions select on it to terminate promptly.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// close marks the subscriber gone. The events channel is never closed, so a
// publish racing with unsubscription can never panic; undelivered events are
// simply garbage-collected with the subscriber.
func (s *Subscriber) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// send enqueues ev, blocking until there is queue space, the subscriber goes
// away, or ctx expires. Enqueueing into a departed subscriber is a silent
// no-op: the registry snapshot that produced it was valid when taken.
func (s *Subscriber) send(ctx context.Context, ev Event) error {
	select {
	case <-s.done:
		return nil
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// trySend enqueues ev without blocking. It reports false when the event was
// dropped because the queue is full or the subscriber is gone.
func (s *Subscriber) trySend(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}
