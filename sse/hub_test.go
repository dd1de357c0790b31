package sse

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/ssekit/errors"
)

func TestHub_Subscribe_Counts(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a1 := hub.Subscribe("a")
	a2 := hub.Subscribe("a")
	b1 := hub.Subscribe("b")

	if got := hub.Subscribers("a"); got != 2 {
		t.Errorf("expected 2 subscribers on 'a', got %d", got)
	}
	if got := hub.Subscribers("b"); got != 1 {
		t.Errorf("expected 1 subscriber on 'b', got %d", got)
	}
	if got := hub.Subscribers(""); got != 3 {
		t.Errorf("expected 3 total subscribers, got %d", got)
	}

	_ = a1
	_ = a2
	_ = b1
}

func TestHub_Subscribe_UniqueTokens(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	s1 := hub.Subscribe("a")
	s2 := hub.Subscribe("a")
	if s1.Token() == s2.Token() {
		t.Error("expected distinct subscriber tokens")
	}
}

func TestHub_Publish_ChannelTargeting(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a := hub.Subscribe("a")
	b := hub.Subscribe("b")

	if err := hub.Publish(context.Background(), "for-a", WithChannel("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case ev := <-a.Events():
		if ev.Data != "for-a" {
			t.Errorf("expected 'for-a', got %q", ev.Data)
		}
	default:
		t.Error("expected event on channel 'a' subscriber")
	}

	select {
	case ev := <-b.Events():
		t.Errorf("unexpected event on channel 'b' subscriber: %+v", ev)
	default:
	}
}

func TestHub_Publish_BroadcastReachesEveryone(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	subs := []*Subscriber{
		hub.Subscribe("a"),
		hub.Subscribe("b"),
		hub.Subscribe(""),
	}

	if err := hub.Publish(context.Background(), "all"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, sub := range subs {
		select {
		case ev := <-sub.Events():
			if ev.Data != "all" {
				t.Errorf("subscriber %d: expected 'all', got %q", i, ev.Data)
			}
		default:
			t.Errorf("subscriber %d: expected broadcast event", i)
		}
	}
}

func TestHub_Publish_UnknownChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	err := hub.Publish(context.Background(), "x", WithChannel("ghost"))
	if err == nil {
		t.Fatal("expected error for channel with no subscribers")
	}
	if !errors.IsChannelNotFound(err) {
		t.Errorf("expected channel not found error, got %v", err)
	}
}

func TestHub_Publish_BroadcastWithNoSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	if err := hub.Publish(context.Background(), "nobody home"); err != nil {
		t.Errorf("expected broadcast without subscribers to succeed, got %v", err)
	}
}

func TestHub_Publish_InvalidEvent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	err := hub.Publish(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty data")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeMissingField {
		t.Errorf("expected missing field error, got %v", err)
	}
}

func TestHub_Publish_BlocksUntilContextExpires(t *testing.T) {
	hub := NewHub(WithQueueSize(1))
	defer hub.Close()

	hub.Subscribe("a")

	ctx := context.Background()
	if err := hub.Publish(ctx, "1", WithChannel("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Queue is full and nobody is draining: the publish must block until
	// the deadline.
	timeoutCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err := hub.Publish(timeoutCtx, "2", WithChannel("a"))
	if err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestHub_PublishNowait_DropsOnFullQueue(t *testing.T) {
	hub := NewHub(WithQueueSize(1))
	defer hub.Close()

	sub := hub.Subscribe("a")

	if err := hub.PublishNowait("1", WithChannel("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Queue full: this one is dropped, but the publish still succeeds.
	if err := hub.PublishNowait("2", WithChannel("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := <-sub.Events()
	if ev.Data != "1" {
		t.Errorf("expected first event to survive, got %q", ev.Data)
	}
	select {
	case ev := <-sub.Events():
		t.Errorf("expected second event to be dropped, got %+v", ev)
	default:
	}
}

func TestHub_PublishNowait_UnknownChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	if err := hub.PublishNowait("x", WithChannel("ghost")); !errors.IsChannelNotFound(err) {
		t.Errorf("expected channel not found error, got %v", err)
	}
}

func TestHub_Publish_CarriesOptions(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub := hub.Subscribe("a")
	err := hub.Publish(context.Background(), "payload",
		WithChannel("a"), WithID("9"), WithType("tick"), WithRetry(2000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := <-sub.Events()
	if ev.ID != "9" || ev.Type != "tick" || ev.Retry != 2000 {
		t.Errorf("expected options on event, got %+v", ev)
	}
}

func TestHub_Unsubscribe_RemovesAndWakes(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub := hub.Subscribe("a")
	hub.Unsubscribe(sub)

	if got := hub.Subscribers("a"); got != 0 {
		t.Errorf("expected 0 subscribers on 'a', got %d", got)
	}
	if got := hub.Subscribers(""); got != 0 {
		t.Errorf("expected 0 total subscribers, got %d", got)
	}

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Error("expected done channel to be closed")
	}
}

func TestHub_Unsubscribe_Idempotent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub := hub.Subscribe("a")
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(nil)

	if got := hub.Subscribers(""); got != 0 {
		t.Errorf("expected 0 subscribers, got %d", got)
	}
}

func TestHub_Unsubscribe_LastSubscriberDestroysChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub := hub.Subscribe("a")
	hub.Unsubscribe(sub)

	// A publish to the emptied channel now fails like any unknown channel.
	err := hub.Publish(context.Background(), "x", WithChannel("a"))
	if !errors.IsChannelNotFound(err) {
		t.Errorf("expected channel not found after last unsubscribe, got %v", err)
	}
}

func TestHub_Close_TerminatesSubscribers(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("a")
	hub.Close()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Error("expected subscriber to be done after close")
	}

	if err := hub.Publish(context.Background(), "x"); err == nil {
		t.Error("expected publish on closed hub to fail")
	}

	// Subscriptions after close are stillborn.
	late := hub.Subscribe("a")
	select {
	case <-late.Done():
	default:
		t.Error("expected late subscriber to be done immediately")
	}

	// Close is idempotent.
	hub.Close()
}

func TestHub_ConcurrentPublishAndChurn(t *testing.T) {
	hub := NewHub(WithQueueSize(4))
	defer hub.Close()

	channels := []string{"a", "b", "c"}
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for j := 0; j < 100; j++ {
				ch := channels[rng.Intn(len(channels))]
				sub := hub.Subscribe(ch)
				if rng.Intn(2) == 0 {
					_ = hub.PublishNowait("churn", WithChannel(ch))
				}
				hub.Unsubscribe(sub)
			}
		}(int64(i))
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = hub.PublishNowait("broadcast")
			}
		}()
	}

	wg.Wait()

	if got := hub.Subscribers(""); got != 0 {
		t.Errorf("expected no subscribers after churn, got %d", got)
	}
}

func TestSubscriber_SendAfterClose(t *testing.T) {
	sub := newSubscriber("a", 1)
	sub.close()

	if err := sub.send(context.Background(), Event{Data: "x"}); err != nil {
		t.Errorf("expected send on closed subscriber to be a no-op, got %v", err)
	}
	if sub.trySend(Event{Data: "x"}) {
		t.Error("expected trySend on closed subscriber to report a drop")
	}
}
