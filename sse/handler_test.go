package sse

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ssekit/auth"
	"github.com/kbukum/ssekit/errors"
)

func newTestServer(t *testing.T, hub *Hub, opts ...HandlerOption) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Attach(router, "/events", hub, opts...)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

// waitForSubscribers polls until the hub reports n subscribers on channel.
func waitForSubscribers(t *testing.T, hub *Hub, channel string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Subscribers(channel) == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d subscribers on %q, have %d", n, channel, hub.Subscribers(channel))
}

func TestHandler_StreamsPublishedEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ts := newTestServer(t, hub)

	resp, err := http.Get(ts.URL + "/events?channel=clock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected text/event-stream content type, got %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected no-cache, got %q", cc)
	}

	waitForSubscribers(t, hub, "clock", 1)

	if err := hub.Publish(context.Background(), "tick", WithChannel("clock"), WithType("clock")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	frame := strings.Join(lines, "\n")
	if !strings.Contains(frame, "event: clock") {
		t.Errorf("expected event line in frame, got %q", frame)
	}
	if !strings.Contains(frame, "data: tick") {
		t.Errorf("expected data line in frame, got %q", frame)
	}
}

func TestHandler_KeepAliveFrames(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ts := newTestServer(t, hub, WithKeepAlive(20*time.Millisecond))

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	if !strings.HasPrefix(line, ":") {
		t.Errorf("expected comment keep-alive frame, got %q", line)
	}
}

func TestHandler_ClientDisconnectCleansUp(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ts := newTestServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events?channel=a", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	waitForSubscribers(t, hub, "a", 1)

	cancel()

	waitForSubscribers(t, hub, "a", 0)
	waitForSubscribers(t, hub, "", 0)
}

func TestHandler_HubCloseEndsSession(t *testing.T) {
	hub := NewHub()
	ts := newTestServer(t, hub)

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	waitForSubscribers(t, hub, "", 1)

	hub.Close()

	// The session exits and the body reaches EOF.
	reader := bufio.NewReader(resp.Body)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := reader.ReadString('\n'); err != nil {
			return
		}
	}
	t.Fatal("expected stream to end after hub close")
}

func TestHandler_ChannelParamRename(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ts := newTestServer(t, hub, WithChannelParam("topic"))

	resp, err := http.Get(ts.URL + "/events?topic=news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	waitForSubscribers(t, hub, "news", 1)
}

func TestHandler_GatekeeperRejects(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	Attach(router, "/events", hub, WithGatekeeper(func(r *http.Request) error {
		return errors.Unauthorized("no entry")
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if got := hub.Subscribers(""); got != 0 {
		t.Errorf("expected rejected connection to never register, got %d subscribers", got)
	}
}

func TestHandler_GatekeeperGenericErrorIs500(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	Attach(router, "/events", hub, WithGatekeeper(func(r *http.Request) error {
		return fmt.Errorf("backend exploded")
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestHandler_GatekeeperAdmits(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ts := newTestServer(t, hub, WithGatekeeper(func(r *http.Request) error {
		return nil
	}))

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	waitForSubscribers(t, hub, "", 1)
}

func TestBearerGatekeeper(t *testing.T) {
	accept := auth.TokenValidatorFunc(func(token string) (any, error) {
		if token == "good" {
			return "claims", nil
		}
		return nil, fmt.Errorf("bad token")
	})
	gk := BearerGatekeeper(accept)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			err := gk(req)
			if tc.status == 0 {
				if err != nil {
					t.Fatalf("expected admission, got %v", err)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, appErr.HTTPStatus)
			}
		})
	}
}
