package sse

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ssekit/errors"
	"github.com/kbukum/ssekit/logger"
)

// DefaultKeepAlive is the idle interval between keep-alive comment frames.
// It must stay below typical proxy idle timeouts (usually 60s).
const DefaultKeepAlive = 15 * time.Second

// DefaultChannelParam is the query parameter selecting the channel to join.
const DefaultChannelParam = "channel"

// Gatekeeper is called once per connection before a subscription is created.
// Returning nil admits the client. Returning an *errors.AppError rejects it
// with that status and body; any other error is treated as an internal
// failure and rejected with a 500. A rejected connection never touches the
// registry.
type Gatekeeper func(r *http.Request) error

// HandlerOption configures the streaming handler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	gatekeeper   Gatekeeper
	keepAlive    time.Duration
	channelParam string
	log          *logger.Logger
}

// WithGatekeeper installs the admission hook.
func WithGatekeeper(g Gatekeeper) HandlerOption {
	return func(o *handlerOptions) { o.gatekeeper = g }
}

// WithKeepAlive sets the idle keep-alive interval.
func WithKeepAlive(d time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		if d > 0 {
			o.keepAlive = d
		}
	}
}

// WithChannelParam renames the channel-selecting query parameter.
func WithChannelParam(name string) HandlerOption {
	return func(o *handlerOptions) {
		if name != "" {
			o.channelParam = name
		}
	}
}

// WithHandlerLogger sets the logger used by stream sessions.
func WithHandlerLogger(log *logger.Logger) HandlerOption {
	return func(o *handlerOptions) { o.log = log }
}

// Attach binds a GET route at path that serves one stream session per
// connection from the hub. The route accepts a channel-selecting query
// parameter (default "channel").
func Attach(r gin.IRoutes, path string, hub *Hub, opts ...HandlerOption) {
	r.GET(path, Handler(hub, opts...))
}

// Handler returns the Gin handler driving one stream session per connection:
// gatekeeping, registration, the drain/keep-alive loop, and unconditional
// unsubscription on every exit path.
func Handler(hub *Hub, opts ...HandlerOption) gin.HandlerFunc {
	o := handlerOptions{
		keepAlive:    DefaultKeepAlive,
		channelParam: DefaultChannelParam,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("sse")
	}

	return func(c *gin.Context) {
		if o.gatekeeper != nil {
			if err := o.gatekeeper(c.Request); err != nil {
				appErr, ok := errors.AsAppError(err)
				if !ok {
					appErr = errors.Internal(err)
				}
				c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
				return
			}
		}

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			appErr := errors.New(errors.ErrCodeInternal, "streaming not supported by connection", http.StatusInternalServerError)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		// SSE connections outlive the server write timeout.
		rc := http.NewResponseController(c.Writer)
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			o.log.Warn("could not disable write deadline", map[string]interface{}{
				"error": err.Error(),
			})
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		channel := c.Query(o.channelParam)
		sub := hub.Subscribe(channel)
		defer hub.Unsubscribe(sub)

		c.Status(http.StatusOK)
		flusher.Flush()

		o.log.Debug("stream session started", map[string]interface{}{
			"token":       sub.Token(),
			"channel":     channel,
			"remote_addr": c.Request.RemoteAddr,
		})

		keepAlive := time.NewTicker(o.keepAlive)
		defer keepAlive.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				o.log.Debug("stream session closed by client", map[string]interface{}{
					"token": sub.Token(),
				})
				return

			case <-sub.Done():
				o.log.Debug("stream session closed by hub", map[string]interface{}{
					"token": sub.Token(),
				})
				return

			case ev := <-sub.Events():
				if _, err := c.Writer.Write(ev.Encode()); err != nil {
					o.log.Debug("stream session write failed", map[string]interface{}{
						"token": sub.Token(),
						"error": err.Error(),
					})
					return
				}
				flusher.Flush()

			case <-keepAlive.C:
				if _, err := c.Writer.Write(KeepAliveFrame); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
