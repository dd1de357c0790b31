package sse

import (
	"context"
	"fmt"

	"github.com/kbukum/ssekit/component"
)

// Component wraps a Hub as a lifecycle-managed component. Register it with
// the component registry so shutdown disconnects every stream session.
type Component struct {
	hub  *Hub
	path string
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates an SSE component with a fresh Hub served at path.
func NewComponent(path string, opts ...Option) *Component {
	return &Component{
		hub:  NewHub(opts...),
		path: path,
	}
}

// Hub returns the underlying Hub for route attachment and publishing.
func (c *Component) Hub() *Hub { return c.hub }

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start is a no-op: the hub needs no background work, sessions run on their
// own connection goroutines.
func (c *Component) Start(_ context.Context) error { return nil }

// Stop closes the hub, terminating every active stream session.
func (c *Component) Stop(_ context.Context) error {
	c.hub.Close()
	return nil
}

// Health reports the hub status and current subscriber count.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d subscribers connected", c.hub.Subscribers("")),
	}
}

// Describe returns infrastructure summary info for startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "SSE Hub",
		Type:    "sse",
		Details: fmt.Sprintf("Path: %s", c.path),
	}
}
