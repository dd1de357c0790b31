package config

import (
	"fmt"
	"time"

	"github.com/kbukum/ssekit/logger"
)

// ServiceConfig contains the essential configuration fields every service needs.
// Projects extend this by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    SSE config.SSEConfig `yaml:"sse" mapstructure:"sse"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted
// so the embedding struct automatically satisfies the Config interface.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Override this in embedding structs and call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	// Propagate service name into logging so Init() uses the right tag.
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Override this in embedding structs and call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// SSEConfig configures the SSE hub and its HTTP endpoint.
type SSEConfig struct {
	// Path is the route the event stream is served on.
	Path string `yaml:"path" mapstructure:"path"`
	// ChannelParam is the query parameter naming the channel to join.
	ChannelParam string `yaml:"channel_param" mapstructure:"channel_param"`
	// QueueSize is the per-subscriber event buffer capacity.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"`
	// KeepAlive is the interval between keep-alive comment frames.
	KeepAlive time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`
}

// ApplyDefaults fills in zero-value SSE fields.
func (c *SSEConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "/events"
	}
	if c.ChannelParam == "" {
		c.ChannelParam = "channel"
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = 15 * time.Second
	}
}

// Validate checks SSE configuration bounds.
func (c *SSEConfig) Validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("sse.queue_size must be positive (got: %d)", c.QueueSize)
	}
	if c.KeepAlive < time.Second {
		return fmt.Errorf("sse.keep_alive must be at least 1s (got: %s)", c.KeepAlive)
	}
	return nil
}
