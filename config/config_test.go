package config

import (
	"testing"
	"time"
)

func TestServiceConfig_Defaults(t *testing.T) {
	cfg := ServiceConfig{Name: "svc"}
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug enabled in development")
	}
	if cfg.Logging.ServiceName != "svc" {
		t.Errorf("expected service name propagated to logging, got %q", cfg.Logging.ServiceName)
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	cfg := ServiceConfig{Name: "svc"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Name = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing name")
	}

	cfg.Name = "svc"
	cfg.Environment = "qa"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestSSEConfig_Defaults(t *testing.T) {
	var cfg SSEConfig
	cfg.ApplyDefaults()

	if cfg.Path != "/events" {
		t.Errorf("expected /events, got %q", cfg.Path)
	}
	if cfg.ChannelParam != "channel" {
		t.Errorf("expected channel, got %q", cfg.ChannelParam)
	}
	if cfg.QueueSize != 64 {
		t.Errorf("expected queue size 64, got %d", cfg.QueueSize)
	}
	if cfg.KeepAlive != 15*time.Second {
		t.Errorf("expected 15s keep-alive, got %s", cfg.KeepAlive)
	}
}

func TestSSEConfig_Validate(t *testing.T) {
	cfg := SSEConfig{QueueSize: 64, KeepAlive: 15 * time.Second}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.QueueSize = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative queue size")
	}

	cfg.QueueSize = 64
	cfg.KeepAlive = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sub-second keep-alive")
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("SSE_QUEUE_SIZE")

	want := map[string]bool{
		"sse_queue_size": false,
		"sse.queue.size": false,
		"sse.queue_size": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("expected variant %q in %v", key, variants)
		}
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(path string) error {
	return nil
}

func TestLoadConfig_NoFiles(t *testing.T) {
	type testConfig struct {
		ServiceConfig `yaml:",inline" mapstructure:",squash"`
	}

	var cfg testConfig
	err := LoadConfig("missing", &cfg, WithFileSystem(&fakeFS{files: map[string]bool{}}))
	if err != nil {
		t.Errorf("expected load without files to succeed, got %v", err)
	}
}
