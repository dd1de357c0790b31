package logger

import "testing"

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Level)
	}
	if cfg.Format == "" {
		t.Error("expected default format")
	}
	if cfg.Output == "" {
		t.Error("expected default output")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json", Output: "stdout"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "publish", "channel", "clock")
	if m["op"] != "publish" || m["channel"] != "clock" {
		t.Errorf("unexpected fields: %v", m)
	}

	// Dangling key is dropped.
	m = Fields("only-key")
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}

func TestRegistry_GetFallsBackToComponentLogger(t *testing.T) {
	l := Get("unregistered-component")
	if l == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	custom := NewDefault("custom")
	Register("custom", custom)

	if got := Get("custom"); got != custom {
		t.Error("expected registered logger returned")
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l := NewDefault("svc").
		WithComponent("sse").
		WithFields(map[string]interface{}{"channel": "clock"})

	if l == nil {
		t.Fatal("expected derived logger")
	}
	// Smoke test that logging does not panic.
	l.Debug("test message", map[string]interface{}{"k": "v"})
}
