package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewViperFromBytes(t *testing.T) {
	data := []byte(`
app:
  server:
    port: 8080
    http:
      read_timeout_seconds: 5
    cors: "http://a.test,http://b.test"
otp:
  skew: 1
instrument:
  enabled: true
`)

	cfg, err := NewViperFromBytes("yaml", data, WithDefaults(map[string]any{"otp.default_interval": 60}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.GetInt("app.server.port"); got != 8080 {
		t.Fatalf("port: got %d", got)
	}
	if got := cfg.GetSecond("app.server.http.read_timeout_seconds"); got != 5*time.Second {
		t.Fatalf("read timeout: got %v", got)
	}
	if got := cfg.GetArray("app.server.cors"); len(got) != 2 || got[1] != "http://b.test" {
		t.Fatalf("cors: got %v", got)
	}
	if got := cfg.GetUint("otp.skew"); got != 1 {
		t.Fatalf("skew: got %d", got)
	}
	if got := cfg.GetInt("otp.default_interval"); got != 60 {
		t.Fatalf("default interval: got %d", got)
	}
	if !cfg.GetBool("instrument.enabled") {
		t.Fatal("instrument.enabled: expected true")
	}
	if got := cfg.GetArray("missing"); len(got) != 0 {
		t.Fatalf("missing array: got %v", got)
	}
}

func TestNewViperFromBytes_EmptyType(t *testing.T) {
	if _, err := NewViperFromBytes(" ", nil); err == nil {
		t.Fatal("expected error for empty config type")
	}
}

func TestNewViper_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("OTP_SERVER_SECRET", "s3cr3t")

	cfg, err := NewViper(filepath.Join(t.TempDir(), "config.yaml"),
		WithDefaults(map[string]any{"app.server.port": "30624"}),
		WithEnv(map[string]string{"otp.secret": "OTP_SERVER_SECRET"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.GetString("otp.secret"); got != "s3cr3t" {
		t.Fatalf("secret: got %q", got)
	}
	if got := cfg.GetString("app.server.port"); got != "30624" {
		t.Fatalf("port: got %q", got)
	}
}

func TestNewViper_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("app:\n  server:\n    port: 9000\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OTP_SERVER_PORT", "9100")

	cfg, err := NewViper(file, WithEnv(map[string]string{"app.server.port": "OTP_SERVER_PORT"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.GetInt("app.server.port"); got != 9100 {
		t.Fatalf("port: got %d want 9100", got)
	}
}
