package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvServer, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDSN, "")
	return dir
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	isolate(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server != "http://localhost:8080" {
		t.Errorf("Server = %q", c.Server)
	}
	if c.Reconnect.Delay() != 3*time.Second {
		t.Errorf("reconnect delay = %v, want 3s", c.Reconnect.Delay())
	}
	if c.Reconnect.MaxAttempts != 0 {
		t.Errorf("max attempts = %d, want unbounded", c.Reconnect.MaxAttempts)
	}
	if !c.DiscardStaleResults {
		t.Error("stale results should be discarded by default")
	}
}

func TestLoad_PartialFileOverlaysDefaults(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "querydeck", "config.json")
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(`{"server":"https://db.example.com","reconnect":{"strategy":"exponential"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server != "https://db.example.com" {
		t.Errorf("Server = %q", c.Server)
	}
	if c.Reconnect.Strategy != "exponential" {
		t.Errorf("Strategy = %q", c.Reconnect.Strategy)
	}
	if c.Reconnect.DelayMS != 3000 {
		t.Errorf("DelayMS = %d, want default 3000", c.Reconnect.DelayMS)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", c.LogLevel)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv(EnvServer, "http://10.0.0.5:9000")
	t.Setenv(EnvLogLevel, "debug")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server != "http://10.0.0.5:9000" || c.LogLevel != "debug" {
		t.Fatalf("env not applied: %+v", c)
	}
}

func TestSaveRoundTripAndSet(t *testing.T) {
	isolate(t)

	c := Default()
	if err := c.Set("server", "http://db.local:8080"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("reconnect.strategy", "random"); err == nil {
		t.Fatal("expected unknown strategy to be rejected")
	}
	c.Reconnect.Strategy = "fixed"
	if err := c.Set("nope", "x"); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
	if err := Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server != "http://db.local:8080" {
		t.Fatalf("Server = %q", loaded.Server)
	}
}

func TestSetNumericKeys(t *testing.T) {
	c := Default()
	if err := c.Set("reconnect.delay_ms", "500"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("reconnect.max_attempts", "4"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c.Reconnect.Delay() != 500*time.Millisecond || c.Reconnect.MaxAttempts != 4 {
		t.Errorf("reconnect = %+v", c.Reconnect)
	}
	if err := c.Set("reconnect.delay_ms", "soon"); err == nil {
		t.Error("expected non-integer to be rejected")
	}
	if err := c.Set("reconnect.max_attempts", "-1"); err == nil {
		t.Error("expected negative value to be rejected")
	}
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvServer, "http://from-env:1")

	c, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Server != Default().Server {
		t.Errorf("Server = %q, want the default", c.Server)
	}
}
