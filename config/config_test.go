package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatalf("explicit missing file should error")
	}

	// Without an explicit path a missing file falls back to defaults.
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.LLM.Model != "anthropic/claude-3.5-sonnet" {
		t.Fatalf("default model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("default base url = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Temperatures.Activity != 0.5 || cfg.LLM.Temperatures.Budget != 0.2 {
		t.Fatalf("default temperatures = %+v", cfg.LLM.Temperatures)
	}
	if cfg.Workers.WorkerTimeout != 2*time.Minute {
		t.Fatalf("default worker timeout = %v", cfg.Workers.WorkerTimeout)
	}
	if cfg.Services.Currency.FallbackRate != 1000 {
		t.Fatalf("default fallback rate = %v", cfg.Services.Currency.FallbackRate)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"llm":{"model":"test/model","timeout":"10s"},"dataset":{"source":"embedded"},"server":{"address":":9000"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.Model != "test/model" || cfg.LLM.Timeout != 10*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.LLM)
	}
	if cfg.Server.Address != ":9000" {
		t.Fatalf("server address = %q", cfg.Server.Address)
	}
	// Untouched sections keep their defaults.
	if cfg.LLM.Temperatures.Dispatcher != 0.3 {
		t.Fatalf("defaults lost on partial file: %+v", cfg.LLM.Temperatures)
	}
}

func TestLoadConfigRejectsBadDatasetSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"dataset":{"source":"mysql"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("invalid dataset source must be rejected")
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{User: "u", Password: "p", Host: "db", DBName: "rutero"}
	want := "postgres://u:p@db:5432/rutero?sslmode=disable"
	if got := p.DSN(); got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
	p.URL = "postgres://explicit"
	if p.DSN() != "postgres://explicit" {
		t.Fatalf("explicit url not preferred")
	}
}

func TestCacheAddrDefaults(t *testing.T) {
	if got := (CacheConfig{}).Addr(); got != "localhost:6379" {
		t.Fatalf("addr = %q", got)
	}
	if got := (CacheConfig{Host: "redis", Port: "6380"}).Addr(); got != "redis:6380" {
		t.Fatalf("addr = %q", got)
	}
}

func TestTracingEnabled(t *testing.T) {
	if (TracingConfig{PublicKey: "pk"}).Enabled() {
		t.Fatalf("one key must not enable tracing")
	}
	if !(TracingConfig{PublicKey: "pk", SecretKey: "sk"}).Enabled() {
		t.Fatalf("both keys must enable tracing")
	}
}
