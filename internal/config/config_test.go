package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Handle != DefaultHandle {
		t.Errorf("expected default handle %q, got %q", DefaultHandle, cfg.Handle)
	}
	if cfg.TimeoutDuration() != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %s", cfg.TimeoutDuration())
	}
	if cfg.RefreshDuration() != 15*time.Minute {
		t.Errorf("expected default refresh 15m, got %s", cfg.RefreshDuration())
	}
	if cfg.Title == "" || cfg.Intro == "" {
		t.Error("expected default page title and intro")
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected 2 default sources, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].Kind != KindLeetCode || cfg.Sources[1].Kind != KindCodeforces {
		t.Errorf("unexpected default kinds: %q, %q", cfg.Sources[0].Kind, cfg.Sources[1].Kind)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.statboard.yml")

	original := DefaultConfig()
	original.Handle = "tourist"
	original.Timeout = "3s"
	original.Port = 9090
	original.Webhooks = []string{"https://hooks.example.com/stats"}
	original.Sources = []SourceConfig{
		{Name: "cf", Kind: KindCodeforces, Handle: "Petr"},
	}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Handle != original.Handle {
		t.Errorf("handle: got %q, want %q", loaded.Handle, original.Handle)
	}
	if loaded.TimeoutDuration() != 3*time.Second {
		t.Errorf("timeout: got %s, want 3s", loaded.TimeoutDuration())
	}
	if loaded.Port != 9090 {
		t.Errorf("port: got %d, want 9090", loaded.Port)
	}
	if len(loaded.Webhooks) != 1 || loaded.Webhooks[0] != original.Webhooks[0] {
		t.Errorf("webhooks: got %v, want %v", loaded.Webhooks, original.Webhooks)
	}

	// The configured list replaces the defaults entirely.
	if len(loaded.Sources) != 1 {
		t.Fatalf("sources length: got %d, want 1", len(loaded.Sources))
	}
	src := loaded.Sources[0]
	if src.Name != "cf" || src.Kind != KindCodeforces || src.Handle != "Petr" {
		t.Errorf("source: got %+v", src)
	}
	if src.RateLimitRPM != 0 {
		t.Errorf("rate_limit_rpm leaked from defaults: got %d", src.RateLimitRPM)
	}
}

func TestLoadJSONSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	data := `
handle: someone
sources:
  - name: atcoder
    kind: json
    endpoint: https://example.com/users/{handle}
    status_path: ok
    success_value: "true"
    fields:
      solved: data.accepted
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	src := cfg.Sources[0]
	if src.Kind != KindJSON || src.Fields["solved"] != "data.accepted" || src.SuccessValue != "true" {
		t.Errorf("json source: got %+v", src)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Handle != DefaultHandle {
		t.Errorf("expected default handle, got %q", cfg.Handle)
	}
	if len(cfg.Sources) != 2 {
		t.Errorf("expected default sources, got %d", len(cfg.Sources))
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("STATBOARD_HANDLE", "envuser")
	t.Setenv("STATBOARD_PORT", "7000")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Handle != "envuser" {
		t.Errorf("env override failed: got %q, want %q", loaded.Handle, "envuser")
	}
	if loaded.Port != 7000 {
		t.Errorf("env port override failed: got %d", loaded.Port)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }},
		{"negative refresh", func(c *Config) { c.RefreshInterval = "-1m" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad webhook", func(c *Config) { c.Webhooks = []string{"ftp://x"} }},
		{"no sources", func(c *Config) { c.Sources = nil }},
		{"empty name", func(c *Config) { c.Sources[0].Name = "" }},
		{"duplicate name", func(c *Config) { c.Sources[1].Name = c.Sources[0].Name }},
		{"unknown kind", func(c *Config) { c.Sources[0].Kind = "hackerrank" }},
		{"negative rpm", func(c *Config) { c.Sources[1].RateLimitRPM = -1 }},
		{"no handle", func(c *Config) { c.Handle = "" }},
		{"json without placeholder", func(c *Config) {
			c.Sources = append(c.Sources, SourceConfig{Name: "j", Kind: KindJSON, Endpoint: "https://x", Fields: map[string]string{"a": "b"}})
		}},
		{"json without fields", func(c *Config) {
			c.Sources = append(c.Sources, SourceConfig{Name: "j", Kind: KindJSON, Endpoint: "https://x/{handle}"})
		}},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestValidateDisabledSourceNeedsNoHandle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Handle = ""
	cfg.Sources[0].Handle = "only-leetcode"
	cfg.Sources[1].Disabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestHandleFor(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.HandleFor(SourceConfig{}); got != DefaultHandle {
		t.Errorf("HandleFor fallback = %q, want %q", got, DefaultHandle)
	}
	if got := cfg.HandleFor(SourceConfig{Handle: "x"}); got != "x" {
		t.Errorf("HandleFor override = %q, want %q", got, "x")
	}
}

func TestZeroDurationsDisable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = "0"
	cfg.RefreshInterval = ""
	if cfg.TimeoutDuration() != 0 || cfg.RefreshDuration() != 0 {
		t.Errorf("expected zero durations, got %s and %s", cfg.TimeoutDuration(), cfg.RefreshDuration())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero durations should be valid: %v", err)
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources = append(cfg.Sources, SourceConfig{Name: "leetcode-cn", Kind: KindLeetCode, Disabled: true})

	tests := []struct {
		patterns []string
		want     []string
	}{
		{nil, []string{"leetcode", "codeforces"}},
		{[]string{"leet*"}, []string{"leetcode"}},
		{[]string{"code*", "leetcode"}, []string{"leetcode", "codeforces"}},
		{[]string{"atcoder"}, nil},
	}
	for _, tt := range tests {
		got, err := cfg.EnabledSources(tt.patterns)
		if err != nil {
			t.Fatalf("EnabledSources(%v): %v", tt.patterns, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("EnabledSources(%v) len = %d, want %d", tt.patterns, len(got), len(tt.want))
			continue
		}
		for i, src := range got {
			if src.Name != tt.want[i] {
				t.Errorf("EnabledSources(%v)[%d] = %q, want %q", tt.patterns, i, src.Name, tt.want[i])
			}
		}
	}

	if _, err := cfg.EnabledSources([]string{"[unclosed"}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"https://x.example/hook", []string{"https://x.example/hook"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
