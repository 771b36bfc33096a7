package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".statboard.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (STATBOARD_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: STATBOARD_HANDLE -> handle, etc.
	if err := k.Load(env.Provider("STATBOARD_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STATBOARD_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A configured source list replaces the defaults instead of being
	// merged into them element by element.
	if k.Exists("sources") {
		cfg.Sources = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validKinds is the set of recognized source kinds.
var validKinds = map[SourceKind]bool{
	KindLeetCode:   true,
	KindCodeforces: true,
	KindJSON:       true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if _, err := parseDuration("timeout", c.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("refresh_interval", c.RefreshInterval); err != nil {
		return err
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	for _, hook := range c.Webhooks {
		u, err := url.Parse(hook)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid webhook %q: must be an http(s) URL", hook)
		}
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d]: name is required", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("sources[%d]: duplicate name %q", i, src.Name)
		}
		seen[src.Name] = true

		if !validKinds[src.Kind] {
			return fmt.Errorf("source %s: invalid kind %q: must be one of leetcode, codeforces, json", src.Name, src.Kind)
		}
		if src.RateLimitRPM < 0 {
			return fmt.Errorf("source %s: rate_limit_rpm must be non-negative", src.Name)
		}
		if !src.Disabled && c.HandleFor(src) == "" {
			return fmt.Errorf("source %s: handle is required", src.Name)
		}

		if src.Kind == KindJSON {
			if !strings.Contains(src.Endpoint, "{handle}") {
				return fmt.Errorf("source %s: endpoint must contain {handle}", src.Name)
			}
			if len(src.Fields) == 0 {
				return fmt.Errorf("source %s: at least one field is required", src.Name)
			}
		}
	}

	return nil
}

// HandleFor returns the handle to query src with.
func (c *Config) HandleFor(src SourceConfig) string {
	if src.Handle != "" {
		return src.Handle
	}
	return c.Handle
}

// TimeoutDuration returns the per-fetch timeout. Zero means unbounded.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := parseDuration("timeout", c.Timeout)
	return d
}

// RefreshDuration returns the server's refresh interval. Zero disables
// periodic refresh.
func (c *Config) RefreshDuration() time.Duration {
	d, _ := parseDuration("refresh_interval", c.RefreshInterval)
	return d
}

// EnabledSources returns the sources that are not disabled and whose name
// matches one of patterns. An empty pattern list matches every source.
func (c *Config) EnabledSources(patterns []string) ([]SourceConfig, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid source pattern %q", p)
		}
	}

	var out []SourceConfig
	for _, src := range c.Sources {
		if src.Disabled {
			continue
		}
		if len(patterns) > 0 && !matchesAny(src.Name, patterns) {
			continue
		}
		out = append(out, src)
	}
	return out, nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func parseDuration(key, v string) (time.Duration, error) {
	if v == "" || v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be non-negative", key)
	}
	return d, nil
}
