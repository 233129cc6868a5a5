// Package config loads the YAML client configuration used by the
// minekb-chat CLI and other embedders.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written in the
// usual "30s" / "2m" form.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

type Backend struct {
	// URL is the backend endpoint. ws/wss selects the websocket bridge;
	// http/https selects the plain HTTP caller (no streaming).
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
}

type Stream struct {
	// Deadline bounds how long a stream may go without a terminal event.
	// Zero leaves streams unbounded.
	Deadline Duration `yaml:"deadline"`
}

type Config struct {
	Backend Backend `yaml:"backend"`
	Stream  Stream  `yaml:"stream"`
}

func Default() Config {
	return Config{
		Backend: Backend{URL: "ws://localhost:4175"},
	}
}

// Load reads a YAML config file on top of the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}
	switch parsed.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("unsupported backend url scheme %q", parsed.Scheme)
	}

	if c.Stream.Deadline < 0 {
		return fmt.Errorf("stream deadline must not be negative")
	}
	return nil
}
