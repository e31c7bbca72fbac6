// Package config loads client configuration for private storage.
//
// Values are layered with increasing precedence: built-in defaults, an
// optional YAML file, then PRIVSTORE_ prefixed environment variables
// (PRIVSTORE_NODE -> node, PRIVSTORE_LOG_LEVEL -> log_level).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"mellium.im/xmpp/jid"

	"github.com/hupe1980/privstore/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "PRIVSTORE_"

// Defaults.
const (
	DefaultNode      = "urn:xmpp:private:1"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the client configuration.
type Config struct {
	// Account is the JID requests are sent as.
	Account string `koanf:"account"`
	// Node receives stored items when a call does not name one.
	Node string `koanf:"node"`
	// Timeout bounds each request.
	Timeout time.Duration `koanf:"timeout"`
	// Latency is simulated by the in-memory service.
	Latency time.Duration `koanf:"latency"`
	// MaxItems caps items retained per node by the in-memory service.
	MaxItems  int    `koanf:"max_items"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"node":       DefaultNode,
		"timeout":    DefaultTimeout.String(),
		"latency":    "0s",
		"max_items":  0,
		"log_level":  DefaultLogLevel,
		"log_format": DefaultLogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Transform: PRIVSTORE_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := c.AccountJID(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Node) == "" {
		return fmt.Errorf("node is required")
	}
	if c.Timeout < 0 || c.Latency < 0 {
		return fmt.Errorf("timeout and latency must not be negative")
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("max_items must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// AccountJID parses Account.
func (c *Config) AccountJID() (jid.JID, error) {
	if strings.TrimSpace(c.Account) == "" {
		return jid.JID{}, fmt.Errorf("account is required")
	}
	j, err := jid.Parse(c.Account)
	if err != nil {
		return jid.JID{}, fmt.Errorf("invalid account %q: %w", c.Account, err)
	}
	return j, nil
}

// Logger builds the logger described by the configuration.
func (c *Config) Logger() *logging.StoreLogger {
	level, _ := logging.ParseLevel(c.LogLevel)
	return logging.NewSlogLogger(level, c.LogFormat, false)
}
