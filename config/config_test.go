package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "privstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
account: juliet@capulet.lit/balcony
node: storage:bookmarks
timeout: 5s
latency: 20ms
max_items: 3
log_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "juliet@capulet.lit/balcony", cfg.Account)
	assert.Equal(t, "storage:bookmarks", cfg.Node)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 20*time.Millisecond, cfg.Latency)
	assert.Equal(t, 3, cfg.MaxItems)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	j, err := cfg.AccountJID()
	require.NoError(t, err)
	assert.Equal(t, "juliet@capulet.lit", j.Bare().String())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "account: juliet@capulet.lit\nnode: from-file\n")

	t.Setenv("PRIVSTORE_NODE", "from-env")
	t.Setenv("PRIVSTORE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Node)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("PRIVSTORE_ACCOUNT", "romeo@montague.lit")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultNode, cfg.Node)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.NotNil(t, cfg.Logger())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Account:   "juliet@capulet.lit",
		Node:      DefaultNode,
		Timeout:   time.Second,
		LogLevel:  "info",
		LogFormat: "text",
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing account", mutate: func(c *Config) { c.Account = "" }, errSubstr: "account is required"},
		{name: "invalid account", mutate: func(c *Config) { c.Account = "juliet@" }, errSubstr: "invalid account"},
		{name: "empty node", mutate: func(c *Config) { c.Node = " " }, errSubstr: "node is required"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, errSubstr: "must not be negative"},
		{name: "negative max items", mutate: func(c *Config) { c.MaxItems = -1 }, errSubstr: "max_items"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, errSubstr: "unknown log level"},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }, errSubstr: "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
