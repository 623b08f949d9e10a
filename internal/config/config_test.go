package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LegacyCodeHQ/bundlegraph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, &config.Config{
		LogLevel:  "warn",
		LogFormat: "console",
		Format:    "dot",
		Watch: config.WatchConfig{
			Port:     4900,
			Debounce: 300 * time.Millisecond,
		},
	}, cfg)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundlegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: info\nformat: table\nwatch:\n  port: 5000\n  debounce: 1s\n"), 0644))
	t.Setenv("BUNDLEGRAPH_LOG_LEVEL", "debug")
	t.Setenv("BUNDLEGRAPH_STRICT_MEMBERSHIP", "true")

	v := config.New()
	require.NoError(t, config.ReadFile(v, path))
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "table", cfg.Format)
	assert.True(t, cfg.StrictMembership)
	assert.Equal(t, 5000, cfg.Watch.Port)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestReadFile_MissingDefaultIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.NoError(t, config.ReadFile(config.New(), ""))
}

func TestReadFile_MissingExplicitFileIsAnError(t *testing.T) {
	err := config.ReadFile(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))

	assert.ErrorContains(t, err, "error reading config file")
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{LogLevel: "warn", LogFormat: "json", Watch: config.WatchConfig{Port: 4900}}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "bad level", mutate: func(c *config.Config) { c.LogLevel = "loud" }, wantErr: "unknown log level: loud"},
		{name: "bad format", mutate: func(c *config.Config) { c.LogFormat = "xml" }, wantErr: "unknown log format: xml"},
		{name: "bad port", mutate: func(c *config.Config) { c.Watch.Port = 70000 }, wantErr: "watch.port must be between 0 and 65535, got 70000"},
		{name: "negative debounce", mutate: func(c *config.Config) { c.Watch.Debounce = -time.Second }, wantErr: "watch.debounce must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
