package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
source:
  kind: csv
  path: data/games.csv
http:
  addr: ":9090"
  rate_limit: 5
  burst: 10
mcp:
  enabled: true
observability:
  log_level: debug
  log_format: json
dashboard:
  default_league: shl
  default_season: 2024/25
  distribution_exclude:
    - league: shl
      season: 2019/20
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, SourceCSV, cfg.Source.Kind)
	assert.Equal(t, "data/games.csv", cfg.Source.Path)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5.0, cfg.HTTP.RateLimit)
	assert.Equal(t, "/mcp", cfg.MCP.Path, "defaults survive partial sections")
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.Equal(t, 3, cfg.Dashboard.Points.Win)
	assert.True(t, cfg.Dashboard.Excluded("shl", "2019/20"))
	assert.False(t, cfg.Dashboard.Excluded("shl", "2020/21"))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SOURCE_KIND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/hockey?sslmode=disable")
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("MCP_API_KEY", "secret")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Source.Kind)
	assert.Equal(t, "postgres://localhost/hockey?sslmode=disable", cfg.Source.DSN)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, "secret", cfg.MCP.APIKey)
	assert.False(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, "collector:4317", cfg.Observability.TracingEndpoint)

	t.Setenv("METRICS_ENABLED", "sometimes")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "source: [unclosed"))
	assert.ErrorContains(t, err, "failed to unmarshal config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown kind", func(c *Config) { c.Source.Kind = "bigquery" }, true},
		{"sqlite without dsn", func(c *Config) { c.Source.DSN = "" }, true},
		{"xlsx without path", func(c *Config) { c.Source.Kind = SourceXLSX }, true},
		{"negative burst", func(c *Config) { c.HTTP.Burst = -1 }, true},
		{"bad log format", func(c *Config) { c.Observability.LogFormat = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, ObservabilityConfig{LogLevel: "warn", LogFormat: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "team", "Frölunda HC")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"team":"Frölunda HC"`)
}
