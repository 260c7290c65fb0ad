package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
)

// Config struct to hold the configuration settings
type Config struct {
	Source        SourceConfig        `yaml:"source"`
	HTTP          HTTPConfig          `yaml:"http"`
	MCP           MCPConfig           `yaml:"mcp"`
	Observability ObservabilityConfig `yaml:"observability"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
}

// SourceConfig says where the game records are loaded from.
type SourceConfig struct {
	Kind string `yaml:"kind"` // postgres|sqlite|csv|xlsx
	DSN  string `yaml:"dsn"`
	Path string `yaml:"path"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second per client IP; 0 disables
	Burst        int           `yaml:"burst"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// MCPConfig holds the agent tool endpoint settings.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	APIKey  string `yaml:"api_key"`
}

// ObservabilityConfig holds logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel        string `yaml:"log_level"`  // debug|info|warn|error
	LogFormat       string `yaml:"log_format"` // text|json
	MetricsEnabled  bool   `yaml:"metrics_enabled"`
	TracingEndpoint string `yaml:"tracing_endpoint"` // OTLP/gRPC collector; empty keeps spans in process
}

// LeagueSeason names one season of one league.
type LeagueSeason struct {
	League string `yaml:"league"`
	Season string `yaml:"season"`
}

// DashboardConfig holds the default selections and the point scheme.
type DashboardConfig struct {
	DefaultLeague   string `yaml:"default_league"`
	DefaultSeason   string `yaml:"default_season"`
	DefaultMatchday int    `yaml:"default_matchday"`
	DefaultTeam     string `yaml:"default_team"`
	// DistributionExclude lists seasons whose point totals are not comparable,
	// e.g. shortened or differently sized seasons.
	DistributionExclude []LeagueSeason `yaml:"distribution_exclude"`
	Points              PointsConfig   `yaml:"points"`
}

// PointsConfig awards league points per result.
type PointsConfig struct {
	Win    int `yaml:"win"`
	OTWin  int `yaml:"ot_win"`
	OTLoss int `yaml:"ot_loss"`
	Draw   int `yaml:"draw"`
	Lost   int `yaml:"lost"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Kind: SourceSQLite, DSN: "hockey.db"},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			RateLimit:    20,
			Burst:        40,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MCP:           MCPConfig{Path: "/mcp"},
		Observability: ObservabilityConfig{LogLevel: "info", LogFormat: "text", MetricsEnabled: true},
		Dashboard: DashboardConfig{
			DefaultLeague:   "shl",
			DefaultMatchday: 10,
			Points:          PointsConfig{Win: 3, OTWin: 2, OTLoss: 1, Draw: 1, Lost: 0},
		},
	}
}

// LoadConfig loads the configuration from a YAML file on top of Default,
// then applies environment overrides. A missing file is not an error.
// Variables from a .env file in the working directory are loaded first.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SOURCE_KIND"); v != "" {
		cfg.Source.Kind = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Source.DSN = v
	}
	if v := os.Getenv("SOURCE_PATH"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("MCP_API_KEY"); v != "" {
		cfg.MCP.APIKey = v
		cfg.MCP.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_ENABLED value: %v", err)
		}
		cfg.Observability.MetricsEnabled = b
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Observability.TracingEndpoint = v
	}
	return nil
}

// Validate checks that the selected source has what it needs.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourcePostgres, SourceSQLite:
		if c.Source.DSN == "" {
			return fmt.Errorf("source %s requires a dsn", c.Source.Kind)
		}
	case SourceCSV, SourceXLSX:
		if c.Source.Path == "" {
			return fmt.Errorf("source %s requires a path", c.Source.Kind)
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.Burst < 0 {
		return fmt.Errorf("http rate_limit and burst must not be negative")
	}
	switch c.Observability.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.Observability.LogFormat)
	}
	if c.MCP.Enabled && c.MCP.Path == "" {
		c.MCP.Path = "/mcp"
	}
	return nil
}

// Excluded reports whether a league season is left out of the distribution.
func (d DashboardConfig) Excluded(league, season string) bool {
	for _, ex := range d.DistributionExclude {
		if ex.League == league && ex.Season == season {
			return true
		}
	}
	return false
}
