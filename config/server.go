package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the configuration of the wardrobe binary.
type ServerConfig struct {
	Port        int           `yaml:"port"`
	DataDir     string        `yaml:"dataDir"`
	MaxBodySize int64         `yaml:"maxBodySize"`
	Timeouts    Timeouts      `yaml:"timeouts"`
	Logging     LoggingConfig `yaml:"logging"`
	Metrics     MetricsConfig `yaml:"metrics"`
	// Grammar is applied to closets created without one.
	Grammar Grammar `yaml:"grammar"`
}

// Timeouts bound the HTTP server. Values are Go durations such as "5s".
type Timeouts struct {
	Read     time.Duration `yaml:"read"`
	Write    time.Duration `yaml:"write"`
	Shutdown time.Duration `yaml:"shutdown"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus scrape route.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values get defaults.
func Load(path string) (*ServerConfig, error) {
	cfg := defaultServerConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	cfg.Grammar.ApplyDefaults()

	if problems := cfg.Grammar.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid grammar in config: %v", problems)
	}
	return cfg, nil
}

func defaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        8080,
		DataDir:     "./wardrobe_data",
		MaxBodySize: 10 << 20,
		Timeouts: Timeouts{
			Read:     10 * time.Second,
			Write:    30 * time.Second,
			Shutdown: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{Enabled: true},
		Grammar: DefaultGrammar(),
	}
}

// applyEnvOverrides reads WARDROBE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *ServerConfig) {
	if v := os.Getenv("WARDROBE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("WARDROBE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("WARDROBE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WARDROBE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("WARDROBE_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}
