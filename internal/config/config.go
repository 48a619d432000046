package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	// api service
	Host                  string `toml:"host"`
	Port                  int    `toml:"port"`
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// workout log storage: "csv" or "postgres"
	Storage         string `toml:"storage"`
	DataDir         string `toml:"data_dir"`
	DataFileName    string `toml:"data_file_name"`
	SettingsFile    string `toml:"settings_file"`
	WatchDataFile   bool   `toml:"watch_data_file"`
	MaxUploadSizeMB int64  `toml:"max_upload_size_mb"`

	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis is optional; when set, settings live in redis and
	// mutating routes get rate limited
	RedisHost                 string `toml:"redis_host"`
	RedisPort                 string `toml:"redis_port"`
	MutationRateLimitPerMin   int    `toml:"mutation_rate_limit_per_min"`
	PredictionCacheSizeMB     int    `toml:"prediction_cache_size_mb"`
	PredictionCacheExpiration int    `toml:"prediction_cache_expiration_sec"`

	Dashboard DashboardConfig `toml:"dashboard"`
}

// DashboardConfig configures the dashboard client process.
type DashboardConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	ApiURL         string `toml:"api_url"`
	RequestTimeout int    `toml:"request_timeout_sec"`
	LogsPath       string `toml:"logs_path"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, errors.New("development config missing")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, errors.New("production config missing")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config for the given env,
// with defaults filled in for everything left out.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.Storage == "" {
		c.Storage = "csv"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.DataFileName == "" {
		c.DataFileName = "gym_data_clean.csv"
	}
	if c.SettingsFile == "" {
		c.SettingsFile = "user_config.json"
	}
	if c.MaxUploadSizeMB == 0 {
		c.MaxUploadSizeMB = 10
	}
	if c.MutationRateLimitPerMin == 0 {
		c.MutationRateLimitPerMin = 30
	}
	if c.PredictionCacheSizeMB == 0 {
		c.PredictionCacheSizeMB = 10
	}
	if c.PredictionCacheExpiration == 0 {
		c.PredictionCacheExpiration = 60 * 60
	}
	if c.Dashboard.Host == "" {
		c.Dashboard.Host = "localhost"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Dashboard.ApiURL == "" {
		c.Dashboard.ApiURL = fmt.Sprintf("http://127.0.0.1:%d/api", c.Port)
	}
	if c.Dashboard.RequestTimeout == 0 {
		c.Dashboard.RequestTimeout = 30
	}
}

func (c *Config) Validate() error {
	switch c.Storage {
	case "csv":
	case "postgres":
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return errors.New("postgres storage needs postgres_host, postgres_port and postgres_db_name")
		}
	default:
		return fmt.Errorf("unknown storage: %s", c.Storage)
	}
	if c.Port < 0 || c.Dashboard.Port < 0 {
		return errors.New("negative port")
	}
	return nil
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != "" && c.RedisPort != ""
}
