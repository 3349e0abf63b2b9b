package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	FrigateAPIURL string `env:"FRIGATE_API_URL"`
	SourcePath    string `env:"SOURCE_PATH"`
	DestPath      string `env:"DEST_PATH"`

	ExportRetentionDays int    `env:"EXPORT_RETENTION_DAYS"`
	ExportDaysAgo       int    `env:"EXPORT_DAYS_AGO"       envDefault:"1"`
	Timezone            string `env:"TIMEZONE"              envDefault:"Asia/Shanghai"`

	PollIntervalSeconds int      `env:"POLL_INTERVAL_SECONDS" envDefault:"30"`
	MaxWaitSeconds      int      `env:"MAX_WAIT_SECONDS"      envDefault:"7200"`
	HTTPTimeoutSeconds  int      `env:"HTTP_TIMEOUT_SECONDS"  envDefault:"30"`
	FallbackCameras     []string `env:"FALLBACK_CAMERAS"      envDefault:"tplink_ipc44aw"`

	DatabaseURL string `env:"DATABASE_URL"`

	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"frigate.export"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"     envDefault:"false"`
	MinIOBucket    string `env:"MINIO_BUCKET"      envDefault:"frigate-exports"`

	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       int    `env:"SMTP_PORT"        envDefault:"25"`
	SMTPFrom       string `env:"SMTP_FROM"        envDefault:"frigate-archiver@localhost"`
	NotificationTo string `env:"NOTIFICATION_TO"`

	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT"`
	LogLevel       string `env:"LOG_LEVEL"        envDefault:"info"`
}

// fileConfig mirrors the recognized config-file keys. All fields are optional;
// a set field overrides the environment-derived value.
type fileConfig struct {
	APIURL              *string `yaml:"api_url"`
	SourcePath          *string `yaml:"source_path"`
	DestPath            *string `yaml:"dest_path"`
	ExportRetentionDays *int    `yaml:"export_retention_days"`
	ExportDaysAgo       *int    `yaml:"export_days_ago"`
	Timezone            *string `yaml:"timezone"`
	PollIntervalSeconds *int    `yaml:"poll_interval_seconds"`
	MaxWaitSeconds      *int    `yaml:"max_wait_seconds"`
}

// Load parses the environment and, when path is non-empty, applies the YAML
// config file on top. The result is validated and immutable afterwards.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.APIURL != nil {
		cfg.FrigateAPIURL = *fc.APIURL
	}
	if fc.SourcePath != nil {
		cfg.SourcePath = *fc.SourcePath
	}
	if fc.DestPath != nil {
		cfg.DestPath = *fc.DestPath
	}
	if fc.ExportRetentionDays != nil {
		cfg.ExportRetentionDays = *fc.ExportRetentionDays
	}
	if fc.ExportDaysAgo != nil {
		cfg.ExportDaysAgo = *fc.ExportDaysAgo
	}
	if fc.Timezone != nil {
		cfg.Timezone = *fc.Timezone
	}
	if fc.PollIntervalSeconds != nil {
		cfg.PollIntervalSeconds = *fc.PollIntervalSeconds
	}
	if fc.MaxWaitSeconds != nil {
		cfg.MaxWaitSeconds = *fc.MaxWaitSeconds
	}
	return nil
}

func (c *Config) validate() error {
	var missing []string
	if c.FrigateAPIURL == "" {
		missing = append(missing, "FRIGATE_API_URL")
	}
	if c.SourcePath == "" {
		missing = append(missing, "SOURCE_PATH")
	}
	if c.DestPath == "" {
		missing = append(missing, "DEST_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	if c.ExportRetentionDays <= 0 {
		return errors.New("EXPORT_RETENTION_DAYS must be a positive integer")
	}
	if c.PollIntervalSeconds <= 0 || c.MaxWaitSeconds <= 0 {
		return errors.New("POLL_INTERVAL_SECONDS and MAX_WAIT_SECONDS must be positive")
	}
	return nil
}

// Location resolves the configured timezone. An unrecognized zone falls back
// to UTC; the returned bool reports whether the fallback was taken.
func (c *Config) Location() (*time.Location, bool) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, true
	}
	return loc, false
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitSeconds) * time.Second
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
