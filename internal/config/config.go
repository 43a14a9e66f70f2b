package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName         string        `mapstructure:"app_name"`
	Env             string        `mapstructure:"app_env"`
	LogLevel        string        `mapstructure:"log_level"`
	SourcesFile     string        `mapstructure:"sources_file"`
	PublishersFile  string        `mapstructure:"publishers_file"`
	IntervalSeconds int64         `mapstructure:"ingest_interval"`
	Interval        time.Duration `mapstructure:"-"`

	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
	UserAgent           string        `mapstructure:"user_agent"`

	StorageType        string `mapstructure:"storage_type"`
	StorageBucket      string `mapstructure:"storage_bucket"`
	GCSCredentialsFile string `mapstructure:"gcs_credentials_file"`
	S3Region           string `mapstructure:"s3_region"`
	S3Endpoint         string `mapstructure:"s3_endpoint"`
	AWSAccessKeyID     string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey string `mapstructure:"aws_secret_access_key"`
	BBoltPath          string `mapstructure:"bbolt_path"`

	APIAddr string `mapstructure:"api_addr"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "news-harvester")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("ingest_interval", 0) // seconds, 0 = single pass
	v.SetDefault("fetch_timeout_seconds", 15)
	v.SetDefault("user_agent", "Mozilla/5.0 (compatible; news-harvester/1.0)")
	v.SetDefault("storage_type", "gcs")
	v.SetDefault("storage_bucket", "my_news_bucket")
	v.SetDefault("gcs_credentials_file", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("bbolt_path", "./data/snapshots.db")
	v.SetDefault("api_addr", ":8080")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.IntervalSeconds < 0 {
		return fmt.Errorf("invalid ingest_interval (must be zero or positive seconds)")
	}
	cfg.Interval = time.Duration(cfg.IntervalSeconds) * time.Second

	if cfg.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	cfg.StorageBucket = strings.TrimSpace(cfg.StorageBucket)
	if cfg.StorageBucket == "" {
		return fmt.Errorf("storage_bucket is required")
	}
	return nil
}

// Redacted returns a copy safe to log.
func (cfg Config) Redacted() Config {
	if cfg.AWSSecretAccessKey != "" {
		cfg.AWSSecretAccessKey = "***"
	}
	return cfg
}
