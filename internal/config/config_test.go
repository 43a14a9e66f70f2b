package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "BBolt")
	t.Setenv("INGEST_INTERVAL", "600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageType != "bbolt" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
	if cfg.StorageBucket != "my_news_bucket" {
		t.Fatalf("StorageBucket = %q", cfg.StorageBucket)
	}
	if cfg.Interval != 10*time.Minute {
		t.Fatalf("Interval = %v", cfg.Interval)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Fatalf("FetchTimeout = %v", cfg.FetchTimeout)
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero fetch timeout")
	}
}

func TestRedactedHidesSecret(t *testing.T) {
	cfg := Config{AWSAccessKeyID: "AKIA", AWSSecretAccessKey: "secret"}
	red := cfg.Redacted()
	if red.AWSSecretAccessKey != "***" || red.AWSAccessKeyID != "AKIA" {
		t.Fatalf("unexpected redaction %+v", red)
	}
	if cfg.AWSSecretAccessKey != "secret" {
		t.Fatalf("Redacted mutated original")
	}
}
