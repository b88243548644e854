package app

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIAddr == "" {
		t.Error("APIAddr should not be empty")
	}

	if cfg.MetricsAddr == "" {
		t.Error("MetricsAddr should not be empty")
	}

	// Test default values
	if cfg.APIAddr != ":8080" {
		t.Errorf("expected APIAddr :8080, got %s", cfg.APIAddr)
	}

	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}

	if !cfg.SeedDemo {
		t.Error("SeedDemo should default to true")
	}

	if cfg.PostgresDSN != "" {
		t.Error("PostgresDSN should default to empty")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{
		APIAddr:     ":8081",
		MetricsAddr: ":9091",
		PostgresDSN: "postgres://localhost/fleetops",
	}

	if cfg.APIAddr != ":8081" {
		t.Errorf("expected APIAddr :8081, got %s", cfg.APIAddr)
	}

	if cfg.MetricsAddr != ":9091" {
		t.Errorf("expected MetricsAddr :9091, got %s", cfg.MetricsAddr)
	}
}
