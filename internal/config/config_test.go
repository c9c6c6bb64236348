package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Set only the required env var
	t.Setenv("SOURCE_URL", "https://data.example.gov/dataset.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Store.Path != "regsync.db" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "regsync.db")
	}
	if cfg.Source.Timeout != 30*time.Second {
		t.Errorf("Source.Timeout = %v, want %v", cfg.Source.Timeout, 30*time.Second)
	}
	if cfg.Preview.Limit != 50 {
		t.Errorf("Preview.Limit = %d, want %d", cfg.Preview.Limit, 50)
	}
	if !cfg.Rate.Enabled {
		t.Error("Rate.Enabled = false, want true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SOURCE_URL", "https://data.example.gov/dataset.csv")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SOURCE_TIMEOUT", "5s")
	t.Setenv("PREVIEW_LIMIT", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Source.Timeout != 5*time.Second {
		t.Errorf("Source.Timeout = %v, want %v", cfg.Source.Timeout, 5*time.Second)
	}
	if cfg.Preview.Limit != 25 {
		t.Errorf("Preview.Limit = %d, want %d", cfg.Preview.Limit, 25)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("SOURCE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing SOURCE_URL")
	}
	if !strings.Contains(err.Error(), "SOURCE_URL") {
		t.Errorf("error = %v, want mention of SOURCE_URL", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "relative source url",
			env:  map[string]string{"SOURCE_URL": "dataset.csv"},
			want: "SOURCE_URL",
		},
		{
			name: "bad port",
			env: map[string]string{
				"SOURCE_URL":  "https://data.example.gov/dataset.csv",
				"SERVER_PORT": "70000",
			},
			want: "SERVER_PORT",
		},
		{
			name: "bad log level",
			env: map[string]string{
				"SOURCE_URL": "https://data.example.gov/dataset.csv",
				"LOG_LEVEL":  "verbose",
			},
			want: "LOG_LEVEL",
		},
		{
			name: "zero preview limit",
			env: map[string]string{
				"SOURCE_URL":    "https://data.example.gov/dataset.csv",
				"PREVIEW_LIMIT": "0",
			},
			want: "PREVIEW_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := c.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9000")
	}

	c.Host = ""
	if got := c.Addr(); got != ":9000" {
		t.Errorf("Addr() = %q, want %q", got, ":9000")
	}
}
