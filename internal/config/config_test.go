package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/editalradar/editalradar/internal/opportunity"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Scan.MinScore != 2 {
		t.Errorf("Scan.MinScore = %d, want 2", cfg.Scan.MinScore)
	}
	if cfg.Scan.HighConfidence != 3 {
		t.Errorf("Scan.HighConfidence = %d, want 3", cfg.Scan.HighConfidence)
	}
	if len(cfg.Scan.Markers) == 0 {
		t.Error("Scan.Markers should default to the built-in marker set")
	}
	if cfg.DB.Provider != "memory" {
		t.Errorf("DB.Provider = %q, want memory", cfg.DB.Provider)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server:
  port: 9090
scan:
  min_score: 3
sources:
  - name: cnpq
    url: https://www.gov.br/cnpq/pt-br
  - name: fapemig
    url: http://www.fapemig.br/pt/
    markers: [chamada, edital]
    identifier_patterns:
      - '\b(\d{3}/\d{4})\b'
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(cfg.Sources))
	}
	if cfg.Sources[1].Name != "fapemig" {
		t.Errorf("Sources[1].Name = %q, want fapemig", cfg.Sources[1].Name)
	}
	if len(cfg.Sources[1].IdentifierPatterns) != 1 {
		t.Errorf("fapemig identifier_patterns not loaded: %v", cfg.Sources[1].IdentifierPatterns)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	t.Parallel()

	base := func(t *testing.T) Config {
		t.Helper()
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"zero concurrency", func(c *Config) { c.Scan.Concurrency = 0 }},
		{"gcs without bucket", func(c *Config) { c.Storage.Provider = "gcs"; c.Storage.GCSBucket = "" }},
		{"postgres without dsn", func(c *Config) { c.DB.Provider = "postgres"; c.DB.DSN = "" }},
		{"source without url", func(c *Config) {
			c.Sources = []opportunity.SourceProfile{{Name: "cnpq"}}
		}},
		{"duplicate source names", func(c *Config) {
			c.Sources = []opportunity.SourceProfile{
				{Name: "cnpq", URL: "https://a.example"},
				{Name: "cnpq", URL: "https://b.example"},
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base(t)
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestMarkersForPrefersProfileOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	src := opportunity.SourceProfile{Name: "ufmg", URL: "https://ufmg.br", Markers: []string{"edital"}}
	got := cfg.MarkersFor(src)
	if len(got) != 1 || got[0] != "edital" {
		t.Errorf("MarkersFor = %v, want profile override", got)
	}

	src.Markers = nil
	if got := cfg.MarkersFor(src); len(got) != len(cfg.Scan.Markers) {
		t.Errorf("MarkersFor without override = %v, want global markers", got)
	}
}
