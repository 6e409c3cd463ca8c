package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
server:
  port: 9090
  cors_origins:
    - http://localhost:5173
    - https://timeflow.example.com

database:
  path: /var/lib/timeflow/app.db

demo:
  seed: true

reconcile:
  enabled: true
  interval_minutes: 15
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Fatalf("len(CORSOrigins) = %d, want 2", len(cfg.Server.CORSOrigins))
	}
	if cfg.Server.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("CORSOrigins[0] = %q, want http://localhost:5173", cfg.Server.CORSOrigins[0])
	}
	if cfg.Database.Path != "/var/lib/timeflow/app.db" {
		t.Errorf("Database.Path = %q, want /var/lib/timeflow/app.db", cfg.Database.Path)
	}
	if !cfg.Demo.Seed {
		t.Error("Demo.Seed = false, want true")
	}
	if !cfg.Reconcile.Enabled || cfg.Reconcile.IntervalMinutes != 15 {
		t.Errorf("Reconcile = %+v, want enabled every 15 minutes", cfg.Reconcile)
	}
}

func TestParse_EmptyConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*] (default)", cfg.Server.CORSOrigins)
	}
	if cfg.Database.Path != "./data/timeflow.db" {
		t.Errorf("Database.Path = %q, want ./data/timeflow.db (default)", cfg.Database.Path)
	}
	if cfg.Demo.Seed {
		t.Error("Demo.Seed = true, want false (default)")
	}
	if cfg.Reconcile.IntervalMinutes != 60 {
		t.Errorf("Reconcile.IntervalMinutes = %d, want 60 (default)", cfg.Reconcile.IntervalMinutes)
	}
}

func TestDefault_MatchesEmptyParse(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "./data/timeflow.db" {
		t.Errorf("Database.Path = %q, want ./data/timeflow.db", cfg.Database.Path)
	}
}

func TestParse_PortOutOfRange(t *testing.T) {
	_, err := Parse([]byte("server:\n  port: 70000\n"))
	if err == nil {
		t.Fatal("expected error for out-of-range port")
	}
	if !strings.Contains(err.Error(), "server.port 70000 out of range") {
		t.Errorf("error = %q, want to mention port range", err.Error())
	}
}

func TestParse_EmptyCORSOrigin(t *testing.T) {
	_, err := Parse([]byte("server:\n  cors_origins:\n    - \"\"\n"))
	if err == nil {
		t.Fatal("expected error for empty CORS origin")
	}
	if !strings.Contains(err.Error(), "server.cors_origins[0] is empty") {
		t.Errorf("error = %q, want to mention empty origin", err.Error())
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte(":::invalid"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse:") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse:")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: read")
	}
}
