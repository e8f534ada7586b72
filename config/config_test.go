package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Workers       int `yaml:"workers" mapstructure:"workers"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: graph-service
environment: production
workers: 4
logging:
  level: debug
  format: json
`)

	var cfg testConfig
	if err := LoadConfig("graph-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "graph-service" {
		t.Errorf("expected name 'graph-service', got %q", cfg.Name)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: graph-service
workers: 2
`)

	os.Setenv("WORKERS", "8")
	defer os.Unsetenv("WORKERS")

	var cfg testConfig
	if err := LoadConfig("graph-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected env override to 8 workers, got %d", cfg.Workers)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", `
name: graph-service
workers: 2
`)
	envPath := writeFile(t, dir, ".env", "WORKERS=16\n")

	defer os.Unsetenv("WORKERS")

	var cfg testConfig
	err := LoadConfig("graph-service", &cfg, WithConfigFile(cfgPath), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 16 {
		t.Errorf("expected .env override to 16 workers, got %d", cfg.Workers)
	}
}

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	cfg := testConfig{}
	cfg.Name = "svc"
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected development default, got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug enabled in development")
	}
	if cfg.Logging.ServiceName != "svc" {
		t.Errorf("expected logging service name propagated, got %q", cfg.Logging.ServiceName)
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	cfg := ServiceConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing name")
	}

	cfg = ServiceConfig{Name: "svc", Environment: "sandbox"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid environment")
	}

	cfg = ServiceConfig{Name: "svc", Environment: "production"}
	cfg.Logging.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool  { return f.files[path] }
func (f *fakeFS) LoadEnv(path string) error { return nil }

func TestResolver_SearchOrder(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{
		"./config/config.yml": true,
		"./config.yml":        true,
	}}
	r := &Resolver{FileSystem: fs}
	files := r.ResolveFiles("svc", LoaderConfig{})
	if files.ConfigFile != "./config/config.yml" {
		t.Errorf("expected ./config/config.yml, got %q", files.ConfigFile)
	}
}
