package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/dataprep/logger"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Cache         struct {
		Provider string `mapstructure:"provider"`
		Redis    struct {
			Addr string `mapstructure:"addr"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config defaults to development", func(t *testing.T) {
		var cfg ServiceConfig
		cfg.ApplyDefaults()
		if cfg.Name != "dataprep" {
			t.Errorf("expected 'dataprep', got %q", cfg.Name)
		}
		if cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("expected debug development, got %q / %v", cfg.Environment, cfg.Debug)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := logger.Config{}
	valid.ApplyDefaults()

	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging", Logging: valid}, ""},
		{"missing name", ServiceConfig{Environment: "production", Logging: valid}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa", Logging: valid}, "config.environment must be one of"},
		{"invalid logging", ServiceConfig{Name: "svc", Environment: "staging", Logging: logger.Config{Level: "loud", Format: "json"}}, "config.logging"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"DATAPREP_NAME":               "name",
		"DATAPREP_CACHE__REDIS__ADDR": "cache.redis.addr",
		"DATAPREP_LOGGING__NO_COLOR":  "logging.no_color",
		"HOME":                        "",
		"DATAPREP_":                   "",
	}
	for in, want := range tests {
		if got := EnvKey(in); got != want {
			t.Errorf("%s: expected %q, got %q", in, want, got)
		}
	}
}

func TestLoadWithYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: dataprep-test
environment: staging
cache:
  provider: memory
  redis:
    addr: localhost:6379
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("DATAPREP_CACHE__PROVIDER", "redis")

	var cfg testConfig
	if err := Load("dataprep", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "dataprep-test" || cfg.Environment != "staging" {
		t.Errorf("expected file values, got %q / %q", cfg.Name, cfg.Environment)
	}
	if cfg.Cache.Provider != "redis" {
		t.Errorf("expected env override 'redis', got %q", cfg.Cache.Provider)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("expected nested value, got %q", cfg.Cache.Redis.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := Load("dataprep", &cfg, WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(string) error    { return nil }

func TestResolverSearchOrder(t *testing.T) {
	r := &Resolver{FileSystem: &fakeFS{files: map[string]bool{
		"./config.yml":              true,
		"./cmd/dataprep/config.yml": true,
		".env":                      true,
	}}}
	got := r.ResolveFiles("dataprep", LoaderConfig{})
	if got.ConfigFile != "./cmd/dataprep/config.yml" {
		t.Errorf("expected cmd config first, got %q", got.ConfigFile)
	}
	if got.EnvFile != ".env" {
		t.Errorf("expected .env, got %q", got.EnvFile)
	}
}
