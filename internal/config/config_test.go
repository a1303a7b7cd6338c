package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(viper.New(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if !cfg.Server.Compression {
		t.Error("Expected compression to be enabled by default")
	}
	if cfg.PublicDir != "public" {
		t.Errorf("PublicDir = %q, want %q", cfg.PublicDir, "public")
	}
	if cfg.Cache.Provider != "memory" {
		t.Errorf("Cache.Provider = %q, want %q", cfg.Cache.Provider, "memory")
	}
	if !slices.Equal(cfg.Registry.Seed, DefaultSeed) {
		t.Errorf("Registry.Seed = %v, want %v", cfg.Registry.Seed, DefaultSeed)
	}
	if cfg.Registry.StrictInput {
		t.Error("Expected strict input to be disabled by default")
	}
}

func TestLoadConfig_PortFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		env  map[string]string
		want int
	}{
		{name: "PORT", env: map[string]string{"PORT": "8081"}, want: 8081},
		{name: "APP_SERVER_PORT", env: map[string]string{"APP_SERVER_PORT": "8082"}, want: 8082},
		{name: "APP_SERVER_PORT wins over PORT", env: map[string]string{"APP_SERVER_PORT": "8083", "PORT": "8084"}, want: 8083},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig(viper.New(), "")
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Server.Port != tt.want {
				t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, tt.want)
			}
		})
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
server:
  port: 4000
  compression: false
registry:
  strict_input: true
  seed:
    - Severance
cache:
  provider: redis
  ttl: 1h
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Server.Compression {
		t.Error("Expected compression to be disabled by the file")
	}
	if !cfg.Registry.StrictInput {
		t.Error("Expected strict input to be enabled by the file")
	}
	if !slices.Equal(cfg.Registry.Seed, []string{"Severance"}) {
		t.Errorf("Registry.Seed = %v, want [Severance]", cfg.Registry.Seed)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL() = %v, want 1h", cfg.CacheTTL())
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected an error for an explicit config file that does not exist")
	}
}

func TestConfig_CacheTTL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ttl  string
		want time.Duration
	}{
		{ttl: "", want: 10 * time.Minute},
		{ttl: "30s", want: 30 * time.Second},
		{ttl: "not-a-duration", want: 10 * time.Minute},
		{ttl: "-5m", want: 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.ttl, func(t *testing.T) {
			t.Parallel()
			var cfg Config
			cfg.Cache.TTL = tt.ttl
			if got := cfg.CacheTTL(); got != tt.want {
				t.Errorf("CacheTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetConfig_InitializedAtStartup(t *testing.T) {
	if GetConfig() == nil {
		t.Fatal("Expected GetConfig to return the configuration loaded in init")
	}
}
