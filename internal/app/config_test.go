package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig(NewViper(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server != DefaultServerURL || cfg.Format != "png" || cfg.CacheSize != DefaultCacheSize {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ijc.yaml")
	content := "server: http://imaging:9000/\nformat: tif\ntimeout: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IJC_CACHE_SIZE", "7")
	t.Setenv("IJC_FORMAT", "jpg")

	cfg, err := LoadConfig(NewViper(), path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server != "http://imaging:9000" {
		t.Errorf("server = %q", cfg.Server)
	}
	if cfg.Format != "jpg" {
		t.Errorf("env should override file, format = %q", cfg.Format)
	}
	if cfg.Timeout != 5*time.Second || cfg.CacheSize != 7 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.File != path {
		t.Errorf("File = %q", cfg.File)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("IJC_TIMEOUT", "9s")

	path := filepath.Join(t.TempDir(), ".env")
	content := "# local server\nIJC_SERVER=http://lab:8080\nIJC_CACHE_SIZE=3\nIJC_TIMEOUT=1s\nOTHER=x\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	v := NewViper()
	if err := LoadDotEnv(v, path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, err := LoadConfig(v, "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server != "http://lab:8080" || cfg.CacheSize != 3 {
		t.Errorf("dotenv values not applied: %+v", cfg)
	}
	if cfg.Timeout != 9*time.Second {
		t.Errorf("environment should win over .env, timeout = %v", cfg.Timeout)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(NewViper(), filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}
}
