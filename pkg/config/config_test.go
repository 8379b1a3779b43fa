package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/dirsnap/internal/bytesize"
)

// yamlSafePath converts a filesystem path to a YAML-safe representation.
func yamlSafePath(p string) string {
	return filepath.ToSlash(p)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "info"

scan:
  buffer_size: 64KiB
  timeout: 5s
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected normalized level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Scan.BufferSize != 64*bytesize.KiB {
		t.Errorf("Expected buffer size 64KiB, got %v", cfg.Scan.BufferSize)
	}
	if cfg.Scan.Timeout != 5*time.Second {
		t.Errorf("Expected scan timeout 5s, got %v", cfg.Scan.Timeout)
	}
	if cfg.Scan.Retry.MaxAttempts != 3 {
		t.Errorf("Expected default max attempts 3, got %d", cfg.Scan.Retry.MaxAttempts)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected server port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}
	if cfg.Scan.BufferSize != 32*bytesize.KiB {
		t.Errorf("Expected default buffer size 32KiB, got %v", cfg.Scan.BufferSize)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: INFO
  invalid yaml here [[[
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	configPath := writeConfig(t, `
scan:
  buffer_size: 1KiB
  retry:
    max_attempts: 0
    multiplier: 0.5
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error, got nil")
	}
}

func TestLoad_AllowedRoots(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, `
scan:
  allowed_roots:
    - "`+yamlSafePath(root)+`/"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if len(cfg.Scan.AllowedRoots) != 1 || cfg.Scan.AllowedRoots[0] != filepath.Clean(root) {
		t.Errorf("Expected cleaned root %q, got %v", root, cfg.Scan.AllowedRoots)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("DIRSNAP_LOGGING_LEVEL", "ERROR")
	t.Setenv("DIRSNAP_SERVER_PORT", "9091")
	t.Setenv("DIRSNAP_SCAN_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("DIRSNAP_SCAN_BUFFER_SIZE", "128KiB")

	configPath := writeConfig(t, `
logging:
  level: "INFO"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != 9091 {
		t.Errorf("Expected port 9091 from env var, got %d", cfg.Server.Port)
	}
	if cfg.Scan.Retry.MaxAttempts != 7 {
		t.Errorf("Expected max attempts 7 from env var, got %d", cfg.Scan.Retry.MaxAttempts)
	}
	if cfg.Scan.BufferSize != 128*bytesize.KiB {
		t.Errorf("Expected buffer size 128KiB from env var, got %v", cfg.Scan.BufferSize)
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	want := filepath.Join(tmpDir, "dirsnap", "config.yaml")
	if got := GetDefaultConfigPath(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if filepath.Base(GetConfigDir()) != "dirsnap" {
		t.Errorf("Expected directory name 'dirsnap', got %q", filepath.Base(GetConfigDir()))
	}
	if DefaultConfigExists() {
		t.Error("Expected no default config in empty directory")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Scan.BufferSize = 256 * bytesize.KiB
	cfg.Logging.Level = "DEBUG"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to reload saved config: %v", err)
	}
	if loaded.Scan.BufferSize != cfg.Scan.BufferSize {
		t.Errorf("Expected buffer size %v, got %v", cfg.Scan.BufferSize, loaded.Scan.BufferSize)
	}
	if loaded.Logging.Level != "DEBUG" {
		t.Errorf("Expected level DEBUG, got %q", loaded.Logging.Level)
	}
}

func TestConverters(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Scan.AllowedRoots = []string{"/srv"}
	cfg.Telemetry.Enabled = true

	sc := cfg.ScanConfig()
	if sc.BufferSize != 32*1024 {
		t.Errorf("Expected buffer size 32768, got %d", sc.BufferSize)
	}
	if sc.Retry.MaxAttempts != 3 || sc.Timeout != 30*time.Second {
		t.Errorf("Unexpected scan config: %+v", sc)
	}
	sc.AllowedRoots[0] = "/other"
	if cfg.Scan.AllowedRoots[0] != "/srv" {
		t.Error("ScanConfig must copy allowed roots")
	}

	tc := cfg.TelemetryConfig("1.2.3")
	if !tc.Enabled || tc.ServiceVersion != "1.2.3" || tc.ServiceName != "dirsnap" {
		t.Errorf("Unexpected telemetry config: %+v", tc)
	}

	lc := cfg.LoggerConfig()
	if lc.Level != "INFO" || lc.Format != "text" || lc.Output != "stdout" {
		t.Errorf("Unexpected logger config: %+v", lc)
	}

	pc := cfg.ProfilingConfig("1.2.3")
	if pc.Enabled || pc.Endpoint != "http://localhost:4040" {
		t.Errorf("Unexpected profiling config: %+v", pc)
	}
}
