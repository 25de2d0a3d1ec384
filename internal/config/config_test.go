// ABOUTME: Tests for bp configuration management.
// ABOUTME: Covers defaults, file and env layering, validation, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points XDG_CONFIG_HOME at an empty temp dir and blanks BP_ overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, kv := range os.Environ() {
		if key, _, _ := strings.Cut(kv, "="); strings.HasPrefix(key, EnvPrefix+"_") {
			// viper ignores empty values
			t.Setenv(key, "")
		}
	}
	return tmpDir
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
	if filepath.Base(got) != "bp" {
		t.Errorf("GetDataDir() = %q, want a bp directory", got)
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/bp-test"}
	if got := cfg.GetDataDir(); got != "/tmp/bp-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/bp-test")
	}
	if got := cfg.DBPath(); got != "/tmp/bp-test/bp.db" {
		t.Errorf("DBPath() = %q, want %q", got, "/tmp/bp-test/bp.db")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/bp-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "bp-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/bp", filepath.Join(home, "data/bp")},
		{"data/bp", "data/bp"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	want := Default()
	if cfg.Server != want.Server {
		t.Errorf("Server = %+v, want %+v", cfg.Server, want.Server)
	}
	if cfg.Log != want.Log {
		t.Errorf("Log = %+v, want %+v", cfg.Log, want.Log)
	}
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.DataDir = "/tmp/bp-data"
	cfg.Server.Port = 9090
	cfg.Server.RequestTimeout = 45 * time.Second
	cfg.Log.Format = "console"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(GetConfigPath())
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DataDir != "/tmp/bp-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/bp-data")
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", loaded.Server.Port)
	}
	if loaded.Server.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %s, want 45s", loaded.Server.RequestTimeout)
	}
	if loaded.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want console", loaded.Log.Format)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "bp")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"server":{"port":7000}}`), 0600)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.Server.ShutdownTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Server.Port = 9090
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("BP_SERVER_PORT", "9191")
	t.Setenv("BP_LOG_LEVEL", "debug")
	t.Setenv("BP_DATA_DIR", "/srv/bp")
	t.Setenv("BP_SERVER_SHUTDOWN_TIMEOUT", "3s")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191", loaded.Server.Port)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", loaded.Log.Level)
	}
	if loaded.DataDir != "/srv/bp" {
		t.Errorf("DataDir = %q, want /srv/bp", loaded.DataDir)
	}
	if loaded.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 3s", loaded.Server.ShutdownTimeout)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// Point to a non-existent subdirectory
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	if err := Default().Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "bp")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "bp")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "bp", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, []string{"server.port"}},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, []string{"server.port"}},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, []string{"log.level"}},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, []string{"log.format"}},
		{
			"collects all",
			func(c *Config) {
				c.Server.RequestTimeout = 0
				c.Server.ShutdownTimeout = -time.Second
			},
			[]string{"server.request_timeout", "server.shutdown_timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q missing %q", err, want)
				}
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	if got := Default().Server.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{DataDir: tmpDir}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	// Verify database file was created
	dbPath := filepath.Join(tmpDir, "bp.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected bp.db to be created")
	}
}
