// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// testConfigDir points all config paths at a fresh temp dir and clears
// environment overrides for the duration of the test.
func testConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SUGARAI_CONFIG_DIR", dir)
	t.Setenv("SUGARAI_API_KEY", "")
	t.Setenv("SUGARAI_BASE_URL", "")
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
	if cfg.Service.BaseURL != "https://ai.sugarlabs.org" {
		t.Errorf("Service.BaseURL = %q, want https://ai.sugarlabs.org", cfg.Service.BaseURL)
	}
	if cfg.Service.DefaultMode != "rag" {
		t.Errorf("Service.DefaultMode = %q, want rag", cfg.Service.DefaultMode)
	}
	if cfg.Service.TimeoutSecs != 300 {
		t.Errorf("Service.TimeoutSecs = %d, want 300", cfg.Service.TimeoutSecs)
	}
	if !cfg.UI.ShowWelcome {
		t.Error("UI.ShowWelcome = false, want true")
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	t.Setenv("SUGARAI_CONFIG_DIR", "/tmp/sugarai-test-config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != "/tmp/sugarai-test-config" {
		t.Errorf("ConfigDir() = %q, want /tmp/sugarai-test-config", dir)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("SUGARAI_CONFIG_DIR", "/cfg")

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"credential", CredentialPath, "/cfg/config.json"},
		{"settings", SettingsPath, "/cfg/settings.toml"},
		{"debug log", DebugLogPath, "/cfg/debug.log"},
		{"sessions", SessionsDir, "/cfg/sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_NoFiles(t *testing.T) {
	testConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
	if cfg.Service.BaseURL != "https://ai.sugarlabs.org" {
		t.Errorf("Service.BaseURL = %q, want default", cfg.Service.BaseURL)
	}
	if cfg.Service.TimeoutSecs != 300 {
		t.Errorf("Service.TimeoutSecs = %d, want 300", cfg.Service.TimeoutSecs)
	}
}

func TestLoad_CredentialAndSettings(t *testing.T) {
	dir := testConfigDir(t)

	cred := `{"api_key": "  sk-test-abc  "}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(cred), 0600); err != nil {
		t.Fatalf("write credential: %v", err)
	}

	settings := `
[service]
base_url = "http://127.0.0.1:8080"

[ui]
theme = "light"
show_welcome = false
`
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(settings), 0600); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIKey != "sk-test-abc" {
		t.Errorf("APIKey = %q, want sk-test-abc (trimmed)", cfg.APIKey)
	}
	if cfg.Service.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("Service.BaseURL = %q, want http://127.0.0.1:8080", cfg.Service.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q, want light", cfg.UI.Theme)
	}
	if cfg.UI.ShowWelcome {
		t.Error("UI.ShowWelcome = true, want false")
	}

	// Fields absent from settings.toml keep their defaults
	if cfg.Service.DefaultMode != "rag" {
		t.Errorf("Service.DefaultMode = %q, want rag", cfg.Service.DefaultMode)
	}
	if cfg.Service.TimeoutSecs != 300 {
		t.Errorf("Service.TimeoutSecs = %d, want 300", cfg.Service.TimeoutSecs)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := testConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"api_key": "file-key"}`), 0600); err != nil {
		t.Fatalf("write credential: %v", err)
	}
	settings := "[service]\nbase_url = \"https://file.example\"\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(settings), 0600); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	t.Setenv("SUGARAI_API_KEY", "env-key")
	t.Setenv("SUGARAI_BASE_URL", "https://env.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if cfg.Service.BaseURL != "https://env.example" {
		t.Errorf("Service.BaseURL = %q, want https://env.example", cfg.Service.BaseURL)
	}
}

func TestLoad_MalformedCredential(t *testing.T) {
	dir := testConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write credential: %v", err)
	}

	cfg, err := Load()
	if err == nil {
		t.Error("Load() error = nil, want decode error")
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty after failed decode", cfg.APIKey)
	}
	if cfg.Service.BaseURL != "https://ai.sugarlabs.org" {
		t.Errorf("Service.BaseURL = %q, want default", cfg.Service.BaseURL)
	}
}

func TestLoad_InvalidSettings(t *testing.T) {
	dir := testConfigDir(t)

	settings := "[service]\ndefault_mode = \"banana\"\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(settings), 0600); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg, err := Load()
	if err == nil {
		t.Error("Load() error = nil, want validation error")
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	// Falls back to defaults when validation fails
	if cfg.Service.DefaultMode != "rag" {
		t.Errorf("Service.DefaultMode = %q, want rag fallback", cfg.Service.DefaultMode)
	}
}

func TestSaveAPIKey(t *testing.T) {
	dir := testConfigDir(t)

	if err := SaveAPIKey("  sk-test-123  "); err != nil {
		t.Fatalf("SaveAPIKey() error: %v", err)
	}

	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read credential file: %v", err)
	}

	// The file holds exactly one field: api_key
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("credential file is not valid JSON: %v", err)
	}
	if len(raw) != 1 {
		t.Errorf("credential file has %d fields, want 1", len(raw))
	}
	if raw["api_key"] != "sk-test-123" {
		t.Errorf("api_key = %v, want sk-test-123 (trimmed)", raw["api_key"])
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat credential file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credential file permissions = %o, want 0600", perm)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() after save: %v", err)
	}
	if cfg.APIKey != "sk-test-123" {
		t.Errorf("round-trip APIKey = %q, want sk-test-123", cfg.APIKey)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	dir := testConfigDir(t)

	cfg := Default()
	cfg.APIKey = "must-not-leak"
	cfg.UI.Theme = "light"
	cfg.UI.ShowWelcome = false
	cfg.Server.Port = 9090

	if err := SaveSettings(cfg); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "settings.toml"))
	if err != nil {
		t.Fatalf("read settings file: %v", err)
	}
	if strings.Contains(string(data), "must-not-leak") {
		t.Error("settings.toml contains the API key")
	}
	if strings.Contains(string(data), "api_key") {
		t.Error("settings.toml contains an api_key field")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after save: %v", err)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q, want light", loaded.UI.Theme)
	}
	if loaded.UI.ShowWelcome {
		t.Error("UI.ShowWelcome = true, want false")
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", loaded.Server.Port)
	}
	if loaded.Service.TimeoutSecs != 300 {
		t.Errorf("Service.TimeoutSecs = %d, want default 300", loaded.Service.TimeoutSecs)
	}
}

func TestLoad_FixesLoosePermissions(t *testing.T) {
	dir := testConfigDir(t)

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"api_key": "sk-loose"}`), 0644); err != nil {
		t.Fatalf("write credential: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "sk-loose" {
		t.Errorf("APIKey = %q, want sk-loose", cfg.APIKey)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat credential file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions after load = %o, want 0600", perm)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string // empty means valid
	}{
		{"defaults valid", func(c *Config) {}, ""},
		{"bad mode", func(c *Config) { c.Service.DefaultMode = "banana" }, "service.default_mode"},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }, "ui.theme"},
		{"bad url scheme", func(c *Config) { c.Service.BaseURL = "ftp://ai.sugarlabs.org" }, "service.base_url"},
		{"url without host", func(c *Config) { c.Service.BaseURL = "https://" }, "service.base_url"},
		{"timeout too small", func(c *Config) { c.Service.TimeoutSecs = 0 }, "service.timeout_secs"},
		{"timeout too large", func(c *Config) { c.Service.TimeoutSecs = 7200 }, "service.timeout_secs"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"rate zero", func(c *Config) { c.Server.RatePerMin = 0 }, "server.rate_per_min"},
		{"negative quota", func(c *Config) { c.Server.QuotaTotal = -1 }, "server.quota_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error naming %s", tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() = %q, want mention of %s", err.Error(), tt.wantField)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "  sk-pad  "
	cfg.Service.BaseURL = " https://ai.example.org/ "
	cfg.Service.DefaultMode = "RAG"
	cfg.UI.Theme = " Dark"

	cfg.Normalize()

	if cfg.APIKey != "sk-pad" {
		t.Errorf("APIKey = %q, want sk-pad", cfg.APIKey)
	}
	if cfg.Service.BaseURL != "https://ai.example.org" {
		t.Errorf("BaseURL = %q, want https://ai.example.org", cfg.Service.BaseURL)
	}
	if cfg.Service.DefaultMode != "rag" {
		t.Errorf("DefaultMode = %q, want rag", cfg.Service.DefaultMode)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestConfig_String_RedactsKey(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "super-secret-key"

	s := cfg.String()
	if strings.Contains(s, "super-secret-key") {
		t.Error("String() leaked the API key")
	}
	if !strings.Contains(s, "[REDACTED]") {
		t.Error("String() missing [REDACTED] marker")
	}
	if !strings.Contains(s, "base_url") {
		t.Error("String() missing settings fields")
	}
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"sk-abc", true},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.APIKey = tt.key
		if got := cfg.IsConfigured(); got != tt.want {
			t.Errorf("IsConfigured() with key %q = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestGlobal_SetAndReset(t *testing.T) {
	testConfigDir(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	// Prime the singleton so SetGlobal is not overwritten by the lazy load
	_ = Global()

	custom := Default()
	custom.APIKey = "custom-key"
	SetGlobal(custom)

	if got := Global(); got != custom {
		t.Error("Global() did not return the config passed to SetGlobal()")
	}

	ResetGlobalForTesting()
	if got := Global(); got.APIKey != "" {
		t.Errorf("Global() after reset has APIKey %q, want empty", got.APIKey)
	}
}

func TestReloadGlobal_PicksUpSavedKey(t *testing.T) {
	testConfigDir(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	if got := Global(); got.APIKey != "" {
		t.Fatalf("fresh Global() has APIKey %q, want empty", got.APIKey)
	}

	if err := SaveAPIKey("sk-reload"); err != nil {
		t.Fatalf("SaveAPIKey() error: %v", err)
	}
	if err := ReloadGlobal(); err != nil {
		t.Fatalf("ReloadGlobal() error: %v", err)
	}

	if got := Global(); got.APIKey != "sk-reload" {
		t.Errorf("Global().APIKey = %q, want sk-reload", got.APIKey)
	}
}

// TestConfig_ConcurrentAccess checks that Global(), SetGlobal(), and
// ReloadGlobal() can be called concurrently without races.
// Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	testConfigDir(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.APIKey = "concurrent-key"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if cfg := Global(); cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ReloadGlobal(); err != nil {
				t.Errorf("ReloadGlobal() error: %v", err)
			}
		}()
	}

	wg.Wait()
}

func TestSettingsWatcher_ReloadsOnChange(t *testing.T) {
	dir := testConfigDir(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()
	_ = Global()

	reloaded := make(chan *Config, 4)
	w, err := NewSettingsWatcher(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewSettingsWatcher() error: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	settings := "[service]\nbase_url = \"http://127.0.0.1:9999\"\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(settings), 0600); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Service.BaseURL != "http://127.0.0.1:9999" {
			t.Errorf("reloaded BaseURL = %q, want http://127.0.0.1:9999", cfg.Service.BaseURL)
		}
		if got := Global(); got.Service.BaseURL != "http://127.0.0.1:9999" {
			t.Errorf("Global().Service.BaseURL = %q, want reloaded value", got.Service.BaseURL)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for settings reload")
	}
}

func TestSettingsWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := testConfigDir(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()
	_ = Global()

	reloaded := make(chan *Config, 4)
	w, err := NewSettingsWatcher(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewSettingsWatcher() error: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not config"), 0600); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(700 * time.Millisecond):
	}
}
