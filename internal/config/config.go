// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/sugarlabs/sugarai-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the resolved runtime configuration: the stored API key merged
// with settings.toml and environment overrides.
//
// The JSON tags describe config.json, which holds the api_key field and
// nothing else. Everything else lives in settings.toml.
type Config struct {
	// APIKey is the Sugar-AI credential.
	APIKey string `json:"api_key" toml:"-"`

	// Service settings
	Service ServiceSettings `json:"-" toml:"service"`

	// UI settings
	UI UISettings `json:"-" toml:"ui"`

	// Server settings for the local dev service (sugarai serve)
	Server ServerSettings `json:"-" toml:"server"`
}

// ServiceSettings configures how the client talks to the Sugar-AI service.
type ServiceSettings struct {
	// BaseURL is the service root. Override for self-hosted deployments.
	BaseURL string `toml:"base_url" json:"base_url"`
	// DefaultMode selects the ask endpoint: "rag" or "llm"
	DefaultMode string `toml:"default_mode" json:"default_mode"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// UISettings contains UI configuration.
type UISettings struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowWelcome shows the welcome screen with example questions on start
	ShowWelcome bool `toml:"show_welcome" json:"show_welcome"`
}

// ServerSettings configures the local dev service started by sugarai serve.
type ServerSettings struct {
	// Host is the listen address. Defaults to loopback only.
	Host string `toml:"host" json:"host"`
	// Port is the listen port
	Port int `toml:"port" json:"port"`
	// RatePerMin is the per-key request rate limit
	RatePerMin int `toml:"rate_per_min" json:"rate_per_min"`
	// QuotaTotal is the per-key question quota reported in responses
	QuotaTotal int `toml:"quota_total" json:"quota_total"`
}

// credentialFile is the exact on-disk shape of config.json.
type credentialFile struct {
	APIKey string `json:"api_key"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		APIKey: "",

		Service: ServiceSettings{
			BaseURL:     "https://ai.sugarlabs.org",
			DefaultMode: "rag",
			TimeoutSecs: 300,
		},

		UI: UISettings{
			Theme:       "auto",
			ShowWelcome: true,
		},

		Server: ServerSettings{
			Host:       "127.0.0.1",
			Port:       8080,
			RatePerMin: 30,
			QuotaTotal: 10,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

const (
	credentialFileName = "config.json"
	settingsFileName   = "settings.toml"
	debugLogFileName   = "debug.log"
	sessionsDirName    = "sessions"
)

// ConfigDir returns the sugarai configuration directory path.
// SUGARAI_CONFIG_DIR overrides the default ~/.sugarai location.
func ConfigDir() (string, error) {
	if dir := os.Getenv("SUGARAI_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".sugarai"), nil
}

// CredentialPath returns the path to the config.json credential file.
func CredentialPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credentialFileName), nil
}

// SettingsPath returns the path to the settings.toml file.
func SettingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// DebugLogPath returns the path the --debug flag routes log output to.
func DebugLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, debugLogFileName), nil
}

// SessionsDir returns the directory where saved sessions are stored.
func SessionsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionsDirName), nil
}

// EnsureConfigDir ensures the config directory exists.
// SECURITY: The directory is created 0700 because it holds the API key.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err // File doesn't exist or not accessible
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config directory.
//
// Missing files are not an error: defaults fill in. Environment overrides
// are applied last. The returned Config is never nil, so callers can keep
// running on defaults when loading fails.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	credPath, err := CredentialPath()
	if err == nil {
		if _, statErr := os.Stat(credPath); statErr == nil {
			if err := loadCredential(cfg, credPath); err != nil {
				loadErr = fmt.Errorf("failed to load credential file: %w", err)
			}
		}
	}

	settingsPath, err := SettingsPath()
	if err == nil {
		if _, statErr := os.Stat(settingsPath); statErr == nil {
			if err := loadSettings(cfg, settingsPath); err != nil {
				loadErr = fmt.Errorf("failed to load settings file: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config: %w", err)
	}

	return cfg, loadErr
}

// loadCredential reads the API key from config.json into cfg.
// SECURITY: Checks and fixes file permissions on load.
func loadCredential(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all filesystems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read credential file: %w", err)
	}
	var cred credentialFile
	if err := json.Unmarshal(data, &cred); err != nil {
		return fmt.Errorf("failed to decode credential file: %w", err)
	}
	cfg.APIKey = strings.TrimSpace(cred.APIKey)
	return nil
}

// loadSettings decodes settings.toml over the defaults already in cfg, so
// absent fields keep their default values.
func loadSettings(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode settings file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveAPIKey writes the credential file as {"api_key": "<key>"}.
// SECURITY: Written with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveAPIKey(key string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := CredentialPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(credentialFile{APIKey: strings.TrimSpace(key)}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// SaveSettings writes cfg's settings sections to settings.toml. The API key
// is never written here; it stays in config.json.
func SaveSettings(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := SettingsPath()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("# sugarai settings file\n")
	buf.WriteString("# Generated by sugarai - edit with care\n")
	buf.WriteString("#\n")
	buf.WriteString("# The API key is stored separately in config.json.\n")
	buf.WriteString("\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate service base URL
	if c.Service.BaseURL != "" {
		u, err := url.Parse(c.Service.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, ValidationError{
				Field:   "service.base_url",
				Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host", c.Service.BaseURL),
			})
		}
	}

	// Validate ask mode
	validModes := map[string]bool{"rag": true, "llm": true}
	if !validModes[strings.ToLower(c.Service.DefaultMode)] {
		errs = append(errs, ValidationError{
			Field:   "service.default_mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: rag, llm", c.Service.DefaultMode),
		})
	}

	// Validate request timeout
	if c.Service.TimeoutSecs < 1 || c.Service.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "service.timeout_secs",
			Message: fmt.Sprintf("must be 1-3600 seconds, got %d", c.Service.TimeoutSecs),
		})
	}

	// Validate UI theme
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Validate server settings
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be 1-65535, got %d", c.Server.Port),
		})
	}
	if c.Server.RatePerMin < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_per_min",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Server.RatePerMin),
		})
	}
	if c.Server.QuotaTotal < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.quota_total",
			Message: "must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaults.Service.BaseURL
	}
	if c.Service.DefaultMode == "" {
		c.Service.DefaultMode = defaults.Service.DefaultMode
	}
	if c.Service.TimeoutSecs == 0 {
		c.Service.TimeoutSecs = defaults.Service.TimeoutSecs
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	if c.Server.Host == "" {
		c.Server.Host = defaults.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.RatePerMin == 0 {
		c.Server.RatePerMin = defaults.Server.RatePerMin
	}
	if c.Server.QuotaTotal == 0 {
		c.Server.QuotaTotal = defaults.Server.QuotaTotal
	}
}

// Normalize canonicalizes string fields: modes and themes are lowercased,
// the base URL loses any trailing slash.
func (c *Config) Normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Service.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.Service.BaseURL), "/")
	c.Service.DefaultMode = strings.ToLower(strings.TrimSpace(c.Service.DefaultMode))
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SUGARAI_API_KEY: overrides the stored API key
//   - SUGARAI_BASE_URL: overrides service.base_url
//
// SUGARAI_CONFIG_DIR is handled by ConfigDir, not here.
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("SUGARAI_API_KEY"); strings.TrimSpace(key) != "" {
		c.APIKey = strings.TrimSpace(key)
	}

	if base := os.Getenv("SUGARAI_BASE_URL"); base != "" {
		c.Service.BaseURL = base
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsConfigured reports whether an API key is present.
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// SECURITY: The API key is redacted so the output is safe to log.
func (c *Config) String() string {
	view := struct {
		APIKey  string          `json:"api_key"`
		Service ServiceSettings `json:"service"`
		UI      UISettings      `json:"ui"`
		Server  ServerSettings  `json:"server"`
	}{c.APIKey, c.Service, c.UI, c.Server}

	if view.APIKey != "" {
		view.APIKey = "[REDACTED]"
	}

	data, _ := json.MarshalIndent(view, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Load always returns a usable config, so warn and continue
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
