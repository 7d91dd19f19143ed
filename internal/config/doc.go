// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config provides configuration loading and management for sugarai.
//
// Two files live in the config directory (~/.sugarai by default,
// overridable with SUGARAI_CONFIG_DIR):
//
//   - config.json holds the API key and nothing else, as
//     {"api_key": "<string>"}. It is written atomically with 0600
//     permissions.
//   - settings.toml holds optional preferences: service base URL, ask
//     mode, request timeout, UI theme, and dev server settings.
//
// # Key Types
//
//   - Config: the resolved runtime configuration
//   - SettingsWatcher: reloads the global config when files change on disk
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SUGARAI_API_KEY, SUGARAI_BASE_URL)
//   - ~/.sugarai/config.json and ~/.sugarai/settings.toml
//   - Built-in defaults
//
// # Usage
//
// Access the shared configuration:
//
//	cfg := config.Global()
//	if !cfg.IsConfigured() {
//	    // prompt for an API key
//	}
//
// Store a new API key:
//
//	if err := config.SaveAPIKey(key); err != nil {
//	    log.Fatal(err)
//	}
package config
