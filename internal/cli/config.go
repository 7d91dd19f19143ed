// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// config.go - Configuration command for sugarai.
//
// Command: sugarai config [show|set|set-key|path|reset]
// Short:   Inspect and change persisted settings
//
// Examples:
//
//	sugarai config                      # same as "config show"
//	sugarai config set default_mode llm
//	sugarai config set timeout_secs 600
//	sugarai config set-key              # prompts for the key without echo
//	sugarai config path
//	sugarai config reset
//
// Settings are written to settings.toml under the sugarai config
// directory. The API key is kept in a separate credential file and is
// only ever displayed as a fingerprint.

package cli

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
)

// ===== STYLES =====

var (
	configKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(20)

	configValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	configMaskedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("242"))

	configPathStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245"))
)

// ===== DISPATCH =====

// HandleConfig routes the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "set":
		return handleConfigSet(args)
	case "set-key":
		return handleConfigSetKey(args)
	case "path", "paths":
		return handleConfigPath(args)
	case "reset":
		return handleConfigReset(args)
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand,
			"unknown config subcommand", "show, set, set-key, path, reset")
	}
}

// ===== SHOW =====

func handleConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		settingsPath, _ := config.SettingsPath()
		data := ConfigShowData{
			Service: ConfigServiceInfo{
				BaseURL:     cfg.Service.BaseURL,
				DefaultMode: cfg.Service.DefaultMode,
				TimeoutSecs: cfg.Service.TimeoutSecs,
			},
			UI: ConfigUIInfo{
				Theme:       cfg.UI.Theme,
				ShowWelcome: cfg.UI.ShowWelcome,
			},
			Server: ConfigServerInfo{
				Host:       cfg.Server.Host,
				Port:       cfg.Server.Port,
				RatePerMin: cfg.Server.RatePerMin,
				QuotaTotal: cfg.Server.QuotaTotal,
			},
			KeySet:       cfg.IsConfigured(),
			SettingsPath: settingsPath,
		}
		return NewJSONResponse("config", data).Print()
	}

	fmt.Println(TitleStyle.Render("sugarai configuration"))

	fmt.Println(SectionStyle.Render("[credentials]"))
	fmt.Printf("  %s%s\n", configKeyStyle.Render("api_key"),
		configMaskedStyle.Render(maskAPIKey(cfg.APIKey)))

	fmt.Println(SectionStyle.Render("[service]"))
	printConfigLine("base_url", cfg.Service.BaseURL)
	printConfigLine("default_mode", cfg.Service.DefaultMode)
	printConfigLine("timeout_secs", strconv.Itoa(cfg.Service.TimeoutSecs))

	fmt.Println(SectionStyle.Render("[ui]"))
	printConfigLine("theme", cfg.UI.Theme)
	printConfigLine("show_welcome", strconv.FormatBool(cfg.UI.ShowWelcome))

	fmt.Println(SectionStyle.Render("[server]"))
	printConfigLine("host", cfg.Server.Host)
	printConfigLine("port", strconv.Itoa(cfg.Server.Port))
	printConfigLine("rate_per_min", strconv.Itoa(cfg.Server.RatePerMin))
	printConfigLine("quota_total", strconv.Itoa(cfg.Server.QuotaTotal))

	if path, err := config.SettingsPath(); err == nil {
		fmt.Println()
		fmt.Println(configPathStyle.Render("Settings: " + path))
	}
	return nil
}

func printConfigLine(key, value string) {
	fmt.Printf("  %s%s\n", configKeyStyle.Render(key), configValueStyle.Render(value))
}

// ===== SET =====

func handleConfigSet(args Args) error {
	key := strings.ToLower(strings.TrimSpace(args.ConfigKey))
	value := strings.TrimSpace(args.ConfigVal)

	if key == "" {
		return ErrMissingArgument("key", "sugarai config set default_mode llm")
	}

	// SECURITY: the API key goes to the credential file, never to
	// settings.toml.
	if key == "api_key" {
		if value == "" {
			return ErrMissingArgument("value", "sugarai config set-key  (prompts without echo)")
		}
		if err := config.SaveAPIKey(value); err != nil {
			return WrapError(err, "saving API key")
		}
		if err := config.ReloadGlobal(); err != nil {
			return WrapError(err, "reloading configuration")
		}
		printConfigSaved(args, key, maskAPIKey(value))
		return nil
	}

	if value == "" {
		return ErrMissingArgument("value", "sugarai config set "+key+" <value>")
	}

	cfg := config.Global().Clone()
	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return NewValidationError(key, value, err.Error())
	}
	if err := config.SaveSettings(cfg); err != nil {
		return WrapError(err, "saving settings")
	}
	if err := config.ReloadGlobal(); err != nil {
		return WrapError(err, "reloading configuration")
	}

	printConfigSaved(args, key, maskIfSecret(key, value))
	return nil
}

func printConfigSaved(args Args, key, display string) {
	if args.JSON {
		_ = NewJSONResponse("config", map[string]string{"key": key, "value": display}).Print()
		return
	}
	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, display)
}

// applyConfigValue maps a settings key onto the configuration struct.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "base_url":
		cfg.Service.BaseURL = value
	case "default_mode":
		mode, ok := model.GetMode(value)
		if !ok {
			return NewValidationErrorWithExample("default_mode", value,
				"unknown answer mode", "rag or llm")
		}
		cfg.Service.DefaultMode = mode.ID
	case "timeout_secs":
		n, err := ParseIntWithValidation(value, "timeout_secs")
		if err != nil {
			return err
		}
		cfg.Service.TimeoutSecs = n
	case "theme":
		cfg.UI.Theme = value
	case "show_welcome":
		b, err := ParseBoolString(value)
		if err != nil {
			return NewValidationError(key, value, err.Error())
		}
		cfg.UI.ShowWelcome = b
	case "host":
		cfg.Server.Host = value
	case "port":
		n, err := ParseIntWithValidation(value, "port")
		if err != nil {
			return err
		}
		cfg.Server.Port = n
	case "rate_per_min":
		n, err := ParseIntWithValidation(value, "rate_per_min")
		if err != nil {
			return err
		}
		cfg.Server.RatePerMin = n
	case "quota_total":
		n, err := ParseIntWithValidation(value, "quota_total")
		if err != nil {
			return err
		}
		cfg.Server.QuotaTotal = n
	default:
		return NewValidationErrorWithExample("key", key, "unknown settings key",
			"base_url, default_mode, timeout_secs, theme, show_welcome, host, port, rate_per_min, quota_total, api_key")
	}
	return nil
}

// ===== SET-KEY =====

// handleConfigSetKey prompts for the API key with echo disabled.
func handleConfigSetKey(args Args) error {
	if err := RequiresTTY("enter an API key"); err != nil {
		return err
	}

	key, err := promptSecure("Sugar-AI API key")
	if err != nil {
		return WrapError(err, "reading API key")
	}
	if key == "" {
		return NewValidationError("api_key", "", "no key entered")
	}

	if err := config.SaveAPIKey(key); err != nil {
		return WrapError(err, "saving API key")
	}
	if err := config.ReloadGlobal(); err != nil {
		return WrapError(err, "reloading configuration")
	}

	printConfigSaved(args, "api_key", maskAPIKey(key))
	return nil
}

// ===== PATH =====

func handleConfigPath(args Args) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return WrapError(err, "resolving config directory")
	}
	settings, _ := config.SettingsPath()
	credential, _ := config.CredentialPath()
	sessions, _ := config.SessionsDir()
	debugLog, _ := config.DebugLogPath()

	if args.JSON {
		return NewJSONResponse("config", map[string]string{
			"config_dir": dir,
			"settings":   settings,
			"credential": credential,
			"sessions":   sessions,
			"debug_log":  debugLog,
		}).Print()
	}

	printConfigLine("config_dir", dir)
	printConfigLine("settings", settings)
	printConfigLine("credential", credential)
	printConfigLine("sessions", sessions)
	printConfigLine("debug_log", debugLog)
	return nil
}

// ===== RESET =====

// handleConfigReset restores default settings. The stored API key is
// left untouched.
func handleConfigReset(args Args) error {
	if IsTTY() && !args.JSON {
		ok, err := promptYesNo("Reset all settings to defaults?", false)
		if err != nil {
			return WrapError(err, "reading confirmation")
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := config.SaveSettings(config.Default()); err != nil {
		return WrapError(err, "saving settings")
	}
	if err := config.ReloadGlobal(); err != nil {
		return WrapError(err, "reloading configuration")
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{"result": "reset"}).Print()
	}
	fmt.Printf("%s Settings restored to defaults. API key unchanged.\n", SuccessStyle.Render("[OK]"))
	return nil
}

// ===== MASKING =====

// maskAPIKey renders a credential as a short fingerprint.
// SECURITY: never print the key itself, not even partially.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) < 8 {
		return "[invalid key]"
	}
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x...", sum[:4])
}

// maskIfSecret masks values whose setting name suggests a credential.
func maskIfSecret(key, value string) string {
	lower := strings.ToLower(key)
	for _, marker := range []string{"key", "secret", "token", "password"} {
		if strings.Contains(lower, marker) {
			return maskAPIKey(value)
		}
	}
	return value
}
