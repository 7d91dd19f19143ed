// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// json_output.go - JSON output support for scripting and activity integration.
//
// Provides a standardized JSON envelope for all CLI commands so that
// Sugar activities and shell scripts can consume sugarai output without
// scraping styled terminal text.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
// Human-readable messages should go to stderr when JSON mode is enabled.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// OutputJSON is a helper function that outputs either JSON or runs a normal handler.
// If jsonMode is true, it outputs JSON and handles errors. Otherwise it runs the handler.
func OutputJSON(jsonMode bool, command string, handler func() (interface{}, error)) error {
	if !jsonMode {
		_, err := handler()
		return err
	}

	data, err := handler()
	if err != nil {
		resp := NewJSONErrorResponse(command, err)
		resp.Print()
		return err
	}

	resp := NewJSONResponse(command, data)
	return resp.Print()
}

// StderrPrint prints a message to stderr (for human-readable output in JSON mode).
func StderrPrint(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// StderrPrintln prints a line to stderr (for human-readable output in JSON mode).
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// AskData represents the data returned by the ask command.
type AskData struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	Mode           string `json:"mode"`
	QuotaRemaining string `json:"quota_remaining,omitempty"`
	QuotaTotal     string `json:"quota_total,omitempty"`
	DurationMs     int64  `json:"duration_ms"`
}

// StatusData represents the data returned by the status command.
type StatusData struct {
	Service     StatusServiceInfo     `json:"service"`
	Credentials StatusCredentialsInfo `json:"credentials"`
	Settings    StatusSettingsInfo    `json:"settings"`
	Sessions    StatusSessionsInfo    `json:"sessions"`
}

// StatusServiceInfo contains service reachability for the status command.
type StatusServiceInfo struct {
	BaseURL   string `json:"base_url"`
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StatusCredentialsInfo contains credential state (key never included).
type StatusCredentialsInfo struct {
	Configured  bool   `json:"configured"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// StatusSettingsInfo contains the active settings for the status command.
type StatusSettingsInfo struct {
	DefaultMode string `json:"default_mode"`
	Theme       string `json:"theme"`
	TimeoutSecs int    `json:"timeout_secs"`
}

// StatusSessionsInfo contains saved-session statistics.
type StatusSessionsInfo struct {
	Count     int    `json:"count"`
	Directory string `json:"directory"`
}

// ConfigShowData represents the data returned by the config show command.
type ConfigShowData struct {
	Service      ConfigServiceInfo `json:"service"`
	UI           ConfigUIInfo      `json:"ui"`
	Server       ConfigServerInfo  `json:"server"`
	KeySet       bool              `json:"api_key_configured"`
	SettingsPath string            `json:"settings_path"`
}

// ConfigServiceInfo mirrors the [service] settings section.
type ConfigServiceInfo struct {
	BaseURL     string `json:"base_url"`
	DefaultMode string `json:"default_mode"`
	TimeoutSecs int    `json:"timeout_secs"`
}

// ConfigUIInfo mirrors the [ui] settings section.
type ConfigUIInfo struct {
	Theme       string `json:"theme"`
	ShowWelcome bool   `json:"show_welcome"`
}

// ConfigServerInfo mirrors the [server] settings section.
type ConfigServerInfo struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	RatePerMin int    `json:"rate_per_min"`
	QuotaTotal int    `json:"quota_total"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
