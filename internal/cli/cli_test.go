// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Tests for argument parsing, command dispatch, exit codes, and the
// session reference resolver. These are the paths every scripted use
// of sugarai goes through, so they get table coverage.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/sugarlabs/sugarai-tui/internal/ask"
	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
	"github.com/sugarlabs/sugarai-tui/internal/sugarai"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"export", "2", "--format", "json"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(0) != "2" {
					t.Errorf("Positional(0) = %q, want %q", p.Positional(0), "2")
				}
				if p.Flag("format") != "json" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "json")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"export", "1", "--format=md"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "md" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "md")
				}
			},
		},
		{
			name:    "boolean flag after positional",
			args:    []string{"delete", "3", "--confirm"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("confirm") {
					t.Error("BoolFlag(confirm) should be true")
				}
				if p.Positional(0) != "3" {
					t.Errorf("Positional(0) = %q, want %q", p.Positional(0), "3")
				}
			},
		},
		{
			name:    "boolean flag with explicit value",
			args:    []string{"--down=true"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("down") {
					t.Error("BoolFlag(down) should be true")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"search", "parrot", "sprite", "demo"},
			wantSub: "search",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 3 {
					t.Errorf("PositionalCount() = %d, want 3", p.PositionalCount())
				}
				joined := strings.Join(p.PositionalFrom(0), " ")
				if joined != "parrot sprite demo" {
					t.Errorf("PositionalFrom(0) joined = %q, want %q", joined, "parrot sprite demo")
				}
			},
		},
		{
			name:    "flags only, no subcommand",
			args:    []string{"--port", "9000", "--rate", "10"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if n, ok := p.FlagInt("port"); !ok || n != 9000 {
					t.Errorf("FlagInt(port) = %d, %v, want 9000, true", n, ok)
				}
				if p.FlagIntOrDefault("rate", 5) != 10 {
					t.Errorf("FlagIntOrDefault(rate) = %d, want 10", p.FlagIntOrDefault("rate", 5))
				}
			},
		},
		{
			name:    "defaults for absent flags",
			args:    []string{"list"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.FlagOrDefault("format", "md") != "md" {
					t.Errorf("FlagOrDefault(format) = %q, want md", p.FlagOrDefault("format", "md"))
				}
				if p.FlagIntOrDefault("port", 8080) != 8080 {
					t.Errorf("FlagIntOrDefault(port) = %d, want 8080", p.FlagIntOrDefault("port", 8080))
				}
				if p.HasFlag("format") {
					t.Error("HasFlag(format) should be false")
				}
				if p.BoolFlag("confirm") {
					t.Error("BoolFlag(confirm) should be false")
				}
			},
		},
		{
			name:    "out of range positional is empty",
			args:    []string{"show"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(0) != "" {
					t.Errorf("Positional(0) = %q, want empty", p.Positional(0))
				}
				if p.PositionalFrom(0) != nil {
					t.Error("PositionalFrom(0) should be nil")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParseIntWithValidation(t *testing.T) {
	if n, err := ParseIntWithValidation("42", "port"); err != nil || n != 42 {
		t.Errorf("ParseIntWithValidation(42) = %d, %v", n, err)
	}

	if _, err := ParseIntWithValidation("abc", "port"); !IsValidationError(err) {
		t.Errorf("ParseIntWithValidation(abc) error = %v, want ValidationError", err)
	}

	if _, err := ParseIntWithValidation("-1", "port"); !IsValidationError(err) {
		t.Errorf("ParseIntWithValidation(-1) error = %v, want ValidationError", err)
	}

	if _, err := ParseIntWithValidation("0", "port"); err == nil {
		t.Error("ParseIntWithValidation(0) should reject zero")
	}
}

func TestParseBoolString(t *testing.T) {
	trueValues := []string{"true", "TRUE", "1", "yes", "on", " Yes "}
	for _, v := range trueValues {
		b, err := ParseBoolString(v)
		if err != nil || !b {
			t.Errorf("ParseBoolString(%q) = %v, %v, want true", v, b, err)
		}
	}

	falseValues := []string{"false", "0", "no", "off", "No"}
	for _, v := range falseValues {
		b, err := ParseBoolString(v)
		if err != nil || b {
			t.Errorf("ParseBoolString(%q) = %v, %v, want false", v, b, err)
		}
	}

	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("ParseBoolString(maybe) should fail")
	}
}

func TestJoinPositionalArgs(t *testing.T) {
	if got := JoinPositionalArgs([]string{"how", "do", "sprites", "move"}); got != "how do sprites move" {
		t.Errorf("JoinPositionalArgs = %q", got)
	}
	if got := JoinPositionalArgs(nil); got != "" {
		t.Errorf("JoinPositionalArgs(nil) = %q, want empty", got)
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParse_Integration(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		name     string
		args     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args defaults to TUI",
			args:    []string{"sugarai"},
			wantCmd: CmdTUI,
		},
		{
			name:    "ask joins bare words into the question",
			args:    []string{"sugarai", "ask", "how", "do", "I", "move", "a", "sprite"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Query != "how do I move a sprite" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{
			name:    "ask with no-rag flag",
			args:    []string{"sugarai", "ask", "--no-rag", "what", "is", "python"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if !a.NoRAG {
					t.Error("NoRAG should be true")
				}
				if a.Query != "what is python" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{
			name:    "ask with mode flag",
			args:    []string{"sugarai", "ask", "--mode", "llm", "hello"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Mode != "llm" {
					t.Errorf("Mode = %q, want llm", a.Mode)
				}
			},
		},
		{
			name:    "chat with resume reference",
			args:    []string{"sugarai", "chat", "--resume", "3"},
			wantCmd: CmdChat,
			validate: func(t *testing.T, a Args) {
				if a.Resume != "3" {
					t.Errorf("Resume = %q, want 3", a.Resume)
				}
			},
		},
		{
			name:    "status alias",
			args:    []string{"sugarai", "s"},
			wantCmd: CmdStatus,
		},
		{
			name:    "config set captures key and value",
			args:    []string{"sugarai", "config", "set", "default_mode", "llm"},
			wantCmd: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "set" || a.ConfigKey != "default_mode" || a.ConfigVal != "llm" {
					t.Errorf("config args = %q %q %q", a.Subcommand, a.ConfigKey, a.ConfigVal)
				}
			},
		},
		{
			name:    "sessions preserves raw args for the subparser",
			args:    []string{"sugarai", "sessions", "export", "2", "--format", "json"},
			wantCmd: CmdSessions,
			validate: func(t *testing.T, a Args) {
				want := []string{"export", "2", "--format", "json"}
				if len(a.Raw) != len(want) {
					t.Fatalf("Raw = %v, want %v", a.Raw, want)
				}
				for i := range want {
					if a.Raw[i] != want[i] {
						t.Errorf("Raw[%d] = %q, want %q", i, a.Raw[i], want[i])
					}
				}
				if a.Subcommand != "export" {
					t.Errorf("Subcommand = %q, want export", a.Subcommand)
				}
			},
		},
		{
			name:    "serve preserves raw args",
			args:    []string{"sugarai", "serve", "--port", "9000"},
			wantCmd: CmdServe,
			validate: func(t *testing.T, a Args) {
				if len(a.Raw) != 2 || a.Raw[0] != "--port" {
					t.Errorf("Raw = %v", a.Raw)
				}
			},
		},
		{
			name:    "global json flag",
			args:    []string{"sugarai", "--json", "status"},
			wantCmd: CmdStatus,
			validate: func(t *testing.T, a Args) {
				if !a.JSON {
					t.Error("JSON should be true")
				}
			},
		},
		{
			name:    "global quiet and debug flags",
			args:    []string{"sugarai", "-q", "--debug", "ask", "hi"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if !a.Quiet || !a.Debug {
					t.Errorf("Quiet = %v, Debug = %v", a.Quiet, a.Debug)
				}
			},
		},
		{
			name:    "version command",
			args:    []string{"sugarai", "version"},
			wantCmd: CmdVersion,
		},
		{
			name:    "version short flag",
			args:    []string{"sugarai", "-v"},
			wantCmd: CmdVersion,
		},
		{
			name:    "help command",
			args:    []string{"sugarai", "help"},
			wantCmd: CmdHelp,
		},
		{
			name:    "unknown command is reported",
			args:    []string{"sugarai", "frobnicate"},
			wantCmd: CmdUnknown,
			validate: func(t *testing.T, a Args) {
				if a.Unknown != "frobnicate" {
					t.Errorf("Unknown = %q", a.Unknown)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cmd, parsed := Parse()
			if cmd != tt.wantCmd {
				t.Errorf("Parse() command = %v, want %v", cmd, tt.wantCmd)
			}
			if tt.validate != nil {
				tt.validate(t, parsed)
			}
		})
	}
}

// =============================================================================
// EXIT CODE TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"validation error", NewValidationError("port", "abc", "must be an integer"), ExitUsageError},
		{"wrapped validation error", fmt.Errorf("serve: %w", NewValidationError("latency", "x", "bad")), ExitUsageError},
		{"tty required", &TTYRequiredError{Operation: "run the setup wizard"}, ExitUsageError},
		{"not found error", NewNotFoundError("session", "abc123"), ExitNotFoundError},
		{"not configured sentinel", sugarai.ErrNotConfigured, ExitConfigError},
		{"missing key sentinel", ask.ErrMissingAPIKey, ExitConfigError},
		{"auth sentinel", sugarai.ErrAuthFailed, ExitAuthError},
		{"rate limit sentinel", sugarai.ErrRateLimited, ExitRateLimitError},
		{"timeout sentinel", sugarai.ErrTimeout, ExitTimeoutError},
		{"gateway timeout sentinel", sugarai.ErrGatewayTimeout, ExitTimeoutError},
		{"connection sentinel", fmt.Errorf("asking: %w", sugarai.ErrConnection), ExitNetworkError},
		{"session not found sentinel", fmt.Errorf("session 9: %w (2 saved)", storage.ErrSessionNotFound), ExitNotFoundError},
		{"invalid key notice text", errors.New(ask.InvalidKeyNotice), ExitAuthError},
		{"rate limit notice text", errors.New(ask.RateLimitNotice), ExitRateLimitError},
		{"connection notice text", errors.New(ask.ConnectionErrorNotice), ExitNetworkError},
		{"service unavailable notice text", errors.New(ask.ServiceUnavailableNotice), ExitNetworkError},
		{"timeout message text", errors.New("Request timed out after 5 minutes on 3 attempts. The service may be overloaded."), ExitTimeoutError},
		{"settings message text", errors.New("could not write settings file"), ExitConfigError},
		{"plain error", errors.New("something else entirely"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should be nil")
	}

	wrapped := WrapError(storage.ErrSessionNotFound, "loading session")
	if !errors.Is(wrapped, storage.ErrSessionNotFound) {
		t.Error("WrapError should preserve errors.Is")
	}
	if !strings.Contains(wrapped.Error(), "loading session") {
		t.Errorf("WrapError message = %q", wrapped.Error())
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("disk full")
	err := NewCommandError("sessions", "export", "could not write file", underlying)

	if !errors.Is(err, underlying) {
		t.Error("CommandError should unwrap to the underlying error")
	}
	msg := err.Error()
	for _, part := range []string{"sessions", "export", "could not write file", "disk full"} {
		if !strings.Contains(msg, part) {
			t.Errorf("CommandError message %q missing %q", msg, part)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationErrorWithExample("format", "xml", "unsupported format", "md or json")
	msg := err.Error()
	if !strings.Contains(msg, "format") || !strings.Contains(msg, "xml") {
		t.Errorf("message %q missing field or value", msg)
	}
	if !strings.Contains(msg, "Example: md or json") {
		t.Errorf("message %q missing example", msg)
	}
}

// =============================================================================
// COMMAND SUGGESTION TESTS (suggest.go)
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"stauts", "status"},
		{"confg", "config"},
		{"sesions", "sessions"},
		{"verson", "version"},
		{"chta", "chat"},
		{"aks", ""},    // short inputs tolerate only one edit
		{"xyz", ""},    // nothing close
		{"a", ""},      // too short to compare
		{"ask", "ask"}, // exact match is its own suggestion
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SuggestCommand(tt.input); got != tt.want {
				t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"status", "status", 0},
		{"stauts", "status", 2},
		{"confg", "config", 1},
		{"ask", "chat", 4},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// =============================================================================
// KEY MASKING TESTS (config.go)
// =============================================================================

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey(""); got != "(not set)" {
		t.Errorf("maskAPIKey(empty) = %q", got)
	}
	if got := maskAPIKey("short"); got != "[invalid key]" {
		t.Errorf("maskAPIKey(short) = %q", got)
	}

	masked := maskAPIKey("sk-sugarai-test-key-12345")
	if !strings.HasPrefix(masked, "sha256:") || !strings.HasSuffix(masked, "...") {
		t.Errorf("maskAPIKey = %q, want sha256:...... form", masked)
	}
	if strings.Contains(masked, "sugarai-test") {
		t.Error("masked key must not contain key material")
	}

	// Deterministic, and distinct keys get distinct fingerprints.
	if maskAPIKey("sk-sugarai-test-key-12345") != masked {
		t.Error("maskAPIKey should be deterministic")
	}
	if maskAPIKey("sk-sugarai-other-key-6789") == masked {
		t.Error("different keys should have different fingerprints")
	}
}

func TestMaskIfSecret(t *testing.T) {
	if got := maskIfSecret("api_key", "sk-sugarai-test-key-12345"); strings.Contains(got, "test-key") {
		t.Errorf("maskIfSecret(api_key) leaked the value: %q", got)
	}
	if got := maskIfSecret("base_url", "http://localhost:8080"); got != "http://localhost:8080" {
		t.Errorf("maskIfSecret(base_url) = %q, want passthrough", got)
	}
}

func TestApplyConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(*testing.T, *config.Config)
	}{
		{
			name: "base url", key: "base_url", value: "http://localhost:9000",
			check: func(t *testing.T, c *config.Config) {
				if c.Service.BaseURL != "http://localhost:9000" {
					t.Errorf("BaseURL = %q", c.Service.BaseURL)
				}
			},
		},
		{
			name: "default mode by id", key: "default_mode", value: "llm",
			check: func(t *testing.T, c *config.Config) {
				if c.Service.DefaultMode != "llm" {
					t.Errorf("DefaultMode = %q", c.Service.DefaultMode)
				}
			},
		},
		{name: "default mode invalid", key: "default_mode", value: "quantum", wantErr: true},
		{
			name: "timeout", key: "timeout_secs", value: "600",
			check: func(t *testing.T, c *config.Config) {
				if c.Service.TimeoutSecs != 600 {
					t.Errorf("TimeoutSecs = %d", c.Service.TimeoutSecs)
				}
			},
		},
		{name: "timeout not a number", key: "timeout_secs", value: "soon", wantErr: true},
		{
			name: "welcome boolean", key: "show_welcome", value: "off",
			check: func(t *testing.T, c *config.Config) {
				if c.UI.ShowWelcome {
					t.Error("ShowWelcome should be false")
				}
			},
		},
		{name: "welcome invalid boolean", key: "show_welcome", value: "maybe", wantErr: true},
		{
			name: "port", key: "port", value: "9000",
			check: func(t *testing.T, c *config.Config) {
				if c.Server.Port != 9000 {
					t.Errorf("Port = %d", c.Server.Port)
				}
			},
		},
		{name: "unknown key", key: "colour_scheme", value: "mauve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := applyConfigValue(cfg, tt.key, tt.value)
			if tt.wantErr {
				if !IsValidationError(err) {
					t.Errorf("applyConfigValue(%s) error = %v, want ValidationError", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("applyConfigValue(%s) error = %v", tt.key, err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// =============================================================================
// SESSION REFERENCE TESTS (sessions.go)
// =============================================================================

func TestResolveSessionID(t *testing.T) {
	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStoreWithDir: %v", err)
	}

	conv := model.NewConversation()
	conv.AddUserMessage("how do I move a sprite?")
	conv.AddAIMessage("Use the move block from the Motion palette.")

	id, err := store.Save("", "", conv)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// 1-based index resolves to the most recent session.
	got, err := resolveSessionID(store, "1")
	if err != nil {
		t.Fatalf("resolveSessionID(1): %v", err)
	}
	if got != id {
		t.Errorf("resolveSessionID(1) = %q, want %q", got, id)
	}

	// Full IDs pass through.
	got, err = resolveSessionID(store, id)
	if err != nil {
		t.Fatalf("resolveSessionID(id): %v", err)
	}
	if got != id {
		t.Errorf("resolveSessionID(id) = %q, want %q", got, id)
	}

	// Out of range index.
	if _, err := resolveSessionID(store, "2"); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("resolveSessionID(2) error = %v, want ErrSessionNotFound", err)
	}

	// Zero is not a valid reference; the list is 1-based.
	if _, err := resolveSessionID(store, "0"); !IsValidationError(err) {
		t.Errorf("resolveSessionID(0) error = %v, want ValidationError", err)
	}

	// Unknown ID.
	if _, err := resolveSessionID(store, "no-such-session"); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Errorf("resolveSessionID(bogus) error = %v, want ErrSessionNotFound", err)
	}

	// Empty reference.
	if _, err := resolveSessionID(store, ""); !IsValidationError(err) {
		t.Errorf("resolveSessionID(empty) error = %v, want ValidationError", err)
	}
}

func TestSessionExportOmitsAPIKey(t *testing.T) {
	export := sessionExport{
		ID: "20250814-120000-abcd",
		Entries: []model.HistoryEntry{
			{Type: "user", Message: "hello"},
			{Type: "ai", Message: "Hi! How can I help?"},
		},
	}

	buf, err := json.Marshal(export)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(buf), "api_key") {
		t.Error("session export must not carry the api_key field")
	}
}

// =============================================================================
// TERMINAL AND STYLE TESTS (terminal.go, styles.go)
// =============================================================================

func TestWrapText(t *testing.T) {
	wrapped := WrapText("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 15 {
			t.Errorf("line %q exceeds width 15", line)
		}
	}

	// Existing newlines survive.
	in := "first paragraph\n\nsecond paragraph"
	wrapped = WrapText(in, 80)
	if !strings.Contains(wrapped, "\n\n") {
		t.Errorf("WrapText dropped the blank line: %q", wrapped)
	}

	if got := WrapText("", 20); got != "" {
		t.Errorf("WrapText(empty) = %q", got)
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"ok", "[OK]"},
		{"reachable", "[OK]"},
		{"fail", "[FAIL]"},
		{"unreachable", "[FAIL]"},
		{"warning", "[WARN]"},
		{"pending", "[WARN]"},
		{"draining", "[DRAINING]"},
	}

	for _, tt := range tests {
		if got := RenderStatus(tt.status); !strings.Contains(got, tt.want) {
			t.Errorf("RenderStatus(%q) = %q, want it to contain %q", tt.status, got, tt.want)
		}
	}
}

// =============================================================================
// BENCHMARKS
// =============================================================================

func BenchmarkArgParser(b *testing.B) {
	args := []string{"export", "2", "--format", "json", "--output", "chat.json"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}

func BenchmarkSuggestCommand(b *testing.B) {
	for i := 0; i < b.N; i++ {
		SuggestCommand("stauts")
	}
}
