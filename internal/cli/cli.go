// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// cli.go - CLI parsing and command handlers for sugarai.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdSetup
	CmdSessions
	CmdServe
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Debug bool // Write debug logs to the config directory
	Quiet bool // Suppress progress notices
	JSON  bool // Output in JSON format where supported

	// Command-specific
	Query      string // Question text for ask
	Mode       string // Explicit answer mode: "rag" or "llm"
	NoRAG      bool   // Shorthand for Mode "llm"
	Resume     string // Session reference to resume (index or id)
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Unknown holds the unrecognized command token for CmdUnknown
	Unknown string

	// Raw args (remaining after global flag parsing, command stripped)
	Raw []string
}

const usageText = `sugarai - Sugar-AI assistant for the terminal

Sugarai is a terminal client for the Sugar-AI question answering
service used across Sugar Labs.

It provides:
  - A full-screen TUI chat with session saving
  - One-shot questions for scripts and pipes
  - Answers grounded in the Sugar Labs documentation corpus (RAG)
  - A local development server that mimics the hosted service

Usage:
  sugarai                    Start TUI (default)
  sugarai ask "question"     Ask a single question
  sugarai chat               Interactive chat (plain REPL)
  sugarai status, s          Show service and credential status
  sugarai config [show|set|set-key|path|reset]  Configuration
  sugarai setup              First-run wizard
  sugarai sessions [subcommand]  Saved conversation management
  sugarai serve              Run a local development server
  sugarai version            Show version information
  sugarai help               Show this help

Ask Command:
  sugarai ask "How do I share a Sugar activity?"
    --no-rag                 Answer without document retrieval
    --mode rag|llm           Select answer mode explicitly
    --json                   Output the answer as JSON

  Reads the question from stdin when piped:
    cat error.txt | sugarai ask

Chat Command:
  sugarai chat               Start a line-based chat session
    --resume <n|id>          Resume a saved session (index or id)
    --no-rag                 Start in direct LLM mode

  Slash commands inside chat: /help /clear /rag /key /examples
  /history /sessions /save /resume /quit

Sessions Commands:
  sugarai sessions list            List saved sessions (default)
  sugarai sessions show <n|id>     Show a session transcript
  sugarai sessions export <n|id>   Export a session
    --format md|json|html          Export format (default: md)
    --output FILE                  Write to file instead of stdout
  sugarai sessions search <text>   Search sessions by content
  sugarai sessions delete <n|id> --confirm
                                   Delete a session
  sugarai sessions clear --confirm Delete all sessions

  Session references: a 1-based index from 'sessions list' (1 is the
  most recent) or a full session id.

Config Commands:
  sugarai config show              Show current configuration
  sugarai config set KEY VALUE     Update a setting
  sugarai config set-key           Enter a new API key (hidden input)
  sugarai config path              Show configuration file locations
  sugarai config reset             Restore default settings

  Settable keys: base_url, default_mode, timeout_secs, theme,
  show_welcome, host, port, rate_per_min, quota_total, api_key

Serve Command (local development):
  sugarai serve                    Run a stand-in Sugar-AI service
    --host HOST --port N           Listen address (default 127.0.0.1:8080)
    --rate N                       Requests per minute per key
    --quota N                      Reported question quota
    --keys k1,k2                   Accepted API keys (default: any)
    --latency DUR                  Added response delay (e.g. 800ms)
    --timeout-first N              Return 504 for the first N asks
    --down                         Return 503 for every ask

Global Flags:
  --debug         Write debug logs to the config directory
  -q, --quiet     Suppress progress notices
  --json          Machine-readable output where supported

Examples:
  sugarai                              Start the TUI
  sugarai ask "What is Turtle Blocks?" One question, rendered answer
  sugarai ask --no-rag "Write a haiku" Skip document retrieval
  git diff | sugarai ask               Pipe content as the question
  sugarai chat --resume 1              Pick up the latest session
  sugarai sessions export 2 --format json > backup.json
  sugarai serve --port 9000 --down     Rehearse a 503 outage
  sugarai status --json                Scriptable status check

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("sugarai version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	// Check first argument for command
	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "setup":
		return CmdSetup, parsedArgs

	case "sessions", "session":
		// Detailed parsing is done in sessions.go via ArgParser
		if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdSessions, parsedArgs

	case "serve":
		// Flag parsing is done in serve.go via ArgParser
		return CmdServe, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		parsedArgs.Unknown = cmd
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for _, arg := range args {
		switch arg {
		case "--debug":
			parsedArgs.Debug = true
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--json":
			parsedArgs.JSON = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
// Bare tokens are joined into the question text.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--no-rag":
			args.NoRAG = true
		case "--mode", "-m":
			if i+1 < len(remaining) {
				i++
				args.Mode = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--mode=") {
				args.Mode = strings.TrimPrefix(arg, "--mode=")
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "--no-rag":
			args.NoRAG = true
		case "--mode", "-m":
			if i+1 < len(remaining) {
				i++
				args.Mode = remaining[i]
			}
		case "--resume", "-r":
			if i+1 < len(remaining) {
				i++
				args.Resume = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--mode=") {
				args.Mode = strings.TrimPrefix(arg, "--mode=")
			} else if strings.HasPrefix(arg, "--resume=") {
				args.Resume = strings.TrimPrefix(arg, "--resume=")
			}
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// ERROR HANDLING: Errors must not be silently ignored

// HandleAsk handles the "ask" command.
// This delegates to the full implementation in ask.go.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
// This delegates to the full implementation in chat.go.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// NOTE: HandleStatus is implemented in status.go
// NOTE: HandleConfig is implemented in config.go
// NOTE: HandleSetup is implemented in setup.go
// NOTE: HandleSessions is implemented in sessions.go
// NOTE: HandleServe is implemented in serve.go

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleVersionWithJSON handles the "version" command with JSON output support.
func HandleVersionWithJSON(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		resp := NewJSONResponse("version", data)
		resp.Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}

// HandleUnknown reports an unrecognized command, suggesting the nearest
// valid one when the input looks like a typo.
func HandleUnknown(args Args) {
	fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args.Unknown)
	if suggestion := SuggestCommand(args.Unknown); suggestion != "" {
		fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
	}
	fmt.Fprintln(os.Stderr, "Run 'sugarai help' for usage.")
	os.Exit(ExitUsageError)
}
