// sugarai - A terminal interface for the Sugar-AI assistant.
//
// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sugarlabs/sugarai-tui/internal/cli"
	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
	"github.com/sugarlabs/sugarai-tui/internal/sugarai"
	"github.com/sugarlabs/sugarai-tui/internal/ui/chat"
	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async answer delivery. The ask
// orchestrator runs on its own goroutine and notifies the UI through
// Program.Send, so the reference is guarded.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// Parse CLI arguments
	cmd, args := cli.Parse()

	// Route the standard logger. The service client logs request lines
	// on it; with --debug they append to the debug log file, otherwise
	// they are discarded so TUI and piped output stay clean. The serve
	// command keeps stderr logging because those lines are its output.
	if args.Debug {
		if f := openDebugLog(); f != nil {
			defer f.Close()
			log.SetOutput(f)
		}
	} else if cmd != cli.CmdServe {
		log.SetOutput(io.Discard)
	}

	// Route to appropriate handler
	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStatus:
		exitIfError(cli.HandleStatus(args), args)
	case cli.CmdConfig:
		exitIfError(cli.HandleConfig(args), args)
	case cli.CmdSetup:
		exitIfError(cli.HandleSetup(args), args)
	case cli.CmdSessions:
		exitIfError(cli.HandleSessions(args), args)
	case cli.CmdServe:
		exitIfError(cli.HandleServe(args), args)
	case cli.CmdVersion:
		cli.HandleVersionWithJSON(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	case cli.CmdUnknown:
		cli.HandleUnknown(args)
	default:
		runTUI(args)
	}
}

// exitIfError prints a command error and exits with its mapped code.
func exitIfError(err error, args cli.Args) {
	if err == nil {
		return
	}
	if args.JSON {
		cli.DisplayErrorJSON(err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}

// openDebugLog opens the debug log file for appending.
// Returns nil when the config directory is unavailable; debug output
// is then silently dropped rather than corrupting the TUI.
func openDebugLog() *os.File {
	if err := config.EnsureConfigDir(); err != nil {
		return nil
	}
	path, err := config.DebugLogPath()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

// sendToProgram delivers a message to the running Bubble Tea program.
// Safe to call from any goroutine; messages sent before the program
// starts are dropped.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// runTUI starts the full-screen terminal interface.
func runTUI(args cli.Args) {
	if err := cli.RequiresTTY("start the terminal UI"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'sugarai help' for the non-interactive commands.")
		os.Exit(cli.GetExitCode(err))
	}

	// Load configuration at startup
	cfg := config.Global()

	// Initialize the theme honoring the configured mode
	theme := styles.NewThemeWithMode(styles.ParseThemeMode(cfg.UI.Theme))

	// Create the Sugar-AI client with config values
	client := sugarai.NewClient(cfg.APIKey).
		WithBaseURL(cfg.Service.BaseURL).
		WithTimeout(time.Duration(cfg.Service.TimeoutSecs) * time.Second)

	// Create the application model. Answers arrive asynchronously via
	// the program reference.
	notifier := chat.NewProgramNotifier(sendToProgram)
	m := chat.NewWithClient(theme, client, notifier)

	// Wire session persistence. The TUI still works without it; saves
	// and resumes just report the storage error.
	if store, err := storage.NewSessionStore(); err == nil {
		m.SetSessionStore(store)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize session storage: %v\n", err)
	}

	m.ApplySettings(cfg)
	m.SetVersion(Version)

	// Create the Bubble Tea program
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	// Store program reference for async operations
	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Watch the config directory so changes saved from another
	// terminal, like 'sugarai config set-key', reach the live session.
	if watcher, err := config.NewSettingsWatcher(func(cfg *config.Config) {
		sendToProgram(chat.SettingsReloadedMsg{Config: cfg})
	}); err == nil {
		if err := watcher.Watch(); err != nil {
			log.Printf("CONFIG_WATCH_UNAVAILABLE | error=%v", err)
			watcher.Close()
		} else {
			defer watcher.Close()
		}
	}

	// Run the program
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running sugarai: %v\n", err)
		os.Exit(1)
	}
}
