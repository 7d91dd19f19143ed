// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package cli provides command-line parsing and execution for sugarai.
//
// This package implements the non-TUI surface of the sugarai tool:
// one-shot questions, a readline chat REPL, configuration management,
// session management, and the local service emulator.
//
// # Key Types
//
//   - Command: enumeration of all CLI commands
//   - Args: parsed command-line arguments, global and per-command
//   - ArgParser: subcommand/flag grammar for sessions and serve
//   - JSONResponse: the envelope every command emits under --json
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
// Core commands:
//   - ask: single question, answer to stdout
//   - chat: interactive terminal chat session
//   - tui: full-screen terminal UI (the default)
//   - status: service, credential, and settings snapshot
//   - config: show and change persisted settings
//   - setup: first-run wizard
//   - sessions: list, show, export, search, and delete saved chats
//   - serve: local Sugar-AI service emulator for development
//
// Every non-interactive command supports a --json flag emitting a
// stable envelope for scripting.
package cli
