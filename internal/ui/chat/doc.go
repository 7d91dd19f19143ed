// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

/*
Package chat provides the main chat view for the sugarai TUI.

The chat package implements a terminal conversation interface on the
Bubble Tea framework. Questions typed at the prompt go to the Sugar-AI
ask orchestrator; answers, retry notices, and quota updates come back
as Bubble Tea messages and land in a scrollable transcript.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model holding all chat
state:
  - Conversation transcript and input history
  - The Sugar-AI client and ask orchestrator
  - RAG mode, snapshotted per submission
  - Viewport, text input, status bar, and activity indicators
  - Session store wiring for save and resume

## View Rendering (view.go)

Rendering for the complete interface:
  - Transcript entries with role prefixes (You:, Sugar-AI:)
  - Markdown answers via glamour, with a plain code-block fallback
  - Welcome screen on an empty transcript
  - Bordered input area with hints and a character counter
  - Status bar and the dismissible error overlay

## Messages (messages.go)

The message catalog for everything that arrives asynchronously:
answer and retry notifications from the orchestrator (bridged through
ProgramNotifier), the startup health probe result, session
list/load/save outcomes, and configuration reloads from the settings
watcher.

## Commands (commands.go)

Slash command handler registry supporting:
  - /help - Show available commands
  - /clear - Clear the conversation
  - /rag on|off - Switch answer modes
  - /key - Show or update the API key
  - /examples - Starter questions
  - /sessions, /resume, /save - Session persistence

# Usage

Create a chat model and run it as a Bubble Tea program:

	client := sugarai.NewClient(cfg.APIKey)
	m := chat.NewWithClient(theme, client, notifier)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}

The notifier must deliver into the program's message loop; main wires
chat.NewProgramNotifier around (*tea.Program).Send for this.
*/
package chat
