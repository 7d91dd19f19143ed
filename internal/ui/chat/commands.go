// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// This file implements the slash command registry. Each command is an
// individually testable handler function keyed by name and alias.
package chat

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sugarlabs/sugarai-tui/internal/ask"
	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
	"github.com/sugarlabs/sugarai-tui/internal/sugarai"
	"github.com/sugarlabs/sugarai-tui/internal/ui/components"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler is a function that handles a specific slash command.
// It receives the model and command arguments, and returns an updated
// model and command.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names to their handler functions.
var commandHandlers = map[string]CommandHandler{
	// Help & meta
	"help": handleHelpCommand,
	"h":    handleHelpCommand,
	"?":    handleHelpCommand,
	"quit": handleQuitCommand,
	"q":    handleQuitCommand,
	"exit": handleQuitCommand,

	// Conversation
	"clear":    handleClearCommand,
	"c":        handleClearCommand,
	"examples": handleExamplesCommand,
	"ex":       handleExamplesCommand,

	// Service
	"rag": handleRAGCommand,
	"key": handleKeyCommand,

	// Sessions
	"sessions": handleSessionsCommand,
	"list":     handleSessionsCommand,
	"resume":   handleResumeCommand,
	"r":        handleResumeCommand,
	"save":     handleSaveCommand,
	"s":        handleSaveCommand,
}

// commandCompletions drives the Tab completion popup. Canonical names
// only; the aliases still dispatch but would just clutter the list.
var commandCompletions = []components.Completion{
	{Value: "/help", Description: "Show all commands"},
	{Value: "/clear", Description: "Clear the conversation"},
	{Value: "/rag", Description: "Switch RAG mode on or off"},
	{Value: "/key", Description: "Show or save the API key"},
	{Value: "/examples", Description: "Example questions to try"},
	{Value: "/sessions", Description: "List saved sessions"},
	{Value: "/resume", Description: "Resume a saved session"},
	{Value: "/save", Description: "Save this conversation"},
	{Value: "/quit", Description: "Save and exit"},
}

// handleCommand dispatches a "/..." input line to its registered handler.
func (m *Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(strings.TrimPrefix(content, "/"))
	if len(parts) == 0 {
		return m, nil
	}

	name := strings.ToLower(parts[0])
	args := parts[1:]

	if handler, ok := commandHandlers[name]; ok {
		return handler(m, args)
	}

	m.postNote("Error: Unknown command '" + content + "'\nType /help for available commands")
	return m, nil
}

// postNote appends a system note to the transcript and scrolls it into
// view. Command handlers use this for all of their feedback.
func (m *Model) postNote(content string) {
	m.conversation.AddSystemMessage(content)
	m.updateViewport()
	m.viewport.GotoBottom()
}

// postError appends an inline error to the transcript and scrolls it
// into view.
func (m *Model) postError(content string) {
	m.conversation.AddErrorMessage(content)
	m.updateViewport()
	m.viewport.GotoBottom()
}

// =============================================================================
// HELP & META
// =============================================================================

// helpText is the /help listing. Kept as one block so the TUI and the
// tests agree on what is documented.
const helpText = `Available commands:
  /help              Show this help
  /clear             Clear the conversation
  /rag on|off        Switch between RAG and plain LLM answers
  /key [api-key]     Show the configured key, or save a new one
  /examples          Show example questions to try
  /sessions          List saved sessions
  /resume <n|id>     Resume a saved session (number from /sessions)
  /save              Save this conversation now
  /quit              Save and exit

Keyboard shortcuts:
  Enter      Send question
  Tab        Complete a /command
  Ctrl+R     Toggle RAG mode
  Ctrl+L     Clear conversation
  Ctrl+C     Quit
  Up/Down    Input history
  PgUp/PgDn  Scroll the transcript
  Esc        Clear input / dismiss errors`

func handleHelpCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.postNote(helpText)
	return m, nil
}

func handleQuitCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	return m.quit()
}

// =============================================================================
// CONVERSATION
// =============================================================================

func handleClearCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.clearConversation()
	m.viewport.GotoBottom()
	return m, nil
}

func handleExamplesCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	var sb strings.Builder
	sb.WriteString("Example questions to try:")
	for _, q := range components.ExampleQuestions {
		sb.WriteString("\n  - ")
		sb.WriteString(q)
	}
	m.postNote(sb.String())
	return m, nil
}

// =============================================================================
// SERVICE
// =============================================================================

func handleRAGCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		if m.useRAG {
			m.postNote("RAG mode is on. Answers use the Sugar Labs documentation. /rag off switches to plain LLM answers.")
		} else {
			m.postNote("RAG mode is off. Answers come from the model alone. /rag on brings the documentation back.")
		}
		return m, nil
	}

	switch strings.ToLower(args[0]) {
	case "on":
		m.setRAGMode(true, true)
	case "off":
		m.setRAGMode(false, true)
	default:
		m.postNote("Usage: /rag on|off")
		return m, nil
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func handleKeyCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		if m.client != nil && m.client.IsConfigured() {
			m.postNote(components.KeyStateConfigured + "\nActive key: " + m.client.APIKeyMasked())
		} else {
			m.postNote(components.KeyStateMissing)
		}
		return m, nil
	}
	if len(args) > 1 {
		m.postNote("Usage: /key [api-key]")
		return m, nil
	}

	key := strings.TrimSpace(args[0])
	if err := config.SaveAPIKey(key); err != nil {
		m.postError("Could not save API key: " + err.Error())
		return m, nil
	}
	config.Global().APIKey = key

	// Rebuild the client around the new key, keeping any custom server
	// and timeout, and rewire the orchestrator to match.
	baseURL := sugarai.DefaultBaseURL
	timeout := sugarai.DefaultTimeout
	if m.client != nil {
		baseURL = m.client.BaseURL()
		timeout = m.client.Timeout()
	}
	m.client = sugarai.NewClient(key).WithBaseURL(baseURL).WithTimeout(timeout)
	if m.notifier != nil {
		m.orchestrator = ask.New(m.client, m.notifier)
	}
	m.statusBar.SetKeyConfigured(m.client.IsConfigured())
	m.welcome.SetKeyConfigured(m.client.IsConfigured())

	m.postNote("API key saved. The key was just typed in the clear, so use 'sugarai setup' next time for hidden entry.")
	return m, nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func handleSessionsCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.postError("Session storage is not available.")
		return m, nil
	}
	return m, listSessionsCmd(m.store)
}

func handleResumeCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.postError("Session storage is not available.")
		return m, nil
	}
	// With no argument, resume the most recent session.
	ref := "1"
	if len(args) > 0 {
		ref = args[0]
	}
	return m, loadSessionCmd(m.store, ref)
}

func handleSaveCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.postError("Session storage is not available.")
		return m, nil
	}
	if len(m.conversation.HistoryEntries()) == 0 {
		m.postNote("Nothing to save yet. Ask a question first.")
		return m, nil
	}
	return m, m.saveSessionCmd()
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

// listSessionsCmd loads session metadata off the UI goroutine.
func listSessionsCmd(store *storage.SessionStore) tea.Cmd {
	return func() tea.Msg {
		sessions, err := store.List()
		return SessionListMsg{Sessions: sessions, Err: err}
	}
}

// loadSessionCmd resolves a session reference and loads it. The
// reference is either a 1-based index into the /sessions listing
// (most recent first) or a full session ID.
func loadSessionCmd(store *storage.SessionStore, ref string) tea.Cmd {
	return func() tea.Msg {
		id := ref
		if n, err := strconv.Atoi(ref); err == nil {
			sessions, err := store.List()
			if err != nil {
				return SessionResumedMsg{Err: err}
			}
			if n < 1 || n > len(sessions) {
				return SessionResumedMsg{Err: fmt.Errorf("no session #%d, /sessions lists %d", n, len(sessions))}
			}
			id = sessions[n-1].ID
		}

		// The API key stored alongside the session is ignored here; the
		// active key always comes from the configuration.
		conv, _, err := store.LoadConversation(id)
		if err != nil {
			return SessionResumedMsg{Err: err}
		}
		return SessionResumedMsg{Conversation: conv, ID: id}
	}
}

// saveSessionCmd captures the current conversation and writes it in the
// background. Saving under the resumed session's ID overwrites it, so
// resuming and continuing a conversation does not fork a copy.
func (m *Model) saveSessionCmd() tea.Cmd {
	store := m.store
	conv := m.conversation
	id := m.sessionID
	apiKey := config.Global().APIKey
	return func() tea.Msg {
		savedID, err := store.Save(id, apiKey, conv)
		return SessionSavedMsg{ID: savedID, Err: err}
	}
}
