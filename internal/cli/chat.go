// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// chat.go - Interactive chat command handler.
//
// Command: sugarai chat
// Short:   Line-based chat with Sugar-AI (no full-screen TUI)
//
// Examples:
//   sugarai chat
//   sugarai chat --resume 1
//   sugarai chat --no-rag
//
// Flags:
//   --resume <n|id>  Resume a saved session (list index or id)
//   --no-rag         Start in direct LLM mode
//
// The REPL uses readline-style editing with persistent input history.
// Questions run through the same retry orchestrator as the TUI, so
// waiting and retry notices match. Slash commands manage the session:
// /help /clear /rag /key /examples /history /sessions /save /resume /quit
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/sugarlabs/sugarai-tui/internal/ask"
	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
	"github.com/sugarlabs/sugarai-tui/internal/ui/components"
	"github.com/sugarlabs/sugarai-tui/internal/util"
)

// Chat display styles. These stay local to the REPL; the shared CLI
// styles cover the non-interactive commands.
var (
	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	summaryHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// ChatCLI wraps the line editor with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor and loads previous input history.
// History lives next to the other configuration files; a temp path is
// used when the config directory cannot be resolved.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	var historyFile string
	if dir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(dir, "chat_history")
	} else {
		historyFile = filepath.Join(os.TempDir(), "sugarai_chat_history")
	}

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	return &ChatCLI{line: line, historyFile: historyFile}
}

// ReadInput reads one line, recording non-empty input in the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the input history back to disk.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// chatSession holds the REPL state for one chat run.
type chatSession struct {
	cli      *ChatCLI
	conv     *model.Conversation
	store    *storage.SessionStore
	orch     *ask.Orchestrator
	notifier *askNotifier

	useRAG    bool
	sessionID string
	queries   int
	quiet     bool
}

// HandleChatCommand runs the interactive chat REPL.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("start a chat session"); err != nil {
		return err
	}

	cfg := config.Global()

	mode, err := resolveAskMode(args, cfg)
	if err != nil {
		return err
	}

	store, storeErr := storage.NewSessionStore()
	if storeErr != nil {
		fmt.Printf("%s Session storage unavailable: %v\n", warningStyle.Render("[!]"), storeErr)
		store = nil
	}

	conv := model.NewConversation()
	sessionID := ""
	if args.Resume != "" {
		if store == nil {
			return NewCommandError("chat", "resume", "session storage unavailable", storeErr)
		}
		id, err := resolveSessionID(store, args.Resume)
		if err != nil {
			return err
		}
		loaded, _, err := store.LoadConversation(id)
		if err != nil {
			return err
		}
		conv = loaded
		sessionID = id
	}

	client := newServiceClient(cfg)
	notifier := newAskNotifier(args.Quiet)

	session := &chatSession{
		cli:       NewChatCLI(),
		conv:      conv,
		store:     store,
		orch:      ask.New(client, notifier),
		notifier:  notifier,
		useRAG:    mode.UseRAG,
		sessionID: sessionID,
		quiet:     args.Quiet,
	}
	defer session.cli.Close()

	// While the editor is active, Ctrl+C surfaces as ErrPromptAborted.
	// Signals only arrive while an answer is pending; the orchestration
	// always reaches a terminal outcome, so just acknowledge them.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, warningStyle.Render(
				"Waiting on Sugar-AI. The request will finish or time out; use /quit at the prompt to leave."))
		}
	}()

	session.printWelcome()

	for {
		input, err := session.cli.ReadInput("you> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			return WrapError(err, "reading input")
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := session.handleSlashCommand(input)
			if err != nil {
				fmt.Printf("%s %v\n", warningStyle.Render("[!]"), err)
			}
			if !shouldContinue {
				break
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			break
		}

		session.ask(input)
	}

	session.finish()
	return nil
}

// printWelcome shows the session banner.
func (s *chatSession) printWelcome() {
	mode := model.ModeFor(s.useRAG)
	fmt.Println(summaryHeaderStyle.Render("Sugar-AI Chat"))
	fmt.Println(welcomeStyle.Render("Mode: " + mode.Name + " - " + mode.Description))
	fmt.Println(welcomeStyle.Render("Type /help for commands, /quit to leave."))
	if s.sessionID != "" {
		fmt.Printf("%s Resumed session %s (%d entries).\n",
			infoStyle.Render("[+]"), s.sessionID, s.conv.MessageCount())
	}
	fmt.Println()
}

// ask submits one question and blocks until its terminal outcome.
func (s *chatSession) ask(question string) {
	s.notifier.arm()

	if err := s.orch.Submit(question, s.useRAG); err != nil {
		switch {
		case errors.Is(err, ask.ErrMissingAPIKey):
			fmt.Printf("%s %s\n", warningStyle.Render("[!]"), ask.MissingKeyNotice)
			fmt.Println(infoStyle.Render("Use /key to enter one, or run 'sugarai setup'."))
		case errors.Is(err, ask.ErrRequestInFlight):
			fmt.Printf("%s Still working on the previous question.\n", warningStyle.Render("[!]"))
		}
		return
	}

	s.conv.AddUserMessage(question)
	if !s.quiet {
		fmt.Println(infoStyle.Render(ask.ThinkingNotice))
	}

	<-s.notifier.done

	if s.notifier.errMsg != "" {
		fmt.Printf("%s %s\n", warningStyle.Render("[!]"), s.notifier.errMsg)
		return
	}

	s.queries++
	s.conv.AddAIMessage(s.notifier.answer)

	fmt.Println()
	displayAnswer(s.notifier.answer)
	if !s.quiet && s.notifier.quotaRemaining != "" {
		fmt.Println(welcomeStyle.Render(ask.QuotaNotice(s.notifier.quotaRemaining, s.notifier.quotaTotal)))
	}
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand dispatches a /command. The bool return reports
// whether the REPL should keep running.
func (s *chatSession) handleSlashCommand(input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	rest := fields[1:]

	switch cmd {
	case "/help", "/h":
		s.printHelp()

	case "/clear":
		s.conv.ClearHistory()
		fmt.Println(infoStyle.Render(ask.ClearedNotice))

	case "/rag":
		s.useRAG = !s.useRAG
		mode := model.ModeFor(s.useRAG)
		fmt.Printf("%s Mode: %s - %s\n", infoStyle.Render("[*]"), mode.Name, mode.Description)

	case "/key":
		return true, s.updateKey()

	case "/examples":
		s.printExamples()

	case "/history":
		s.printHistory()

	case "/sessions":
		return true, s.listSessions()

	case "/save":
		return true, s.saveNow()

	case "/resume":
		if len(rest) == 0 {
			return true, ErrMissingArgument("session", "/resume 1")
		}
		return true, s.resume(rest[0])

	case "/quit", "/exit", "/q":
		return false, nil

	default:
		fmt.Printf("%s Unknown command %s. Type /help for commands.\n",
			warningStyle.Render("[!]"), cmd)
	}

	return true, nil
}

func (s *chatSession) printHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help", "Show this help"},
		{"/clear", "Clear the conversation"},
		{"/rag", "Toggle between RAG and direct LLM answers"},
		{"/key", "Enter a new API key (hidden input)"},
		{"/examples", "Show example questions"},
		{"/history", "Show the conversation so far"},
		{"/sessions", "List saved sessions"},
		{"/save", "Save the conversation now"},
		{"/resume <n|id>", "Switch to a saved session"},
		{"/quit", "Save and leave the chat"},
	}

	fmt.Println(summaryHeaderStyle.Render("Chat commands"))
	for _, c := range commands {
		fmt.Printf("  %s %s\n", commandStyle.Render(fmt.Sprintf("%-15s", c.cmd)), c.desc)
	}
}

func (s *chatSession) printExamples() {
	fmt.Println(summaryHeaderStyle.Render("Try asking"))
	for _, q := range components.ExampleQuestions {
		fmt.Printf("  %s\n", welcomeStyle.Render(q))
	}
}

// printHistory shows the transcript with long lines flattened, one
// entry per line.
func (s *chatSession) printHistory() {
	entries := s.conv.HistoryEntries()
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("No conversation yet."))
		return
	}

	for _, entry := range entries {
		text := util.TruncateRunes(strings.ReplaceAll(entry.Message, "\n", " "), 100)
		label := " ai"
		if entry.Type == model.RoleUser.String() {
			label = "you"
		}
		fmt.Printf("  %s: %s\n", commandStyle.Render(label), text)
	}
}

func (s *chatSession) listSessions() error {
	if s.store == nil {
		fmt.Println(infoStyle.Render("Session storage unavailable."))
		return nil
	}
	metas, err := s.store.List()
	if err != nil {
		return WrapError(err, "listing sessions")
	}
	fmt.Print(storage.FormatSessionList(metas))
	return nil
}

func (s *chatSession) saveNow() error {
	if s.store == nil {
		fmt.Println(infoStyle.Render("Session storage unavailable."))
		return nil
	}
	if s.conv.IsEmpty() {
		fmt.Println(infoStyle.Render("Nothing to save yet."))
		return nil
	}
	id, err := s.store.Save(s.sessionID, config.Global().APIKey, s.conv)
	if err != nil {
		return WrapError(err, "saving session")
	}
	s.sessionID = id
	fmt.Printf("%s Saved session %s.\n", infoStyle.Render("[+]"), id)
	return nil
}

// resume saves the current conversation and switches to a stored one.
func (s *chatSession) resume(ref string) error {
	if s.store == nil {
		fmt.Println(infoStyle.Render("Session storage unavailable."))
		return nil
	}

	if !s.conv.IsEmpty() {
		if err := s.saveNow(); err != nil {
			return err
		}
	}

	id, err := resolveSessionID(s.store, ref)
	if err != nil {
		return err
	}
	conv, _, err := s.store.LoadConversation(id)
	if err != nil {
		return err
	}

	s.conv = conv
	s.sessionID = id
	fmt.Printf("%s Resumed session %s (%d entries).\n",
		infoStyle.Render("[+]"), id, conv.MessageCount())
	return nil
}

// updateKey prompts for a fresh API key and rewires the orchestrator
// around a client holding it.
func (s *chatSession) updateKey() error {
	key, err := promptSecure("New Sugar-AI API key")
	if err != nil {
		return err
	}
	if key == "" {
		fmt.Println(infoStyle.Render("Keeping the current key."))
		return nil
	}

	if err := config.SaveAPIKey(key); err != nil {
		return WrapError(err, "saving API key")
	}
	if err := config.ReloadGlobal(); err != nil {
		return WrapError(err, "reloading configuration")
	}

	client := newServiceClient(config.Global())
	s.orch = ask.New(client, s.notifier)
	fmt.Printf("%s API key updated (%s).\n", infoStyle.Render("[+]"), client.APIKeyMasked())
	return nil
}

// =============================================================================
// EXIT
// =============================================================================

// finish saves the conversation and prints the exit summary.
func (s *chatSession) finish() {
	savedID := ""
	if s.store != nil && !s.conv.IsEmpty() {
		id, err := s.store.Save(s.sessionID, config.Global().APIKey, s.conv)
		if err != nil {
			fmt.Printf("%s Could not save the session: %v\n", warningStyle.Render("[!]"), err)
		} else {
			s.sessionID = id
			savedID = id
		}
	}
	s.printExitSummary(savedID)
}

func (s *chatSession) printExitSummary(savedID string) {
	if s.queries > 0 {
		fmt.Println()
		fmt.Println(summaryHeaderStyle.Render("Session summary"))
		fmt.Printf("  Questions asked: %d\n", s.queries)
		fmt.Printf("  Mode: %s\n", model.ModeFor(s.useRAG).Name)
		if savedID != "" {
			fmt.Printf("  Saved as: %s\n", savedID)
			fmt.Println(welcomeStyle.Render("  Resume with: sugarai chat --resume " + savedID))
		}
	}
	fmt.Println("Goodbye!")
}
