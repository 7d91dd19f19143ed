// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea messages the chat model consumes,
// plus the notifier that converts ask workflow callbacks into those
// messages. Background goroutines never touch the model directly;
// everything arrives through the program's message loop.
package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
)

// =============================================================================
// ASK WORKFLOW MESSAGES
// =============================================================================

// WaitingMsg announces an upcoming wait before the next retry attempt.
// Message carries the full notice text, e.g. "Attempt 2/3 - retrying in
// 60 seconds...".
type WaitingMsg struct {
	Message string
}

// RetryingMsg carries retry progress notices, both the "will retry" note
// after a transient failure and the "retrying now" note after a wait.
type RetryingMsg struct {
	Message string
}

// QuotaMsg reports the remaining question quota after a successful
// answer. Either value may be the literal "Unknown".
type QuotaMsg struct {
	Remaining string
	Total     string
}

// AnswerMsg delivers the assistant's answer text.
type AnswerMsg struct {
	Text string
}

// AskErrorMsg delivers a terminal failure notice from the ask workflow.
type AskErrorMsg struct {
	Message string
}

// InputReenabledMsg releases the input field. It arrives exactly once
// per accepted submission, after the answer or the final error.
type InputReenabledMsg struct{}

// =============================================================================
// SERVER HEALTH MESSAGES
// =============================================================================

// ServerStatusMsg is the result of the startup health probe.
type ServerStatusMsg struct {
	Reachable bool
	Err       error
}

// =============================================================================
// CONFIGURATION MESSAGES
// =============================================================================

// SettingsReloadedMsg announces that a configuration file changed on
// disk and the global config was reloaded, e.g. a 'sugarai config
// set-key' run in another terminal while the TUI is open.
type SettingsReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionListMsg is the result of listing saved sessions.
type SessionListMsg struct {
	Sessions []storage.SessionMeta
	Err      error
}

// SessionResumedMsg is the result of loading a saved session.
type SessionResumedMsg struct {
	Conversation *model.Conversation
	ID           string
	Err          error
}

// SessionSavedMsg is the result of persisting the current conversation.
type SessionSavedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg displays a blocking error overlay.
type ErrorMsg struct {
	Title       string
	Message     string
	Suggestions []string
	Dismissible bool
}

// ErrorDismissMsg dismisses the current error overlay.
type ErrorDismissMsg struct{}

// NewErrorMsg creates a dismissible error message.
func NewErrorMsg(title, message string) ErrorMsg {
	return ErrorMsg{
		Title:       title,
		Message:     message,
		Dismissible: true,
	}
}

// =============================================================================
// PROGRAM NOTIFIER
// =============================================================================

// ProgramNotifier adapts ask.Notifier callbacks into Bubble Tea
// messages. The send function must be safe to call from any goroutine;
// (*tea.Program).Send qualifies, and per-sender delivery order is
// preserved, so notices reach the model in the order the retry loop
// emitted them.
type ProgramNotifier struct {
	send func(tea.Msg)
}

// NewProgramNotifier creates a notifier that forwards every ask
// notification through send.
func NewProgramNotifier(send func(tea.Msg)) *ProgramNotifier {
	return &ProgramNotifier{send: send}
}

// OnWaiting implements ask.Notifier.
func (n *ProgramNotifier) OnWaiting(message string) {
	n.send(WaitingMsg{Message: message})
}

// OnRetrying implements ask.Notifier.
func (n *ProgramNotifier) OnRetrying(message string) {
	n.send(RetryingMsg{Message: message})
}

// OnQuota implements ask.Notifier.
func (n *ProgramNotifier) OnQuota(remaining, total string) {
	n.send(QuotaMsg{Remaining: remaining, Total: total})
}

// OnAnswer implements ask.Notifier.
func (n *ProgramNotifier) OnAnswer(text string) {
	n.send(AnswerMsg{Text: text})
}

// OnError implements ask.Notifier.
func (n *ProgramNotifier) OnError(message string) {
	n.send(AskErrorMsg{Message: message})
}

// OnInputReenabled implements ask.Notifier.
func (n *ProgramNotifier) OnInputReenabled() {
	n.send(InputReenabledMsg{})
}
