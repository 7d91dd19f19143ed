// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// This file contains all rendering logic for the chat interface:
//   - Main view composition (renderChat)
//   - Transcript rendering (user, AI, system, error messages)
//   - Markdown answers via glamour, with a plain code-block fallback
//   - Input area, status bar, and the error overlay
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/ui/components"
	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// Conservative height estimates for the indicator rows, used when sizing
// the viewport before anything has been rendered. renderChat() measures
// the real heights with lipgloss.Height() and corrects any drift.
const (
	thinkingAreaHeight   = 3 // spinner line + patience note + breathing room
	connectingAreaHeight = 5 // bordered box: 2 border + 2 padding + 1 content
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// answerRenderer wraps a glamour terminal renderer. Glamour renderers are
// fixed-width, so the model rebuilds this whenever the window is resized.
type answerRenderer struct {
	tr *glamour.TermRenderer
}

// newAnswerRenderer builds a renderer wrapping at the given width.
// Returns nil when glamour cannot initialize (for example in a terminal
// with no detectable color profile); callers fall back to plain text.
func newAnswerRenderer(width int) *answerRenderer {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil
	}
	return &answerRenderer{tr: tr}
}

// render converts markdown to styled terminal output. The second return
// value reports success; on failure callers should use the plain fallback.
func (r *answerRenderer) render(markdown string) (string, bool) {
	if r == nil || r.tr == nil {
		return "", false
	}
	out, err := r.tr.Render(markdown)
	if err != nil {
		return "", false
	}
	// Glamour pads its output with trailing newlines that would stack up
	// between transcript entries.
	return strings.TrimRight(out, "\n"), true
}

// ensureRenderer rebuilds the markdown renderer when the wrap width
// changed. Cheap to call on every resize.
func (m *Model) ensureRenderer() {
	wrapWidth := m.wrapWidth()
	if m.renderer != nil && m.rendererWidth == wrapWidth {
		return
	}
	m.renderer = newAnswerRenderer(wrapWidth)
	m.rendererWidth = wrapWidth
}

// wrapWidth returns the text wrap width for transcript content, leaving
// a small gutter so wrapped lines never touch the terminal edge.
func (m *Model) wrapWidth() int {
	if m.width == 0 {
		return 76
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// MAIN VIEW
// =============================================================================

// renderChat composes the full screen: transcript (or welcome screen),
// activity indicator, input area, and status bar, stacked vertically.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// A blocking error replaces the whole screen until dismissed.
	if m.lastError != nil {
		return m.renderErrorOverlay()
	}

	input := m.renderInput()
	status := m.statusBar.View()

	var indicator string
	switch m.state {
	case StateWaiting:
		if v := m.thinking.View(); v != "" {
			indicator = lipgloss.NewStyle().PaddingLeft(2).Render(v)
		}
	case StateConnecting:
		if v := m.connecting.View(); v != "" {
			indicator = lipgloss.NewStyle().PaddingLeft(2).Render(v)
		}
	}

	var popup string
	if m.state == StateReady && m.completion.HasCompletions() {
		popup = lipgloss.NewStyle().PaddingLeft(2).Render(m.completion.View())
	}

	// Measure the real heights rather than trusting the layout estimates,
	// so the stack always fills the window exactly.
	reserved := lipgloss.Height(input) + lipgloss.Height(status)
	if indicator != "" {
		reserved += lipgloss.Height(indicator)
	}
	if popup != "" {
		reserved += lipgloss.Height(popup)
	}
	available := m.height - reserved
	if available < 1 {
		available = 1
	}

	var body string
	if m.showWelcome && m.conversation.IsEmpty() {
		w := m.welcome
		w.SetSize(m.width, available)
		body = w.View()
	} else {
		body = m.viewport.View()
	}
	if lipgloss.Height(body) != available {
		body = lipgloss.NewStyle().
			Height(available).
			MaxHeight(available).
			Width(m.width).
			Render(body)
	}

	parts := []string{body}
	if indicator != "" {
		parts = append(parts, indicator)
	}
	if popup != "" {
		parts = append(parts, popup)
	}
	parts = append(parts, input, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderMessages renders the conversation transcript for the viewport.
func (m *Model) renderMessages() string {
	if m.conversation == nil || m.conversation.IsEmpty() {
		return m.renderEmptyTranscript()
	}

	history := m.conversation.GetHistory()
	parts := make([]string, 0, len(history))
	for _, msg := range history {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

// renderEmptyTranscript is shown when the welcome screen is disabled and
// nothing has been asked yet.
func (m *Model) renderEmptyTranscript() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Padding(1, 2).
		Render("Type a question to get started. /help lists the commands.")
}

// renderMessage renders a single transcript entry according to its role.
func (m *Model) renderMessage(msg *model.Message) string {
	switch msg.Role {
	case model.RoleUser:
		return m.renderUserMessage(msg)
	case model.RoleAI:
		return m.renderAIMessage(msg)
	case model.RoleError:
		return m.renderErrorMessage(msg)
	default:
		return m.renderSystemMessage(msg)
	}
}

// renderUserMessage renders "You: <question>" with the question wrapped
// to the window width.
func (m *Model) renderUserMessage(msg *model.Message) string {
	line := m.theme.UserLabel.Render(model.RoleUser.DisplayName()+":") + " " +
		m.theme.UserText.Render(msg.Content)
	return lipgloss.NewStyle().
		Width(m.wrapWidth()).
		MarginTop(1).
		Render(line)
}

// renderAIMessage renders the "Sugar-AI:" label with the answer body
// below it, formatted as markdown when the renderer is available.
func (m *Model) renderAIMessage(msg *model.Message) string {
	label := m.theme.AILabel.Render(model.RoleAI.DisplayName() + ":")
	body := m.renderAnswer(msg.Content)
	return lipgloss.NewStyle().
		MarginTop(1).
		Render(label + "\n" + body)
}

// renderAnswer formats an answer body. Glamour handles headings, lists,
// emphasis, and fenced code; when it is unavailable the plain renderer
// still styles code blocks so Python snippets stay readable.
func (m *Model) renderAnswer(content string) string {
	if out, ok := m.renderer.render(content); ok {
		return out
	}
	return components.ParseCodeBlocks(content, m.wrapWidth())
}

// renderSystemMessage renders a bracketed system notice, indented so it
// reads as an aside rather than part of the dialogue.
func (m *Model) renderSystemMessage(msg *model.Message) string {
	return m.theme.SystemNote.
		Width(m.wrapWidth()).
		PaddingLeft(2).
		Render("[" + msg.Content + "]")
}

// renderErrorMessage renders an inline "Error: <detail>" transcript entry.
// These are ephemeral and never saved to sessions.
func (m *Model) renderErrorMessage(msg *model.Message) string {
	line := m.theme.ErrorLabel.Render(model.RoleError.DisplayName()+":") + " " +
		m.theme.ErrorText.Render(msg.Content)
	return lipgloss.NewStyle().
		Width(m.wrapWidth()).
		PaddingLeft(2).
		Render(line)
}

// =============================================================================
// INPUT AREA
// =============================================================================

// renderInput renders the bordered input area: the text input line plus a
// hint or character-count line underneath.
func (m Model) renderInput() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var inputLine string
	if m.state == StateWaiting {
		inputLine = m.theme.InputDisabled.Render("Waiting for Sugar-AI to answer...")
	} else {
		inputLine = m.input.View()
	}

	hint := m.renderInputHint(width - 2)

	return m.theme.InputContainer.
		Width(width).
		Render(inputLine + "\n" + hint)
}

// renderInputHint renders the line under the input: a character counter
// while typing, otherwise a short usage hint. The counter changes color
// as it approaches the limit so kids notice before input stops.
func (m Model) renderInputHint(width int) string {
	if width < 10 {
		width = 10
	}

	if m.state == StateReady && m.completion.HasCompletions() {
		return m.theme.CharCount.
			Width(width).
			Render("Tab to complete | Up/Down to choose")
	}

	count := len([]rune(m.input.Value()))
	if count == 0 {
		return m.theme.CharCount.
			Width(width).
			Render("Enter to send | /help for commands")
	}

	limit := m.input.CharLimit
	style := m.theme.CharCount
	switch {
	case count >= limit*95/100:
		style = m.theme.CharCountDanger
	case count >= limit*80/100:
		style = m.theme.CharCountWarning
	}
	return style.Width(width).Render(fmt.Sprintf("%d/%d", count, limit))
}

// =============================================================================
// ERROR OVERLAY
// =============================================================================

// renderErrorOverlay renders a centered error box that replaces the chat
// until dismissed. Used for failures that need acknowledgement, unlike
// inline transcript errors.
func (m Model) renderErrorOverlay() string {
	e := m.lastError

	msgWidth := m.width - 12
	if msgWidth > 60 {
		msgWidth = 60
	}
	if msgWidth < 20 {
		msgWidth = 20
	}

	var sb strings.Builder
	sb.WriteString(m.theme.ErrorTitle.Render(e.Title))
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.ErrorMessage.Width(msgWidth).Render(e.Message))
	for i, s := range e.Suggestions {
		if i == 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(m.theme.ErrorSuggestion.Width(msgWidth).Render("- " + s))
	}
	if e.Dismissible {
		sb.WriteString("\n\n")
		sb.WriteString(m.theme.WelcomePressKey.Render("Press Esc to dismiss"))
	}

	box := m.theme.ErrorBox.Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
