// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sugarlabs/sugarai-tui/internal/ask"
	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
	"github.com/sugarlabs/sugarai-tui/internal/sugarai"
	"github.com/sugarlabs/sugarai-tui/internal/ui/components"
	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State represents the current state of the chat interface.
type State int

const (
	StateConnecting State = iota // Startup health probe in flight
	StateReady                   // Ready for input
	StateWaiting                 // Question submitted, answer pending
	StateError                   // Showing a blocking error
)

// maxQuestionLen caps the input field. The service answers short
// questions; anything longer is almost certainly a paste mistake.
const maxQuestionLen = 2000

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Ask workflow
	client       *sugarai.Client
	orchestrator *ask.Orchestrator
	notifier     ask.Notifier
	useRAG       bool // mode for the next submission; snapshotted at submit

	// Session persistence
	store     *storage.SessionStore
	sessionID string // assigned on first save, kept across resumes

	// UI components
	viewport   viewport.Model
	input      textinput.Model
	statusBar  *components.StatusBar
	thinking   components.ThinkingIndicator
	connecting components.ConnectingSpinner
	welcome    components.Welcome
	completion *components.CompletionPopup

	// Markdown rendering for answers
	renderer      *answerRenderer
	rendererWidth int

	// Key bindings
	keyMap KeyMap

	// Input history (Up/Down recall)
	inputHistory []string
	historyPos   int
	draft        string // live line saved while browsing history

	// Error overlay
	lastError *ErrorMsg

	// Welcome screen
	showWelcome bool
	version     string
	serverName  string
}

// New creates a new chat model without a transport. Questions cannot be
// submitted until a client and notifier are wired in; the constructor
// exists for composition and tests.
func New(theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask Sugar-AI a question..."
	ti.CharLimit = maxQuestionLen
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	return Model{
		state:        StateReady,
		theme:        theme,
		conversation: model.NewConversation(),
		viewport:     vp,
		input:        ti,
		statusBar:    components.NewStatusBar(theme),
		thinking:     components.NewThinkingIndicator(),
		connecting:   components.NewConnectingSpinner(sugarai.DefaultBaseURL),
		welcome:      components.NewWelcome(theme),
		completion:   components.NewCompletionPopup(theme),
		keyMap:       DefaultKeyMap(),
		useRAG:       true,
		historyPos:   0,
		showWelcome:  true,
		version:      "dev",
	}
}

// NewWithClient creates a chat model wired to a Sugar-AI client. The
// notifier receives the ask workflow's notifications; pass a
// ProgramNotifier whose send function reaches this model's program.
func NewWithClient(theme *styles.Theme, client *sugarai.Client, notifier ask.Notifier) Model {
	m := New(theme)
	m.client = client
	m.notifier = notifier
	if client != nil && notifier != nil {
		m.orchestrator = ask.New(client, notifier)
	}
	if client != nil {
		m.serverName = serverDisplayName(client.BaseURL())
		m.connecting = components.NewConnectingSpinner(m.serverName)
		// Mark the spinner active here, where the mutation sticks. Init
		// runs on a copy, so it only contributes the tick command.
		m.connecting.Start()
		m.statusBar.SetServerName(m.serverName)
		m.statusBar.SetKeyConfigured(client.IsConfigured())
		m.statusBar.SetStatus(components.StatusConnecting)
		m.welcome.SetServerURL(m.serverName)
		m.welcome.SetKeyConfigured(client.IsConfigured())
		m.state = StateConnecting
	}
	return m
}

// serverDisplayName reduces a base URL to the host shown in the UI.
func serverDisplayName(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model and, when a client is present, kicks off
// the startup health probe.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.client != nil {
		cmds = append(cmds, m.connecting.Start(), m.checkServer())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var connectingCmd, thinkingCmd tea.Cmd
		m.connecting, connectingCmd = m.connecting.Update(msg)
		m.thinking, thinkingCmd = m.thinking.Update(msg)
		return m, tea.Batch(connectingCmd, thinkingCmd)

	case ServerStatusMsg:
		return m.handleServerStatus(msg)

	case SettingsReloadedMsg:
		return m.handleSettingsReloaded(msg)

	case WaitingMsg:
		m.conversation.AddSystemMessage(msg.Message)
		m.thinking.SetDetail(msg.Message)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case RetryingMsg:
		m.conversation.AddSystemMessage(msg.Message)
		m.thinking.SetDetail(msg.Message)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case QuotaMsg:
		return m.handleQuota(msg)

	case AnswerMsg:
		m.conversation.AddAIMessage(msg.Text)
		m.statusBar.SetSessionTitle(m.conversation.GetTitle())
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case AskErrorMsg:
		m.conversation.AddErrorMessage(msg.Message)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case InputReenabledMsg:
		return m.handleInputReenabled()

	case SessionListMsg:
		return m.handleSessionList(msg)

	case SessionResumedMsg:
		return m.handleSessionResumed(msg)

	case SessionSavedMsg:
		return m.handleSessionSaved(msg)

	case ErrorMsg:
		m.lastError = &msg
		m.state = StateError
		return m, nil

	case ErrorDismissMsg:
		m.lastError = nil
		m.state = StateReady
		m.input.Focus()
		return m, textinput.Blink

	default:
		// For any unhandled messages, update the text input unless it
		// is disabled, and always update the viewport for scroll events.
		if m.state != StateWaiting && m.state != StateError {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)

		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.layoutViewport()

	// Input width: the container border eats 2 columns and its padding 2
	// more, then the prompt "> " takes 2.
	inputWidth := m.width - 6 - len(m.input.Prompt)
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}
	m.statusBar.SetWidth(m.width)
	m.welcome.SetSize(m.width, m.height)

	popupWidth := m.width - 4
	if popupWidth > 44 {
		popupWidth = 44
	}
	m.completion.SetWidth(popupWidth)

	// Rebuild the markdown renderer at the new wrap width, then
	// re-render the transcript with it.
	m.ensureRenderer()
	m.updateViewport()
	m.viewport.GotoBottom()

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

// layoutViewport sizes the viewport around the fixed chrome. Called on
// resize and whenever a state flip adds or removes an indicator row.
//
// The reserved heights are conservative estimates; renderChat() measures
// actual heights with lipgloss.Height() and corrects any mismatch. If
// the input area or status bar in view.go changes shape, update these.
func (m *Model) layoutViewport() {
	if m.width == 0 && m.height == 0 {
		return
	}

	const (
		inputAreaHeight = 4 // top border + input line + hint line + bottom border
		statusBarHeight = 2 // wide layout carries a top border
	)

	reservedHeight := inputAreaHeight + statusBarHeight
	if m.state == StateWaiting {
		reservedHeight += thinkingAreaHeight
	}
	if m.state == StateConnecting {
		reservedHeight += connectingAreaHeight
	}

	viewportHeight := m.height - reservedHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works, whatever the state. The session is saved on
	// the way out so a stray Ctrl+C never loses a conversation.
	if key.Matches(msg, m.keyMap.Quit) {
		return m.quit()
	}

	// Blocking error overlay swallows everything except dismissal.
	if m.state == StateError {
		switch msg.String() {
		case "esc", "enter", " ":
			if m.lastError == nil || m.lastError.Dismissible {
				m.lastError = nil
				m.state = StateReady
				m.input.Focus()
				return m, textinput.Blink
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.ToggleRAG):
		m.setRAGMode(!m.useRAG, true)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.clearConversation()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	// While an answer is pending the input stays disabled; arrow keys
	// fall through to viewport scrolling so long transcripts stay
	// readable during the wait.
	if m.state == StateWaiting {
		switch msg.String() {
		case "up":
			m.viewport.LineUp(1)
		case "down":
			m.viewport.LineDown(1)
		}
		return m, nil
	}

	// While the completion popup is open it owns Tab, Up/Down, and Esc;
	// everything else falls through so typing keeps filtering.
	if m.completion.HasCompletions() {
		switch msg.String() {
		case "tab":
			if comp, ok := m.completion.Selected(); ok {
				m.input.SetValue(comp.Value)
				m.input.CursorEnd()
			}
			m.completion.Clear()
			return m, nil
		case "down", "ctrl+n":
			m.completion.Next()
			return m, nil
		case "up", "ctrl+p":
			m.completion.Prev()
			return m, nil
		case "esc":
			m.completion.Clear()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keyMap.HistoryPrev):
		m.historyPrev()
		return m, nil

	case key.Matches(msg, m.keyMap.HistoryNext):
		m.historyNext()
		return m, nil

	case key.Matches(msg, m.keyMap.Dismiss):
		m.input.Reset()
		m.completion.Clear()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshCompletions()
	return m, cmd
}

// refreshCompletions rebuilds the slash-command popup from the input
// line. Only a bare "/name" prefix completes; once a space starts the
// arguments the popup gets out of the way. The popup only renders in
// StateReady, so it must only fill in StateReady or Tab would accept
// an invisible selection.
func (m *Model) refreshCompletions() {
	value := m.input.Value()
	if m.state != StateReady || !strings.HasPrefix(value, "/") || strings.ContainsRune(value, ' ') {
		m.completion.Clear()
		return
	}
	m.completion.SetCompletions(components.FilterCompletions(value, commandCompletions))
}

func (m Model) handleServerStatus(msg ServerStatusMsg) (tea.Model, tea.Cmd) {
	m.connecting.Stop()
	if m.state == StateConnecting {
		m.state = StateReady
		if msg.Reachable {
			m.statusBar.SetStatus(components.StatusReady)
		} else {
			// The probe is advisory: asks may still succeed once the
			// network recovers, so no transcript noise, just the icon.
			m.statusBar.SetStatus(components.StatusError)
		}
		m.layoutViewport()
	}
	return m, nil
}

// handleSettingsReloaded folds an on-disk configuration change into the
// running session: the client and orchestrator are rebuilt so the next
// question uses the new key, server, and timeout. An in-flight
// orchestration keeps the client it started with; input stays disabled
// until it finishes, so the swap cannot start a second one.
func (m Model) handleSettingsReloaded(msg SettingsReloadedMsg) (tea.Model, tea.Cmd) {
	cfg := msg.Config
	if cfg == nil {
		return m, nil
	}

	client := sugarai.NewClient(cfg.APIKey).
		WithBaseURL(cfg.Service.BaseURL).
		WithTimeout(time.Duration(cfg.Service.TimeoutSecs) * time.Second)
	m.client = client
	if m.notifier != nil {
		m.orchestrator = ask.New(client, m.notifier)
	}

	m.serverName = serverDisplayName(client.BaseURL())
	m.statusBar.SetServerName(m.serverName)
	m.statusBar.SetKeyConfigured(client.IsConfigured())
	m.welcome.SetServerURL(m.serverName)
	m.welcome.SetKeyConfigured(client.IsConfigured())
	m.showWelcome = cfg.UI.ShowWelcome
	return m, nil
}

func (m Model) handleQuota(msg QuotaMsg) (tea.Model, tea.Cmd) {
	m.conversation.AddSystemMessage(ask.QuotaNotice(msg.Remaining, msg.Total))

	remaining, errR := strconv.Atoi(msg.Remaining)
	total, errT := strconv.Atoi(msg.Total)
	if errR == nil && errT == nil {
		m.statusBar.SetQuota(remaining, total)
	} else {
		m.statusBar.ClearQuota()
	}

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleInputReenabled() (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.thinking.Stop()
	m.thinking.SetDetail(components.PatienceNote)
	m.statusBar.SetStatus(components.StatusReady)
	m.input.Focus()
	m.layoutViewport()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, textinput.Blink
}

func (m Model) handleSessionList(msg SessionListMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.conversation.AddErrorMessage("Could not list sessions: " + msg.Err.Error())
	} else {
		m.conversation.AddSystemMessage(storage.FormatSessionList(msg.Sessions))
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleSessionResumed(msg SessionResumedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		errMsg := NewErrorMsg("Could not resume session", msg.Err.Error())
		errMsg.Suggestions = []string{
			"Run /sessions to list saved sessions",
			"Resume by number: /resume 1 picks the most recent",
		}
		m.lastError = &errMsg
		m.state = StateError
		return m, nil
	}

	m.conversation = msg.Conversation
	m.sessionID = msg.ID
	m.statusBar.SetSessionTitle(m.conversation.GetTitle())
	m.conversation.AddSystemMessage("Resumed session " + shortSessionID(msg.ID) + " with " +
		strconv.Itoa(m.conversation.MessageCount()) + " messages.")
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleSessionSaved(msg SessionSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.conversation.AddErrorMessage("Could not save session: " + msg.Err.Error())
	} else {
		m.sessionID = msg.ID
		m.conversation.AddSystemMessage("Session saved as " + shortSessionID(msg.ID) + ".")
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// shortSessionID truncates generated IDs for display; the full ID still
// works everywhere one is accepted.
func shortSessionID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput routes the input line: slash commands go to the command
// registry, everything else becomes a question for the orchestrator.
// The RAG mode is snapshotted here, so toggling it while an answer is
// pending only affects the next question.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	if strings.HasPrefix(content, "/") {
		m.rememberInput(content)
		m.input.Reset()
		m.completion.Clear()
		return m.handleCommand(content)
	}

	if m.orchestrator == nil {
		m.conversation.AddErrorMessage(ask.MissingKeyNotice)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	if err := m.orchestrator.Submit(content, m.useRAG); err != nil {
		switch {
		case errors.Is(err, ask.ErrRequestInFlight):
			// Submit is only reachable outside StateWaiting, so this
			// means an orchestration raced ahead of the UI; drop the
			// input untouched and let the pending answer land.
			return m, nil
		case errors.Is(err, ask.ErrMissingAPIKey):
			m.conversation.AddErrorMessage(ask.MissingKeyNotice)
		case errors.Is(err, ask.ErrEmptyQuestion):
			return m, nil
		default:
			m.conversation.AddErrorMessage(err.Error())
		}
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	m.rememberInput(content)
	m.input.Reset()
	m.input.Blur()

	m.conversation.AddUserMessage(content)
	m.conversation.AddSystemMessage(ask.ThinkingNotice)
	m.statusBar.SetSessionTitle(m.conversation.GetTitle())
	m.statusBar.SetStatus(components.StatusThinking)

	m.state = StateWaiting
	cmd := m.thinking.Start()

	m.layoutViewport()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, cmd
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// rememberInput appends a submitted line to the recall history.
// Consecutive duplicates collapse, the way shell history does.
func (m *Model) rememberInput(content string) {
	if n := len(m.inputHistory); n > 0 && m.inputHistory[n-1] == content {
		m.historyPos = len(m.inputHistory)
		return
	}
	m.inputHistory = append(m.inputHistory, content)
	m.historyPos = len(m.inputHistory)
}

func (m *Model) historyPrev() {
	if len(m.inputHistory) == 0 || m.historyPos == 0 {
		return
	}
	if m.historyPos == len(m.inputHistory) {
		m.draft = m.input.Value()
	}
	m.historyPos--
	m.input.SetValue(m.inputHistory[m.historyPos])
	m.input.CursorEnd()
}

func (m *Model) historyNext() {
	if m.historyPos >= len(m.inputHistory) {
		return
	}
	m.historyPos++
	if m.historyPos == len(m.inputHistory) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.inputHistory[m.historyPos])
	}
	m.input.CursorEnd()
}

// =============================================================================
// MODE AND CONVERSATION HELPERS
// =============================================================================

// setRAGMode switches the endpoint used for the next submission and
// keeps every surface that displays the mode in sync.
func (m *Model) setRAGMode(enabled, announce bool) {
	m.useRAG = enabled
	m.statusBar.SetRAGMode(enabled)
	m.welcome.SetRAGEnabled(enabled)
	if !announce {
		return
	}
	mode := model.ModeFor(enabled)
	m.conversation.AddSystemMessage("Mode: " + mode.Name + " - " + mode.Description + ".")
}

// clearConversation wipes the transcript and seeds the cleared notice.
func (m *Model) clearConversation() {
	m.conversation.ClearHistory()
	m.conversation.AddSystemMessage(ask.ClearedNotice)
	m.statusBar.SetSessionTitle("")
	m.updateViewport()
}

// quit saves the conversation when there is something worth saving,
// then exits. The save runs to completion before the program stops.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.store != nil && len(m.conversation.HistoryEntries()) > 0 {
		return m, tea.Sequence(m.saveSessionCmd(), tea.Quit)
	}
	return m, tea.Quit
}

// =============================================================================
// SERVER PROBE
// =============================================================================

// checkServer probes the service's health endpoint in the background.
func (m *Model) checkServer() tea.Cmd {
	client := m.client // Capture before closure to avoid race
	return func() tea.Msg {
		if client == nil {
			return ServerStatusMsg{Reachable: false, Err: sugarai.ErrConnection}
		}
		err := client.Health(context.Background())
		return ServerStatusMsg{Reachable: err == nil, Err: err}
	}
}

// =============================================================================
// VIEWPORT UPDATE
// =============================================================================

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}

// =============================================================================
// GETTERS AND SETTERS
// =============================================================================

// GetConversation returns the current conversation.
func (m *Model) GetConversation() *model.Conversation {
	return m.conversation
}

// SetConversation replaces the current conversation, e.g. when resuming
// a session picked on the command line.
func (m *Model) SetConversation(conv *model.Conversation) {
	if conv == nil {
		conv = model.NewConversation()
	}
	m.conversation = conv
	m.statusBar.SetSessionTitle(conv.GetTitle())
	m.updateViewport()
}

// GetState returns the current state.
func (m *Model) GetState() State {
	return m.state
}

// UseRAG reports the mode the next submission will use.
func (m *Model) UseRAG() bool {
	return m.useRAG
}

// SetUseRAG sets the mode for the next submission without announcing it
// in the transcript. Used at startup to apply the configured default.
func (m *Model) SetUseRAG(enabled bool) {
	m.setRAGMode(enabled, false)
}

// SetSessionStore wires in session persistence. Without a store the
// session commands report that saving is unavailable.
func (m *Model) SetSessionStore(store *storage.SessionStore) {
	m.store = store
}

// SetSessionID pins the session the conversation saves back to.
func (m *Model) SetSessionID(id string) {
	m.sessionID = id
}

// SetVersion sets the version string shown on the welcome screen.
func (m *Model) SetVersion(version string) {
	m.version = version
	m.welcome.SetVersion(version)
}

// SetShowWelcome controls whether an empty conversation shows the
// welcome screen, mirroring the show_welcome setting.
func (m *Model) SetShowWelcome(show bool) {
	m.showWelcome = show
}

// ApplySettings folds the relevant parts of the loaded configuration
// into the model. Called by main before the program starts.
func (m *Model) ApplySettings(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if mode, ok := model.GetMode(cfg.Service.DefaultMode); ok {
		m.setRAGMode(mode.UseRAG, false)
	}
	m.showWelcome = cfg.UI.ShowWelcome
}
