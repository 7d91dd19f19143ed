// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package components provides UI components for the Sugar-AI TUI.
package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// ExampleQuestions are the starter questions shown on the welcome screen
// and by the /examples command.
var ExampleQuestions = []string{
	"How do I create a Sugar activity with GTK4?",
	"What is the difference between lists and tuples in Python?",
	"How do I add a button to my Sugar activity?",
	"How do I use Pygame in a Sugar activity?",
}

// Welcome is the welcome screen component.
type Welcome struct {
	// Display info
	version       string
	serverURL     string
	keyConfigured bool
	ragEnabled    bool

	// Dimensions
	width  int
	height int

	// Theme
	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version:    "dev",
		serverURL:  "ai.sugarlabs.org",
		ragEnabled: true,
		theme:      theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetServerURL sets the server host shown in the info block.
func (w *Welcome) SetServerURL(url string) {
	w.serverURL = url
}

// SetKeyConfigured sets whether an API key is stored.
func (w *Welcome) SetKeyConfigured(configured bool) {
	w.keyConfigured = configured
}

// SetRAGEnabled sets the endpoint mode shown in the info block.
func (w *Welcome) SetRAGEnabled(enabled bool) {
	w.ragEnabled = enabled
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen.
// Responsive: adapts to terminal size, minimum 80x24 supported.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	// Calculate box width - responsive to terminal width.
	// The widest starter question is 57 columns, so the box keeps
	// enough interior for it to render unwrapped
	boxWidth := 72
	if width < 78 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	// Adjust padding for narrow terminals
	horizontalPadding := 4
	verticalPadding := 1
	if width < 78 {
		horizontalPadding = 2
	}

	// Box overhead: 2 (border top/bottom) + 2*verticalPadding
	boxOverhead := 2 + 2*verticalPadding

	// Available lines for content inside the box
	availableContentLines := height - boxOverhead

	// Build the content based on available space
	// Logo: 4 lines
	// Version: 1 line
	// Info: 3 lines (Server, API Key, Mode) + 1 when the key is missing
	// Examples: 5 lines (title + four questions)
	// Start hint: 1 line

	var content string
	var contentLines int

	// Full: logo(4) + version(1) + blank + info(3/4) + blank + examples(5) + blank + hint(1) = 17-18
	// Compact: same sections, single newlines = 14-15
	// Very compact: compact logo(3) + version(1) + info(3/4) + hint(1) = 8-9
	// Ultra: compact logo(3) + info(1) + hint(1) = 5

	if availableContentLines >= 18 {
		content = w.renderLogo()
		content += "\n" + w.renderVersion()
		content += "\n\n" + w.renderInfo()
		content += "\n\n" + w.renderExamples()
		content += "\n\n" + w.renderStartHint()
		contentLines = 4 + 1 + 1 + 4 + 1 + 5 + 1 + 1 // 18
	} else if availableContentLines >= 15 {
		content = w.renderLogo()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderInfo()
		content += "\n" + w.renderExamples()
		content += "\n" + w.renderStartHint()
		contentLines = 4 + 1 + 4 + 5 + 1 // 15
	} else if availableContentLines >= 9 {
		content = w.renderLogoCompact()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderInfo()
		content += "\n" + w.renderStartHint()
		contentLines = 3 + 1 + 4 + 1 // 9
	} else {
		content = w.renderLogoCompact()
		content += "\n" + w.renderInfoCompact()
		content += "\n" + w.renderStartHint()
		contentLines = 3 + 1 + 1 // 5
	}

	// If still too tight, remove vertical padding
	if contentLines+boxOverhead > height {
		verticalPadding = 0
		boxOverhead = 2
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.SugarBlue).
		Padding(verticalPadding, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	boxHeight := lipgloss.Height(box)

	// Align to top when the box would overflow so the logo stays visible
	if boxHeight >= height {
		return lipgloss.Place(
			width, height,
			lipgloss.Center, lipgloss.Top,
			box,
		)
	}

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo (4 lines).
// Responsive: uses compact or simple logo for narrow terminals.
func (w Welcome) renderLogo() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true)

	// Full ASCII art is 47 chars wide, needs ~52 with box padding
	if w.width >= 60 {
		logo := ` ___   _   _    ___     _    ___      _    ___
/ __| | | | |  / __|   / \  | _ \    / \  |_ _|
\__ \ | |_| | | (_ |  / _ \ |   /   / _ \  | |
|___/  \___/   \___| /_/ \_\|_|_\  /_/ \_\|___|`
		return logoStyle.Render(logo)
	}

	// For narrow terminals, use compact logo
	return w.renderLogoCompact()
}

// renderLogoCompact renders a compact text-based logo (3 lines).
func (w Welcome) renderLogoCompact() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true)

	if w.width >= 40 {
		// Compact box logo for narrow terminals - 3 lines
		// Uses standard ASCII box drawing for maximum compatibility
		return logoStyle.Render(`+--------------------+
|      Sugar-AI      |
+--------------------+`)
	}

	// Simple text logo for very narrow terminals - 1 line
	return logoStyle.Render("Sugar-AI Chat")
}

// renderVersion renders the version subtitle.
func (w Welcome) renderVersion() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("Sugar Labs coding assistant v" + w.version)
}

// renderInfo renders server, API key, and mode info (3-4 lines).
func (w Welcome) renderInfo() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(9)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true)

	lines := []string{
		labelStyle.Render("Server: ") + valueStyle.Render(w.serverURL),
		labelStyle.Render("API Key:") + " " + w.renderKeyIndicator(),
		labelStyle.Render("Mode:   ") + " " + w.renderModeIndicator(),
	}

	// Surface the setup hint prominently when no key is stored, since
	// every question will fail until one is configured
	if !w.keyConfigured {
		keyNote := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render(KeyStateMissing)
		lines = append(lines, keyNote)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderInfoCompact renders a single-line info summary (1 line).
func (w Welcome) renderInfoCompact() string {
	return w.renderKeyIndicator() + " | " + w.renderModeIndicator()
}

// renderKeyIndicator renders the API key state with appropriate color.
// ACCESSIBILITY: icon shape carries the state alongside the color.
func (w Welcome) renderKeyIndicator() string {
	if w.keyConfigured {
		return lipgloss.NewStyle().
			Foreground(styles.SuccessHighContrast).
			Bold(true).
			Render(styles.StatusIndicators.Success + " configured")
	}
	return lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Bold(true).
		Render(styles.StatusIndicators.Error + " not set")
}

// renderModeIndicator renders the endpoint mode with appropriate color.
func (w Welcome) renderModeIndicator() string {
	if w.ragEnabled {
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true).
			Render("RAG")
	}
	return lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true).
		Render("LLM")
}

// renderExamples renders the starter question list (5 lines).
func (w Welcome) renderExamples() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)

	bulletStyle := lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true)

	questionStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	lines := make([]string, len(ExampleQuestions))
	for i, q := range ExampleQuestions {
		lines[i] = bulletStyle.Render("-") + questionStyle.Render(" "+q)
	}

	title := titleStyle.Render("Try asking:")

	return title + "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStartHint renders the "type a question" prompt.
func (w Welcome) renderStartHint() string {
	return lipgloss.NewStyle().
		Foreground(styles.Violet).
		Render("Type a question and press Enter to start...")
}

// =============================================================================
// ALTERNATE LOGO STYLES
// =============================================================================

// CompactLogo returns a smaller logo for narrow terminals (3 lines).
func CompactLogo() string {
	return lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true).
		Render(`+--------------------+
|      Sugar-AI      |
+--------------------+`)
}

// SimpleLogo returns a minimal text logo.
func SimpleLogo() string {
	return lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true).
		Render("Sugar-AI Chat")
}

// =============================================================================
// KEYBOARD SHORTCUT HELP
// =============================================================================

// KeyboardShortcuts returns a formatted list of keyboard shortcuts.
func KeyboardShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send question"},
		{"Ctrl+C", "Quit"},
		{"Ctrl+R", "Toggle RAG mode"},
		{"Ctrl+L", "Clear conversation"},
		{"Up/Down", "Input history"},
		{"PgUp/PgDn", "Scroll transcript"},
		{"Esc", "Dismiss overlay"},
		{"/help", "List commands"},
	}

	lines := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		lines[i] = keyStyle.Render(s.key) + descStyle.Render(s.desc)
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return titleStyle.Render("Keyboard Shortcuts") + "\n" +
		lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// =============================================================================
// WELCOME OVERLAY
// =============================================================================

// WelcomeOverlay creates a centered welcome overlay for use over other content.
func WelcomeOverlay(width, height int, version string) string {
	w := NewWelcome(nil)
	w.SetVersion(version)
	w.SetSize(width, height)

	overlay := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(w.View())

	return overlay
}
