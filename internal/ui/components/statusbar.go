// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package components provides the visual UI components for the Sugar-AI TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusConnecting
	StatusError
	StatusIdle
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusConnecting:
		return "Connecting..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success // Checkmark for ready
	case StatusThinking:
		return styles.StatusIndicators.Active // Busy marker while waiting
	case StatusConnecting:
		return styles.StatusIndicators.Pending // Empty box while probing
	case StatusError:
		return styles.StatusIndicators.Error // X mark for error
	case StatusIdle:
		return "-"
	default:
		return "?"
	}
}

// KeyStateConfigured and KeyStateMissing are the canonical API key state
// lines. The same text appears in the wide status bar, the welcome
// screen, and `sugarai status`.
const (
	KeyStateConfigured = "API Key configured"
	KeyStateMissing    = "No API Key - run 'sugarai setup' to configure"
)

// StatusBar represents the bottom status bar
type StatusBar struct {
	RAGEnabled     bool   // true: /ask endpoint, false: /ask-llm
	KeyConfigured  bool   // whether an API key is stored
	QuotaRemaining int    // questions left on the key, -1 when unknown
	QuotaTotal     int    // question allowance on the key, -1 when unknown
	SessionTitle   string // active conversation title
	ServerName     string // host the client talks to
	Status         Status // Current status
	Width          int    // Available width
	ShowShortcuts  bool   // Show keyboard shortcuts
	theme          *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		RAGEnabled:     true,
		KeyConfigured:  false,
		QuotaRemaining: -1,
		QuotaTotal:     -1,
		SessionTitle:   "",
		ServerName:     "",
		Status:         StatusReady,
		Width:          80,
		ShowShortcuts:  true,
		theme:          theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetRAGMode updates the endpoint mode display
func (s *StatusBar) SetRAGMode(enabled bool) {
	s.RAGEnabled = enabled
}

// SetKeyConfigured updates the API key state display
func (s *StatusBar) SetKeyConfigured(configured bool) {
	s.KeyConfigured = configured
}

// SetQuota updates the question quota display. Pass -1 for either count
// when the service did not report it.
func (s *StatusBar) SetQuota(remaining, total int) {
	s.QuotaRemaining = remaining
	s.QuotaTotal = total
}

// ClearQuota marks the quota as unknown again (e.g. after a key change).
func (s *StatusBar) ClearQuota() {
	s.QuotaRemaining = -1
	s.QuotaTotal = -1
}

// SetStatus updates the current status
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetSessionTitle updates the active conversation title
func (s *StatusBar) SetSessionTitle(title string) {
	s.SessionTitle = title
}

// SetServerName updates the server host display
func (s *StatusBar) SetServerName(name string) {
	s.ServerName = name
}

// ModeString returns the endpoint mode label
func (s *StatusBar) ModeString() string {
	if s.RAGEnabled {
		return "RAG"
	}
	return "LLM"
}

// QuotaKnown reports whether the service has told us a quota yet
func (s *StatusBar) QuotaKnown() bool {
	return s.QuotaRemaining >= 0 && s.QuotaTotal > 0
}

// View renders the status bar
func (s *StatusBar) View() string {
	// Choose layout based on width
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals
// Format: [RAG|key] QuotaBar Status
func (s *StatusBar) viewNarrow() string {
	parts := []string{}

	// Mode indicator (compact)
	modeStyle := s.getModeStyle()
	parts = append(parts, modeStyle.Render(s.ModeString()))

	// ACCESSIBILITY: key indicator pairs shape with color
	keyStyle := s.getKeyStyle()
	parts = append(parts, keyStyle.Render(s.getKeyIcon()))

	// Combine mode section
	modeSection := "[" + strings.Join(parts, "|") + "]"

	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" ")

	result := modeSection

	// Quota bar (smaller), only once the service has reported one
	if s.QuotaKnown() {
		result += separator + s.renderQuotaBarSmall()
	}

	// Status
	statusStyle := s.getStatusStyle()
	result += separator + statusStyle.Render(s.Status.Icon())

	// Apply background
	return s.theme.StatusBar.Width(s.Width).Render(result)
}

// viewMedium renders a medium-width status bar
// Format: RAG | API key [OK] | Quota: [####------] 9/10 | Status
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	// Mode
	// ACCESSIBILITY: Uses high contrast colors for colorblind users
	modeStyle := s.getModeStyle()
	parts = append(parts, modeStyle.Render(s.ModeString()))

	// API key state (short form)
	keyStyle := s.getKeyStyle()
	parts = append(parts, keyStyle.Render("API key "+s.getKeyIcon()))

	// Quota bar with label
	quotaLabel := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("Quota:")
	if s.QuotaKnown() {
		counts := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(fmtQuota(s.QuotaRemaining, s.QuotaTotal))
		parts = append(parts, quotaLabel+" "+s.renderQuotaBar()+" "+counts)
	} else {
		unknown := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("unknown")
		parts = append(parts, quotaLabel+" "+unknown)
	}

	// Status
	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.String()))

	result := strings.Join(parts, separator)

	// Apply background
	return s.theme.StatusBar.Width(s.Width).Render(result)
}

// viewWide renders a full-featured status bar for wide terminals
// Format: server | RAG | title ... Quota: [#########-] 9/10 (90.0%) ... key state Status ^R ^L ^C
func (s *StatusBar) viewWide() string {
	// Left section: server, mode, conversation title
	leftParts := []string{}

	// Server host
	if s.ServerName != "" {
		serverStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		leftParts = append(leftParts, serverStyle.Render(s.ServerName))
	}

	// Endpoint mode badge
	// ACCESSIBILITY: Uses high contrast colors for colorblind users
	modeStyle := s.getModeStyle()
	leftParts = append(leftParts, modeStyle.Render(s.ModeString()))

	// Conversation title, truncated by display width so CJK titles
	// don't push the bar past the terminal edge
	if s.SessionTitle != "" {
		title := runewidth.Truncate(s.SessionTitle, 24, "...")
		titleStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		leftParts = append(leftParts, titleStyle.Render(title))
	}

	leftSep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	leftSection := strings.Join(leftParts, leftSep)

	// Center section: question quota
	quotaLabel := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("Quota: ")
	var centerSection string
	if s.QuotaKnown() {
		centerSection = quotaLabel + s.renderQuotaBar() + " " + s.renderQuotaCounts()
	} else {
		unknown := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("unknown")
		centerSection = quotaLabel + unknown
	}

	// Right section: key state, status, shortcuts
	buildRight := func(keyText string) string {
		rightParts := []string{}

		keyStyle := s.getKeyStyle()
		rightParts = append(rightParts, keyStyle.Render(keyText))

		statusStyle := s.getStatusStyle()
		rightParts = append(rightParts, statusStyle.Render(s.Status.String()))

		if s.ShowShortcuts {
			rightParts = append(rightParts, s.renderShortcuts())
		}

		return strings.Join(rightParts, " ")
	}

	rightSection := buildRight(s.keyStateText())

	// Calculate spacing
	leftWidth := lipgloss.Width(leftSection)
	centerWidth := lipgloss.Width(centerSection)
	rightWidth := lipgloss.Width(rightSection)
	totalContent := leftWidth + centerWidth + rightWidth

	spacing := s.Width - totalContent - 4 // Account for padding

	// The missing-key line is long; fall back to the short key form
	// rather than letting the bar wrap
	if spacing < 4 {
		rightSection = buildRight("API key " + s.getKeyIcon())
		rightWidth = lipgloss.Width(rightSection)
		totalContent = leftWidth + centerWidth + rightWidth
		spacing = s.Width - totalContent - 4
	}
	if spacing < 4 {
		spacing = 4
	}

	leftSpace := strings.Repeat(" ", spacing/2)
	rightSpace := strings.Repeat(" ", spacing-spacing/2)

	result := leftSection + leftSpace + centerSection + rightSpace + rightSection

	// Apply styled border for wide view
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// ==========================================================================
// HELPER RENDER METHODS
// ==========================================================================

// keyStateText returns the full key state line for the wide view
func (s *StatusBar) keyStateText() string {
	if s.KeyConfigured {
		return KeyStateConfigured
	}
	return KeyStateMissing
}

// renderQuotaBar renders the remaining question quota bar
// Format: [##########] (10 blocks, filled = questions left)
func (s *StatusBar) renderQuotaBar() string {
	percent := s.quotaPercent()

	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	empty := 10 - filled

	filledStyle := lipgloss.NewStyle().Foreground(s.quotaColor(percent))
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Overlay)

	filledPart := filledStyle.Render(strings.Repeat("#", filled))
	emptyPart := emptyStyle.Render(strings.Repeat("-", empty))

	return "[" + filledPart + emptyPart + "]"
}

// renderQuotaBarSmall renders a smaller quota bar for narrow view
// Format: [####--] (6 blocks)
func (s *StatusBar) renderQuotaBarSmall() string {
	percent := s.quotaPercent()

	filled := int(percent / 100 * 6)
	if filled > 6 {
		filled = 6
	}
	empty := 6 - filled

	filledStyle := lipgloss.NewStyle().Foreground(s.quotaColor(percent))
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Overlay)

	return filledStyle.Render(strings.Repeat("#", filled)) +
		emptyStyle.Render(strings.Repeat("-", empty))
}

// renderQuotaCounts renders the remaining/total counts with percentage
// Format: 9/10 (90.0%)
func (s *StatusBar) renderQuotaCounts() string {
	percent := s.quotaPercent()

	countStyle := lipgloss.NewStyle().Foreground(s.quotaColor(percent))

	return countStyle.Render(
		formatNumber(s.QuotaRemaining) + "/" + formatNumber(s.QuotaTotal) +
			" (" + formatPercent(percent) + ")",
	)
}

// quotaPercent returns the remaining quota as a percentage of the total
func (s *StatusBar) quotaPercent() float64 {
	if !s.QuotaKnown() {
		return 0.0
	}
	return float64(s.QuotaRemaining) / float64(s.QuotaTotal) * 100
}

// quotaColor picks a color by how much quota is LEFT, so the bar drains
// from green to red as questions are spent
// ACCESSIBILITY: the numeric count always accompanies the color
func (s *StatusBar) quotaColor(percent float64) lipgloss.AdaptiveColor {
	if percent <= 10 {
		return styles.ErrorHighContrast
	}
	if percent <= 25 {
		return styles.WarningHighContrast
	}
	return styles.SuccessHighContrast
}

// renderShortcuts renders keyboard shortcut hints
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.SugarBlue).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("^R") + descStyle.Render("rag"),
		keyStyle.Render("^L") + descStyle.Render("clear"),
		keyStyle.Render("^C") + descStyle.Render("quit"),
	}

	return strings.Join(shortcuts, " ")
}

// getModeStyle returns the style for the current endpoint mode
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getModeStyle() lipgloss.Style {
	if s.RAGEnabled {
		return lipgloss.NewStyle().
			Foreground(styles.SuccessHighContrast).
			Bold(true)
	}
	return lipgloss.NewStyle().
		Foreground(styles.WarningHighContrast).
		Bold(true)
}

// getStatusStyle returns the style for the current status
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case StatusThinking:
		return lipgloss.NewStyle().Foreground(styles.InfoHighContrast).Bold(true)
	case StatusConnecting:
		return lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Bold(true)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case StatusIdle:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// getKeyStyle returns the style for the API key state
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getKeyStyle() lipgloss.Style {
	if s.KeyConfigured {
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
}

// getKeyIcon returns an icon for the API key state
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s *StatusBar) getKeyIcon() string {
	if s.KeyConfigured {
		return styles.StatusIndicators.Success // Checkmark for configured
	}
	return styles.StatusIndicators.Error // X mark for missing
}

// ==========================================================================
// HELPER FUNCTIONS (using shared helpers from helpers.go)
// ==========================================================================

// formatNumber formats a number with thousand separators
func formatNumber(n int) string {
	return fmtNumber(n)
}

// formatPercent formats a percentage with one decimal place
func formatPercent(p float64) string {
	return fmtPercent(p)
}
