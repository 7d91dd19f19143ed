// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// =============================================================================
// SLASH COMMAND COMPLETION
// =============================================================================

// Completion is one candidate offered by the completion popup: the text
// that lands in the input when accepted, and a short description shown
// next to it.
type Completion struct {
	Value       string
	Description string
}

// FilterCompletions returns the candidates matching the query, best
// match first. An empty query keeps the candidates in their given
// order, so a bare "/" lists every command.
func FilterCompletions(query string, candidates []Completion) []Completion {
	if query == "" {
		return candidates
	}

	byValue := make(map[string]Completion, len(candidates))
	targets := make([]string, 0, len(candidates))
	for _, c := range candidates {
		byValue[c.Value] = c
		targets = append(targets, c.Value)
	}

	matches := FuzzyFilter(query, targets)
	filtered := make([]Completion, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, byValue[match.Target])
	}
	return filtered
}

// CompletionPopup renders the list of command completions above the
// input area, with one entry selected. Navigation wraps at both ends.
type CompletionPopup struct {
	completions []Completion
	selected    int
	maxVisible  int
	width       int
	theme       *styles.Theme
}

// NewCompletionPopup creates an empty completion popup.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		maxVisible: 8,
		width:      44,
		theme:      theme,
	}
}

// SetCompletions replaces the candidate list and resets the selection.
func (c *CompletionPopup) SetCompletions(completions []Completion) {
	c.completions = completions
	c.selected = 0
}

// Clear empties the popup, hiding it.
func (c *CompletionPopup) Clear() {
	c.completions = nil
	c.selected = 0
}

// HasCompletions reports whether there is anything to show.
func (c *CompletionPopup) HasCompletions() bool {
	return len(c.completions) > 0
}

// Next moves the selection down, wrapping to the top.
func (c *CompletionPopup) Next() {
	if len(c.completions) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.completions)
}

// Prev moves the selection up, wrapping to the bottom.
func (c *CompletionPopup) Prev() {
	if len(c.completions) == 0 {
		return
	}
	c.selected--
	if c.selected < 0 {
		c.selected = len(c.completions) - 1
	}
}

// Selected returns the highlighted completion.
func (c *CompletionPopup) Selected() (Completion, bool) {
	if c.selected < 0 || c.selected >= len(c.completions) {
		return Completion{}, false
	}
	return c.completions[c.selected], true
}

// SetWidth sets the rendered popup width.
func (c *CompletionPopup) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	c.width = width
}

// View renders the popup box. Returns "" when there is nothing to show.
func (c *CompletionPopup) View() string {
	if len(c.completions) == 0 {
		return ""
	}

	// Scroll window keeping the selection visible.
	start := 0
	end := len(c.completions)
	if len(c.completions) > c.maxVisible {
		start = c.selected - c.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + c.maxVisible
		if end > len(c.completions) {
			end = len(c.completions)
			start = end - c.maxVisible
		}
	}

	items := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, c.renderItem(c.completions[i], i == c.selected))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.SugarBlue).
		Padding(0, 1).
		MaxWidth(c.width).
		Render(strings.Join(items, "\n"))
}

// renderItem renders one row: marker, command, description.
func (c *CompletionPopup) renderItem(comp Completion, selected bool) string {
	valueStyle := lipgloss.NewStyle().
		Width(12).
		Foreground(styles.TextPrimary)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	marker := " "
	if selected {
		marker = ">"
		valueStyle = valueStyle.Foreground(styles.SugarBlue).Bold(true)
		descStyle = descStyle.Foreground(styles.TextPrimary)
	}

	desc := comp.Description
	maxDesc := c.width - 18
	if maxDesc > 3 {
		if runes := []rune(desc); len(runes) > maxDesc {
			desc = string(runes[:maxDesc-3]) + "..."
		}
	}

	markerStyle := lipgloss.NewStyle().
		Width(2).
		Foreground(styles.SugarBlue)

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		markerStyle.Render(marker),
		valueStyle.Render(comp.Value),
		descStyle.Render(desc),
	)
}
