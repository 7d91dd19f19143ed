// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package components provides UI components for the Sugar-AI TUI.
package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// =============================================================================
// STATUS TESTS
// =============================================================================

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusThinking, "Thinking..."},
		{StatusConnecting, "Connecting..."},
		{StatusError, "Error"},
		{StatusIdle, "Idle"},
		{Status(99), "Unknown"},
	}

	for _, tc := range tests {
		got := tc.status.String()
		if got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, styles.StatusIndicators.Success},
		{StatusThinking, styles.StatusIndicators.Active},
		{StatusConnecting, styles.StatusIndicators.Pending},
		{StatusError, styles.StatusIndicators.Error},
		{StatusIdle, "-"},
		{Status(99), "?"},
	}

	for _, tc := range tests {
		got := tc.status.Icon()
		if got != tc.want {
			t.Errorf("Status(%d).Icon() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestKeyStateConstants(t *testing.T) {
	// These lines also appear on the welcome screen and in
	// `sugarai status`; changing them changes three surfaces at once.
	if KeyStateConfigured != "API Key configured" {
		t.Errorf("KeyStateConfigured = %q, want %q", KeyStateConfigured, "API Key configured")
	}

	want := "No API Key - run 'sugarai setup' to configure"
	if KeyStateMissing != want {
		t.Errorf("KeyStateMissing = %q, want %q", KeyStateMissing, want)
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestNewStatusBar(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	if s == nil {
		t.Fatal("NewStatusBar() returned nil")
	}

	if !s.RAGEnabled {
		t.Error("NewStatusBar() RAGEnabled should be true")
	}

	if s.KeyConfigured {
		t.Error("NewStatusBar() KeyConfigured should be false")
	}

	if s.QuotaRemaining != -1 || s.QuotaTotal != -1 {
		t.Errorf("NewStatusBar() quota = %d/%d, want -1/-1", s.QuotaRemaining, s.QuotaTotal)
	}

	if s.Status != StatusReady {
		t.Errorf("NewStatusBar() Status = %v, want %v", s.Status, StatusReady)
	}

	if s.Width != 80 {
		t.Errorf("NewStatusBar() Width = %d, want 80", s.Width)
	}

	if !s.ShowShortcuts {
		t.Error("NewStatusBar() ShowShortcuts should be true")
	}

	if s.theme != theme {
		t.Error("NewStatusBar() did not set theme")
	}
}

func TestStatusBarSetWidth(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	widths := []int{40, 80, 120, 200}
	for _, width := range widths {
		s.SetWidth(width)
		if s.Width != width {
			t.Errorf("SetWidth(%d) Width = %d, want %d", width, s.Width, width)
		}
	}
}

func TestStatusBarSetRAGMode(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	s.SetRAGMode(false)
	if s.RAGEnabled {
		t.Error("SetRAGMode(false) did not disable RAG mode")
	}

	s.SetRAGMode(true)
	if !s.RAGEnabled {
		t.Error("SetRAGMode(true) did not enable RAG mode")
	}
}

func TestStatusBarSetKeyConfigured(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	s.SetKeyConfigured(true)
	if !s.KeyConfigured {
		t.Error("SetKeyConfigured(true) did not set key state")
	}

	s.SetKeyConfigured(false)
	if s.KeyConfigured {
		t.Error("SetKeyConfigured(false) did not clear key state")
	}
}

func TestStatusBarSetQuota(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	s.SetQuota(9, 10)
	if s.QuotaRemaining != 9 || s.QuotaTotal != 10 {
		t.Errorf("SetQuota(9, 10) quota = %d/%d, want 9/10", s.QuotaRemaining, s.QuotaTotal)
	}
}

func TestStatusBarClearQuota(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	s.SetQuota(9, 10)
	s.ClearQuota()

	if s.QuotaRemaining != -1 || s.QuotaTotal != -1 {
		t.Errorf("ClearQuota() quota = %d/%d, want -1/-1", s.QuotaRemaining, s.QuotaTotal)
	}

	if s.QuotaKnown() {
		t.Error("QuotaKnown() should be false after ClearQuota()")
	}
}

func TestStatusBarSetStatus(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	statuses := []Status{StatusReady, StatusThinking, StatusConnecting, StatusError, StatusIdle}
	for _, status := range statuses {
		s.SetStatus(status)
		if s.Status != status {
			t.Errorf("SetStatus(%v) Status = %v, want %v", status, s.Status, status)
		}
	}
}

func TestStatusBarSetSessionTitle(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	title := "GTK4 button questions"
	s.SetSessionTitle(title)

	if s.SessionTitle != title {
		t.Errorf("SetSessionTitle(%q) SessionTitle = %q, want %q", title, s.SessionTitle, title)
	}
}

func TestStatusBarSetServerName(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	name := "ai.sugarlabs.org"
	s.SetServerName(name)

	if s.ServerName != name {
		t.Errorf("SetServerName(%q) ServerName = %q, want %q", name, s.ServerName, name)
	}
}

func TestStatusBarModeString(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	if s.ModeString() != "RAG" {
		t.Errorf("ModeString() = %q, want %q", s.ModeString(), "RAG")
	}

	s.SetRAGMode(false)
	if s.ModeString() != "LLM" {
		t.Errorf("ModeString() = %q, want %q", s.ModeString(), "LLM")
	}
}

func TestStatusBarQuotaKnown(t *testing.T) {
	theme := styles.NewTheme()

	tests := []struct {
		name      string
		remaining int
		total     int
		want      bool
	}{
		{"both unknown", -1, -1, false},
		{"known", 9, 10, true},
		{"exhausted but known", 0, 10, true},
		{"zero total", 5, 0, false},
		{"unknown total", 5, -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStatusBar(theme)
			s.SetQuota(tc.remaining, tc.total)
			if got := s.QuotaKnown(); got != tc.want {
				t.Errorf("QuotaKnown() with %d/%d = %v, want %v", tc.remaining, tc.total, got, tc.want)
			}
		})
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestStatusBarViewNarrow(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(40)

	view := s.View()
	if view == "" {
		t.Error("View() should return non-empty string")
	}

	// Narrow view shows the compact mode section
	if !strings.Contains(view, "RAG") {
		t.Error("Narrow view should contain mode indicator")
	}

	// Key is not configured by default
	if !strings.Contains(view, styles.StatusIndicators.Error) {
		t.Error("Narrow view should contain missing key icon")
	}
}

func TestStatusBarViewNarrowWithQuota(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(40)
	s.SetQuota(9, 10)

	view := s.View()

	// 90% remaining fills 5 of the 6 small blocks
	if !strings.Contains(view, "#####") {
		t.Error("Narrow view with quota should contain filled bar blocks")
	}
}

func TestStatusBarViewMedium(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(80)

	view := s.View()
	if view == "" {
		t.Error("View() should return non-empty string")
	}

	if !strings.Contains(view, "RAG") {
		t.Error("Medium view should contain mode indicator")
	}

	if !strings.Contains(view, "API key") {
		t.Error("Medium view should contain key state")
	}

	if !strings.Contains(view, "Quota:") {
		t.Error("Medium view should contain quota label")
	}

	// No quota reported yet
	if !strings.Contains(view, "unknown") {
		t.Error("Medium view should show unknown quota before first answer")
	}

	if !strings.Contains(view, "Ready") {
		t.Error("Medium view should contain status text")
	}
}

func TestStatusBarViewMediumWithQuota(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(80)
	s.SetQuota(9, 10)

	view := s.View()

	if !strings.Contains(view, "9/10") {
		t.Error("Medium view should contain quota counts")
	}

	if strings.Contains(view, "unknown") {
		t.Error("Medium view should not show unknown once quota is known")
	}
}

func TestStatusBarViewWide(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(120)
	s.SetQuota(9, 10)

	view := s.View()
	if view == "" {
		t.Error("View() should return non-empty string")
	}

	if !strings.Contains(view, "Quota:") {
		t.Error("Wide view should contain quota label")
	}

	if !strings.Contains(view, "9/10") {
		t.Error("Wide view should contain quota counts")
	}

	if !strings.Contains(view, "(90.0%)") {
		t.Error("Wide view should contain quota percentage")
	}

	if !strings.Contains(view, "Ready") {
		t.Error("Wide view should contain status text")
	}

	// Full key state line fits at this width
	if !strings.Contains(view, KeyStateMissing) {
		t.Error("Wide view should contain the full missing key line")
	}
}

func TestStatusBarViewWideConfigured(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(120)
	s.SetKeyConfigured(true)

	view := s.View()
	if !strings.Contains(view, KeyStateConfigured) {
		t.Error("Wide view should contain the configured key line")
	}
}

func TestStatusBarViewWideWithServerAndTitle(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(160)
	s.SetServerName("ai.sugarlabs.org")
	s.SetSessionTitle("Pygame sprite animation")

	view := s.View()

	if !strings.Contains(view, "ai.sugarlabs.org") {
		t.Error("Wide view should contain server name")
	}

	if !strings.Contains(view, "Pygame sprite animation") {
		t.Error("Wide view should contain session title")
	}
}

func TestStatusBarViewWideTruncatesTitle(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(160)
	s.SetSessionTitle("A very long conversation title that keeps going and going")

	view := s.View()

	// Truncated titles end with the ellipsis marker
	if !strings.Contains(view, "...") {
		t.Error("Wide view should truncate long session titles")
	}

	if strings.Contains(view, "keeps going and going") {
		t.Error("Wide view should not contain the full long title")
	}
}

func TestStatusBarViewWideKeyFallback(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	// Crowded bar: server, long title, and quota leave no room for the
	// 45-character missing key line
	s.SetWidth(100)
	s.SetServerName("ai.sugarlabs.org")
	s.SetSessionTitle("Debugging my Sugar activity toolbar")
	s.SetQuota(9, 10)

	view := s.View()

	if strings.Contains(view, KeyStateMissing) {
		t.Error("Crowded wide view should fall back to the short key form")
	}

	if !strings.Contains(view, "API key") {
		t.Error("Crowded wide view should still show the short key form")
	}
}

func TestStatusBarViewShortcuts(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(120)

	view := s.View()
	if !strings.Contains(view, "^R") {
		t.Error("Wide view should contain ^R shortcut")
	}

	s.ShowShortcuts = false
	view = s.View()
	if strings.Contains(view, "^R") {
		t.Error("Wide view should hide shortcuts when disabled")
	}
}

func TestStatusBarViewMinimumWidth(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)
	s.SetWidth(30)

	view := s.View()
	if view == "" {
		t.Error("View() should handle minimum width gracefully")
	}

	if !strings.Contains(view, "RAG") {
		t.Error("View() should contain mode even at minimum width")
	}
}

// =============================================================================
// QUOTA RENDERING TESTS
// =============================================================================

func TestStatusBarRenderQuotaBar(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	s.SetQuota(9, 10)
	bar := s.renderQuotaBar()

	// 90% remaining = 9 filled blocks
	if !strings.Contains(bar, "#########") {
		t.Errorf("renderQuotaBar() = %q, should contain 9 filled blocks", bar)
	}

	s.SetQuota(0, 10)
	bar = s.renderQuotaBar()

	// Exhausted quota = all empty blocks
	if !strings.Contains(bar, "----------") {
		t.Errorf("renderQuotaBar() = %q, should contain 10 empty blocks", bar)
	}
}

func TestStatusBarQuotaPercent(t *testing.T) {
	theme := styles.NewTheme()

	tests := []struct {
		name      string
		remaining int
		total     int
		want      float64
	}{
		{"unknown", -1, -1, 0.0},
		{"full", 10, 10, 100.0},
		{"ninety", 9, 10, 90.0},
		{"half", 5, 10, 50.0},
		{"exhausted", 0, 10, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStatusBar(theme)
			s.SetQuota(tc.remaining, tc.total)
			got := s.quotaPercent()
			if got != tc.want {
				t.Errorf("quotaPercent() with %d/%d = %f, want %f", tc.remaining, tc.total, got, tc.want)
			}
		})
	}
}

func TestStatusBarQuotaColor(t *testing.T) {
	theme := styles.NewTheme()
	s := NewStatusBar(theme)

	// The bar drains green -> amber -> red as quota is spent
	tests := []struct {
		name    string
		percent float64
		want    lipgloss.AdaptiveColor
	}{
		{"plenty left", 100.0, styles.SuccessHighContrast},
		{"above warning", 26.0, styles.SuccessHighContrast},
		{"at warning threshold", 25.0, styles.WarningHighContrast},
		{"low", 15.0, styles.WarningHighContrast},
		{"at critical threshold", 10.0, styles.ErrorHighContrast},
		{"nearly gone", 5.0, styles.ErrorHighContrast},
		{"exhausted", 0.0, styles.ErrorHighContrast},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.quotaColor(tc.percent)
			if got != tc.want {
				t.Errorf("quotaColor(%f) = %v, want %v", tc.percent, got, tc.want)
			}
		})
	}
}
