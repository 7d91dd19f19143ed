// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package components provides UI components for the Sugar-AI TUI.
package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sugarlabs/sugarai-tui/internal/ui/styles"
)

// =============================================================================
// EXAMPLE QUESTIONS
// =============================================================================

func TestExampleQuestions(t *testing.T) {
	// The starter questions are part of the product text; /examples and
	// the welcome screen both show exactly these.
	want := []string{
		"How do I create a Sugar activity with GTK4?",
		"What is the difference between lists and tuples in Python?",
		"How do I add a button to my Sugar activity?",
		"How do I use Pygame in a Sugar activity?",
	}

	if len(ExampleQuestions) != len(want) {
		t.Fatalf("ExampleQuestions has %d entries, want %d", len(ExampleQuestions), len(want))
	}

	for i, q := range want {
		if ExampleQuestions[i] != q {
			t.Errorf("ExampleQuestions[%d] = %q, want %q", i, ExampleQuestions[i], q)
		}
	}
}

// =============================================================================
// WELCOME TESTS
// =============================================================================

func TestNewWelcome(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	if w.version != "dev" {
		t.Errorf("NewWelcome() version = %q, want %q", w.version, "dev")
	}

	if w.serverURL != "ai.sugarlabs.org" {
		t.Errorf("NewWelcome() serverURL = %q, want %q", w.serverURL, "ai.sugarlabs.org")
	}

	if w.keyConfigured {
		t.Error("NewWelcome() keyConfigured should be false")
	}

	if !w.ragEnabled {
		t.Error("NewWelcome() ragEnabled should be true")
	}
}

func TestWelcomeSetVersion(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	w.SetVersion("0.3.0")
	if w.version != "0.3.0" {
		t.Errorf("SetVersion(%q) version = %q, want %q", "0.3.0", w.version, "0.3.0")
	}
}

func TestWelcomeSetServerURL(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	url := "localhost:8000"
	w.SetServerURL(url)
	if w.serverURL != url {
		t.Errorf("SetServerURL(%q) serverURL = %q, want %q", url, w.serverURL, url)
	}
}

func TestWelcomeSetKeyConfigured(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	w.SetKeyConfigured(true)
	if !w.keyConfigured {
		t.Error("SetKeyConfigured(true) did not set key state")
	}
}

func TestWelcomeSetRAGEnabled(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	w.SetRAGEnabled(false)
	if w.ragEnabled {
		t.Error("SetRAGEnabled(false) did not clear RAG mode")
	}
}

func TestWelcomeSetSize(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	w.SetSize(100, 30)
	if w.width != 100 || w.height != 30 {
		t.Errorf("SetSize(100, 30) size = %dx%d, want 100x30", w.width, w.height)
	}
}

func TestWelcomeInit(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	if cmd := w.Init(); cmd != nil {
		t.Error("Init() should return nil")
	}
}

func TestWelcomeUpdate(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	updated, cmd := w.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if cmd != nil {
		t.Error("Update() should return nil command")
	}

	if updated.width != 100 || updated.height != 30 {
		t.Errorf("Update(WindowSizeMsg) size = %dx%d, want 100x30", updated.width, updated.height)
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestWelcomeView(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 24)

	view := w.View()
	if view == "" {
		t.Error("View() should return non-empty string")
	}

	if !strings.Contains(view, "Sugar Labs coding assistant") {
		t.Error("View() should contain the version subtitle")
	}

	if !strings.Contains(view, "Try asking:") {
		t.Error("View() should contain the starter question header")
	}

	if !strings.Contains(view, "GTK4") {
		t.Error("View() should contain the starter questions")
	}

	if !strings.Contains(view, "ai.sugarlabs.org") {
		t.Error("View() should contain the server host")
	}
}

func TestWelcomeViewDefaultSize(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	// Zero size falls back to 80x24
	view := w.View()
	if view == "" {
		t.Error("View() should handle zero size gracefully")
	}

	if !strings.Contains(view, "Try asking:") {
		t.Error("View() at default size should show starter questions")
	}
}

func TestWelcomeViewKeyMissing(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 24)

	view := w.View()

	if !strings.Contains(view, "not set") {
		t.Error("View() should show key missing indicator")
	}

	// The setup hint is surfaced on the welcome screen itself
	if !strings.Contains(view, KeyStateMissing) {
		t.Error("View() should contain the setup hint when no key is stored")
	}
}

func TestWelcomeViewKeyConfigured(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 24)
	w.SetKeyConfigured(true)

	view := w.View()

	if !strings.Contains(view, "configured") {
		t.Error("View() should show key configured indicator")
	}

	if strings.Contains(view, KeyStateMissing) {
		t.Error("View() should not show the setup hint when a key is stored")
	}
}

func TestWelcomeViewModeIndicator(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 24)

	view := w.View()
	if !strings.Contains(view, "RAG") {
		t.Error("View() should show RAG mode by default")
	}

	w.SetRAGEnabled(false)
	view = w.View()
	if !strings.Contains(view, "LLM") {
		t.Error("View() should show LLM mode when RAG is disabled")
	}
}

func TestWelcomeViewNarrow(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(39, 24)

	view := w.View()
	if view == "" {
		t.Error("View() should handle narrow terminals")
	}

	// Very narrow terminals get the one-line text logo
	if !strings.Contains(view, "Sugar-AI Chat") {
		t.Error("View() should fall back to the simple logo on narrow terminals")
	}
}

func TestWelcomeViewMediumNarrow(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(50, 24)

	view := w.View()

	// 40-59 columns get the boxed compact logo instead of the ASCII art
	if !strings.Contains(view, "Sugar-AI") {
		t.Error("View() should contain the compact logo")
	}
}

func TestWelcomeViewShortHeight(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 12)

	view := w.View()
	if view == "" {
		t.Error("View() should handle short terminals")
	}

	// Starter questions are dropped when there is no room for them
	if strings.Contains(view, "Try asking:") {
		t.Error("View() should drop starter questions on short terminals")
	}
}

func TestWelcomeViewVeryShortHeight(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 8)

	view := w.View()
	if view == "" {
		t.Error("View() should handle very short terminals")
	}
}

// =============================================================================
// LOGO AND SHORTCUT TESTS
// =============================================================================

func TestCompactLogo(t *testing.T) {
	logo := CompactLogo()
	if logo == "" {
		t.Error("CompactLogo() should return non-empty string")
	}

	if !strings.Contains(logo, "Sugar-AI") {
		t.Error("CompactLogo() should contain the product name")
	}
}

func TestSimpleLogo(t *testing.T) {
	logo := SimpleLogo()
	if logo == "" {
		t.Error("SimpleLogo() should return non-empty string")
	}

	if !strings.Contains(logo, "Sugar-AI Chat") {
		t.Error("SimpleLogo() should contain the product name")
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	help := KeyboardShortcuts()
	if help == "" {
		t.Error("KeyboardShortcuts() should return non-empty string")
	}

	if !strings.Contains(help, "Keyboard Shortcuts") {
		t.Error("KeyboardShortcuts() should contain a title")
	}

	wantEntries := []string{
		"Enter",
		"Ctrl+C",
		"Ctrl+R",
		"Toggle RAG mode",
		"Ctrl+L",
		"Clear conversation",
		"/help",
	}

	for _, entry := range wantEntries {
		if !strings.Contains(help, entry) {
			t.Errorf("KeyboardShortcuts() should contain %q", entry)
		}
	}
}

func TestWelcomeOverlay(t *testing.T) {
	overlay := WelcomeOverlay(80, 24, "0.3.0")
	if overlay == "" {
		t.Error("WelcomeOverlay() should return non-empty string")
	}

	if !strings.Contains(overlay, "0.3.0") {
		t.Error("WelcomeOverlay() should contain the version")
	}
}
