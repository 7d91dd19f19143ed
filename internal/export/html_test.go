// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package export

import (
	"strings"
	"testing"
	"time"

	"github.com/sugarlabs/sugarai-tui/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testTranscript() *Transcript {
	return &Transcript{
		ID:      "sugarai-20260815-120000",
		SavedAt: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
		Entries: []model.HistoryEntry{
			{Type: "user", Message: "How do I draw a circle in Turtle Art?"},
			{Type: "ai", Message: "Use the arc block with equal angles."},
		},
	}
}

func exportString(t *testing.T, tr *Transcript) string {
	t.Helper()
	buf, err := NewHTMLExporter(nil).Export(tr)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	return string(buf)
}

// =============================================================================
// EXPORT TESTS
// =============================================================================

func TestExportCompletePage(t *testing.T) {
	page := exportString(t, testTranscript())

	for _, want := range []string{
		"<!DOCTYPE html>",
		"</html>",
		"<style>",
		"toggleTheme",
		"sugarai-20260815-120000",
		"How do I draw a circle in Turtle Art?",
		"Use the arc block with equal angles.",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestExportRoleLabels(t *testing.T) {
	page := exportString(t, testTranscript())

	if !strings.Contains(page, model.RoleUser.DisplayName()) {
		t.Error("page should label the question with the user display name")
	}
	if !strings.Contains(page, model.RoleAI.DisplayName()) {
		t.Error("page should label the answer with the AI display name")
	}
	if !strings.Contains(page, "user-message") || !strings.Contains(page, "ai-message") {
		t.Error("page should carry role classes for styling")
	}
}

func TestExportTitleFromFirstQuestion(t *testing.T) {
	page := exportString(t, testTranscript())
	if !strings.Contains(page, "<title>How do I draw a circle in Turtle Art?</title>") {
		t.Error("title should come from the first question")
	}
}

func TestExportExplicitTitleWins(t *testing.T) {
	tr := testTranscript()
	tr.Title = "Circle lesson"
	page := exportString(t, tr)
	if !strings.Contains(page, "<title>Circle lesson</title>") {
		t.Error("an explicit title should override the derived one")
	}
}

func TestExportEscapesContent(t *testing.T) {
	tr := testTranscript()
	tr.Entries = []model.HistoryEntry{
		{Type: "user", Message: `<script>alert("boom")</script>`},
		{Type: "ai", Message: "Tags like <b> are just text here."},
	}

	page := exportString(t, tr)
	if strings.Contains(page, `<script>alert`) {
		t.Error("message content must be escaped, found a live script tag")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Error("escaped form of the script tag should appear")
	}
	if strings.Contains(page, "<b>") {
		t.Error("inline tags in answers must be escaped")
	}
}

func TestExportCodeBlocks(t *testing.T) {
	tr := testTranscript()
	tr.Entries = []model.HistoryEntry{
		{Type: "user", Message: "Show me a loop"},
		{Type: "ai", Message: "Here you go:\n```python\nfor i in range(4):\n    print(i)\n```\nThat prints four numbers."},
	}

	page := exportString(t, tr)
	if !strings.Contains(page, `<div class="code-lang">python</div>`) {
		t.Error("fenced block should carry its language label")
	}
	if !strings.Contains(page, "<pre><code>for i in range(4):") {
		t.Error("fenced code should render inside pre/code")
	}
	if strings.Contains(page, "```") {
		t.Error("no raw fences should survive")
	}
	if !strings.Contains(page, "That prints four numbers.") {
		t.Error("text after the fence should remain")
	}
}

func TestExportInlineCode(t *testing.T) {
	tr := testTranscript()
	tr.Entries = []model.HistoryEntry{
		{Type: "ai", Message: "Call `print()` to show text."},
	}

	page := exportString(t, tr)
	if !strings.Contains(page, `<code class="inline-code">print()</code>`) {
		t.Error("backtick spans should become inline code")
	}
}

func TestExportParagraphs(t *testing.T) {
	tr := testTranscript()
	tr.Entries = []model.HistoryEntry{
		{Type: "ai", Message: "First paragraph.\n\nSecond paragraph."},
	}

	page := exportString(t, tr)
	if strings.Count(page, "<p>First paragraph.</p>") != 1 {
		t.Error("blank lines should split paragraphs")
	}
	if !strings.Contains(page, "<p>Second paragraph.</p>") {
		t.Error("second paragraph should render on its own")
	}
}

func TestExportValidation(t *testing.T) {
	exporter := NewHTMLExporter(nil)

	if _, err := exporter.Export(nil); err == nil {
		t.Error("nil transcript should error")
	}
	if _, err := exporter.Export(&Transcript{ID: "empty"}); err == nil {
		t.Error("empty transcript should error")
	}
}

func TestExportThemes(t *testing.T) {
	light := exportString(t, testTranscript())
	if !strings.Contains(light, `<body class="light-theme">`) {
		t.Error("default theme should be light")
	}

	buf, err := NewHTMLExporter(&Options{Theme: "dark"}).Export(testTranscript())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(string(buf), `<body class="dark-theme">`) {
		t.Error("dark option should set the dark theme class")
	}

	buf, err = NewHTMLExporter(&Options{Theme: "sparkly"}).Export(testTranscript())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(string(buf), `<body class="light-theme">`) {
		t.Error("unknown themes should fall back to light")
	}
}

func TestExportOmitsZeroDate(t *testing.T) {
	tr := testTranscript()
	tr.SavedAt = time.Time{}

	page := exportString(t, tr)
	if strings.Contains(page, `name="date"`) {
		t.Error("zero SavedAt should drop the date meta tag")
	}
	if strings.Contains(page, "<strong>Saved:</strong>") {
		t.Error("zero SavedAt should drop the saved line")
	}
}

func TestFileExtensionAndMimeType(t *testing.T) {
	exporter := NewHTMLExporter(nil)
	if exporter.FileExtension() != ".html" {
		t.Errorf("FileExtension() = %q, want .html", exporter.FileExtension())
	}
	if exporter.MimeType() != "text/html" {
		t.Errorf("MimeType() = %q, want text/html", exporter.MimeType())
	}
}

func TestDisplayTitleTruncatesLongQuestions(t *testing.T) {
	tr := &Transcript{
		Entries: []model.HistoryEntry{
			{Type: "user", Message: strings.Repeat("why ", 40)},
		},
	}
	title := tr.DisplayTitle()
	if len([]rune(title)) > 50 {
		t.Errorf("title %q too long (%d runes)", title, len([]rune(title)))
	}
	if !strings.HasSuffix(title, "...") {
		t.Errorf("long titles should end in ..., got %q", title)
	}
}

func TestDisplayTitleFallback(t *testing.T) {
	tr := &Transcript{
		Entries: []model.HistoryEntry{{Type: "ai", Message: "An orphan answer."}},
	}
	if got := tr.DisplayTitle(); got != "Sugar-AI conversation" {
		t.Errorf("DisplayTitle() = %q, want the fallback", got)
	}
}
