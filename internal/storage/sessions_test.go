// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sugarlabs/sugarai-tui/internal/model"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStoreWithDir() error: %v", err)
	}
	return store
}

func convWith(question, answer string) *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage(question)
	conv.AddAIMessage(answer)
	return conv
}

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage("How do I add a button to my Sugar activity?")
	conv.AddAIMessage("Use Gtk.Button and connect the clicked signal.")
	conv.AddUserMessage("What is the difference between lists and tuples in Python?")
	conv.AddAIMessage("Lists are mutable, tuples are not.")
	return conv
}

func TestSave_GeneratesUUID(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save("", "sk-test", sampleConversation())
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Save() generated id %q, want a UUID: %v", id, err)
	}
	if _, err := os.Stat(store.filePath(id)); err != nil {
		t.Errorf("session file missing after save: %v", err)
	}
}

func TestSave_CustomID(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save("my-session_01", "sk-test", sampleConversation())
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if id != "my-session_01" {
		t.Errorf("Save() id = %q, want my-session_01", id)
	}
}

func TestSave_RejectsUnsafeID(t *testing.T) {
	store := newTestStore(t)

	ids := []string{"../evil", "a/b", "dot.dot", "space id", strings.Repeat("x", 65)}
	for _, id := range ids {
		if _, err := store.Save(id, "sk", sampleConversation()); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidSessionID", id, err)
		}
	}
}

func TestSave_FileShape(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation()
	conv.AddSystemMessage("status line")
	conv.AddUserMessage("hello")
	conv.AddErrorMessage("transient failure banner")
	conv.AddAIMessage("hi there")

	id, err := store.Save("", "sk-shape", conv)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(store.filePath(id))
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}

	// Top level holds exactly api_key and conversation_history
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("session file is not valid JSON: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("session file has %d top-level fields, want 2", len(raw))
	}
	if _, ok := raw["api_key"]; !ok {
		t.Error("session file missing api_key field")
	}
	historyRaw, ok := raw["conversation_history"]
	if !ok {
		t.Fatal("session file missing conversation_history field")
	}

	// Only the user/ai exchange persists, each entry exactly {type, message}
	var entries []map[string]string
	if err := json.Unmarshal(historyRaw, &entries); err != nil {
		t.Fatalf("conversation_history is malformed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("stored %d entries, want 2 (system/error lines must not persist)", len(entries))
	}
	if entries[0]["type"] != "user" || entries[0]["message"] != "hello" {
		t.Errorf("entry 0 = %v, want user/hello", entries[0])
	}
	if entries[1]["type"] != "ai" || entries[1]["message"] != "hi there" {
		t.Errorf("entry 1 = %v, want ai/hi there", entries[1])
	}
	for i, entry := range entries {
		if len(entry) != 2 {
			t.Errorf("entry %d has %d fields, want 2", i, len(entry))
		}
	}
}

func TestSave_Permissions(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save("", "sk-secret", sampleConversation())
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(store.filePath(id))
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file permissions = %o, want 0600", perm)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	original := sampleConversation()
	id, err := store.Save("", "sk-round", original)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	conv, key, err := store.LoadConversation(id)
	if err != nil {
		t.Fatalf("LoadConversation() error: %v", err)
	}
	if key != "sk-round" {
		t.Errorf("restored key = %q, want sk-round", key)
	}

	got := conv.HistoryEntries()
	want := original.HistoryEntries()
	if len(got) != len(want) {
		t.Fatalf("restored %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Type != want[i].Type || got[i].Message != want[i].Message {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Load("does-not-exist"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load() error = %v, want ErrSessionNotFound", err)
	}
}

func TestLoad_RejectsUnsafeID(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Load("../../etc/passwd"); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("Load() error = %v, want ErrInvalidSessionID", err)
	}
	if err := store.Delete("../escape"); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("Delete() error = %v, want ErrInvalidSessionID", err)
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	idOld, _ := store.Save("", "k", convWith("oldest question", "a"))
	idMid, _ := store.Save("", "k", convWith("middle question", "b"))
	idNew, _ := store.Save("", "k", convWith("newest question", "c"))

	base := time.Now()
	os.Chtimes(store.filePath(idOld), base.Add(-2*time.Hour), base.Add(-2*time.Hour))
	os.Chtimes(store.filePath(idMid), base.Add(-1*time.Hour), base.Add(-1*time.Hour))
	os.Chtimes(store.filePath(idNew), base, base)

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("List() returned %d sessions, want 3", len(metas))
	}
	if metas[0].ID != idNew || metas[1].ID != idMid || metas[2].ID != idOld {
		t.Errorf("List() order = %s, %s, %s; want newest first", metas[0].ID, metas[1].ID, metas[2].ID)
	}
	if metas[0].EntryCount != 2 {
		t.Errorf("EntryCount = %d, want 2", metas[0].EntryCount)
	}
	if metas[0].Preview != "newest question" {
		t.Errorf("Preview = %q, want newest question", metas[0].Preview)
	}
}

func TestList_SkipsCorruptFiles(t *testing.T) {
	store := newTestStore(t)

	id, _ := store.Save("", "k", sampleConversation())
	if err := os.WriteFile(filepath.Join(store.BaseDir, "corrupt01.json"), []byte("{nope"), 0600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(metas) != 1 || metas[0].ID != id {
		t.Errorf("List() = %v, want only the valid session %s", metas, id)
	}
}

func TestLoadByIndex(t *testing.T) {
	store := newTestStore(t)

	idOld, _ := store.Save("", "k", convWith("old", "a"))
	idNew, _ := store.Save("", "k", convWith("new", "b"))

	base := time.Now()
	os.Chtimes(store.filePath(idOld), base.Add(-time.Hour), base.Add(-time.Hour))
	os.Chtimes(store.filePath(idNew), base, base)

	file, err := store.LoadByIndex(0)
	if err != nil {
		t.Fatalf("LoadByIndex(0) error: %v", err)
	}
	if file.Preview() != "new" {
		t.Errorf("LoadByIndex(0) preview = %q, want new", file.Preview())
	}

	if _, err := store.LoadByIndex(5); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("LoadByIndex(5) error = %v, want ErrSessionNotFound", err)
	}
	if _, err := store.LoadByIndex(-1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("LoadByIndex(-1) error = %v, want ErrSessionNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	id, _ := store.Save("", "k", sampleConversation())
	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load() after delete = %v, want ErrSessionNotFound", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete() = %v, want ErrSessionNotFound", err)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	store.Save("", "k", convWith("one", "a"))
	store.Save("", "k", convWith("two", "b"))

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("List() after clear has %d sessions, want 0", len(metas))
	}
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)

	store.Save("", "k", convWith("What is the difference between lists and tuples in Python?", "Lists are mutable."))
	store.Save("", "k", convWith("How do I use Pygame in a Sugar activity?", "Import pygame and create a surface."))

	results, err := store.Search("tuples")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search(tuples) returned %d sessions, want 1", len(results))
	}
	if !strings.Contains(results[0].Preview, "tuples") {
		t.Errorf("Search(tuples) preview = %q, want match", results[0].Preview)
	}

	// Case-insensitive, matches answers too
	results, err = store.Search("PYGAME")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Search(PYGAME) returned %d sessions, want 1", len(results))
	}

	// Empty query returns everything
	results, err = store.Search("")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search(\"\") returned %d sessions, want 2", len(results))
	}
}

func TestEnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxSessions = 0

	idOld, _ := store.Save("", "k", convWith("oldest", "a"))
	idMid, _ := store.Save("", "k", convWith("middle", "b"))

	base := time.Now()
	os.Chtimes(store.filePath(idOld), base.Add(-2*time.Hour), base.Add(-2*time.Hour))
	os.Chtimes(store.filePath(idMid), base.Add(-1*time.Hour), base.Add(-1*time.Hour))

	store.MaxSessions = 2
	if _, err := store.Save("", "k", convWith("newest", "c")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("List() has %d sessions after limit, want 2", len(metas))
	}
	if _, err := store.Load(idOld); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("oldest session still present, want it pruned")
	}
}

func TestExportMarkdown(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("sess-md", "k", sampleConversation()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	md, err := store.ExportMarkdown("sess-md")
	if err != nil {
		t.Fatalf("ExportMarkdown() error: %v", err)
	}

	for _, want := range []string{
		"# Sugar-AI Session sess-md",
		"**You**:",
		"**Sugar-AI**:",
		"Lists are mutable, tuples are not.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("ExportMarkdown() missing %q", want)
		}
	}

	if _, err := store.ExportMarkdown("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ExportMarkdown(missing) = %v, want ErrSessionNotFound", err)
	}
}

func TestFormatSessionList(t *testing.T) {
	if got := FormatSessionList(nil); got != "No sessions found." {
		t.Errorf("FormatSessionList(nil) = %q, want No sessions found.", got)
	}

	metas := []SessionMeta{
		{
			ID:         "abcdef1234567890",
			SavedAt:    time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
			EntryCount: 4,
			Preview:    "How do I add a button to my Sugar activity?",
		},
	}

	out := FormatSessionList(metas)
	if !strings.Contains(out, "Sessions:") {
		t.Error("FormatSessionList() missing header")
	}
	if !strings.Contains(out, "2026-03-01 10:30") {
		t.Errorf("FormatSessionList() missing timestamp, got:\n%s", out)
	}
	if !strings.Contains(out, "abcdef123") {
		t.Errorf("FormatSessionList() missing id column, got:\n%s", out)
	}
}
