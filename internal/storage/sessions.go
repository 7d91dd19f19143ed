// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sugarlabs/sugarai-tui/internal/config"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/util"
)

// =============================================================================
// SESSION FILE TYPE
// =============================================================================

// SessionFile is the exact on-disk shape of a saved session:
//
//	{"api_key": "<string>", "conversation_history": [{"type": "user"|"ai", "message": "..."}]}
//
// Entries appear in transcript order. Only user and ai lines are stored;
// system notices and error banners never persist.
type SessionFile struct {
	APIKey              string               `json:"api_key"`
	ConversationHistory []model.HistoryEntry `json:"conversation_history"`
}

// EntryCount returns the number of stored history entries.
func (f *SessionFile) EntryCount() int {
	return len(f.ConversationHistory)
}

// Preview returns the first user entry truncated for display.
func (f *SessionFile) Preview() string {
	for _, entry := range f.ConversationHistory {
		if entry.Type == model.RoleUser.String() && entry.Message != "" {
			return util.TruncateRunes(strings.ReplaceAll(entry.Message, "\n", " "), 80)
		}
	}
	return ""
}

// ExportJSON exports the session as pretty-printed JSON.
func (f *SessionFile) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// SessionMeta contains metadata for listing sessions. The session file
// format carries no timestamps, so SavedAt comes from file modification
// time.
type SessionMeta struct {
	ID         string    `json:"id"`
	SavedAt    time.Time `json:"saved_at"`
	EntryCount int       `json:"entry_count"`
	Preview    string    `json:"preview"`
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore handles session persistence.
type SessionStore struct {
	// BaseDir is the directory for storing sessions.
	// Default: ~/.sugarai/sessions/
	BaseDir string

	// MaxSessions limits stored sessions (0 = unlimited)
	MaxSessions int
}

// NewSessionStore creates a session store rooted at the config directory.
func NewSessionStore() (*SessionStore, error) {
	dir, err := config.SessionsDir()
	if err != nil {
		return nil, err
	}
	return NewSessionStoreWithDir(dir)
}

// NewSessionStoreWithDir creates a store with a custom directory.
// SECURITY: The directory is created 0700 because session files carry the API key.
func NewSessionStoreWithDir(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}

	return &SessionStore{
		BaseDir:     baseDir,
		MaxSessions: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation under the given session ID and returns the
// ID. An empty ID gets a generated UUID. Ephemeral messages are dropped by
// the history conversion, so the stored entries are exactly the user/ai
// exchange in order.
func (s *SessionStore) Save(id, apiKey string, conv *model.Conversation) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if !isValidSessionID(id) {
		return "", ErrInvalidSessionID
	}

	file := SessionFile{
		APIKey:              apiKey,
		ConversationHistory: conv.HistoryEntries(),
	}

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return "", err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	// SECURITY: 0600 because the file carries the API key
	if err := util.AtomicWriteFile(s.filePath(id), data, 0600); err != nil {
		return "", err
	}

	if s.MaxSessions > 0 {
		s.enforceLimit()
	}

	return id, nil
}

// enforceLimit removes the oldest sessions if over limit.
func (s *SessionStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxSessions {
		return
	}

	// Sort by save time (oldest first)
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].SavedAt.Before(metas[j].SavedAt)
	})

	excess := len(metas) - s.MaxSessions
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a session by ID.
func (s *SessionStore) Load(id string) (*SessionFile, error) {
	if !isValidSessionID(id) {
		return nil, ErrInvalidSessionID
	}

	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var file SessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// LoadConversation loads a session and rebuilds the transcript in stored
// order. It returns the conversation and the API key stored with it.
func (s *SessionStore) LoadConversation(id string) (*model.Conversation, string, error) {
	file, err := s.Load(id)
	if err != nil {
		return nil, "", err
	}

	conv := model.NewConversation()
	conv.RestoreHistory(file.ConversationHistory)
	return conv, file.APIKey, nil
}

// LoadByIndex loads a session by its index in the list (0 = most recent).
func (s *SessionStore) LoadByIndex(index int) (*SessionFile, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrSessionNotFound
	}

	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved sessions (most recent first).
func (s *SessionStore) List() ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMeta{}, nil
		}
		return nil, err
	}

	var metas []SessionMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		if !isValidSessionID(id) {
			continue
		}

		file, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		savedAt := time.Time{}
		if info, err := entry.Info(); err == nil {
			savedAt = info.ModTime()
		}

		metas = append(metas, SessionMeta{
			ID:         id,
			SavedAt:    savedAt,
			EntryCount: file.EntryCount(),
			Preview:    file.Preview(),
		})
	}

	// Sort by save time (most recent first)
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].SavedAt.After(metas[j].SavedAt)
	})

	return metas, nil
}

// Search finds sessions whose stored messages contain the query string
// (case-insensitive). An empty query returns everything.
func (s *SessionStore) Search(query string) ([]SessionMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	query = strings.ToLower(query)
	var results []SessionMeta

	for _, meta := range all {
		file, err := s.Load(meta.ID)
		if err != nil {
			continue
		}

		for _, entry := range file.ConversationHistory {
			if strings.Contains(strings.ToLower(entry.Message), query) {
				results = append(results, meta)
				break
			}
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a session by ID.
func (s *SessionStore) Delete(id string) error {
	if !isValidSessionID(id) {
		return ErrInvalidSessionID
	}

	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return err
	}

	return nil
}

// Clear removes all saved sessions.
func (s *SessionStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}

	return nil
}

// =============================================================================
// SESSION EXPORT
// =============================================================================

// ExportMarkdown renders a stored session as Markdown with You/Sugar-AI
// role labels.
func (s *SessionStore) ExportMarkdown(id string) (string, error) {
	file, err := s.Load(id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Sugar-AI Session " + id + "\n\n")
	if info, statErr := os.Stat(s.filePath(id)); statErr == nil {
		sb.WriteString("Saved: " + info.ModTime().Format(time.RFC3339) + "\n\n")
	}
	sb.WriteString("---\n\n")

	for _, entry := range file.ConversationHistory {
		label := model.Role(entry.Type).DisplayName()
		sb.WriteString("**" + label + "**:\n\n")
		sb.WriteString(entry.Message)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String(), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a session ID.
func (s *SessionStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// isValidSessionID reports whether id is safe to use as a file name.
// SECURITY: IDs arrive from user input (chat --resume, /resume), so they
// must never escape the sessions directory.
func isValidSessionID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &SessionError{Message: "session not found"}

// ErrInvalidSessionID is returned for IDs that are unsafe as file names.
var ErrInvalidSessionID = &SessionError{Message: "invalid session id"}

// SessionError represents a session storage error.
// It implements the error interface and can be compared using errors.Is.
type SessionError struct {
	Message string
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing session errors.
func (e *SessionError) Is(target error) bool {
	t, ok := target.(*SessionError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList formats sessions as a plain table for terminal output.
// The index column is 1-based with the most recent session first, matching
// the references accepted by resume and the sessions subcommands.
func FormatSessionList(sessions []SessionMeta) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("--------------------------------------------------------\n")
	sb.WriteString(util.PadRight("#", 3) + " " + util.PadRight("ID", 12) + " " + util.PadRight("Saved", 20) + " " + util.PadRight("Entries", 8) + " Preview\n")
	sb.WriteString("--------------------------------------------------------\n")

	for i, meta := range sessions {
		idStr := util.TruncateRunes(meta.ID, 12)
		savedStr := meta.SavedAt.Format("2006-01-02 15:04")
		countStr := strconv.Itoa(meta.EntryCount)
		preview := util.TruncateRunes(meta.Preview, 30)

		sb.WriteString(util.PadRight(strconv.Itoa(i+1), 3) + " " +
			util.PadRight(idStr, 12) + " " +
			util.PadRight(savedStr, 20) + " " +
			util.PadRight(countStr, 8) + " " +
			preview + "\n")
	}
	return sb.String()
}
