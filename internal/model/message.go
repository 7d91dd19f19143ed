// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
	RoleError  Role = "error"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAI:
		return "Sugar-AI"
	case RoleSystem:
		return "System"
	case RoleError:
		return "Error"
	default:
		return string(r)
	}
}

// Ephemeral reports whether messages with this role are display-only.
// System notices and error banners are shown in the transcript but are
// never written to session files.
func (r Role) Ephemeral() bool {
	return r == RoleSystem || r == RoleError
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAIMessage creates a new Sugar-AI answer message.
func NewAIMessage(content string) *Message {
	return NewMessage(RoleAI, content)
}

// NewSystemMessage creates a new system notice message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewErrorMessage creates a new error banner message.
func NewErrorMessage(content string) *Message {
	return NewMessage(RoleError, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// TranscriptLine renders the message the way it appears in a plain-text
// transcript. User and AI lines carry a speaker prefix, error lines an
// "Error: " prefix, and system notices are bracketed.
func (m *Message) TranscriptLine() string {
	switch m.Role {
	case RoleUser:
		return "You: " + m.Content
	case RoleAI:
		return "Sugar-AI: " + m.Content
	case RoleError:
		return "Error: " + m.Content
	case RoleSystem:
		return "[" + m.Content + "]"
	default:
		return m.Content
	}
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
