// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, messages, and query modes.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with role, content, and timestamp
//   - HistoryEntry: Persisted form of an exchange line in a session file
//   - Role: Message role enumeration (user, ai, system, error)
//   - AskMode: Information about a backend query mode (RAG or direct LLM)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("How do I add a button to my Sugar activity?")
//	conv.AddAIMessage("Use Gtk.Button and connect its clicked signal.")
//
// Persist only the real exchange (system notices and errors are skipped):
//
//	entries := conv.HistoryEntries()
//
// Work with query modes:
//
//	mode := model.ModeFor(true)
//	fmt.Printf("Mode: %s (%s)\n", mode.Name, mode.Description)
package model
