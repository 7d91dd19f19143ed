// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package storage provides session persistence for sugarai.
//
// A saved session is a single JSON file holding the API key and the
// conversation history:
//
//	{"api_key": "<string>", "conversation_history": [{"type": "user", "message": "..."}, ...]}
//
// Entries keep transcript order, and only user/ai lines are written;
// system notices and error banners are never persisted. Loading a session
// rebuilds the transcript from the entries in stored order.
//
// # Key Types
//
//   - SessionStore: save, load, list, search, delete and export sessions
//   - SessionFile: the exact on-disk session shape
//   - SessionMeta: lightweight metadata for listing
//
// # Usage
//
// Save and restore a conversation:
//
//	store, err := storage.NewSessionStore()
//	id, err := store.Save("", cfg.APIKey, conversation)
//	conv, key, err := store.LoadConversation(id)
//
// List sessions, most recent first:
//
//	metas, err := store.List()
//
// # Storage Location
//
// Sessions are stored in ~/.sugarai/sessions/ as JSON files named by
// their UUID.
package storage
