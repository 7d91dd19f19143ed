// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import "strings"

// =============================================================================
// ASK MODE TYPE
// =============================================================================

// AskMode describes one of the backend query modes.
// This is used for mode selection and display in the UI.
type AskMode struct {
	// ID is the short identifier used in commands and flags
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// UseRAG selects the retrieval-augmented endpoint when true
	UseRAG bool `json:"use_rag"`

	// Description is a brief explanation of what the mode returns
	Description string `json:"description"`
}

// =============================================================================
// MODE REGISTRY
// =============================================================================

// Modes is the registry of known query modes with their metadata.
var Modes = map[string]AskMode{
	"rag": {
		ID:          "rag",
		Name:        "RAG",
		UseRAG:      true,
		Description: "Answers grounded in the Sugar Labs documentation corpus",
	},
	"llm": {
		ID:          "llm",
		Name:        "Direct LLM",
		UseRAG:      false,
		Description: "Raw model output without document retrieval",
	},
}

// DefaultMode returns the mode used when none is selected.
// Retrieval-augmented answers are the default because they cite the
// Sugar toolkit documentation kids are actually working against.
func DefaultMode() AskMode {
	return Modes["rag"]
}

// =============================================================================
// MODE LOOKUP FUNCTIONS
// =============================================================================

// GetMode looks up a mode by ID or display name.
// Returns the AskMode and true if found, otherwise empty AskMode and false.
func GetMode(nameOrID string) (AskMode, bool) {
	// Try direct lookup by ID
	if mode, ok := Modes[nameOrID]; ok {
		return mode, true
	}

	// Try case-insensitive match on ID or name
	lower := strings.ToLower(nameOrID)
	for _, mode := range Modes {
		if strings.ToLower(mode.ID) == lower || strings.ToLower(mode.Name) == lower {
			return mode, true
		}
	}

	return AskMode{}, false
}

// ModeFor returns the mode matching the given RAG preference.
func ModeFor(useRAG bool) AskMode {
	if useRAG {
		return Modes["rag"]
	}
	return Modes["llm"]
}

// ModeIDs returns the IDs of all registered modes.
func ModeIDs() []string {
	ids := make([]string, 0, len(Modes))
	for id := range Modes {
		ids = append(ids, id)
	}
	return ids
}
