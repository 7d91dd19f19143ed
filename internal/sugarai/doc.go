// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package sugarai provides the HTTP client for the Sugar-AI assistant API.
//
// Sugar-AI is the Sugar Labs hosted assistant that answers programming
// questions for kids building Sugar activities. This package implements
// the client side of its two ask endpoints and classifies every failure
// so callers can decide whether to retry.
//
// # Key Types
//
//   - Client: HTTP client for the ask endpoints with TLS and pooling
//   - Answer: Successful reply with answer text and optional quota
//   - Quota: Remaining/total question counts, "Unknown" when unreported
//   - APIError: Unmapped HTTP error with status and body snippet
//
// # Usage
//
// Create a client and ask a question:
//
//	client := sugarai.NewClient(apiKey)
//	answer, err := client.Ask(ctx, "How do I add a button?", true)
//	if errors.Is(err, sugarai.ErrGatewayTimeout) {
//	    // retryable, the upstream model timed out
//	}
//
// # Security
//
// API keys are never logged. Log lines carry a SHA-256 fingerprint
// instead, and all requests use TLS 1.2+.
package sugarai
