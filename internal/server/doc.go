// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package server implements a local stand-in for the Sugar-AI service.
//
// The emulator speaks the same wire contract as the hosted service, so
// the client can be developed, demonstrated, and failure-tested without
// network access or a real API key. Answers come from a small canned
// set keyed on Sugar topics.
//
// # Endpoints
//
//   - POST /ask      - retrieval-augmented answer (question query param)
//   - POST /ask-llm  - direct model answer (question query param)
//   - GET  /health   - health check (open)
//   - GET  /stats    - usage statistics (open)
//
// Successful answers are JSON objects with an "answer" field and,
// when quota accounting is on, a "quota" object carrying "remaining"
// and "total". Errors use a JSON envelope with a "detail" field.
//
// # Behavior Knobs
//
//   - Per-key question quota with a shrinking "remaining" count;
//     an exhausted key gets 429
//   - Per-key request rate limit (token bucket), 429 when exceeded
//   - API key allowlist; by default any non-empty X-API-Key passes
//   - Fault injection: permanent 503, first-N 504s, added latency
//
// # Key Types
//
//   - Server: the emulator with its router and middleware chain
//   - FaultConfig: failure injection flags
//   - KeyAuthConfig: X-API-Key acceptance rules
//   - KeyLimiter: per-key token bucket rate limiter
//
// # Usage
//
//	srv := server.NewServer("127.0.0.1", 8080).
//		WithQuota(10).
//		WithRateLimit(30)
//	if err := srv.Start(); err != http.ErrServerClosed {
//		log.Fatal(err)
//	}
package server
