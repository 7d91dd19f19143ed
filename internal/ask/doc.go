// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package ask owns the question-submission workflow and its retry loop.
//
// A question goes through a bounded-retry state machine: up to three
// attempts against the Sugar-AI service, with 60 and 120 second waits
// before the second and third. Timeout-class failures (HTTP 504, client
// timeout) are retried; everything else (auth, rate limit, 503,
// connection failure, unknown HTTP status, internal fault) terminates
// the loop with a single error notice. Whatever happens, the loop's
// last act is exactly one input-reenabled notification.
//
// # Key Types
//
//   - Orchestrator: the retry state machine, one question in flight at a time
//   - Notifier: ordered UI-facing notifications emitted by the loop
//   - Transport: one attempt against the service (satisfied by sugarai.Client)
//
// # Usage
//
// Wire a client and a notifier, then submit:
//
//	orch := ask.New(sugarai.NewClient(key), notifier)
//	if err := orch.Submit(question, true); err != nil {
//	    // precondition failure, nothing was started
//	}
//
// All notices a learner can read live in messages.go, shared by every
// front end.
package ask
