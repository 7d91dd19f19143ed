// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package ask owns the question-submission workflow and its retry loop.
package ask

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/sugarlabs/sugarai-tui/internal/sugarai"
)

// Retry budget for transient failures.
const (
	// MaxRetries is the total number of attempts per question.
	MaxRetries = 3
)

// RetryDelays are the waits before attempt 2 and attempt 3. The last
// slot is never consumed: after the final attempt there is nothing
// left to wait for.
var RetryDelays = []time.Duration{
	60 * time.Second,
	120 * time.Second,
	180 * time.Second,
}

// Precondition errors. These are returned synchronously from Submit;
// nothing is notified and no background work starts.
var (
	// ErrEmptyQuestion indicates the question was empty after trimming.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrMissingAPIKey indicates no API key is configured.
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrRequestInFlight indicates a question is already being processed.
	ErrRequestInFlight = errors.New("a request is already in flight")
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Transport performs one attempt against the Sugar-AI service.
// *sugarai.Client satisfies it.
type Transport interface {
	IsConfigured() bool
	Ask(ctx context.Context, question string, useRAG bool) (*sugarai.Answer, error)
}

// Notifier receives the orchestration's UI-facing notifications.
//
// Calls arrive from a background goroutine, one at a time, in the
// exact order the retry loop emitted them. Implementations that drive
// a UI must marshal each call onto their UI loop without reordering.
// OnInputReenabled is called exactly once per accepted submission, as
// the final notification, on every path out of the loop.
type Notifier interface {
	// OnWaiting announces an upcoming wait before the next attempt.
	OnWaiting(message string)

	// OnRetrying carries retry progress notices, both the "will retry"
	// note after a transient failure and the "retrying now" note after
	// the wait completes.
	OnRetrying(message string)

	// OnQuota reports the remaining question quota after a successful
	// answer. Values may be the literal "Unknown".
	OnQuota(remaining, total string)

	// OnAnswer delivers the assistant's answer.
	OnAnswer(text string)

	// OnError delivers a terminal failure notice.
	OnError(message string)

	// OnInputReenabled releases the UI from its disabled state.
	OnInputReenabled()
}

// =============================================================================
// OUTCOME CLASSIFICATION
// =============================================================================

// outcomeKind tags one attempt's result for the retry decision table.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeAuthError
	outcomeRateLimited
	outcomeServiceUnavailable
	outcomeGatewayTimeout
	outcomeTimeout
	outcomeConnectionError
	outcomeOtherHTTP
	outcomeUnexpected
)

// String returns the kind name for logging.
func (k outcomeKind) String() string {
	switch k {
	case outcomeSuccess:
		return "success"
	case outcomeAuthError:
		return "auth_error"
	case outcomeRateLimited:
		return "rate_limited"
	case outcomeServiceUnavailable:
		return "service_unavailable"
	case outcomeGatewayTimeout:
		return "gateway_timeout"
	case outcomeTimeout:
		return "timeout"
	case outcomeConnectionError:
		return "connection_error"
	case outcomeOtherHTTP:
		return "other_http"
	default:
		return "unexpected"
	}
}

// retryable reports whether the kind is eligible for another attempt.
// Only the two timeout classes are: the service is known to take
// minutes under load, so timeouts are worth waiting out. A 503 is the
// service saying it is down, not busy, and is left terminal.
func (k outcomeKind) retryable() bool {
	return k == outcomeGatewayTimeout || k == outcomeTimeout
}

// classify maps a transport error to its outcome kind.
func classify(err error) outcomeKind {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, sugarai.ErrAuthFailed):
		return outcomeAuthError
	case errors.Is(err, sugarai.ErrRateLimited):
		return outcomeRateLimited
	case errors.Is(err, sugarai.ErrServiceUnavailable):
		return outcomeServiceUnavailable
	case errors.Is(err, sugarai.ErrGatewayTimeout):
		return outcomeGatewayTimeout
	case errors.Is(err, sugarai.ErrTimeout):
		return outcomeTimeout
	case errors.Is(err, sugarai.ErrConnection):
		return outcomeConnectionError
	}

	var apiErr *sugarai.APIError
	if errors.As(err, &apiErr) {
		return outcomeOtherHTTP
	}

	return outcomeUnexpected
}

// terminalNotice renders the error message for a non-retryable kind.
func terminalNotice(kind outcomeKind, err error) string {
	switch kind {
	case outcomeAuthError:
		return InvalidKeyNotice
	case outcomeRateLimited:
		return RateLimitNotice
	case outcomeServiceUnavailable:
		return ServiceUnavailableNotice
	case outcomeConnectionError:
		return ConnectionErrorNotice
	case outcomeOtherHTTP:
		// *sugarai.APIError renders as "API error <code>: <body>"
		var apiErr *sugarai.APIError
		errors.As(err, &apiErr)
		return apiErr.Error()
	default:
		return fmt.Sprintf(unexpectedErrorFormat, err)
	}
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs the bounded-retry loop for one question at a time.
// A second Submit while a question is in flight is rejected.
type Orchestrator struct {
	transport Transport
	notifier  Notifier

	// sleep is swapped out in tests so retry waits take no real time.
	sleep func(time.Duration)

	mu       sync.Mutex
	inFlight bool
}

// New creates an orchestrator driving the given transport and notifier.
func New(transport Transport, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		transport: transport,
		notifier:  notifier,
		sleep:     time.Sleep,
	}
}

// WithSleepFunc replaces the inter-attempt sleep. Tests use this to
// record requested delays instead of waiting them out.
func (o *Orchestrator) WithSleepFunc(sleep func(time.Duration)) *Orchestrator {
	o.sleep = sleep
	return o
}

// InFlight reports whether a question is currently being processed.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Submit validates the question and starts the retry loop in the
// background. The three precondition failures are returned
// synchronously and emit no notifications:
//
//   - ErrEmptyQuestion: nothing to ask after trimming whitespace
//   - ErrMissingAPIKey: no credential configured
//   - ErrRequestInFlight: a previous question is still being processed
//
// On a nil return the caller will receive notifications in order and,
// last of all, exactly one OnInputReenabled.
func (o *Orchestrator) Submit(question string, useRAG bool) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	if !o.transport.IsConfigured() {
		return ErrMissingAPIKey
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return ErrRequestInFlight
	}
	o.inFlight = true
	o.mu.Unlock()

	go o.run(question, useRAG)
	return nil
}

// run is the retry state machine. It owns the background goroutine for
// one orchestration: every blocking operation (attempts, inter-attempt
// sleeps) happens here, never on the caller's goroutine.
func (o *Orchestrator) run(question string, useRAG bool) {
	// Registered first so it runs last: the re-enable signal is the
	// final notification on every path, including a panic below.
	defer o.finish()

	// RELIABILITY: A panic anywhere in the loop (transport, notifier)
	// must surface as an error notice, not kill the program with the
	// input left disabled.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ASK_PANIC | recovered=%v", r)
			o.notifier.OnError(fmt.Sprintf(unexpectedErrorFormat, r))
		}
	}()

	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			delay := RetryDelays[attempt-1]
			o.notifier.OnWaiting(waitingNotice(attempt+1, int(delay.Seconds())))
			o.sleep(delay)
			o.notifier.OnRetrying(RetryingNotice)
		}

		answer, err := o.transport.Ask(context.Background(), question, useRAG)
		kind := classify(err)
		log.Printf("ASK_ATTEMPT | attempt=%d/%d outcome=%s", attempt+1, MaxRetries, kind)

		if kind == outcomeSuccess {
			if reported(answer.Quota) {
				o.notifier.OnQuota(answer.Quota.RemainingString(), answer.Quota.TotalString())
			}
			o.notifier.OnAnswer(answer.Text)
			return
		}

		if kind.retryable() {
			if attempt == MaxRetries-1 {
				o.notifier.OnError(exhaustionNotice(kind))
				return
			}
			o.notifier.OnRetrying(willRetryNotice(kind, attempt+1))
			continue
		}

		o.notifier.OnError(terminalNotice(kind, err))
		return
	}
}

// finish releases the in-flight guard and emits the single re-enable
// notification.
func (o *Orchestrator) finish() {
	o.mu.Lock()
	o.inFlight = false
	o.mu.Unlock()

	o.notifier.OnInputReenabled()
}

// reported reports whether the service actually sent quota numbers.
// An absent or empty quota object emits no quota notice.
func reported(q *sugarai.Quota) bool {
	return q != nil && (q.Remaining != nil || q.Total != nil)
}
