// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package ask owns the question-submission workflow and its retry loop.
package ask

import "fmt"

// User-facing notices. Every string a learner can see during the ask
// workflow lives here so the TUI and the CLI render identical text.
const (
	// ThinkingNotice is posted right after a question is accepted.
	ThinkingNotice = "Sugar-AI is thinking... This may take 2-5 minutes, please be patient."

	// RetryingNotice is posted after an inter-attempt wait completes.
	RetryingNotice = "Retrying request to Sugar-AI..."

	// MissingKeyNotice is shown when a question is submitted without a
	// configured API key.
	MissingKeyNotice = "Please configure your API key first."

	// InvalidKeyNotice is shown when the service rejects the API key.
	InvalidKeyNotice = "Invalid API key. Please check your configuration."

	// RateLimitNotice is shown when the question quota is exhausted.
	RateLimitNotice = "Rate limit exceeded. Please try again later."

	// ServiceUnavailableNotice is shown when the service reports 503.
	ServiceUnavailableNotice = "Service unavailable (503). The Sugar-AI service may be down for maintenance. Please try again later."

	// ConnectionErrorNotice is shown when the service cannot be reached.
	ConnectionErrorNotice = "Connection error. Please check your internet connection."

	// ClearedNotice is posted when the conversation is wiped.
	ClearedNotice = "Conversation cleared."
)

// Notice formats. The attempt numbers in these are 1-based because
// they are read by kids, not by programmers.
const (
	waitingFormat             = "Attempt %d/%d - retrying in %d seconds..."
	gatewayTimeoutRetryFormat = "Server timeout (504) on attempt %d. Will retry..."
	gatewayTimeoutFinalFormat = "Server timeout (504) after %d attempts. The Sugar-AI service is experiencing high load. Please try again later."
	timeoutRetryFormat        = "Request timed out on attempt %d. Will retry..."
	timeoutFinalFormat        = "Request timed out after 5 minutes on %d attempts. The Sugar-AI service may be experiencing high load. Please try again later."
	unexpectedErrorFormat     = "Unexpected error: %s"
	quotaFormat               = "Quota: %s/%s"
)

// QuotaNotice renders the remaining-quota line shown after an answer.
// Either value may be the literal "Unknown" when the service did not
// report it.
func QuotaNotice(remaining, total string) string {
	return fmt.Sprintf(quotaFormat, remaining, total)
}

// waitingNotice names the upcoming attempt and the delay before it.
// attempt is the 1-based ordinal of the attempt about to run.
func waitingNotice(attempt, delaySeconds int) string {
	return fmt.Sprintf(waitingFormat, attempt, MaxRetries, delaySeconds)
}

// willRetryNotice announces that a transient failure will be retried.
// attempt is the 1-based ordinal of the attempt that just failed.
func willRetryNotice(kind outcomeKind, attempt int) string {
	if kind == outcomeGatewayTimeout {
		return fmt.Sprintf(gatewayTimeoutRetryFormat, attempt)
	}
	return fmt.Sprintf(timeoutRetryFormat, attempt)
}

// exhaustionNotice is the terminal message after the retry budget is
// spent on a transient failure class.
func exhaustionNotice(kind outcomeKind) string {
	if kind == outcomeGatewayTimeout {
		return fmt.Sprintf(gatewayTimeoutFinalFormat, MaxRetries)
	}
	return fmt.Sprintf(timeoutFinalFormat, MaxRetries)
}
