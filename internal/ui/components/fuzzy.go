// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package components

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// FuzzyMatch scores a query against a target string. Every query
// character must appear in the target in order; consecutive matches,
// word-boundary matches, and a match at the start of the target all
// score higher, so "/sa" prefers "/save" over "/sessions".
//
// Matching is case-insensitive, with a small bonus for exact case.
// An empty query matches everything with score 0.
func FuzzyMatch(query, target string) (score int, matched bool) {
	if query == "" {
		return 0, true
	}

	queryRunes := []rune(strings.ToLower(query))
	targetRunes := []rune(strings.ToLower(target))

	if len(queryRunes) > len(targetRunes) {
		return 0, false
	}

	queryOrig := []rune(query)
	targetOrig := []rune(target)

	queryPos := 0
	lastMatchPos := -1

	for targetPos := 0; targetPos < len(targetRunes) && queryPos < len(queryRunes); targetPos++ {
		if targetRunes[targetPos] != queryRunes[queryPos] {
			continue
		}

		matchScore := 1
		if lastMatchPos == targetPos-1 {
			matchScore += 5
		}
		if targetPos == 0 {
			matchScore += 10
		}
		if isWordBoundary(targetRunes, targetPos) {
			matchScore += 7
		}
		// ToLower can change rune counts (Turkish dotted I), so the
		// original-case slices may be shorter than the folded ones.
		if targetPos < len(targetOrig) && queryPos < len(queryOrig) &&
			targetOrig[targetPos] == queryOrig[queryPos] {
			matchScore += 2
		}

		score += matchScore
		lastMatchPos = targetPos
		queryPos++
	}

	matched = queryPos == len(queryRunes)

	// Shorter targets edge out longer ones at equal match quality.
	if matched {
		score -= len(targetRunes) / 4
	}

	return score, matched
}

// isWordBoundary reports whether pos starts a word: the string start,
// after a separator, or a camelCase transition.
func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(runes) {
		return false
	}

	prev := runes[pos-1]
	if prev == ' ' || prev == '/' || prev == '-' || prev == '_' {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(runes[pos])
}

// ScoredMatch is one fuzzy filter result.
type ScoredMatch struct {
	Target string
	Score  int
}

// FuzzyFilter returns the targets the query matches, best score first.
func FuzzyFilter(query string, targets []string) []ScoredMatch {
	var matches []ScoredMatch
	for _, target := range targets {
		if score, ok := FuzzyMatch(query, target); ok {
			matches = append(matches, ScoredMatch{Target: target, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
