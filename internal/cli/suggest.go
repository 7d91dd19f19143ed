// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// suggest.go - Command suggestion for typo correction.
package cli

// validCommands lists all recognized commands and their aliases,
// used to suggest corrections for mistyped commands.
var validCommands = []string{
	"tui",
	"ask",
	"chat",
	"status",
	"config",
	"setup",
	"sessions",
	"session",
	"serve",
	"version",
	"help",
}

// SuggestCommand returns the closest valid command for the given input,
// or "" when nothing is close enough to be a plausible typo.
//
// The distance threshold scales with input length: short inputs only
// tolerate one edit, longer ones up to three.
func SuggestCommand(input string) string {
	// Too short to meaningfully compare
	if len(input) < 2 {
		return ""
	}

	maxDistance := 2
	switch {
	case len(input) < 4:
		maxDistance = 1
	case len(input) > 8:
		maxDistance = 3
	}

	best := ""
	bestDistance := maxDistance + 1
	for _, cmd := range validCommands {
		d := levenshteinDistance(input, cmd)
		if d < bestDistance {
			best = cmd
			bestDistance = d
		}
	}

	if bestDistance > maxDistance {
		return ""
	}
	return best
}

// levenshteinDistance computes the edit distance between two strings
// using the two-row dynamic programming formulation.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
