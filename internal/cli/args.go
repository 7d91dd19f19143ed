// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// args.go - Unified argument parsing for subcommand-style CLI commands.
//
// The sessions and serve commands take subcommands, named flags, and
// positional arguments. ArgParser gives them one consistent grammar
// instead of per-command ad hoc loops:
//
//	sugarai sessions export 2 --format json
//	sugarai serve --port 8080 --latency 500ms
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// ArgParser parses a raw argument vector into a subcommand, named
// flags, and positional arguments.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses args according to these rules:
//   - The first bare token becomes the subcommand
//   - --flag=value sets a named flag ("true"/"false" become bool flags)
//   - --flag value sets a named flag when the next token is not a flag
//   - --flag alone sets a bool flag
//   - Remaining bare tokens become positional arguments
//
// Bool flags should follow positional arguments; a bare positional
// after a bool flag would be consumed as that flag's value.
func NewArgParser(args []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
		raw:       args,
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case strings.HasPrefix(arg, "--") && strings.Contains(arg, "="):
			parts := strings.SplitN(strings.TrimPrefix(arg, "--"), "=", 2)
			name, value := parts[0], parts[1]
			if value == "true" || value == "false" {
				p.boolFlags[name] = value == "true"
			} else {
				p.flags[name] = value
			}

		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				p.flags[name] = args[i+1]
				i++
			} else {
				p.boolFlags[name] = true
			}

		default:
			if p.subcommand == "" && len(p.positional) == 0 {
				p.subcommand = arg
			} else {
				p.positional = append(p.positional, arg)
			}
		}
		i++
	}

	return p
}

// Subcommand returns the parsed subcommand, or "" if none was given.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a named flag, or "" if not set.
func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

// FlagOrDefault returns the value of a named flag, or def if not set.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v, ok := p.flags[name]; ok {
		return v
	}
	return def
}

// FlagInt returns the integer value of a named flag.
// The second return is false when the flag is absent or not an integer.
func (p *ArgParser) FlagInt(name string) (int, bool) {
	v, ok := p.flags[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FlagIntOrDefault returns the integer value of a named flag, or def.
func (p *ArgParser) FlagIntOrDefault(name string, def int) int {
	if n, ok := p.FlagInt(name); ok {
		return n
	}
	return def
}

// BoolFlag returns true if the named bool flag was set.
// A flag captured with an explicit "true" value also counts.
func (p *ArgParser) BoolFlag(name string) bool {
	if v, ok := p.boolFlags[name]; ok {
		return v
	}
	return p.flags[name] == "true"
}

// HasFlag returns true if the named flag was present in any form.
func (p *ArgParser) HasFlag(name string) bool {
	if _, ok := p.flags[name]; ok {
		return true
	}
	_, ok := p.boolFlags[name]
	return ok
}

// Positional returns the i-th positional argument (0-based), or "".
// The subcommand is not counted as a positional argument.
func (p *ArgParser) Positional(i int) string {
	if i < 0 || i >= len(p.positional) {
		return ""
	}
	return p.positional[i]
}

// PositionalFrom returns all positional arguments from index i on.
func (p *ArgParser) PositionalFrom(i int) []string {
	if i < 0 || i >= len(p.positional) {
		return nil
	}
	return p.positional[i:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// Raw returns the original argument vector.
func (p *ArgParser) Raw() []string {
	return p.raw
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

// ParseIntWithValidation parses a positive integer, returning a
// ValidationError naming the field on failure.
func ParseIntWithValidation(value, field string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, NewValidationError(field, value, "must be an integer")
	}
	if n <= 0 {
		return 0, NewValidationError(field, value, "must be a positive integer")
	}
	return n, nil
}

// ParseBoolString parses common boolean spellings.
// Accepts true/false, 1/0, yes/no, on/off (case-insensitive).
func ParseBoolString(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %q (use true or false)", value)
	}
}

// JoinPositionalArgs joins positional arguments into a single string.
// Used by commands that accept free-form text, like sessions search.
func JoinPositionalArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
