// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

/*
Package components provides reusable UI components for the Sugar-AI TUI.

This package contains a collection of styled components built on top of
the Bubble Tea and Lip Gloss libraries. Each component is designed to be
consistent with the Sugar-AI design language and to degrade gracefully on
narrow or color-limited terminals.

# Core Components

## Display Components

StatusBar (statusbar.go) - Bottom status bar with endpoint mode, API key
state, question quota, and shortcuts.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma
mapped onto the adaptive syntax palette.
Welcome (welcome.go) - First-run welcome screen with the starter
questions.

## Progress and Feedback

Spinner (spinner.go) - Animated spinner with customizable ASCII styles.
ThinkingIndicator (spinner.go) - Spinner shown from submit until the
answer arrives, with elapsed time and the patience note.
ConnectingSpinner (spinner.go) - Boxed spinner for the startup health
probe.

# Key Types

## Theme Integration

Components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	bar := components.NewStatusBar(theme)
	bar.SetWidth(80)
	bar.SetKeyConfigured(true)
	bar.SetQuota(9, 10)
	view := bar.View()

## Bubble Tea Integration

Stateful components implement the Bubble Tea update cycle:

	type Component interface {
		Init() tea.Cmd
		Update(tea.Msg) (Component, tea.Cmd)
		View() string
	}

# Helper Functions

The package includes shared helper functions in helpers.go:
  - toStr() - Integer to string conversion without fmt
  - fmtNumber() - Thousand-separated number formatting
  - fmtQuota() - "remaining/total" quota formatting
*/
package components
