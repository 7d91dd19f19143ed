// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

/*
Package styles provides the visual styling system for the Sugar-AI TUI.

This package defines the complete color palette and theme system used
throughout the application. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - SugarBlue - Brand color for user messages, links, and highlights
    (the light value is the link blue from the Sugar HIG)
  - Violet - Sugar-AI answers and selections
  - Emerald - Success states and the configured-key indicator
  - Amber - Warnings, rate limits, and low quota
  - Rose - Errors and exhausted quota

## Semantic Colors

Transcript entries use semantic color tokens:

	UserBubbleBg - Background for user entries
	UserBubbleFg - Text color for user entries
	AIBubbleBg   - Background for Sugar-AI answers
	AIBubbleFg   - Text color for Sugar-AI answers

## Surface Colors

Layered surface system for depth, anchored on the Sugar HIG greys:

	Surface    - Main background
	SurfaceDim - Subtle backgrounds (headers, status bars)
	Overlay    - Borders and separators

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation and honors the
theme value from settings.toml ("dark", "light", "auto"):

	theme := styles.NewThemeWithMode(styles.ParseThemeMode(cfg.UI.Theme))
	if theme.IsDark {
		// Dark palette active
	}
	if theme.HasTrueColor {
		// Terminal supports 16M colors
	}

# Status Indicators

ASCII indicators paired with high-contrast colors for colorblind
accessibility:

	StatusIndicators.Success - [OK]
	StatusIndicators.Error   - [X]
	StatusIndicators.Warning - [!]
	StatusIndicators.Info    - [i]

# Usage Example

	import "github.com/sugarlabs/sugarai-tui/internal/ui/styles"

	// Use adaptive colors
	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	// Render an accessible status line
	fmt.Println(styles.RenderStatus(keyConfigured, "API Key configured"))
*/
package styles
