// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package styles provides the visual styling system for the Sugar-AI TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// SugarBlue - Brand color, user messages, links. The light value is the
// link blue from the Sugar HIG; the dark value is a sky tone that keeps
// contrast on dark terminals.
var SugarBlue = lipgloss.AdaptiveColor{Light: "#0076C3", Dark: "#38BDF8"}

// SugarBlueDeep - Darker blue for backgrounds
var SugarBlueDeep = lipgloss.AdaptiveColor{Light: "#075985", Dark: "#0C4A6E"}

// Violet - Sugar-AI answers, selections
var Violet = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#C4B5FD"}

// VioletDeep - Darker violet for backgrounds
var VioletDeep = lipgloss.AdaptiveColor{Light: "#4C1D95", Dark: "#2E1065"}

// Emerald - Success states, configured API key
var Emerald = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#6EE7B7"}

// EmeraldDeep - Darker emerald for backgrounds
var EmeraldDeep = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#022C22"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, critical alerts, exhausted quota
var Rose = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FDA4AF"}

// RoseDeep - Darker rose for backgrounds
var RoseDeep = lipgloss.AdaptiveColor{Light: "#9F1239", Dark: "#4C0519"}

// Amber - Warnings, rate limits, low quota
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"}

// AmberDeep - Darker amber for backgrounds
var AmberDeep = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#451A03"}

// =============================================================================
// SURFACE COLORS
// =============================================================================
// The light greys are lifted from the Sugar HIG: #E5E5E5 text-field grey,
// #C0C0C0 panel grey, #282828 toolbar grey.

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1C1C"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#141414"}

// SurfaceBright - Slightly lighter/darker surface for highlights
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#F7F7F7", Dark: "#282828"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#C0C0C0", Dark: "#3A3A3A"}

// OverlayDim - Dimmer overlay for less prominent elements
var OverlayDim = lipgloss.AdaptiveColor{Light: "#A8A8A8", Dark: "#4E4E4E"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#282828", Dark: "#E5E5E5"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#B0B0B0"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#757575"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1C1C"}

// =============================================================================
// TRANSCRIPT COLORS
// =============================================================================

// User entries - Blue tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#D6EBF7", Dark: "#075985"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#075985", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#0076C3", Dark: "#38BDF8"}

// Sugar-AI answers - Soft violet tones (muted, not saturated)
var AIBubbleBg = lipgloss.AdaptiveColor{Light: "#F3EFFB", Dark: "#37304F"}
var AIBubbleFg = lipgloss.AdaptiveColor{Light: "#4C3985", Dark: "#EDE9FB"}
var AIBubbleBorder = lipgloss.AdaptiveColor{Light: "#8B6ED6", Dark: "#C4B5FD"}

// System notes - Yellow tones
var SystemBubbleBg = lipgloss.AdaptiveColor{Light: "#FEF9C3", Dark: "#713F12"}
var SystemBubbleFg = lipgloss.AdaptiveColor{Light: "#854D0E", Dark: "#FEF9C3"}
var SystemBubbleBorder = lipgloss.AdaptiveColor{Light: "#EAB308", Dark: "#EAB308"}

// Error lines - Rose tones
var ErrorLineBg = lipgloss.AdaptiveColor{Light: "#FDE8EC", Dark: "#4C0519"}
var ErrorLineFg = lipgloss.AdaptiveColor{Light: "#9F1239", Dark: "#FECDD3"}

// =============================================================================
// SYNTAX HIGHLIGHTING (Catppuccin Latte/Mocha)
// =============================================================================
// Used by the code block token formatter for fenced code in answers.

var SyntaxKeyword = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}  // Mauve
var SyntaxString = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}   // Green
var SyntaxNumber = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"}   // Peach
var SyntaxComment = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"}  // Overlay0
var SyntaxFunction = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // Blue
var SyntaxType = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}     // Yellow
var SyntaxOperator = lipgloss.AdaptiveColor{Light: "#04A5E5", Dark: "#89DCEB"} // Sky
var SyntaxBuiltin = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}  // Red

// =============================================================================
// SPECIAL EFFECTS
// =============================================================================

// Gradient start/end for the welcome logo
var GradientStart = lipgloss.AdaptiveColor{Light: "#0076C3", Dark: "#38BDF8"} // SugarBlue
var GradientEnd = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#C4B5FD"}   // Violet

// Focus ring color
var FocusRing = SugarBlue

// Selection highlight
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BAE0F7", Dark: "#103A52"}

// =============================================================================
// ACCESSIBILITY: Shapes and high contrast for colorblind users
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// These symbols provide visual cues beyond color for colorblind accessibility.
type StatusIndicatorSet struct {
	Success string // Checkmark for success states
	Error   string // X mark for error states
	Warning string // Warning triangle for caution states
	Info    string // Info circle for informational states
	Pending string // Empty box for pending/loading states
	Active  string // Filled box for active/online states
}

// StatusIndicators provides accessible shape/text indicators alongside colors.
// ACCESSIBILITY: ASCII-only indicators for maximum compatibility and colorblind users.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
	Active:  "[*]",
}

// =============================================================================
// ACCESSIBILITY: High-contrast color pairs for colorblind users
// =============================================================================

// High contrast success - Bright green with bold, works for most color blindness types
var SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#166534", Dark: "#4ADE80"}

// High contrast error - Bright red with bold, distinct from green even for colorblind
var ErrorHighContrast = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

// High contrast warning - Bright amber, deuteranopia-friendly
var WarningHighContrast = lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#FACC15"}

// High contrast info - Bright blue, distinct from red/green spectrum
var InfoHighContrast = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

// =============================================================================
// ACCESSIBILITY: Deuteranopia-friendly alternative color pairs
// Uses blue for success and orange for error (avoids red-green confusion)
// =============================================================================

// DeuteranopiaSafeSuccess - Blue instead of green for deuteranopia users
var DeuteranopiaSafeSuccess = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}

// DeuteranopiaSafeError - Orange instead of red for deuteranopia users
var DeuteranopiaSafeError = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FDBA74"}

// =============================================================================
// ACCESSIBILITY: Link style with underline for visual distinction
// =============================================================================

// LinkColor - Accessible link color with sufficient contrast
var LinkColor = lipgloss.AdaptiveColor{Light: "#0076C3", Dark: "#60A5FA"}

// =============================================================================
// ACCESSIBILITY: Helper functions for rendering accessible status messages
// =============================================================================

// RenderSuccess renders a success message with checkmark indicator and high contrast green.
// ACCESSIBILITY: Includes shape indicator for colorblind users.
func RenderSuccess(message string) string {
	style := lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with X mark indicator and high contrast red.
// ACCESSIBILITY: Includes shape indicator for colorblind users.
func RenderError(message string) string {
	style := lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with warning indicator and high contrast amber.
// ACCESSIBILITY: Includes shape indicator for colorblind users.
func RenderWarning(message string) string {
	style := lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info message with info indicator and high contrast blue.
// ACCESSIBILITY: Includes shape indicator for colorblind users.
func RenderInfo(message string) string {
	style := lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Info + " " + message)
}

// RenderStatus renders a status message based on success/failure with appropriate indicator.
// ACCESSIBILITY: Uses shapes and high contrast colors for colorblind users.
func RenderStatus(success bool, message string) string {
	if success {
		return RenderSuccess(message)
	}
	return RenderError(message)
}

// RenderLink renders text as an accessible link with underline.
// ACCESSIBILITY: Underline provides visual cue beyond color for links.
func RenderLink(text string) string {
	style := lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
	return style.Render(text)
}
