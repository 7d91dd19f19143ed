// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package export renders saved conversations as standalone HTML pages.
//
// The page embeds all of its CSS and a small theme toggle script, so a
// kid can email the file to a teacher or open it from a USB stick with
// nothing installed. Python code blocks in the answers keep their
// fenced formatting.
//
// Markdown and JSON exports live elsewhere: the session store renders
// markdown directly and the CLI marshals its own JSON envelope. This
// package only owns the HTML shape.
package export
