// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package util provides small shared helpers for the sugarai client.
//
// This package contains the helpers used throughout the application for
// string display and crash-safe file writing.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth, PadRight: display-width aware formatting (CJK safe)
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long answers safely for one-line previews
//	display := util.TruncateRunes(answer, 50)
//
//	// Write the credential file atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
package util
