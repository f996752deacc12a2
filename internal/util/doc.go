// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the CLI, the TUI and the
// exporters.
//
// # Key Functions
//
// Text:
//   - TruncateWidth: cut a string to a display width, with ellipsis
//   - PadRight: pad to a display width
//   - Plural: "1 chapter" / "3 chapters"
//
// Files:
//   - AtomicWriteFile: crash-safe write via temp file, fsync and rename
package util
