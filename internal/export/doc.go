// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders generated study plans to files.
//
// # Key Types
//
//   - Document: a plan plus the answers and model that produced it
//   - Exporter: renders a Document to bytes
//   - Options: export configuration options
//
// # Supported Formats
//
//   - Markdown: human-readable, also fed to the terminal renderer
//   - JSON: the plan exactly as validated, plus metadata
//
// # Usage
//
//	exp, err := export.ForFormat(cfg.Export.Format, nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ToFile(doc, exp, &export.Options{OutputDir: cfg.Export.Dir})
package export
