// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

const (
	// SchemaVersion tracks the ledger schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the usage ledger. Rows hold call metadata only; answers
// and plans are never written.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    model TEXT NOT NULL,
    started_at INTEGER NOT NULL, -- Unix milliseconds
    latency_ms INTEGER NOT NULL,
    days_remaining INTEGER NOT NULL,
    outcome TEXT NOT NULL,       -- ok, error
    stage TEXT NOT NULL DEFAULT '',
    prompt_tokens INTEGER NOT NULL DEFAULT 0,
    output_tokens INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_generations_started_at ON generations(started_at);
CREATE INDEX IF NOT EXISTS idx_generations_session ON generations(session_id);
`
