// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jeranaias/prepplan/internal/gemini"
)

// Outcome of a recorded generation.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Entry is one generation attempt.
type Entry struct {
	ID            string        `json:"id"`
	SessionID     string        `json:"session_id"`
	Model         string        `json:"model"`
	StartedAt     time.Time     `json:"started_at"`
	Latency       time.Duration `json:"latency"`
	DaysRemaining int           `json:"days_remaining"`
	Outcome       Outcome       `json:"outcome"`
	Stage         string        `json:"stage,omitempty"`
	PromptTokens  int           `json:"prompt_tokens"`
	OutputTokens  int           `json:"output_tokens"`
}

// Totals aggregates every recorded entry.
type Totals struct {
	Generations  int           `json:"generations"`
	Failures     int           `json:"failures"`
	PromptTokens int           `json:"prompt_tokens"`
	OutputTokens int           `json:"output_tokens"`
	AvgLatency   time.Duration `json:"avg_latency"`
}

// FromAttempt converts a finished client call into a ledger entry.
func FromAttempt(sessionID string, a gemini.Attempt) Entry {
	e := Entry{
		SessionID:     sessionID,
		Model:         a.Model,
		StartedAt:     a.StartedAt,
		Latency:       a.Latency,
		DaysRemaining: a.DaysRemaining,
		Outcome:       OutcomeOK,
		PromptTokens:  a.Usage.PromptTokens,
		OutputTokens:  a.Usage.OutputTokens,
	}
	if a.Err != nil {
		e.Outcome = OutcomeError
		var ge *gemini.GenerationError
		if errors.As(a.Err, &ge) {
			e.Stage = string(ge.Stage)
		}
	}
	return e
}

// Ledger persists generation entries in SQLite.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, errors.New("ledger path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(SchemaVersion),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("write schema version: %w", err)
	}

	return &Ledger{db: db, path: path}, nil
}

// Path returns the database location.
func (l *Ledger) Path() string { return l.path }

// Record stores e, assigning an ID when it has none.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO generations (
			id, session_id, model, started_at, latency_ms, days_remaining,
			outcome, stage, prompt_tokens, output_tokens
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Model, e.StartedAt.UnixMilli(), e.Latency.Milliseconds(),
		e.DaysRemaining, string(e.Outcome), e.Stage, e.PromptTokens, e.OutputTokens,
	)
	if err != nil {
		return fmt.Errorf("record generation: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, session_id, model, started_at, latency_ms, days_remaining,
		       outcome, stage, prompt_tokens, output_tokens
		FROM generations
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			startedMS int64
			latencyMS int64
			outcome   string
		)
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.Model, &startedMS, &latencyMS, &e.DaysRemaining,
			&outcome, &e.Stage, &e.PromptTokens, &e.OutputTokens,
		); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		e.StartedAt = time.UnixMilli(startedMS)
		e.Latency = time.Duration(latencyMS) * time.Millisecond
		e.Outcome = Outcome(outcome)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Totals aggregates all entries.
func (l *Ledger) Totals(ctx context.Context) (Totals, error) {
	var (
		t        Totals
		avgMS    sql.NullFloat64
		prompt   sql.NullInt64
		output   sql.NullInt64
		failures sql.NullInt64
	)
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN outcome = 'error' THEN 1 ELSE 0 END),
		       SUM(prompt_tokens), SUM(output_tokens), AVG(latency_ms)
		FROM generations`).Scan(&t.Generations, &failures, &prompt, &output, &avgMS)
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	t.Failures = int(failures.Int64)
	t.PromptTokens = int(prompt.Int64)
	t.OutputTokens = int(output.Int64)
	t.AvgLatency = time.Duration(avgMS.Float64 * float64(time.Millisecond))
	return t, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
