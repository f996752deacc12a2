// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/prepplan/internal/gemini"
)

func openTemp(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	ctx := context.Background()

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Entry{SessionID: "s", Model: "m", StartedAt: time.Now()}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, path, l.Path())

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecord_Recent(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Record(ctx, Entry{
			SessionID:     "session-1",
			Model:         "gemini-2.5-pro",
			StartedAt:     base.Add(time.Duration(i) * time.Minute),
			Latency:       time.Duration(i+1) * time.Second,
			DaysRemaining: 30,
			PromptTokens:  100,
			OutputTokens:  1000 + i,
		}))
	}

	entries, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	newest := entries[0]
	assert.NotEmpty(t, newest.ID)
	assert.Equal(t, OutcomeOK, newest.Outcome)
	assert.Equal(t, 1002, newest.OutputTokens)
	assert.Equal(t, 3*time.Second, newest.Latency)
	assert.True(t, newest.StartedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, 1001, entries[1].OutputTokens)
}

func TestRecord_KeepsGivenID(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()
	require.NoError(t, l.Record(ctx, Entry{ID: "fixed", SessionID: "s", Model: "m", StartedAt: time.Now()}))

	err := l.Record(ctx, Entry{ID: "fixed", SessionID: "s", Model: "m", StartedAt: time.Now()})
	assert.Error(t, err, "duplicate id")
}

func TestTotals(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()

	empty, err := l.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, empty)

	require.NoError(t, l.Record(ctx, Entry{SessionID: "a", Model: "m", StartedAt: time.Now(), Latency: time.Second, PromptTokens: 10, OutputTokens: 40}))
	require.NoError(t, l.Record(ctx, Entry{SessionID: "a", Model: "m", StartedAt: time.Now(), Latency: 3 * time.Second, Outcome: OutcomeError, Stage: "transport"}))

	tot, err := l.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, tot.Generations)
	assert.Equal(t, 1, tot.Failures)
	assert.Equal(t, 10, tot.PromptTokens)
	assert.Equal(t, 40, tot.OutputTokens)
	assert.Equal(t, 2*time.Second, tot.AvgLatency)
}

func TestFromAttempt(t *testing.T) {
	start := time.Now()
	ok := FromAttempt("sess", gemini.Attempt{
		Model:         "gemini-2.5-pro",
		StartedAt:     start,
		Latency:       time.Second,
		DaysRemaining: 12,
		Usage:         gemini.Usage{PromptTokens: 5, OutputTokens: 7, TotalTokens: 12},
	})
	assert.Equal(t, OutcomeOK, ok.Outcome)
	assert.Empty(t, ok.Stage)
	assert.Equal(t, "sess", ok.SessionID)
	assert.Equal(t, 12, ok.DaysRemaining)
	assert.Equal(t, 7, ok.OutputTokens)

	failed := FromAttempt("sess", gemini.Attempt{
		Err: fmt.Errorf("wrapped: %w", &gemini.GenerationError{Stage: gemini.StageSchema, Err: errors.New("bad")}),
	})
	assert.Equal(t, OutcomeError, failed.Outcome)
	assert.Equal(t, string(gemini.StageSchema), failed.Stage)

	opaque := FromAttempt("sess", gemini.Attempt{Err: errors.New("x")})
	assert.Equal(t, OutcomeError, opaque.Outcome)
	assert.Empty(t, opaque.Stage)
}
