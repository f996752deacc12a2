// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "neet.md")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestAtomicWriteFile_EmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, AtomicWriteFile(path, nil, 0644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestAtomicWriteFile_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(target, "x"), []byte("x"), 0600))

	assert.Error(t, AtomicWriteFile(target, []byte("data"), 0644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file cleaned up after failure")
}

// =============================================================================
// TEXT TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "Physics", 10, "Physics"},
		{"exact", "Physics", 7, "Physics"},
		{"cut", "Human Physiology", 8, "Human P…"},
		{"zero", "anything", 0, ""},
		{"wide runes", "化学化学化学", 5, "化学…"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateWidth(tc.in, tc.width)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, StringWidth(got), max(tc.width, 0))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "High  ", PadRight("High", 6))
	assert.Equal(t, "Medium", PadRight("Medium", 3))
	assert.Equal(t, 6, StringWidth(PadRight("化学", 6)))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 chapter", Plural(1, "chapter", "chapters"))
	assert.Equal(t, "0 chapters", Plural(0, "chapter", "chapters"))
	assert.Equal(t, "15 chapters", Plural(15, "chapter", "chapters"))
}
