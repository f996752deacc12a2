// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config dir at a temp dir and clears key variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PREPPLAN_HOME", dir)
	for _, k := range []string{
		"PREPPLAN_API_KEY", "GEMINI_API_KEY", "API_KEY", "PREPPLAN_MODEL",
		"PREPPLAN_TEMPERATURE", "PREPPLAN_LOG_LEVEL", "PREPPLAN_THEME", "PREPPLAN_EXPORT_DIR",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 0.7, cfg.Gemini.Temperature)
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Gemini, cfg.Gemini)
	assert.Equal(t, filepath.Join(dir, "prepplan.log"), cfg.LogPath())
	assert.Equal(t, filepath.Join(dir, "usage.db"), cfg.UsageDBPath())
}

func TestLoad_TOMLPartialFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[gemini]\nmodel = \"gemini-2.5-flash\"\n\n[ui]\ntheme = \"dark\"\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 0.7, cfg.Gemini.Temperature)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 80, cfg.UI.WordWrap)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permissions tightened on load")
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"gemini":{"temperature":0.4}}`), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Gemini.Temperature)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	_, err := Load()
	require.Error(t, err)
	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "ui.theme", verrs[0].Field)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("API_KEY", "from-api-key")
	t.Setenv("GEMINI_API_KEY", "from-gemini")
	t.Setenv("PREPPLAN_MODEL", "gemini-2.5-flash")
	t.Setenv("PREPPLAN_TEMPERATURE", "0.9")
	t.Setenv("PREPPLAN_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "from-gemini", cfg.Gemini.APIKey, "GEMINI_API_KEY outranks API_KEY")
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 0.9, cfg.Gemini.Temperature)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.NoError(t, cfg.RequireAPIKey())

	t.Setenv("PREPPLAN_API_KEY", "from-prepplan")
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "from-prepplan", cfg.Gemini.APIKey)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Gemini.Temperature = 3
	cfg.Gemini.RequestsPerMinute = -1
	cfg.Log.Level = "loud"
	cfg.Export.Format = "pdf"

	err := cfg.Validate()
	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)

	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{"gemini.temperature", "gemini.requests_per_minute", "log.level", "export.format"}, fields)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := Default()
	cfg.Gemini.Model = "gemini-2.5-flash"
	cfg.Export.Dir = "/tmp/plans"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveJSON_LoadFromPath(t *testing.T) {
	path := filepath.Join(isolate(t), "config.json")
	cfg := Default()
	cfg.UI.WordWrap = 100
	require.NoError(t, SaveJSON(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 100, loaded.UI.WordWrap)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("gemini.api_key", "secret"))
	assert.Equal(t, "secret", cfg.Gemini.APIKey)

	require.NoError(t, cfg.Set("gemini.temperature", "1.1"))
	require.NoError(t, cfg.Set("gemini.requests_per_minute", "0"))
	require.NoError(t, cfg.Set("usage.enabled", "false"))
	require.NoError(t, cfg.Set("usage.db_path", "/tmp/u.db"))
	assert.Equal(t, 1.1, cfg.Gemini.Temperature)
	assert.Equal(t, 0, cfg.Gemini.RequestsPerMinute)
	assert.False(t, cfg.Usage.Enabled)
	assert.Equal(t, "/tmp/u.db", cfg.Usage.DBPath)

	v, err := cfg.Get("ui.word_wrap")
	require.NoError(t, err)
	assert.Equal(t, 80, v)

	assert.Error(t, cfg.Set("gemini.nope", "x"))
	assert.Error(t, cfg.Set("gemini", "x"))
	assert.Error(t, cfg.Set("ui.word_wrap", "wide"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "gemini.api_key")
	assert.Contains(t, keys, "usage.db_path")
	assert.Equal(t, "version", keys[0])

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestString_RedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Gemini.APIKey = "AIza-very-secret"
	s := cfg.String()
	assert.NotContains(t, s, "AIza-very-secret")
	assert.Contains(t, s, "[REDACTED]")
	assert.Equal(t, "AIza-very-secret", cfg.Gemini.APIKey, "original untouched")
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func(c *Config, err error) {
			if err == nil {
				got <- c
			}
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	cfg := Default()
	cfg.Gemini.Model = "gemini-2.5-flash"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case c := <-got:
		assert.Equal(t, "gemini-2.5-flash", c.Gemini.Model)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
