// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arrayviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, Validate(&cfg))
	assert.Equal(t, time.Second, cfg.Render.Delay)
	assert.Equal(t, "arrayviz", cfg.Telemetry.ServiceName)
}

func TestLoad_CreatesDefaultOnFirstRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)

	path := filepath.Join(home, ".arrayviz", "arrayviz.yaml")
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(home, ".arrayviz", "data"), cfg.Storage.Path)
	assert.Equal(t, 8089, cfg.Server.Port)

	// The written file parses back into the defaults.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var written Config
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, DefaultConfig(), written)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
render:
  delay: 250ms
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 250*time.Millisecond, cfg.Render.Delay)
	assert.Equal(t, "json", cfg.Render.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("ARRAYVIZ_SERVER_PORT", "9100")
	t.Setenv("ARRAYVIZ_STORAGE_IN_MEMORY", "true")
	t.Setenv("ARRAYVIZ_LOG_LEVEL", "debug")
	t.Setenv("ARRAYVIZ_RENDER_DELAY", "2s")
	t.Setenv("ARRAYVIZ_TELEMETRY_METRIC_EXPORTER", "prometheus")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Storage.InMemory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2*time.Second, cfg.Render.Delay)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"unknown level", "logging:\n  level: loud\n"},
		{"unknown format", "render:\n  format: html\n"},
		{"negative delay", "render:\n  delay: -1s\n"},
		{"unknown exporter", "telemetry:\n  trace_exporter: zipkin\n"},
		{"no storage path", "storage:\n  path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_InMemoryNeedsNoPath(t *testing.T) {
	cfg, err := Load(writeConfig(t, "storage:\n  path: \"\"\n  in_memory: true\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Storage.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "server: [not, a, map]\n"))
	assert.Error(t, err)

	path := writeConfig(t, "")
	t.Setenv("ARRAYVIZ_SERVER_PORT", "not-a-number")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"/var/lib/arrayviz", "/var/lib/arrayviz"},
		{"relative/~", "relative/~"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := expandHome(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "expandHome(%q)", tt.in)
	}
}
