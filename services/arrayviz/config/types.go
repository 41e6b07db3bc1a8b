// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds arrayviz configuration.
//
// Configuration is read from a YAML file, then overridden by ARRAYVIZ_*
// environment variables, then validated. The default file lives at
// ~/.arrayviz/arrayviz.yaml and is created with defaults on first run.
package config

import (
	"time"

	"github.com/AleutianAI/arrayviz/services/arrayviz/telemetry"
)

// Config is the top-level arrayviz configuration.
type Config struct {
	Storage   StorageConfig    `yaml:"storage" envPrefix:"STORAGE_"`
	Server    ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
	Logging   LoggingConfig    `yaml:"logging" envPrefix:"LOG_"`
	Render    RenderConfig     `yaml:"render" envPrefix:"RENDER_"`
	Telemetry telemetry.Config `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// StorageConfig configures the recording store.
type StorageConfig struct {
	// Path is the BadgerDB directory. "~" expands to the home directory.
	Path string `yaml:"path" env:"PATH" validate:"required_unless=InMemory true"`

	// InMemory keeps recordings in memory only.
	InMemory bool `yaml:"in_memory" env:"IN_MEMORY"`

	// SyncWrites fsyncs every commit.
	SyncWrites bool `yaml:"sync_writes" env:"SYNC_WRITES"`

	// GCInterval is the value log GC period. Zero disables GC.
	GCInterval time.Duration `yaml:"gc_interval" env:"GC_INTERVAL" validate:"gte=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host" env:"HOST" validate:"required"`
	Port int    `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`

	// Dir receives JSON log files. Empty disables file logging.
	Dir string `yaml:"dir" env:"DIR"`

	JSON bool `yaml:"json" env:"JSON"`
}

// RenderConfig holds defaults handed to renderers.
type RenderConfig struct {
	// Delay is the per-frame pause stored on new recordings.
	Delay time.Duration `yaml:"delay" env:"DELAY" validate:"gte=0"`

	// Format is the default CLI output format.
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=text json yaml"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Path:       "~/.arrayviz/data",
			SyncWrites: true,
			GCInterval: 10 * time.Minute,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8089,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Render: RenderConfig{
			Delay:  time.Second,
			Format: "text",
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}
