// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mountpoint == "" {
		t.Error("default mountpoint is empty")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level: got %q, want info", cfg.LogLevel)
	}
}

func TestLoadRequiresEnvironmentVariable(t *testing.T) {
	origConfig := os.Getenv("DIAGFS_CONFIG")
	defer os.Setenv("DIAGFS_CONFIG", origConfig)
	os.Unsetenv("DIAGFS_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded without DIAGFS_CONFIG")
	}
	if !strings.Contains(err.Error(), "DIAGFS_CONFIG") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagfs.yaml")
	content := `
mountpoint: /tmp/diag
allow_other: true
log_level: debug
fixtures:
  - devices/gpu0.yaml
  - devices/gpu1.jsonc
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Mountpoint != "/tmp/diag" {
		t.Errorf("mountpoint: got %q", cfg.Mountpoint)
	}
	if !cfg.AllowOther {
		t.Error("allow_other not set")
	}
	if len(cfg.Fixtures) != 2 {
		t.Errorf("fixtures: got %d, want 2", len(cfg.Fixtures))
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel: %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("level: got %v, want debug", level)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagfs.yaml")
	if err := os.WriteFile(path, []byte("mount_point: /tmp/diag\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile accepted a misspelled key")
	}
}

func TestLoadFileRejectsUnknownLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagfs.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile accepted an unknown log level")
	}
}

func TestExpandVariables(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	path := filepath.Join(t.TempDir(), "diagfs.yaml")
	content := "mountpoint: ${HOME}/diag\nfixtures:\n  - ${HOME}/dev.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if want := filepath.Join(homeDir, "diag"); cfg.Mountpoint != want {
		t.Errorf("mountpoint: got %q, want %q", cfg.Mountpoint, want)
	}
	if want := filepath.Join(homeDir, "dev.yaml"); cfg.Fixtures[0] != want {
		t.Errorf("fixture: got %q, want %q", cfg.Fixtures[0], want)
	}
}
