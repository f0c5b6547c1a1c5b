// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gfxcore/diagfs/snapshot"
)

const testFixture = `
driver: testdrv
bus_id: "0000:00:02.0"
unique: "PCI:0:2:0"
minor: 0
objects:
  - size: 4096
    handles: 1
    refs: 2
`

func TestDumpThenVerify(t *testing.T) {
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "gpu0.yaml")
	if err := os.WriteFile(fixturePath, []byte(testFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	archivePath := filepath.Join(dir, "gpu0.diagsnap")

	if err := runDump([]string{"--fixture", fixturePath, "--output", archivePath}); err != nil {
		t.Fatalf("dump: %v", err)
	}

	archive, err := snapshot.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("reading dumped archive: %v", err)
	}
	if archive.Driver != "testdrv" {
		t.Errorf("driver: got %q", archive.Driver)
	}
	name := archive.Report("name")
	if want := "testdrv 0000:00:02.0 PCI:0:2:0\n"; string(name) != want {
		t.Errorf("captured name report: got %q, want %q", name, want)
	}

	if err := runVerify([]string{archivePath}); err != nil {
		t.Errorf("verify: %v", err)
	}
}

func TestVerifyRejectsCorruptedArchive(t *testing.T) {
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "gpu0.yaml")
	if err := os.WriteFile(fixturePath, []byte(testFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	archivePath := filepath.Join(dir, "gpu0.diagsnap")
	if err := runDump([]string{"--fixture", fixturePath, "--output", archivePath}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0x01
	if err := os.WriteFile(archivePath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	err = runVerify([]string{archivePath})
	if err == nil {
		t.Fatal("verify accepted a corrupted archive")
	}
	if !strings.Contains(err.Error(), "digest") {
		t.Errorf("error %q does not mention the digest", err)
	}
}

func TestDumpRequiresFlags(t *testing.T) {
	if err := runDump(nil); err == nil {
		t.Error("dump without flags succeeded")
	}
	if err := runDump([]string{"--fixture", "x.yaml"}); err == nil {
		t.Error("dump without --output succeeded")
	}
}

func TestVerifyRequiresArguments(t *testing.T) {
	if err := runVerify(nil); err == nil {
		t.Error("verify without arguments succeeded")
	}
}
