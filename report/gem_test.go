// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"strings"
	"testing"

	"github.com/gfxcore/diagfs/device"
)

func TestGemNamesReport(t *testing.T) {
	t.Parallel()
	dev := newPopulatedDevice()

	want := "  name     size handles refcount\n" +
		"     1     4096       1        2\n"
	if got := readFull(t, dev, "gem_names"); got != want {
		t.Errorf("gem_names report:\ngot  %q\nwant %q", got, want)
	}
}

func TestGemNamesWalkIsRegistryOrder(t *testing.T) {
	t.Parallel()
	dev := device.New("testdrv", "0000:00:02.0", 0)
	dev.Names.Add(100)
	middle := dev.Names.Add(200)
	dev.Names.Add(300)
	dev.Names.Remove(middle.ID)
	dev.Names.Add(400)

	got := readFull(t, dev, "gem_names")
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("line count: got %d, want 4 (header + 3 rows)", len(lines))
	}
	for i, wantID := range []string{"     1", "     3", "     4"} {
		if !strings.HasPrefix(lines[i+1], wantID) {
			t.Errorf("row %d: got %q, want id prefix %q", i, lines[i+1], wantID)
		}
	}
}

func TestGemNamesStopsAppendingOnOverflow(t *testing.T) {
	t.Parallel()
	dev := device.New("testdrv", "0000:00:02.0", 0)

	// Every row is exactly 33 bytes (6+9+8+9 digits plus newline), as
	// is the header. The row that crosses ReadLimit is kept and all
	// rows after it are dropped, so with 200 entries the body is
	// exactly the header plus 121 rows.
	const totalObjects = 200
	for i := 0; i < totalObjects; i++ {
		obj := dev.Names.Add(4096)
		obj.HandleCount.Store(1)
	}

	entry := entryByName(t, dev, "gem_names")
	body := entry.ReadAll(512)

	const rowLength = 33
	wantRows := 0
	for length := rowLength; ; wantRows++ {
		if length > ReadLimit {
			break
		}
		length += rowLength
	}

	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	gotRows := len(lines) - 1
	if gotRows != wantRows {
		t.Errorf("rows: got %d, want %d", gotRows, wantRows)
	}
	if gotRows >= totalObjects {
		t.Errorf("overflow did not stop the listing: %d rows for %d objects", gotRows, totalObjects)
	}

	// The retained prefix is well-formed: every row has the fixed
	// width and a parseable id column.
	for i, line := range lines[1:] {
		if len(line) != rowLength-1 {
			t.Fatalf("row %d: length %d, want %d: %q", i, len(line), rowLength-1, line)
		}
	}
	if !strings.HasSuffix(string(body), "\n") {
		t.Error("body does not end with a complete line")
	}
}
