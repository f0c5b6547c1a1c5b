// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterAppendsAndTracksLength(t *testing.T) {
	t.Parallel()
	printer := NewPrinter(100)

	printer.Printf("hello %s", "world")
	printer.Printf(", %d", 42)

	if got := string(printer.Bytes()); got != "hello world, 42" {
		t.Errorf("body: got %q, want %q", got, "hello world, 42")
	}
	if printer.Len() != 15 {
		t.Errorf("Len: got %d, want 15", printer.Len())
	}
	if printer.Overflowed() {
		t.Error("overflowed before reaching the limit")
	}
}

func TestPrinterKeepsAppendingPastLimit(t *testing.T) {
	t.Parallel()
	printer := NewPrinter(10)

	printer.Printf("%s", strings.Repeat("a", 8))
	printer.Printf("%s", strings.Repeat("b", 8))
	printer.Printf("%s", strings.Repeat("c", 8))

	// A plain printer records overflow but never drops content:
	// truncation is the read-slice step's job.
	if !printer.Overflowed() {
		t.Error("not overflowed after passing the limit")
	}
	if printer.Len() != 24 {
		t.Errorf("Len: got %d, want 24", printer.Len())
	}
}

func TestEarlyStopPrinterDropsAppendsAfterOverflow(t *testing.T) {
	t.Parallel()
	printer := NewEarlyStopPrinter(10)

	printer.Printf("%s", strings.Repeat("a", 8))
	printer.Printf("%s", strings.Repeat("b", 8)) // crosses the limit, kept
	printer.Printf("%s", strings.Repeat("c", 8)) // dropped

	if !printer.Overflowed() {
		t.Error("not overflowed after passing the limit")
	}
	want := strings.Repeat("a", 8) + strings.Repeat("b", 8)
	if !bytes.Equal(printer.Bytes(), []byte(want)) {
		t.Errorf("body: got %q, want %q", printer.Bytes(), want)
	}
}
