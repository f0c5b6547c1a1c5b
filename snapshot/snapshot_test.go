// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gfxcore/diagfs/device"
	"github.com/gfxcore/diagfs/report"
)

func newCaptureDevice(t *testing.T) *device.Device {
	t.Helper()
	dev := device.New("testdrv", "0000:00:02.0", 0)
	dev.SetUnique("PCI:0:2:0")
	dev.AddMapping(device.Mapping{
		Offset: 0xd0000000, Size: 0x1000000,
		Type: device.FrameBuffer, Flags: 0x1,
		UserToken: 0xd0000000, MTRR: 2,
	})
	client := dev.OpenClient(4242, 1000, 12345)
	client.Authenticated = true
	obj := dev.Names.Add(4096)
	obj.HandleCount.Store(1)
	obj.RefCount.Store(2)
	return dev
}

func TestCaptureHoldsEveryReport(t *testing.T) {
	t.Parallel()
	dev := newCaptureDevice(t)

	archive := Capture(dev)

	entries := report.Entries(dev)
	if len(archive.Reports) != len(entries) {
		t.Fatalf("captured reports: got %d, want %d", len(archive.Reports), len(entries))
	}
	for i, entry := range entries {
		if archive.Reports[i].Name != entry.Name {
			t.Errorf("report %d: got %q, want %q", i, archive.Reports[i].Name, entry.Name)
		}
	}

	name := archive.Report("name")
	if want := "testdrv 0000:00:02.0 PCI:0:2:0\n"; string(name) != want {
		t.Errorf("captured name report: got %q, want %q", name, want)
	}
	if archive.Report("no_such_report") != nil {
		t.Error("unknown report name did not return nil")
	}
	if archive.Driver != "testdrv" || archive.MinorIndex != 0 {
		t.Errorf("device identity: got %q minor %d", archive.Driver, archive.MinorIndex)
	}
	if archive.CapturedAt.IsZero() {
		t.Error("capture time not recorded")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	t.Parallel()
	dev := newCaptureDevice(t)
	archive := Capture(dev)

	var buffer bytes.Buffer
	if err := Write(&buffer, archive); err != nil {
		t.Fatalf("Write: %v", err)
	}

	restored, err := Read(&buffer)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if restored.Driver != archive.Driver || restored.BusID != archive.BusID {
		t.Errorf("identity: got %q %q", restored.Driver, restored.BusID)
	}
	if len(restored.Reports) != len(archive.Reports) {
		t.Fatalf("reports: got %d, want %d", len(restored.Reports), len(archive.Reports))
	}
	for i := range archive.Reports {
		if !bytes.Equal(restored.Reports[i].Body, archive.Reports[i].Body) {
			t.Errorf("report %q body differs after round trip", archive.Reports[i].Name)
		}
	}
	if !restored.CapturedAt.Equal(archive.CapturedAt) {
		t.Errorf("capture time: got %v, want %v", restored.CapturedAt, archive.CapturedAt)
	}
}

func TestReadDetectsCorruption(t *testing.T) {
	t.Parallel()
	dev := newCaptureDevice(t)

	var buffer bytes.Buffer
	if err := Write(&buffer, Capture(dev)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data := buffer.Bytes()
	data[len(data)-1] ^= 0x01

	_, err := Read(bytes.NewReader(data))
	if !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("corrupted read: got %v, want digest mismatch", err)
	}
	if err := Verify(bytes.NewReader(data)); !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("Verify: got %v, want digest mismatch", err)
	}
}

func TestReadRejectsForeignFile(t *testing.T) {
	t.Parallel()
	_, err := Read(strings.NewReader("this is not a snapshot archive, not even close"))
	if err == nil {
		t.Fatal("Read accepted a foreign file")
	}
	if !strings.Contains(err.Error(), "bad magic") {
		t.Errorf("error %q does not mention the magic check", err)
	}
}

func TestReadRejectsTruncatedFile(t *testing.T) {
	t.Parallel()
	_, err := Read(strings.NewReader("diag"))
	if err == nil {
		t.Fatal("Read accepted a truncated file")
	}
}

func TestWriteFileReadFile(t *testing.T) {
	t.Parallel()
	dev := newCaptureDevice(t)
	path := filepath.Join(t.TempDir(), "gpu0.diagsnap")

	if err := WriteFile(path, Capture(dev)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	restored, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if restored.Driver != "testdrv" {
		t.Errorf("driver: got %q", restored.Driver)
	}

	// No temp files left behind by the atomic write.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".diagsnap-") {
			t.Errorf("stray temp file %q", entry.Name())
		}
	}
}
