// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"time"

	"github.com/gfxcore/diagfs/device"
	"github.com/gfxcore/diagfs/report"
)

// captureChunkSize is the read granularity used when accumulating
// report bodies. Small enough to exercise the chunked read path,
// large enough to keep the call count low.
const captureChunkSize = 1024

// Archive is one device's diagnostics output at a point in time.
type Archive struct {
	// CapturedAt is the wall-clock capture time, UTC.
	CapturedAt time.Time `cbor:"captured_at"`

	// Driver, BusID, and MinorIndex identify the device instance.
	Driver     string `cbor:"driver"`
	BusID      string `cbor:"bus_id"`
	MinorIndex int    `cbor:"minor_index"`

	// Reports holds every report body in registration order.
	Reports []Report `cbor:"reports"`
}

// Report is one captured report body.
type Report struct {
	Name string `cbor:"name"`
	Body []byte `cbor:"body"`
}

// Capture reads every report of the device and returns the archive.
// Each report is accumulated through the chunked read protocol, so
// the captured bodies are exactly what an external reader would see.
func Capture(dev *device.Device) *Archive {
	archive := &Archive{
		CapturedAt: time.Now().UTC(),
		Driver:     dev.Driver,
		BusID:      dev.BusID,
		MinorIndex: dev.MinorIndex,
	}
	for _, entry := range report.Entries(dev) {
		archive.Reports = append(archive.Reports, Report{
			Name: entry.Name,
			Body: entry.ReadAll(captureChunkSize),
		})
	}
	return archive
}

// Report returns the named report body, or nil if the archive does
// not contain it.
func (a *Archive) Report(name string) []byte {
	for _, r := range a.Reports {
		if r.Name == name {
			return r.Body
		}
	}
	return nil
}
