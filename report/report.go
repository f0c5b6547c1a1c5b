// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"github.com/gfxcore/diagfs/device"
)

// ReadLimit is the shared per-report size ceiling, applied uniformly
// to every report. Reads starting past it return end-of-report
// without generating anything.
const ReadLimit = device.PageSize - 80

// Entry is one named report: the name it registers under and the
// generator that rebuilds its body.
type Entry struct {
	// Name is the report's file name, unique within a device's
	// diagnostics directory. Fixed once registered.
	Name string

	// Generate rebuilds the full report body into the printer.
	Generate func(*Printer)

	// stopOnOverflow selects the early-stop printer. Only the
	// named-object listing uses it; every other report builds its
	// full body and is truncated by the read-slice arithmetic.
	stopOnOverflow bool
}

// Read serves one paginated read of the report. The body is
// regenerated from scratch on every call, so repeated reads at
// increasing offsets deliver the whole report, but chunks may observe
// different device states if mutation happens between calls.
func (e Entry) Read(offset uint64, length uint32) ([]byte, bool) {
	if offset > ReadLimit {
		return nil, true
	}

	var printer *Printer
	if e.stopOnOverflow {
		printer = NewEarlyStopPrinter(ReadLimit)
	} else {
		printer = NewPrinter(ReadLimit)
	}
	e.Generate(printer)

	return Paginate(printer.Bytes(), offset, length)
}

// ReadAll accumulates the full report by reading chunks at increasing
// offsets until end-of-report, the way an external reader would.
func (e Entry) ReadAll(chunkSize uint32) []byte {
	var accumulated []byte
	var offset uint64
	for {
		chunk, endOfReport := e.Read(offset, chunkSize)
		accumulated = append(accumulated, chunk...)
		offset += uint64(len(chunk))
		if endOfReport {
			return accumulated
		}
	}
}

// Paginate applies the read-slice arithmetic to a fully-built body:
// it returns the slice [offset, offset+length) and whether the report
// is exhausted. A short (or empty) result with endOfReport true means
// the caller has everything.
func Paginate(body []byte, offset uint64, length uint32) (chunk []byte, endOfReport bool) {
	total := uint64(len(body))
	if offset >= total {
		return nil, true
	}
	if total > offset+uint64(length) {
		return body[offset : offset+uint64(length)], false
	}
	return body[offset:], true
}

// Entries returns the fixed report table for a device, in
// registration order. The vma report is appended only in builds with
// the diagdebug tag.
func Entries(dev *device.Device) []Entry {
	entries := []Entry{
		{Name: "name", Generate: func(p *Printer) { nameInfo(dev, p) }},
		{Name: "mem", Generate: func(p *Printer) { memInfo(dev, p) }},
		{Name: "vm", Generate: locked(dev, vmInfo)},
		{Name: "clients", Generate: locked(dev, clientsInfo)},
		{Name: "queues", Generate: locked(dev, queuesInfo)},
		{Name: "bufs", Generate: locked(dev, bufsInfo)},
		{Name: "objects", Generate: locked(dev, objectsInfo)},
		{Name: "gem_names", Generate: func(p *Printer) { gemNameInfo(dev, p) }, stopOnOverflow: true},
		{Name: "gem_objects", Generate: func(p *Printer) { gemObjectInfo(dev, p) }},
	}
	if debugReports {
		entries = append(entries, Entry{Name: "vma", Generate: locked(dev, vmaInfo)})
	}
	return entries
}

// locked wraps a collection-walking generator so the device lock is
// held for exactly one regeneration. The lock is never held across
// the multiple chunked reads of one logical report.
func locked(dev *device.Device, generate func(*device.Device, *Printer)) func(*Printer) {
	return func(p *Printer) {
		dev.Lock()
		defer dev.Unlock()
		generate(dev, p)
	}
}

// flagChar renders a boolean as its flag character or '-'.
func flagChar(set bool, character byte) byte {
	if set {
		return character
	}
	return '-'
}
