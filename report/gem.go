// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// gemNameInfo emits the named-object listing: one line per registry
// entry, in registry order. Its overflow policy is deliberately
// different from every other report: it runs on an early-stop
// printer, so once accumulated output passes the limit no further
// entries are appended, but the walk still completes and the
// already-written prefix stays valid. The registry's own lock covers
// the walk; the device lock is not taken.
func gemNameInfo(dev *device.Device, p *Printer) {
	p.Printf("  name     size handles refcount\n")
	dev.Names.ForEach(func(obj *device.NamedObject) {
		p.Printf("%6d%9d%8d%9d\n",
			obj.ID,
			obj.Size,
			obj.HandleCount.Load(),
			obj.RefCount.Load())
	})
}

// gemObjectInfo emits the aggregate object accounting: six scalar
// lines, no enumeration. The counters are atomics, so no lock is
// taken.
func gemObjectInfo(dev *device.Device, p *Printer) {
	p.Printf("%d objects\n", dev.ObjectCount.Load())
	p.Printf("%d object bytes\n", dev.ObjectMemory.Load())
	p.Printf("%d pinned\n", dev.PinCount.Load())
	p.Printf("%d pin bytes\n", dev.PinMemory.Load())
	p.Printf("%d gtt bytes\n", dev.GTTMemory.Load())
	p.Printf("%d gtt total\n", dev.GTTTotal)
}
