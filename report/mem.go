// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// memInfo emits the per-area memory accounting table. The counters
// are owned by the device's memory-tracking side; areas with no
// allocations recorded emit no line. Counters are atomics, so no
// device lock is needed.
func memInfo(dev *device.Device, p *Printer) {
	p.Printf("   area     allocs      frees      bytes       peak\n\n")
	dev.MemStats.ForEach(func(area *device.MemArea) {
		allocs := area.Allocs.Load()
		if allocs == 0 {
			return
		}
		p.Printf("%-9s %10d %10d %10d %10d\n",
			area.Label,
			allocs,
			area.Frees.Load(),
			area.BytesInUse.Load(),
			area.PeakBytes.Load())
	})
}
