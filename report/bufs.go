// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// bufsInfo emits the buffer-pool table: one line per active
// allocation order, then every allocated buffer's pool-list index
// wrapped at 32 per line. A device without DMA support produces no
// body at all (the protocol turns that into an immediate
// end-of-report). Caller holds the device lock.
func bufsInfo(dev *device.Device, p *Printer) {
	dma := dev.DMA()
	if dma == nil {
		return
	}

	p.Printf(" o     size count  free\t segs pages    kB\n\n")
	for order := 0; order <= device.MaxOrder; order++ {
		pool := &dma.Pools[order]
		if pool.BufferCount == 0 {
			continue
		}
		p.Printf("%2d %8d %5d %5d %5d %5d %5d\n",
			order,
			pool.BufferSize,
			pool.BufferCount,
			pool.FreeCount.Load(),
			pool.SegmentCount,
			pool.Pages(),
			pool.Kilobytes())
	}
	p.Printf("\n")
	for i, buffer := range dma.Buffers {
		if i != 0 && i%32 == 0 {
			p.Printf("\n")
		}
		p.Printf(" %d", buffer.ListIndex)
	}
	p.Printf("\n")
}
