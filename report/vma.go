// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// vmaInfo emits the virtual-memory-area records mapped against the
// device: the live VMA count, then one block per record with its
// owning pid, address range, permission/sharing flag characters, and
// page offset. On x86 builds each record also renders the raw
// page-protection bits as extra flag characters. Registered only in
// builds with the diagdebug tag. Caller holds the device lock.
func vmaInfo(dev *device.Device, p *Printer) {
	p.Printf("vma use count: %d\n", dev.VMACount.Load())
	for _, vma := range dev.VMAs() {
		p.Printf("\n%5d 0x%08x-0x%08x %c%c%c%c%c%c 0x%08x000",
			vma.PID,
			vma.Start,
			vma.End,
			flagChar(vma.Flags&device.VMARead != 0, 'r'),
			flagChar(vma.Flags&device.VMAWrite != 0, 'w'),
			flagChar(vma.Flags&device.VMAExec != 0, 'x'),
			shareChar(vma.Flags),
			flagChar(vma.Flags&device.VMALocked != 0, 'l'),
			flagChar(vma.Flags&device.VMAIO != 0, 'i'),
			vma.PageOffset)
		p.Printf("%s", pageProtFlags(vma.PageProt))
		p.Printf("\n")
	}
}

// shareChar renders 's' for shareable mappings, 'p' for private ones.
func shareChar(flags device.VMAFlags) byte {
	if flags&device.VMAMayShare != 0 {
		return 's'
	}
	return 'p'
}
