// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// vmInfo emits one line per registered memory mapping. Unknown
// mapping types render as the "??" placeholder rather than failing.
// Caller holds the device lock.
func vmInfo(dev *device.Device, p *Printer) {
	p.Printf("slot\t offset\t      size type flags\t address mtrr\n\n")
	for i, mapping := range dev.Mappings() {
		p.Printf("%4d 0x%08x 0x%08x %4.4s  0x%02x 0x%08x ",
			i,
			mapping.Offset,
			mapping.Size,
			mapping.Type.Tag(),
			mapping.Flags,
			mapping.UserToken)
		if mapping.MTRR < 0 {
			p.Printf("none\n")
		} else {
			p.Printf("%4d\n", mapping.MTRR)
		}
	}
}
