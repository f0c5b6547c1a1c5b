// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// byteThreshold is the point above which used-memory figures render
// in pages instead of raw bytes.
const byteThreshold = 16 * device.PageSize

// objectsInfo emits the object and memory accounting summary. Absent
// subsystems (fence or buffer-object tracking) produce informational
// lines, not errors. Caller holds the device lock.
func objectsInfo(dev *device.Device, p *Printer) {
	p.Printf("Object accounting:\n\n")
	if dev.Fences.Initialized {
		p.Printf("Number of active fence objects: %d.\n", dev.Fences.Count.Load())
	} else {
		p.Printf("Fence objects are not supported by this driver\n")
	}

	if dev.BufferObjects.Initialized {
		p.Printf("Number of active buffer objects: %d.\n\n", dev.BufferObjects.Count.Load())
	}
	p.Printf("Memory accounting:\n\n")
	if dev.BufferObjects.Initialized {
		p.Printf("Number of locked GATT pages: %d.\n", dev.BufferObjects.CurrentPages)
	} else {
		p.Printf("Buffer objects are not supported by this driver.\n")
	}

	used, usedEmergency, soft, hard, emergency := dev.Memory.Query()

	if used > byteThreshold {
		p.Printf("Used object memory is %d pages.\n", used>>device.PageShift)
	} else {
		p.Printf("Used object memory is %d bytes.\n", used)
	}
	if usedEmergency > byteThreshold {
		p.Printf("Used emergency memory is %d pages.\n", usedEmergency>>device.PageShift)
	} else {
		p.Printf("Used emergency memory is %d bytes.\n\n", usedEmergency)
	}
	p.Printf("Soft object memory usage threshold is %d pages.\n", soft>>device.PageShift)
	p.Printf("Hard object memory usage threshold is %d pages.\n", hard>>device.PageShift)
	p.Printf("Emergency root only memory usage threshold is %d pages.\n", emergency>>device.PageShift)

	p.Printf("\n")
}
