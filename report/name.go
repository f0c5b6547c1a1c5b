// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// nameInfo emits the device identity: driver name, bus ID, and the
// unique device string when one has been assigned.
func nameInfo(dev *device.Device, p *Printer) {
	if unique := dev.Unique(); unique != "" {
		p.Printf("%s %s %s\n", dev.Driver, dev.BusID, unique)
	} else {
		p.Printf("%s %s\n", dev.Driver, dev.BusID)
	}
}
