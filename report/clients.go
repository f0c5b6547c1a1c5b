// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// clientsInfo emits one line per connected client session. Caller
// holds the device lock.
func clientsInfo(dev *device.Device, p *Printer) {
	p.Printf("a dev\tpid    uid\tmagic\t  ioctls\n\n")
	for _, client := range dev.Clients() {
		authenticated := byte('n')
		if client.Authenticated {
			authenticated = 'y'
		}
		p.Printf("%c %3d %5d %5d %10d %10d\n",
			authenticated,
			client.MinorIndex,
			client.PID,
			client.UID,
			client.Magic,
			client.IoctlCount.Load())
	}
}
