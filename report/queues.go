// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "github.com/gfxcore/diagfs/device"

// queuesInfo emits one line per job queue. Each queue's transient use
// count is bumped around the volatile-field reads so the queue cannot
// be finalized mid-row; the printed use count therefore includes the
// inspection hold itself. Caller holds the device lock.
func queuesInfo(dev *device.Device, p *Printer) {
	p.Printf("  ctx/flags   use   fin   blk/rw/rwf  wait    flushed\t   queued      locks\n\n")
	for i, queue := range dev.Queues() {
		release := queue.Hold()
		p.Printf("%5d/0x%03x %5d %5d %5d/%c%c/%c%c%c %5d %10d %10d %10d\n",
			i,
			queue.Flags,
			queue.UseCount.Load(),
			queue.Finalization.Load(),
			queue.BlockCount.Load(),
			flagChar(queue.BlockRead.Load(), 'r'),
			flagChar(queue.BlockWrite.Load(), 'w'),
			flagChar(queue.ReadWaiters.Load() > 0, 'r'),
			flagChar(queue.WriteWaiters.Load() > 0, 'w'),
			flagChar(queue.FlushWaiters.Load() > 0, 'f'),
			queue.WaitlistCount.Load(),
			queue.Flushed.Load(),
			queue.Queued.Load(),
			queue.Locks.Load())
		release()
	}
}
