// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "sync/atomic"

// Queue is one job queue. Every volatile field is an atomic so a
// single queue can be inspected without holding the device mutex
// across the read: the inspector bumps UseCount first, reads, then
// drops it, which keeps the queue alive for the duration.
type Queue struct {
	// Flags carries the queue's context flag bits. Fixed at creation.
	Flags uint32

	// UseCount is the transient reference count. A queue whose use
	// count is nonzero must not be destroyed.
	UseCount atomic.Int32

	// Finalization is nonzero while the queue is being torn down.
	Finalization atomic.Int32

	// BlockCount is the number of blocked submitters.
	BlockCount atomic.Int32

	// BlockRead and BlockWrite mark the queue as blocked for new
	// reads or writes.
	BlockRead  atomic.Bool
	BlockWrite atomic.Bool

	// ReadWaiters, WriteWaiters and FlushWaiters count threads parked
	// on the queue's read, write and flush wait queues. The report
	// only cares whether each is nonzero.
	ReadWaiters  atomic.Int32
	WriteWaiters atomic.Int32
	FlushWaiters atomic.Int32

	// WaitlistCount is the number of buffers parked on the queue's
	// wait list.
	WaitlistCount atomic.Int32

	// Flushed and Queued count completed flushes and total queued
	// submissions.
	Flushed atomic.Int32
	Queued  atomic.Int32

	// Locks counts lock acquisitions attributed to this queue.
	Locks atomic.Int32
}

// Hold increments the queue's transient reference count and returns a
// release function. Inspection paths wrap their volatile-field reads
// in Hold/release so the queue cannot be finalized mid-read.
func (q *Queue) Hold() (release func()) {
	q.UseCount.Add(1)
	return func() { q.UseCount.Add(-1) }
}
