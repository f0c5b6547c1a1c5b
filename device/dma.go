// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "sync/atomic"

// MaxOrder is the largest buffer allocation order. Pool orders run
// from 0 to MaxOrder inclusive.
const MaxOrder = 22

// BufferPool is one fixed-size allocation class: all buffers of one
// size order. An order with BufferCount zero is inactive and emits no
// line in the bufs report.
type BufferPool struct {
	// BufferSize is the size in bytes of each buffer in the class.
	BufferSize int

	// BufferCount is the number of buffers allocated in the class.
	BufferCount int

	// FreeCount is the number of buffers currently on the free list.
	FreeCount atomic.Int32

	// SegmentCount is the number of contiguous memory segments
	// backing the class.
	SegmentCount int

	// PageOrder is log2(pages per segment).
	PageOrder int
}

// Pages returns the total page count backing the pool.
func (p *BufferPool) Pages() int {
	return p.SegmentCount * (1 << p.PageOrder)
}

// Kilobytes returns the total backing memory in kilobytes.
func (p *BufferPool) Kilobytes() int {
	return p.Pages() * PageSize / 1024
}

// Buffer is one allocated DMA buffer.
type Buffer struct {
	// ListIndex identifies which pool list the buffer currently sits
	// on. The bufs report prints it for every buffer, 32 per line.
	ListIndex int
}

// DMA is the device's DMA buffer state: one pool per allocation order
// plus the flat list of every allocated buffer.
type DMA struct {
	Pools   [MaxOrder + 1]BufferPool
	Buffers []*Buffer
}
