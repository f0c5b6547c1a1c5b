// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"sync"
	"sync/atomic"
)

// FenceManager tracks fence objects for drivers that support them.
// When Initialized is false the objects report emits an informational
// line instead of a count.
type FenceManager struct {
	Initialized bool
	Count       atomic.Int32
}

// BufferManager tracks buffer objects and locked GATT pages for
// drivers that support them.
type BufferManager struct {
	Initialized bool
	Count       atomic.Int32

	// CurrentPages is the number of GATT pages currently locked.
	CurrentPages uint64
}

// MemoryControl holds the used-memory figures and the configured
// soft/hard/emergency thresholds the objects report renders. All
// values are in bytes; the report converts to pages above the 16-page
// threshold.
type MemoryControl struct {
	mu            sync.Mutex
	used          uint64
	usedEmergency uint64
	softLimit     uint64
	hardLimit     uint64
	emergencyLim  uint64
}

// NewMemoryControl returns a MemoryControl with zeroed figures and
// thresholds.
func NewMemoryControl() *MemoryControl {
	return &MemoryControl{}
}

// SetThresholds configures the soft, hard, and emergency memory
// thresholds in bytes.
func (m *MemoryControl) SetThresholds(soft, hard, emergency uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.softLimit = soft
	m.hardLimit = hard
	m.emergencyLim = emergency
}

// Account adds (or, with negative deltas, releases) used object
// memory. The emergency figure tracks allocations that dipped into
// the emergency reserve.
func (m *MemoryControl) Account(usedDelta, emergencyDelta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used = addClamped(m.used, usedDelta)
	m.usedEmergency = addClamped(m.usedEmergency, emergencyDelta)
}

// Query returns the current used and emergency-used figures plus the
// three configured thresholds, all in bytes, as one consistent
// snapshot.
func (m *MemoryControl) Query() (used, usedEmergency, soft, hard, emergency uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used, m.usedEmergency, m.softLimit, m.hardLimit, m.emergencyLim
}

func addClamped(value uint64, delta int64) uint64 {
	if delta >= 0 {
		return value + uint64(delta)
	}
	decrease := uint64(-delta)
	if decrease > value {
		return 0
	}
	return value - decrease
}
