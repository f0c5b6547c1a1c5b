// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "sync/atomic"

// Memory accounting areas. Each allocation path attributes its usage
// to one area; the mem report prints one line per active area.
const (
	AreaMappings = "mappings"
	AreaBuffers  = "buffers"
	AreaPages    = "pages"
	AreaObjects  = "objects"
	AreaFences   = "fences"
)

var memAreaLabels = []string{
	AreaMappings,
	AreaBuffers,
	AreaPages,
	AreaObjects,
	AreaFences,
}

// MemArea accumulates allocation statistics for one area.
type MemArea struct {
	// Label is the area name shown in the mem report.
	Label string

	// Allocs and Frees count allocation and release operations.
	Allocs atomic.Uint64
	Frees  atomic.Uint64

	// BytesInUse is the outstanding byte total.
	BytesInUse atomic.Int64

	// PeakBytes is the high-water mark of BytesInUse.
	PeakBytes atomic.Int64
}

// Alloc records an allocation of size bytes, updating the high-water
// mark.
func (a *MemArea) Alloc(size int64) {
	a.Allocs.Add(1)
	inUse := a.BytesInUse.Add(size)
	for {
		peak := a.PeakBytes.Load()
		if inUse <= peak || a.PeakBytes.CompareAndSwap(peak, inUse) {
			return
		}
	}
}

// Free records the release of size bytes.
func (a *MemArea) Free(size int64) {
	a.Frees.Add(1)
	a.BytesInUse.Add(-size)
}

// MemStats is the per-area memory accounting behind the mem report.
// The area set is fixed at construction; counters are atomics, so no
// lock is needed to read or update them.
type MemStats struct {
	areas  []*MemArea
	byName map[string]*MemArea
}

// NewMemStats returns accounting with the standard area set.
func NewMemStats() *MemStats {
	stats := &MemStats{byName: make(map[string]*MemArea)}
	for _, label := range memAreaLabels {
		area := &MemArea{Label: label}
		stats.areas = append(stats.areas, area)
		stats.byName[label] = area
	}
	return stats
}

// Area returns the accounting area for a label. Unknown labels map to
// a discard area so misattributed accounting never panics.
func (s *MemStats) Area(label string) *MemArea {
	if area, ok := s.byName[label]; ok {
		return area
	}
	return &MemArea{Label: label}
}

// ForEach calls fn for every area in declaration order.
func (s *MemStats) ForEach(fn func(*MemArea)) {
	for _, area := range s.areas {
		fn(area)
	}
}
