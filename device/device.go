// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"sync"
	"sync/atomic"
)

// PageSize is the memory page size assumed throughout the diagnostics
// subsystem. Accounting figures switch from bytes to pages at a
// 16-page threshold, and buffer-pool kilobyte totals derive from it.
const PageSize = 4096

// PageShift is log2(PageSize).
const PageShift = 12

// Device is one driver instance. All slice-backed collections are
// guarded by the device mutex; callers that enumerate them must hold
// it via Lock/Unlock for the duration of the walk.
type Device struct {
	// Driver is the kernel driver name, e.g. "i915" or "radeon".
	Driver string

	// BusID identifies the device's bus address, e.g. "0000:00:02.0".
	BusID string

	// MinorIndex is the device minor number. It names the per-device
	// diagnostics directory.
	MinorIndex int

	mu     sync.Mutex
	unique string

	mappings []*Mapping
	queues   []*Queue
	dma      *DMA
	clients  []*Client
	vmas     []*VMA

	// Names is the named-object registry. It has its own internal
	// lock and may be walked without holding the device mutex.
	Names *NameRegistry

	// Fences and BufferObjects report whether the driver instance
	// supports fence and buffer-object tracking, and if so how many
	// are active.
	Fences        FenceManager
	BufferObjects BufferManager

	// Memory holds the used-memory figures and configured thresholds
	// queried by the objects report.
	Memory *MemoryControl

	// MemStats is the per-area allocation accounting behind the mem
	// report. Owned by the memory-tracking side of the driver; the
	// report surface only formats it.
	MemStats *MemStats

	// Aggregate named-object accounting, maintained by the object
	// allocation paths and read by the gem_objects report.
	ObjectCount  atomic.Int64
	ObjectMemory atomic.Int64
	PinCount     atomic.Int64
	PinMemory    atomic.Int64
	GTTMemory    atomic.Int64

	// GTTTotal is the graphics aperture capacity in bytes. Fixed at
	// device construction.
	GTTTotal int64

	// VMACount tracks live virtual-memory-area records.
	VMACount atomic.Int32
}

// New constructs a device instance with empty collections.
func New(driver, busID string, minorIndex int) *Device {
	return &Device{
		Driver:     driver,
		BusID:      busID,
		MinorIndex: minorIndex,
		Names:      NewNameRegistry(),
		Memory:     NewMemoryControl(),
		MemStats:   NewMemStats(),
	}
}

// Lock acquires the device mutex. Report generation holds it for
// exactly one regeneration: acquired immediately before a collection
// walk, released as soon as the report body is built, never across
// the multiple chunked reads that deliver a large report.
func (d *Device) Lock() { d.mu.Lock() }

// Unlock releases the device mutex.
func (d *Device) Unlock() { d.mu.Unlock() }

// Unique returns the driver-assigned unique device string, or "" if
// none has been set.
func (d *Device) Unique() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unique
}

// SetUnique assigns the unique device string reported alongside the
// driver name and bus ID.
func (d *Device) SetUnique(unique string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unique = unique
}

// Mappings returns the registered memory mappings. The caller must
// hold the device mutex.
func (d *Device) Mappings() []*Mapping { return d.mappings }

// Queues returns the job queues. The caller must hold the device
// mutex.
func (d *Device) Queues() []*Queue { return d.queues }

// DMA returns the DMA buffer state, or nil when the driver has not
// initialized DMA. The caller must hold the device mutex.
func (d *Device) DMA() *DMA { return d.dma }

// Clients returns the connected client sessions. The caller must hold
// the device mutex.
func (d *Device) Clients() []*Client { return d.clients }

// VMAs returns the virtual-memory-area records. The caller must hold
// the device mutex.
func (d *Device) VMAs() []*VMA { return d.vmas }

// AddMapping registers a memory mapping and returns it.
func (d *Device) AddMapping(m Mapping) *Mapping {
	d.mu.Lock()
	defer d.mu.Unlock()
	added := &m
	d.mappings = append(d.mappings, added)
	d.MemStats.Area(AreaMappings).Alloc(int64(m.Size))
	return added
}

// AddQueue creates a job queue with the given context flags.
func (d *Device) AddQueue(flags uint32) *Queue {
	d.mu.Lock()
	defer d.mu.Unlock()
	q := &Queue{Flags: flags}
	d.queues = append(d.queues, q)
	return q
}

// InitDMA installs the DMA buffer state. Passing nil marks the device
// as having no DMA support.
func (d *Device) InitDMA(dma *DMA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dma = dma
}

// OpenClient records a connected client session and returns it.
func (d *Device) OpenClient(pid, uid int, magic uint32) *Client {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := &Client{
		MinorIndex: d.MinorIndex,
		PID:        pid,
		UID:        uid,
		Magic:      magic,
	}
	d.clients = append(d.clients, c)
	return c
}

// CloseClient removes a client session. Unknown clients are ignored.
func (d *Device) CloseClient(c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.clients {
		if existing == c {
			d.clients = append(d.clients[:i], d.clients[i+1:]...)
			return
		}
	}
}

// AddVMA records a virtual-memory-area mapping of the device.
func (d *Device) AddVMA(v VMA) *VMA {
	d.mu.Lock()
	defer d.mu.Unlock()
	added := &v
	d.vmas = append(d.vmas, added)
	d.VMACount.Add(1)
	return added
}

// RemoveVMA drops a virtual-memory-area record. Unknown records are
// ignored.
func (d *Device) RemoveVMA(v *VMA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.vmas {
		if existing == v {
			d.vmas = append(d.vmas[:i], d.vmas[i+1:]...)
			d.VMACount.Add(-1)
			return
		}
	}
}
