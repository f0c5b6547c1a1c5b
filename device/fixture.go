// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Fixture describes a fully-populated device instance in a scenario
// file. The daemon's simulator mode and the end-to-end tests build
// devices from fixtures instead of real hardware.
//
// Files ending in .yaml or .yml are decoded strictly (unknown fields
// are errors); .json and .jsonc files may carry comments and trailing
// commas, which are stripped before decoding.
type Fixture struct {
	Driver string `yaml:"driver" json:"driver"`
	BusID  string `yaml:"bus_id" json:"bus_id"`
	Unique string `yaml:"unique,omitempty" json:"unique,omitempty"`
	Minor  int    `yaml:"minor" json:"minor"`

	Mappings []MappingFixture `yaml:"mappings,omitempty" json:"mappings,omitempty"`
	Queues   []QueueFixture   `yaml:"queues,omitempty" json:"queues,omitempty"`
	DMA      *DMAFixture      `yaml:"dma,omitempty" json:"dma,omitempty"`
	Clients  []ClientFixture  `yaml:"clients,omitempty" json:"clients,omitempty"`
	Objects  []ObjectFixture  `yaml:"objects,omitempty" json:"objects,omitempty"`

	Fences        *TrackerFixture `yaml:"fences,omitempty" json:"fences,omitempty"`
	BufferObjects *TrackerFixture `yaml:"buffer_objects,omitempty" json:"buffer_objects,omitempty"`
	Memory        *MemoryFixture  `yaml:"memory,omitempty" json:"memory,omitempty"`

	GTTTotal int64 `yaml:"gtt_total,omitempty" json:"gtt_total,omitempty"`
}

// MappingFixture is one memory mapping in a scenario file. Type is
// the tag string from the vm report ("FB", "REG", "SHM", "AGP", "SG",
// "PCI").
type MappingFixture struct {
	Offset    uint64 `yaml:"offset" json:"offset"`
	Size      uint64 `yaml:"size" json:"size"`
	Type      string `yaml:"type" json:"type"`
	Flags     uint32 `yaml:"flags,omitempty" json:"flags,omitempty"`
	UserToken uint64 `yaml:"user_token,omitempty" json:"user_token,omitempty"`
	MTRR      *int   `yaml:"mtrr,omitempty" json:"mtrr,omitempty"`
}

// QueueFixture is one job queue in a scenario file.
type QueueFixture struct {
	Flags         uint32 `yaml:"flags,omitempty" json:"flags,omitempty"`
	BlockCount    int32  `yaml:"block_count,omitempty" json:"block_count,omitempty"`
	BlockRead     bool   `yaml:"block_read,omitempty" json:"block_read,omitempty"`
	BlockWrite    bool   `yaml:"block_write,omitempty" json:"block_write,omitempty"`
	ReadWaiters   int32  `yaml:"read_waiters,omitempty" json:"read_waiters,omitempty"`
	WriteWaiters  int32  `yaml:"write_waiters,omitempty" json:"write_waiters,omitempty"`
	FlushWaiters  int32  `yaml:"flush_waiters,omitempty" json:"flush_waiters,omitempty"`
	WaitlistCount int32  `yaml:"waitlist,omitempty" json:"waitlist,omitempty"`
	Flushed       int32  `yaml:"flushed,omitempty" json:"flushed,omitempty"`
	Queued        int32  `yaml:"queued,omitempty" json:"queued,omitempty"`
	Locks         int32  `yaml:"locks,omitempty" json:"locks,omitempty"`
}

// DMAFixture describes the DMA buffer pools of a scenario device.
type DMAFixture struct {
	Pools []PoolFixture `yaml:"pools,omitempty" json:"pools,omitempty"`

	// Buffers lists every allocated buffer's pool-list index, in
	// allocation order.
	Buffers []int `yaml:"buffers,omitempty" json:"buffers,omitempty"`
}

// PoolFixture is one allocation class.
type PoolFixture struct {
	Order        int `yaml:"order" json:"order"`
	BufferSize   int `yaml:"buffer_size" json:"buffer_size"`
	BufferCount  int `yaml:"buffer_count" json:"buffer_count"`
	FreeCount    int `yaml:"free_count,omitempty" json:"free_count,omitempty"`
	SegmentCount int `yaml:"segment_count" json:"segment_count"`
	PageOrder    int `yaml:"page_order,omitempty" json:"page_order,omitempty"`
}

// ClientFixture is one connected client session.
type ClientFixture struct {
	Authenticated bool   `yaml:"authenticated,omitempty" json:"authenticated,omitempty"`
	PID           int    `yaml:"pid" json:"pid"`
	UID           int    `yaml:"uid" json:"uid"`
	Magic         uint32 `yaml:"magic,omitempty" json:"magic,omitempty"`
	Ioctls        uint64 `yaml:"ioctls,omitempty" json:"ioctls,omitempty"`
}

// ObjectFixture is one named object.
type ObjectFixture struct {
	Size    int64 `yaml:"size" json:"size"`
	Handles int32 `yaml:"handles,omitempty" json:"handles,omitempty"`
	Refs    int32 `yaml:"refs,omitempty" json:"refs,omitempty"`
	Pinned  bool  `yaml:"pinned,omitempty" json:"pinned,omitempty"`
	GTT     int64 `yaml:"gtt,omitempty" json:"gtt,omitempty"`
}

// TrackerFixture configures a fence or buffer-object manager.
type TrackerFixture struct {
	Supported bool   `yaml:"supported" json:"supported"`
	Count     int32  `yaml:"count,omitempty" json:"count,omitempty"`
	Pages     uint64 `yaml:"pages,omitempty" json:"pages,omitempty"`
}

// MemoryFixture configures the memory-control figures, all in bytes.
type MemoryFixture struct {
	Used          uint64 `yaml:"used,omitempty" json:"used,omitempty"`
	UsedEmergency uint64 `yaml:"used_emergency,omitempty" json:"used_emergency,omitempty"`
	Soft          uint64 `yaml:"soft,omitempty" json:"soft,omitempty"`
	Hard          uint64 `yaml:"hard,omitempty" json:"hard,omitempty"`
	Emergency     uint64 `yaml:"emergency,omitempty" json:"emergency,omitempty"`
}

var mapTypeByTag = map[string]MapType{
	"FB":  FrameBuffer,
	"REG": Registers,
	"SHM": SharedMemory,
	"AGP": AGP,
	"SG":  ScatterGather,
	"PCI": ConsistentMemory,
}

// LoadFixture reads and validates a scenario file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	fixture := &Fixture{}
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(fixture); err != nil {
			return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
		}
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(fixture); err != nil {
			return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("fixture %s: unsupported extension %q", path, extension)
	}

	if err := fixture.validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return fixture, nil
}

func (f *Fixture) validate() error {
	if f.Driver == "" {
		return fmt.Errorf("driver is required")
	}
	if f.BusID == "" {
		return fmt.Errorf("bus_id is required")
	}
	if f.Minor < 0 {
		return fmt.Errorf("minor must be non-negative, got %d", f.Minor)
	}
	for i, mapping := range f.Mappings {
		if _, ok := mapTypeByTag[mapping.Type]; !ok && mapping.Type != "??" {
			return fmt.Errorf("mappings[%d]: unknown type %q", i, mapping.Type)
		}
	}
	if f.DMA != nil {
		for i, pool := range f.DMA.Pools {
			if pool.Order < 0 || pool.Order > MaxOrder {
				return fmt.Errorf("dma.pools[%d]: order %d out of range [0, %d]", i, pool.Order, MaxOrder)
			}
		}
	}
	return nil
}

// Build constructs a live device from the fixture.
func (f *Fixture) Build() *Device {
	dev := New(f.Driver, f.BusID, f.Minor)
	if f.Unique != "" {
		dev.SetUnique(f.Unique)
	}

	for _, mapping := range f.Mappings {
		mtrr := -1
		if mapping.MTRR != nil {
			mtrr = *mapping.MTRR
		}
		mapType, ok := mapTypeByTag[mapping.Type]
		if !ok {
			// "??" in a fixture deliberately exercises the
			// unknown-type placeholder path.
			mapType = MapType(-1)
		}
		dev.AddMapping(Mapping{
			Offset:    mapping.Offset,
			Size:      mapping.Size,
			Type:      mapType,
			Flags:     mapping.Flags,
			UserToken: mapping.UserToken,
			MTRR:      mtrr,
		})
	}

	for _, queueFixture := range f.Queues {
		queue := dev.AddQueue(queueFixture.Flags)
		queue.BlockCount.Store(queueFixture.BlockCount)
		queue.BlockRead.Store(queueFixture.BlockRead)
		queue.BlockWrite.Store(queueFixture.BlockWrite)
		queue.ReadWaiters.Store(queueFixture.ReadWaiters)
		queue.WriteWaiters.Store(queueFixture.WriteWaiters)
		queue.FlushWaiters.Store(queueFixture.FlushWaiters)
		queue.WaitlistCount.Store(queueFixture.WaitlistCount)
		queue.Flushed.Store(queueFixture.Flushed)
		queue.Queued.Store(queueFixture.Queued)
		queue.Locks.Store(queueFixture.Locks)
	}

	if f.DMA != nil {
		dma := &DMA{}
		for _, pool := range f.DMA.Pools {
			target := &dma.Pools[pool.Order]
			target.BufferSize = pool.BufferSize
			target.BufferCount = pool.BufferCount
			target.FreeCount.Store(int32(pool.FreeCount))
			target.SegmentCount = pool.SegmentCount
			target.PageOrder = pool.PageOrder
		}
		for _, listIndex := range f.DMA.Buffers {
			dma.Buffers = append(dma.Buffers, &Buffer{ListIndex: listIndex})
		}
		dev.InitDMA(dma)
	}

	for _, clientFixture := range f.Clients {
		client := dev.OpenClient(clientFixture.PID, clientFixture.UID, clientFixture.Magic)
		client.Authenticated = clientFixture.Authenticated
		client.IoctlCount.Store(clientFixture.Ioctls)
	}

	for _, objectFixture := range f.Objects {
		obj := dev.Names.Add(objectFixture.Size)
		if objectFixture.Handles != 0 {
			obj.HandleCount.Store(objectFixture.Handles)
		}
		if objectFixture.Refs != 0 {
			obj.RefCount.Store(objectFixture.Refs)
		}
		dev.ObjectCount.Add(1)
		dev.ObjectMemory.Add(objectFixture.Size)
		dev.MemStats.Area(AreaObjects).Alloc(objectFixture.Size)
		if objectFixture.Pinned {
			dev.PinCount.Add(1)
			dev.PinMemory.Add(objectFixture.Size)
		}
		dev.GTTMemory.Add(objectFixture.GTT)
	}

	if f.Fences != nil {
		dev.Fences.Initialized = f.Fences.Supported
		dev.Fences.Count.Store(f.Fences.Count)
	}
	if f.BufferObjects != nil {
		dev.BufferObjects.Initialized = f.BufferObjects.Supported
		dev.BufferObjects.Count.Store(f.BufferObjects.Count)
		dev.BufferObjects.CurrentPages = f.BufferObjects.Pages
	}
	if f.Memory != nil {
		dev.Memory.SetThresholds(f.Memory.Soft, f.Memory.Hard, f.Memory.Emergency)
		dev.Memory.Account(int64(f.Memory.Used), int64(f.Memory.UsedEmergency))
	}
	dev.GTTTotal = f.GTTTotal

	return dev
}
