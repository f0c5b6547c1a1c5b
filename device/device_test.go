// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "testing"

func TestCloseClientRemovesSession(t *testing.T) {
	t.Parallel()
	dev := New("testdrv", "0000:00:02.0", 0)

	first := dev.OpenClient(100, 1000, 0xdead)
	second := dev.OpenClient(101, 1000, 0xbeef)

	dev.CloseClient(first)

	dev.Lock()
	clients := dev.Clients()
	dev.Unlock()

	if len(clients) != 1 {
		t.Fatalf("after close: got %d clients, want 1", len(clients))
	}
	if clients[0] != second {
		t.Errorf("wrong client survived the close")
	}

	// Closing an already-closed client is a no-op.
	dev.CloseClient(first)
}

func TestQueueHoldBumpsUseCount(t *testing.T) {
	t.Parallel()
	dev := New("testdrv", "0000:00:02.0", 0)
	queue := dev.AddQueue(0x10)

	release := queue.Hold()
	if got := queue.UseCount.Load(); got != 1 {
		t.Errorf("during hold: use count %d, want 1", got)
	}
	release()
	if got := queue.UseCount.Load(); got != 0 {
		t.Errorf("after release: use count %d, want 0", got)
	}
}

func TestNameRegistryOrderAndRemove(t *testing.T) {
	t.Parallel()
	registry := NewNameRegistry()

	a := registry.Add(4096)
	b := registry.Add(8192)
	c := registry.Add(16384)

	if a.ID != 1 || b.ID != 2 || c.ID != 3 {
		t.Fatalf("ids: got %d, %d, %d, want 1, 2, 3", a.ID, b.ID, c.ID)
	}

	registry.Remove(b.ID)

	var walked []int
	registry.ForEach(func(obj *NamedObject) {
		walked = append(walked, obj.ID)
	})
	if len(walked) != 2 || walked[0] != 1 || walked[1] != 3 {
		t.Errorf("walk after remove: got %v, want [1 3]", walked)
	}

	if registry.Lookup(b.ID) != nil {
		t.Error("removed entry still resolvable")
	}
	if registry.Len() != 2 {
		t.Errorf("Len: got %d, want 2", registry.Len())
	}
}

func TestMemAreaPeakTracksHighWater(t *testing.T) {
	t.Parallel()
	area := &MemArea{Label: "test"}

	area.Alloc(100)
	area.Alloc(50)
	area.Free(120)
	area.Alloc(10)

	if got := area.BytesInUse.Load(); got != 40 {
		t.Errorf("bytes in use: got %d, want 40", got)
	}
	if got := area.PeakBytes.Load(); got != 150 {
		t.Errorf("peak: got %d, want 150", got)
	}
	if got := area.Allocs.Load(); got != 3 {
		t.Errorf("allocs: got %d, want 3", got)
	}
	if got := area.Frees.Load(); got != 1 {
		t.Errorf("frees: got %d, want 1", got)
	}
}

func TestMemoryControlClampsAtZero(t *testing.T) {
	t.Parallel()
	control := NewMemoryControl()

	control.Account(100, 0)
	control.Account(-500, -1)

	used, usedEmergency, _, _, _ := control.Query()
	if used != 0 {
		t.Errorf("used: got %d, want 0 (clamped)", used)
	}
	if usedEmergency != 0 {
		t.Errorf("emergency: got %d, want 0 (clamped)", usedEmergency)
	}
}

func TestBufferPoolArithmetic(t *testing.T) {
	t.Parallel()
	pool := &BufferPool{SegmentCount: 3, PageOrder: 2}

	if got := pool.Pages(); got != 12 {
		t.Errorf("pages: got %d, want 12", got)
	}
	if got := pool.Kilobytes(); got != 12*PageSize/1024 {
		t.Errorf("kilobytes: got %d, want %d", got, 12*PageSize/1024)
	}
}

func TestMapTypeTags(t *testing.T) {
	t.Parallel()
	cases := []struct {
		mapType MapType
		want    string
	}{
		{FrameBuffer, "FB"},
		{Registers, "REG"},
		{SharedMemory, "SHM"},
		{AGP, "AGP"},
		{ScatterGather, "SG"},
		{ConsistentMemory, "PCI"},
		{MapType(-1), "??"},
		{MapType(99), "??"},
	}
	for _, c := range cases {
		if got := c.mapType.Tag(); got != c.want {
			t.Errorf("Tag(%d): got %q, want %q", c.mapType, got, c.want)
		}
	}
}
