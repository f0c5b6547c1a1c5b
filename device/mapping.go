// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

// MapType classifies a registered memory mapping.
type MapType int

// The six known mapping kinds. Values outside this range render as a
// placeholder tag in the vm report rather than failing.
const (
	FrameBuffer MapType = iota
	Registers
	SharedMemory
	AGP
	ScatterGather
	ConsistentMemory
)

// Tag returns the short fixed-width tag used in the vm report, or
// "??" for unknown values.
func (t MapType) Tag() string {
	switch t {
	case FrameBuffer:
		return "FB"
	case Registers:
		return "REG"
	case SharedMemory:
		return "SHM"
	case AGP:
		return "AGP"
	case ScatterGather:
		return "SG"
	case ConsistentMemory:
		return "PCI"
	default:
		return "??"
	}
}

// Mapping is one registered memory mapping. Fields are fixed once the
// mapping is added to a device.
type Mapping struct {
	// Offset is the physical or bus address the mapping starts at.
	Offset uint64

	// Size is the mapping length in bytes.
	Size uint64

	// Type is the mapping kind.
	Type MapType

	// Flags carries the driver's mapping flag bits.
	Flags uint32

	// UserToken is the opaque handle user space maps the region by.
	UserToken uint64

	// MTRR is the memory-type-range-register index covering the
	// mapping, or a negative value when none is assigned.
	MTRR int
}
