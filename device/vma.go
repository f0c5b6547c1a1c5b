// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

// VMAFlags is the permission/sharing flag bits of one
// virtual-memory-area record.
type VMAFlags uint32

const (
	VMARead VMAFlags = 1 << iota
	VMAWrite
	VMAExec
	VMAMayShare
	VMALocked
	VMAIO
)

// VMA is one virtual-memory-area record associated with the device.
// Only the debug build of the report surface enumerates these.
type VMA struct {
	// PID is the process owning the mapping.
	PID int

	// Start and End delimit the mapped address range.
	Start uint64
	End   uint64

	// Flags carries the permission and sharing bits.
	Flags VMAFlags

	// PageOffset is the file page offset of the mapping.
	PageOffset uint64

	// PageProt is the raw architecture page-protection word. Rendered
	// as extra flag characters on x86 builds, ignored elsewhere.
	PageProt uint64
}
