// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strconv"

	"github.com/gfxcore/diagfs/device"
)

// Namespace is where device diagnostics directories live: the root
// of a FUSE mount in production, a fake in tests. Implementations
// must tolerate Remove of a name that was never created.
type Namespace interface {
	// Mkdir creates a child directory for one device instance.
	Mkdir(name string) (Directory, error)

	// Remove deletes a child directory created by Mkdir. Removing an
	// unknown name is a no-op.
	Remove(name string)
}

// Directory holds the report entries of one device instance.
type Directory interface {
	// AddEntry registers a report under its name.
	AddEntry(entry Entry) error

	// RemoveEntry unregisters a report. Removing an unknown name is
	// a no-op.
	RemoveEntry(name string)
}

// Handle tracks what Init registered so Teardown can remove exactly
// that, and nothing else.
type Handle struct {
	parent     Namespace
	dirName    string
	dir        Directory
	registered []string
}

// Init creates the device's diagnostics directory under parent and
// registers every report entry in table order. If any registration
// fails, everything registered so far is unregistered in reverse, the
// directory is removed, and the error is returned: the device ends
// fully unregistered, never partial.
func Init(dev *device.Device, parent Namespace) (*Handle, error) {
	dirName := strconv.Itoa(dev.MinorIndex)
	dir, err := parent.Mkdir(dirName)
	if err != nil {
		return nil, fmt.Errorf("creating diagnostics directory %q: %w", dirName, err)
	}

	handle := &Handle{parent: parent, dirName: dirName, dir: dir}
	for _, entry := range Entries(dev) {
		if err := dir.AddEntry(entry); err != nil {
			for i := len(handle.registered) - 1; i >= 0; i-- {
				dir.RemoveEntry(handle.registered[i])
			}
			parent.Remove(dirName)
			return nil, fmt.Errorf("registering report %s/%s: %w", dirName, entry.Name, err)
		}
		handle.registered = append(handle.registered, entry.Name)
	}
	return handle, nil
}

// Teardown unregisters every report and removes the directory.
// Idempotent: calling it twice, or on a nil handle, is safe.
func (h *Handle) Teardown() {
	if h == nil || h.dir == nil {
		return
	}
	for i := len(h.registered) - 1; i >= 0; i-- {
		h.dir.RemoveEntry(h.registered[i])
	}
	h.parent.Remove(h.dirName)
	h.dir = nil
	h.registered = nil
}
