// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"sync"
	"sync/atomic"
)

// NamedObject is one entry in the named-object registry: an object
// that has been given a global integer name for cross-client sharing.
type NamedObject struct {
	// ID is the global name, unique within the registry.
	ID int

	// Size is the object size in bytes.
	Size int64

	// HandleCount counts per-client handles referencing the object
	// through its name.
	HandleCount atomic.Int32

	// RefCount is the object's total reference count.
	RefCount atomic.Int32
}

// NameRegistry is the id-indexed named-object table. It carries its
// own mutex, so it can be walked without the device lock; the walk
// order is insertion order, which callers must not rely on being
// sorted.
type NameRegistry struct {
	mu      sync.Mutex
	nextID  int
	order   []int
	objects map[int]*NamedObject
}

// NewNameRegistry returns an empty registry. Names start at 1; zero
// means unnamed.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		nextID:  1,
		objects: make(map[int]*NamedObject),
	}
}

// Add names a new object of the given size and returns its entry.
func (r *NameRegistry) Add(size int64) *NamedObject {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj := &NamedObject{ID: r.nextID, Size: size}
	obj.RefCount.Store(1)
	r.nextID++
	r.order = append(r.order, obj.ID)
	r.objects[obj.ID] = obj
	return obj
}

// Remove deletes an entry by name. Unknown names are ignored.
func (r *NameRegistry) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[id]; !ok {
		return
	}
	delete(r.objects, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Lookup returns the entry for a name, or nil.
func (r *NameRegistry) Lookup(id int) *NamedObject {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objects[id]
}

// Len returns the number of named objects.
func (r *NameRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// ForEach calls fn for every entry in registry order. The registry
// lock is held for the whole walk, mirroring the id-table iteration
// the report surface was built around: fn must not call back into the
// registry.
func (r *NameRegistry) ForEach(fn func(*NamedObject)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		fn(r.objects[id])
	}
}
