// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package device models the live, mutable state of one graphics-device
// driver instance: memory mappings, job queues, DMA buffer pools,
// connected client sessions, the named-object registry, and the
// object/memory accounting counters.
//
// The package exists to be enumerated. The report package walks these
// collections under the device mutex to build diagnostic text; the
// daemon's simulator mode and the test suite mutate them through the
// Add/Open/Close methods. Nothing here schedules real hardware.
//
// Locking: [Device.Lock] guards every slice-backed collection
// (mappings, queues, VMA records, client list, DMA pools). The
// named-object registry carries its own mutex so it can be walked
// without the device lock, and per-queue volatile fields are atomics
// so a single queue can be inspected safely while other queues are
// being created or destroyed.
package device
