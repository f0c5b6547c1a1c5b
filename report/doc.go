// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package report generates the read-only diagnostic reports of a
// device instance: identity, memory mappings, job queues, buffer
// pools, object/memory accounting, client sessions, and the
// named-object registry.
//
// Every report follows the same paginated read protocol: the caller
// asks for (offset, length), the generator rebuilds the whole report
// body from live state under the device lock, and the protocol
// arithmetic returns the requested slice plus an end-of-report flag.
// Nothing is cached between calls: the underlying collections may
// have changed, so each call regenerates from scratch. Callers read
// at increasing offsets until end-of-report; across mutation, later
// chunks may reflect a different state than earlier ones.
//
// [Entries] builds the fixed report table for a device, [Init]
// registers it in a namespace (a diagnostics directory, typically a
// FUSE mount, see the fuse subpackage), and [Handle.Teardown]
// removes it again.
package report
