// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuse exposes device diagnostics reports as a read-only FUSE
// filesystem. Each registered device gets a directory named after its
// minor index, and each report appears as a regular file whose content
// is regenerated on every read.
//
// Report files advertise a size of zero and are opened with direct I/O:
// their bodies change between reads, so the kernel page cache must
// never serve stale chunks. Readers see end-of-file through the short
// read, exactly as the paginated read protocol intends.
package fuse
