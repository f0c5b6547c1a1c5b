// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot captures a device's full diagnostics output into a
// portable archive file.
//
// An archive holds every report body as read at capture time, encoded
// as deterministic CBOR, compressed with zstd, and protected by a
// BLAKE3 digest over the compressed payload. Reading an archive always
// verifies the digest, so corruption is detected before any payload
// byte is interpreted.
package snapshot
