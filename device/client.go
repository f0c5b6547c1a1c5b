// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "sync/atomic"

// Client is one connected client session. Identity fields are fixed
// when the session opens; Authenticated flips once after the client
// completes the magic handshake, and IoctlCount runs for the session
// lifetime.
type Client struct {
	// Authenticated reports whether the session completed
	// authentication.
	Authenticated bool

	// MinorIndex is the index of the device minor the session opened.
	MinorIndex int

	// PID and UID identify the owning process and user.
	PID int
	UID int

	// Magic is the opaque authentication token issued to the session.
	Magic uint32

	// IoctlCount counts ioctl invocations made through the session.
	IoctlCount atomic.Uint64
}
