// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"fmt"
)

// Printer accumulates one report body. It is created fresh for every
// generation, owned exclusively by that generation, and never reused.
//
// The buffer grows as needed; limit is a watermark, not a hard cap.
// A plain printer keeps accepting appends past the limit and only the
// read-slice arithmetic bounds what callers see. An early-stop
// printer (used by the named-object listing) ignores every append
// after the one that crossed the limit, so a huge registry costs one
// walk but bounded formatting work.
type Printer struct {
	buffer     bytes.Buffer
	limit      int
	stopOnOver bool
	overflowed bool
}

// NewPrinter returns a printer with the given overflow watermark.
func NewPrinter(limit int) *Printer {
	return &Printer{limit: limit}
}

// NewEarlyStopPrinter returns a printer that stops appending once the
// accumulated length passes limit. The append that crosses the limit
// is kept; everything after it is dropped.
func NewEarlyStopPrinter(limit int) *Printer {
	return &Printer{limit: limit, stopOnOver: true}
}

// Printf appends formatted text to the report body.
func (p *Printer) Printf(format string, args ...any) {
	if p.stopOnOver && p.overflowed {
		return
	}
	fmt.Fprintf(&p.buffer, format, args...)
	if p.buffer.Len() > p.limit {
		p.overflowed = true
	}
}

// Len returns the accumulated body length in bytes.
func (p *Printer) Len() int { return p.buffer.Len() }

// Overflowed reports whether the body has passed the watermark.
func (p *Printer) Overflowed() bool { return p.overflowed }

// Bytes returns the accumulated body. The slice is owned by the
// printer and valid until the next Printf.
func (p *Printer) Bytes() []byte { return p.buffer.Bytes() }
