// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !386 && !amd64

package report

// pageProtFlags has no portable rendering: the page-protection word
// is architecture-defined, so non-x86 builds omit the extension.
func pageProtFlags(prot uint64) string {
	return ""
}
