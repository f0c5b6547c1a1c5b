// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

//go:build 386 || amd64

package report

// x86 page-table entry protection bits.
const (
	pagePresent  = 1 << 0
	pageRW       = 1 << 1
	pageUser     = 1 << 2
	pagePWT      = 1 << 3
	pagePCD      = 1 << 4
	pageAccessed = 1 << 5
	pageDirty    = 1 << 6
	pagePSE      = 1 << 7
	pageGlobal   = 1 << 8
)

// pageProtFlags renders the raw x86 page-protection word as nine flag
// characters: present, read/write, user/supervisor, write-through/
// write-back, cache-disabled/cached, accessed, dirty, 4M/4k page,
// global/local.
func pageProtFlags(prot uint64) string {
	flags := []byte{
		' ',
		protChar(prot&pagePresent != 0, 'p', '-'),
		protChar(prot&pageRW != 0, 'w', 'r'),
		protChar(prot&pageUser != 0, 'u', 's'),
		protChar(prot&pagePWT != 0, 't', 'b'),
		protChar(prot&pagePCD != 0, 'u', 'c'),
		protChar(prot&pageAccessed != 0, 'a', '-'),
		protChar(prot&pageDirty != 0, 'd', '-'),
		protChar(prot&pagePSE != 0, 'm', 'k'),
		protChar(prot&pageGlobal != 0, 'g', 'l'),
	}
	return string(flags)
}

func protChar(set bool, whenSet, whenClear byte) byte {
	if set {
		return whenSet
	}
	return whenClear
}
