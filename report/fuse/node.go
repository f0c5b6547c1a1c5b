// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"context"
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/gfxcore/diagfs/report"
)

// rootNode is the filesystem root. Device directories are attached to
// it as persistent inodes, so lookup and readdir are served by the
// node tree without custom handlers.
type rootNode struct {
	gofuse.Inode
}

var _ gofuse.InodeEmbedder = (*rootNode)(nil)
var _ report.Namespace = (*rootNode)(nil)

// Mkdir creates the diagnostics directory for one device instance.
func (r *rootNode) Mkdir(name string) (report.Directory, error) {
	node := &deviceDirNode{}
	child := r.NewPersistentInode(context.Background(), node, gofuse.StableAttr{Mode: syscall.S_IFDIR})
	r.AddChild(name, child, true)
	return node, nil
}

// Remove detaches a device directory. Unknown names are a no-op.
func (r *rootNode) Remove(name string) {
	r.RmChild(name)
}

// deviceDirNode is one device's diagnostics directory.
type deviceDirNode struct {
	gofuse.Inode
}

var _ gofuse.InodeEmbedder = (*deviceDirNode)(nil)
var _ gofuse.NodeGetattrer = (*deviceDirNode)(nil)
var _ report.Directory = (*deviceDirNode)(nil)

func (d *deviceDirNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFDIR | 0o555
	return 0
}

// AddEntry attaches a report file under its name.
func (d *deviceDirNode) AddEntry(entry report.Entry) error {
	node := &reportFileNode{entry: entry}
	child := d.NewPersistentInode(context.Background(), node, gofuse.StableAttr{Mode: syscall.S_IFREG})
	d.AddChild(entry.Name, child, true)
	return nil
}

// RemoveEntry detaches a report file. Unknown names are a no-op.
func (d *deviceDirNode) RemoveEntry(name string) {
	d.RmChild(name)
}

// reportFileNode serves one report. The body is regenerated on every
// Read call, so the file advertises zero size and forces direct I/O.
type reportFileNode struct {
	gofuse.Inode
	entry report.Entry
}

var _ gofuse.InodeEmbedder = (*reportFileNode)(nil)
var _ gofuse.NodeGetattrer = (*reportFileNode)(nil)
var _ gofuse.NodeOpener = (*reportFileNode)(nil)
var _ gofuse.NodeReader = (*reportFileNode)(nil)

func (r *reportFileNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFREG | 0o444
	out.Size = 0
	return 0
}

func (r *reportFileNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}

	// Direct I/O: the advertised size is zero and the body changes
	// between reads, so the kernel must not cache pages. A short read
	// is how readers observe end-of-report.
	return nil, fuse.FOPEN_DIRECT_IO, 0
}

func (r *reportFileNode) Read(ctx context.Context, f gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	if off < 0 {
		return nil, syscall.EINVAL
	}
	chunk, _ := r.entry.Read(uint64(off), uint32(len(dest)))
	return fuse.ReadResultData(chunk), 0
}
