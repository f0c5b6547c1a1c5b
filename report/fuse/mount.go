// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/gfxcore/diagfs/report"
)

// Options configures the diagnostics FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	Mountpoint string

	// AllowOther permits other users (including root) to access the
	// mount. Requires user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Logger receives diagnostic messages. If nil, an error-level
	// stderr logger is used.
	Logger *slog.Logger
}

// Server is a mounted diagnostics filesystem. Its Namespace is the
// mount root: register devices into it with report.Init.
type Server struct {
	server *fuse.Server
	root   *rootNode
}

// Mount mounts the diagnostics filesystem at the configured
// mountpoint. The caller must call Unmount on the returned Server when
// done. The mountpoint directory is created if it does not exist.
func Mount(options Options) (*Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &rootNode{}

	entryTimeout := 1 * time.Second
	attrTimeout := 1 * time.Second
	negativeTimeout := 100 * time.Millisecond

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout:    &entryTimeout,
		AttrTimeout:     &attrTimeout,
		NegativeTimeout: &negativeTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "diagfs",
			Name:       "diagfs",
			AllowOther: options.AllowOther,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("diagnostics FUSE filesystem mounted", "mountpoint", options.Mountpoint)
	return &Server{server: server, root: root}, nil
}

// Namespace returns the mount root, where report.Init creates device
// directories.
func (s *Server) Namespace() report.Namespace {
	return s.root
}

// Wait blocks until the filesystem is unmounted.
func (s *Server) Wait() {
	s.server.Wait()
}

// Unmount detaches the filesystem. The kernel rejects the unmount
// while any process still holds a file open under the mountpoint.
func (s *Server) Unmount() error {
	if err := s.server.Unmount(); err != nil {
		return fmt.Errorf("unmounting diagnostics filesystem: %w", err)
	}
	return nil
}
