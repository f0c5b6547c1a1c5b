// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

// Diagfsd mounts the diagnostics filesystem and serves device reports.
//
// On startup:
//  1. Loads configuration (--config flag or DIAGFS_CONFIG).
//  2. Builds one device per fixture file.
//  3. Mounts the FUSE filesystem at the configured mountpoint.
//  4. Registers each device's reports under its minor directory.
//  5. Blocks until SIGINT or SIGTERM, then deregisters devices in
//     reverse registration order and unmounts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/gfxcore/diagfs/device"
	"github.com/gfxcore/diagfs/lib/config"
	"github.com/gfxcore/diagfs/lib/version"
	"github.com/gfxcore/diagfs/report"
	reportfuse "github.com/gfxcore/diagfs/report/fuse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		mountpoint  string
		fixtures    []string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("diagfsd", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to diagfs.yaml (overrides DIAGFS_CONFIG)")
	flagSet.StringVar(&mountpoint, "mountpoint", "", "mount directory (overrides the config file)")
	flagSet.StringArrayVar(&fixtures, "fixture", nil, "device fixture file, repeatable (appended to the config file's list)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showVersion {
		version.Print("diagfsd")
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if mountpoint != "" {
		cfg.Mountpoint = mountpoint
	}
	cfg.Fixtures = append(cfg.Fixtures, fixtures...)

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if len(cfg.Fixtures) == 0 {
		return fmt.Errorf("no device fixtures configured; add fixtures to the config file or pass --fixture")
	}

	devices, err := buildDevices(cfg.Fixtures)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := reportfuse.Mount(reportfuse.Options{
		Mountpoint: cfg.Mountpoint,
		AllowOther: cfg.AllowOther,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	handles, err := registerDevices(devices, server.Namespace(), logger)
	if err != nil {
		server.Unmount()
		return err
	}

	logger.Info("serving diagnostics",
		"mountpoint", cfg.Mountpoint,
		"devices", len(devices),
	)

	<-ctx.Done()
	logger.Info("shutting down")

	for i := len(handles) - 1; i >= 0; i-- {
		handles[i].Teardown()
	}
	if err := server.Unmount(); err != nil {
		return err
	}
	logger.Info("unmounted", "mountpoint", cfg.Mountpoint)
	return nil
}

// loadConfig resolves the configuration source: an explicit --config
// path wins, then DIAGFS_CONFIG, then defaults (so a pure --fixture
// and --mountpoint invocation works without a file).
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	if os.Getenv("DIAGFS_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// buildDevices loads every fixture file and instantiates its device.
// Duplicate minor indices are rejected: each device needs its own
// diagnostics directory.
func buildDevices(fixtures []string) ([]*device.Device, error) {
	seen := make(map[int]string)
	var devices []*device.Device
	for _, path := range fixtures {
		fixture, err := device.LoadFixture(path)
		if err != nil {
			return nil, fmt.Errorf("loading fixture %s: %w", path, err)
		}
		if prior, ok := seen[fixture.Minor]; ok {
			return nil, fmt.Errorf("fixture %s: minor index %d already used by %s", path, fixture.Minor, prior)
		}
		seen[fixture.Minor] = path
		devices = append(devices, fixture.Build())
	}
	return devices, nil
}

// registerDevices runs report.Init for each device. On failure, the
// devices registered so far are torn down in reverse so the mount is
// left empty.
func registerDevices(devices []*device.Device, namespace report.Namespace, logger *slog.Logger) ([]*report.Handle, error) {
	var handles []*report.Handle
	for _, dev := range devices {
		handle, err := report.Init(dev, namespace)
		if err != nil {
			for i := len(handles) - 1; i >= 0; i-- {
				handles[i].Teardown()
			}
			return nil, fmt.Errorf("registering device %d: %w", dev.MinorIndex, err)
		}
		logger.Info("device registered",
			"driver", dev.Driver,
			"bus_id", dev.BusID,
			"minor", dev.MinorIndex,
		)
		handles = append(handles, handle)
	}
	return handles, nil
}
