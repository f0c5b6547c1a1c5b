// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/gfxcore/diagfs/device"
	"github.com/gfxcore/diagfs/lib/version"
	"github.com/gfxcore/diagfs/snapshot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	switch subcommand := os.Args[1]; subcommand {
	case "cat":
		return runCat(os.Args[2:])
	case "dump":
		return runDump(os.Args[2:])
	case "verify":
		return runVerify(os.Args[2:])
	case "version":
		version.Print("diagfs")
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: diagfs <subcommand> [flags]

Subcommands:
  cat      Print a report file from a mounted diagnostics filesystem
  dump     Capture a device fixture's reports into a snapshot archive
  verify   Verify snapshot archives and print their contents summary
  version  Print version information

Run 'diagfs <subcommand> --help' for subcommand flags.
`)
}

// runCat streams a mounted report file to stdout. Report files
// advertise zero size and are served with direct I/O, so the content
// only appears through a chunked read loop; a plain stat-then-read
// would see an empty file.
func runCat(args []string) error {
	var chunkSize int
	flagSet := pflag.NewFlagSet("cat", pflag.ContinueOnError)
	flagSet.IntVar(&chunkSize, "chunk-size", 4096, "read size per call")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: diagfs cat [flags] <mounted report path>")
	}
	if chunkSize <= 0 {
		return fmt.Errorf("--chunk-size must be positive")
	}

	file, err := os.Open(flagSet.Arg(0))
	if err != nil {
		return err
	}
	defer file.Close()

	buffer := make([]byte, chunkSize)
	for {
		n, err := file.Read(buffer)
		if n > 0 {
			if _, writeErr := os.Stdout.Write(buffer[:n]); writeErr != nil {
				return writeErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading report: %w", err)
		}
	}
}

// runDump builds a device from a fixture file, captures every report,
// and writes the snapshot archive.
func runDump(args []string) error {
	var fixturePath string
	var outputPath string
	flagSet := pflag.NewFlagSet("dump", pflag.ContinueOnError)
	flagSet.StringVar(&fixturePath, "fixture", "", "device fixture file (required)")
	flagSet.StringVar(&outputPath, "output", "", "archive output path (required)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if fixturePath == "" {
		return fmt.Errorf("--fixture is required")
	}
	if outputPath == "" {
		return fmt.Errorf("--output is required")
	}

	fixture, err := device.LoadFixture(fixturePath)
	if err != nil {
		return fmt.Errorf("loading fixture %s: %w", fixturePath, err)
	}

	archive := snapshot.Capture(fixture.Build())
	if err := snapshot.WriteFile(outputPath, archive); err != nil {
		return err
	}

	fmt.Printf("%s: %d reports from %s minor %d\n",
		outputPath, len(archive.Reports), archive.Driver, archive.MinorIndex)
	return nil
}

// runVerify reads each archive, which checks the digest, and prints a
// per-archive summary.
func runVerify(args []string) error {
	var printBodies bool
	flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	flagSet.BoolVar(&printBodies, "print", false, "print report bodies after verification")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() == 0 {
		return fmt.Errorf("usage: diagfs verify [flags] <archive>...")
	}

	for _, path := range flagSet.Args() {
		archive, err := snapshot.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		totalBytes := 0
		for _, report := range archive.Reports {
			totalBytes += len(report.Body)
		}
		fmt.Printf("%s: ok: %s %s minor %d, %d reports, %d bytes, captured %s\n",
			path, archive.Driver, archive.BusID, archive.MinorIndex,
			len(archive.Reports), totalBytes,
			archive.CapturedAt.Format("2006-01-02 15:04:05 MST"))

		if printBodies {
			for _, report := range archive.Reports {
				fmt.Printf("\n--- %s ---\n%s", report.Name, report.Body)
			}
		}
	}
	return nil
}
