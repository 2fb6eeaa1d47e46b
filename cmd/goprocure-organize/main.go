package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aricha/GoProcure/internal/organize"
	"github.com/aricha/GoProcure/internal/tooling"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		copyFlag           = flag.Bool("copy", false, "Copy files instead of moving them")
		dryRunFlag         = flag.Bool("dry-run", false, "Show what would be done without making changes")
		recursiveFlag      = flag.Bool("recursive", false, "Recursively process subdirectories")
		timestampsOnlyFlag = flag.Bool("timestamps-only", false, "Rewrite timestamps in place without relocating files")
		verboseFlag        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: goprocure-organize [options] <source-dir>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}

	sourceDir := flag.Arg(0)
	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		logrus.Fatalf("Directory not found: %s", sourceDir)
	}

	// The metadata writer is required for every relocation, so its
	// absence is fatal before any file is touched. Dry runs never
	// rewrite, so they don't need it.
	var writer organize.TimestampWriter
	if !*dryRunFlag {
		w, err := tooling.NewExifToolWriter()
		if err != nil {
			logrus.Fatal(err)
		}
		writer = w
	}

	organizer, err := organize.New(sourceDir, writer, organize.Options{
		Copy:           *copyFlag,
		DryRun:         *dryRunFlag,
		Recursive:      *recursiveFlag,
		TimestampsOnly: *timestampsOnlyFlag,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	result, err := organizer.Run(ctx)
	if err != nil {
		logrus.Fatalf("Error: %v", err)
	}

	if *dryRunFlag {
		fmt.Println("\nThis was a dry run. No files were modified.")
	}
	fmt.Printf("\nProcessing complete. Successfully processed: %d, Skipped: %d, Errors: %d\n",
		result.Processed, result.Skipped, result.Errors)

	if result.Errors > 0 {
		os.Exit(1)
	}
}
