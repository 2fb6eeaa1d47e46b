package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aricha/GoProcure/internal/gpmf"
	"github.com/aricha/GoProcure/internal/tooling"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		offsetsFlag = flag.Bool("offsets", false, "Print the byte offset of each marker")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: goprocure-highlights [options] <video.mp4> [video.mp4 ...]")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}

	streams, err := tooling.NewFFmpegExtractor()
	if err != nil {
		logrus.Fatal(err)
	}
	extractor := gpmf.NewExtractor(streams)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	failures := 0
	for _, path := range flag.Args() {
		if ctx.Err() != nil {
			os.Exit(130)
		}

		markers, err := extractor.Highlights(ctx, path)
		if err != nil {
			if errors.Is(err, tooling.ErrStreamNotFound) {
				logrus.Warnf("%s: no GPMF telemetry stream", path)
			} else {
				logrus.Errorf("%s: %v", path, err)
			}
			failures++
			continue
		}

		fmt.Printf("%s: %d HiLight tag(s)\n", path, len(markers))
		if *offsetsFlag {
			for _, marker := range markers {
				fmt.Printf("  offset %d\n", marker.Offset)
			}
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}
