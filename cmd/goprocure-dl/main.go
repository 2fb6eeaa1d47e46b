package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aricha/GoProcure/internal/config"
	"github.com/aricha/GoProcure/internal/download"
	"github.com/aricha/GoProcure/internal/gopro"
	apihttp "github.com/aricha/GoProcure/internal/http"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		outputFlag        = flag.String("output", "", "Output directory for downloaded files (overrides config)")
		configFlag        = flag.String("config", "", "Path to config file")
		credentialsFlag   = flag.String("credentials", "", "Path to credentials file (default ~/.goprocure/credentials.json)")
		includePhotosFlag = flag.Bool("include-photos", false, "Include photos in download")
		maxItemsFlag      = flag.Int("max-items", 0, "Maximum number of items to download (overrides config)")
		gpmfFlag          = flag.Bool("download-gpmf", false, "Download GPMF telemetry sidecars")
		concurrencyFlag   = flag.Int("concurrency", 0, "Concurrent downloads (overrides config)")
		verboseFlag       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			logrus.Fatalf("Error loading config: %v", err)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *maxItemsFlag > 0 {
		settings.MaxItems = *maxItemsFlag
	}
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}
	if *includePhotosFlag {
		settings.IncludePhotos = true
	}
	if *gpmfFlag {
		settings.DownloadGPMF = true
	}
	if *credentialsFlag != "" {
		settings.CredentialsPath = *credentialsFlag
	}

	// Credentials come first: a missing file writes a template and
	// exits before any network call.
	creds, err := config.LoadCredentials(settings.CredentialsPath)
	if err != nil {
		if errors.Is(err, config.ErrCredentialsCreated) {
			logrus.Error(err)
			os.Exit(1)
		}
		logrus.Fatalf("Error loading credentials: %v", err)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	client := apihttp.NewClient(creds.AccessToken, creds.UserID)
	catalog := gopro.NewCatalog(client, settings.BaseURL)
	manager := download.NewManager(settings, catalog, client, func(event download.ProgressEvent) {
		switch event.Level {
		case download.LevelError:
			logrus.Error(event.Message)
		case download.LevelWarning:
			logrus.Warn(event.Message)
		case download.LevelVerbose:
			logrus.Debug(event.Message)
		default:
			logrus.Info(event.Message)
		}
	})

	result, err := manager.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Download cancelled.")
			os.Exit(130)
		}
		logrus.Fatalf("Error during download: %v", err)
	}

	logrus.Infof("Done. Items: %d, skipped existing: %d, errors: %d",
		result.Seen, result.Skipped, result.Errored)

	// Exit status reflects item failures, not whether anything was found.
	if result.Errored > 0 {
		os.Exit(1)
	}
}
