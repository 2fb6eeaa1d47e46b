package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aricha/GoProcure/internal/config"
	"github.com/aricha/GoProcure/internal/download"
	"github.com/aricha/GoProcure/internal/gopro"
	apihttp "github.com/aricha/GoProcure/internal/http"
	"github.com/aricha/GoProcure/internal/organize"
	"github.com/aricha/GoProcure/internal/tooling"
	"github.com/sirupsen/logrus"
)

// downloadsDirName is the staging directory inside the sync root where
// payloads land before reorganization picks them up.
const downloadsDirName = "downloads"

func main() {
	var (
		outputFlag        = flag.String("output", "", "Sync root directory (overrides config)")
		configFlag        = flag.String("config", "", "Path to config file")
		credentialsFlag   = flag.String("credentials", "", "Path to credentials file (default ~/.goprocure/credentials.json)")
		includePhotosFlag = flag.Bool("include-photos", false, "Include photos in download")
		maxItemsFlag      = flag.Int("max-items", 0, "Maximum number of items to download (overrides config)")
		gpmfFlag          = flag.Bool("download-gpmf", false, "Download GPMF telemetry sidecars")
		concurrencyFlag   = flag.Int("concurrency", 0, "Concurrent downloads (overrides config)")
		copyFlag          = flag.Bool("copy", false, "Copy files into date folders instead of moving them")
		verboseFlag       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			logrus.Fatalf("Error loading config: %v", err)
		}
	}

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
	if *copyFlag {
		settings.CopyFiles = true
	}

	creds, err := config.LoadCredentials(settings.CredentialsPath)
	if err != nil {
		if errors.Is(err, config.ErrCredentialsCreated) {
			logrus.Error(err)
			os.Exit(1)
		}
		logrus.Fatalf("Error loading credentials: %v", err)
	}

	// The reorganization stage is useless without exiftool, so probe for
	// it before any download work starts.
	writer, err := tooling.NewExifToolWriter()
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

	// Stage 1: acquire into <root>/downloads.
	syncRoot := settings.OutputDir
	settings.OutputDir = filepath.Join(syncRoot, downloadsDirName)

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

	dlResult, err := manager.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Sync cancelled.")
			os.Exit(130)
		}
		logrus.Fatalf("Error during download: %v", err)
	}
	logrus.Infof("Download stage done. Items: %d, skipped existing: %d, errors: %d",
		dlResult.Seen, dlResult.Skipped, dlResult.Errored)

	// Stage 2: reorganize the staging directory into date folders.
	organizer, err := organize.New(settings.OutputDir, writer, organize.Options{
		Copy:      settings.CopyFiles,
		Recursive: settings.Recursive,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	orgResult, err := organizer.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Sync cancelled.")
			os.Exit(130)
		}
		logrus.Fatalf("Error during reorganization: %v", err)
	}
	logrus.Infof("Organize stage done. Processed: %d, skipped: %d, errors: %d",
		orgResult.Processed, orgResult.Skipped, orgResult.Errors)

	if dlResult.Errored > 0 || orgResult.Errors > 0 {
		os.Exit(1)
	}
}
