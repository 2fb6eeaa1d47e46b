package organize

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aricha/GoProcure/internal/capture"
	ioutils "github.com/aricha/GoProcure/internal/io"
	"github.com/aricha/GoProcure/internal/model"
	"github.com/sirupsen/logrus"
)

// OrganizedDirName is the destination tree created inside the source
// directory; date folders live beneath it.
const OrganizedDirName = "organized_videos"

// videoExtension is the media file suffix the organizer looks for.
const videoExtension = ".mp4"

// Options control a reorganization run.
type Options struct {
	// Copy relocates by copying instead of moving, leaving the
	// originals in place.
	Copy bool

	// DryRun performs discovery and classification but issues no
	// filesystem mutation and no timestamp rewrite.
	DryRun bool

	// Recursive descends into subdirectories of the source directory.
	Recursive bool

	// TimestampsOnly rewrites each group's timestamps in place and
	// skips relocation entirely.
	TimestampsOnly bool
}

// Result summarizes a reorganization run.
type Result struct {
	// Processed is the number of groups relocated, or updated in place
	// in timestamps-only mode (or, in dry-run, that would have been).
	Processed int

	// Skipped is the number of videos skipped with a warning because no
	// metadata sidecar was found. Skips are not errors.
	Skipped int

	// Errors is the number of groups that failed: malformed metadata,
	// failed timestamp rewrite, or failed relocation.
	Errors int
}

// TimestampWriter is the capability the organizer needs from the
// tooling package, redeclared narrowly so tests can fake it.
type TimestampWriter interface {
	WriteTimestamps(ctx context.Context, mediaPath, utcFormatted, localFormatted string) error
}

// Organizer relocates downloaded media groups into date folders derived
// from each group's capture time, rewriting the media file's embedded
// and filesystem timestamps on the way.
//
// Example:
//
//	writer, err := tooling.NewExifToolWriter()
//	if err != nil {
//	    return err // exiftool missing: fail before touching any file
//	}
//	organizer, err := organize.New(sourceDir, writer, organize.Options{})
//	result, err := organizer.Run(ctx)
type Organizer struct {
	sourceDir string
	writer    TimestampWriter
	opts      Options
	log       *logrus.Entry
}

// New creates an Organizer for sourceDir.
//
// A timestamp writer is required unless the run is a dry run: every
// real relocation needs it, so its absence is an error here, before
// any file is touched.
func New(sourceDir string, writer TimestampWriter, opts Options) (*Organizer, error) {
	if writer == nil && !opts.DryRun {
		return nil, fmt.Errorf("a timestamp writer is required outside dry-run mode")
	}
	return &Organizer{
		sourceDir: sourceDir,
		writer:    writer,
		opts:      opts,
		log:       logrus.WithField("dir", sourceDir),
	}, nil
}

// Run discovers video files and relocates each group into its date
// folder. Per-group failures never block the remaining groups.
func (o *Organizer) Run(ctx context.Context) (Result, error) {
	videos, err := o.findVideos()
	if err != nil {
		return Result{}, fmt.Errorf("scanning %s: %w", o.sourceDir, err)
	}
	o.log.Infof("Found %d video files", len(videos))

	var result Result
	for _, videoPath := range videos {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		switch o.processVideo(ctx, videoPath) {
		case outcomeRelocated:
			result.Processed++
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Errors++
		}
	}

	return result, nil
}

type outcome int

const (
	outcomeRelocated outcome = iota
	outcomeSkipped
	outcomeFailed
)

// processVideo takes one discovered video through group resolution,
// timestamp rewrite, and relocation.
func (o *Organizer) processVideo(ctx context.Context, videoPath string) outcome {
	name := filepath.Base(videoPath)

	group := model.NewMediaGroup(videoPath)
	if _, err := os.Stat(group.MetadataPath); err != nil {
		// Not an error: GPMF sidecars and stray clips have no metadata
		// sidecar and simply stay where they are.
		o.log.Warnf("No metadata file found for %s", name)
		return outcomeSkipped
	}
	if _, err := os.Stat(group.HighlightsPath); err == nil {
		group.HasHighlights = true
	}

	capturedAt, err := o.loadCapturedAt(group.MetadataPath)
	if err != nil {
		o.log.Errorf("Error reading date for %s: %v", name, err)
		return outcomeFailed
	}

	ct, err := capture.ParseCaptureTime(capturedAt)
	if err != nil {
		o.log.Errorf("Error reading date for %s: %v", name, err)
		return outcomeFailed
	}

	verb := "Moving"
	if o.opts.Copy {
		verb = "Copying"
	}
	if o.opts.DryRun {
		if o.opts.TimestampsOnly {
			o.log.Infof("Would update timestamps for %s to %s", name, ct.ExifUTC())
			return outcomeRelocated
		}
		for _, path := range group.Files() {
			o.log.Infof("Would %s %s to %s", strings.ToLower(verb), filepath.Base(path), ct.DateFolder())
		}
		return outcomeRelocated
	}

	// Timestamps are rewritten before the move; if the rewrite fails
	// the group stays put.
	if err := o.writer.WriteTimestamps(ctx, videoPath, ct.ExifUTC(), ct.MacOS()); err != nil {
		o.log.Errorf("Error updating timestamps for %s: %v", name, err)
		return outcomeFailed
	}
	o.log.Debugf("Updated timestamps for %s to %s", name, ct.ExifUTC())

	if o.opts.TimestampsOnly {
		o.log.Infof("Updated timestamps for %s", name)
		return outcomeRelocated
	}

	destDir := filepath.Join(o.sourceDir, OrganizedDirName, ct.DateFolder())
	if err := ioutils.EnsureDir(destDir); err != nil {
		o.log.Errorf("Error creating %s: %v", destDir, err)
		return outcomeFailed
	}

	// Relocation is file-by-file; a failure partway leaves the group
	// split across directories. Known limitation, reported, not
	// retried.
	for _, path := range group.Files() {
		dest := filepath.Join(destDir, filepath.Base(path))
		o.log.Infof("%s %s to %s", verb, filepath.Base(path), ct.DateFolder())

		var relErr error
		if o.opts.Copy {
			relErr = ioutils.CopyFile(ctx, path, dest)
		} else {
			relErr = ioutils.MoveFile(ctx, path, dest)
		}
		if relErr != nil {
			o.log.Errorf("Error relocating %s (group may be split): %v", filepath.Base(path), relErr)
			return outcomeFailed
		}
	}

	return outcomeRelocated
}

// loadCapturedAt reads the metadata sidecar and extracts captured_at.
// Malformed JSON or a missing field is a *capture.MetadataError.
func (o *Organizer) loadCapturedAt(metadataPath string) (string, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return "", err
	}

	var metadata struct {
		CapturedAt string `json:"captured_at"`
	}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return "", &capture.MetadataError{Field: "metadata", Value: filepath.Base(metadataPath), Err: err}
	}
	if metadata.CapturedAt == "" {
		return "", &capture.MetadataError{Field: "captured_at", Value: "(missing)"}
	}

	return metadata.CapturedAt, nil
}

// findVideos enumerates video files in the source directory. The
// organized_videos tree is never descended into, so already-relocated
// groups are not reprocessed.
func (o *Organizer) findVideos() ([]string, error) {
	var videos []string

	if !o.opts.Recursive {
		entries, err := os.ReadDir(o.sourceDir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && isVideo(entry.Name()) {
				videos = append(videos, filepath.Join(o.sourceDir, entry.Name()))
			}
		}
		return videos, nil
	}

	organizedRoot := filepath.Join(o.sourceDir, OrganizedDirName)
	err := filepath.WalkDir(o.sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == organizedRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if isVideo(d.Name()) {
			videos = append(videos, path)
		}
		return nil
	})
	return videos, err
}

func isVideo(name string) bool {
	return strings.EqualFold(filepath.Ext(name), videoExtension)
}
