package tooling

import (
	"context"
	"fmt"
)

// StreamExtractor locates and extracts a single codec-tagged data
// stream from a media container.
//
// The production implementation shells out to ffprobe/ffmpeg; tests use
// a fake so the scanning logic never depends on the tools being
// installed.
type StreamExtractor interface {
	// ExtractStream returns the raw bytes of the first stream in the
	// container whose codec tag matches codecTag, copied without
	// re-encoding. Returns ErrStreamNotFound (wrapped) when the
	// container carries no such stream.
	ExtractStream(ctx context.Context, mediaPath, codecTag string) ([]byte, error)
}

// TimestampWriter rewrites a media file's embedded date tags and
// filesystem creation/modification times.
type TimestampWriter interface {
	// WriteTimestamps sets every date the file carries to the given
	// capture time. utcFormatted is "YYYY:MM:DD HH:MM:SS+00:00" as the
	// writer tool expects; localFormatted is "MM/DD/YYYY HH:MM:SS" for
	// platform tools that want local wall-clock time.
	WriteTimestamps(ctx context.Context, mediaPath, utcFormatted, localFormatted string) error
}

// UnavailableError reports that a required external tool is not
// installed. It is raised at construction time, before any per-file
// work begins.
type UnavailableError struct {
	// Tool is the missing executable name.
	Tool string

	// Hint tells the user how to install it.
	Hint string
}

func (e *UnavailableError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s is not installed. %s", e.Tool, e.Hint)
	}
	return fmt.Sprintf("%s is not installed", e.Tool)
}

// ExecError reports that an external tool was invoked but exited with a
// failure.
type ExecError struct {
	// Tool is the executable that failed.
	Tool string

	// Stderr is the tool's error output, kept for diagnostics.
	Stderr string

	// Err is the underlying exec error.
	Err error
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
