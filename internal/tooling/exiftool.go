package tooling

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// ExifToolWriter rewrites embedded date tags and filesystem timestamps
// by shelling out to exiftool.
//
// On macOS, if SetFile is available, it is run as a second pass to set
// the Finder creation date in local time; its failure is non-critical.
// Finally the file's atime/mtime are set directly as a portable
// fallback.
type ExifToolWriter struct {
	exiftoolPath string
	setFilePath  string // empty when SetFile is not installed
}

// NewExifToolWriter locates exiftool on PATH.
//
// Returns an *UnavailableError if exiftool is missing. SetFile is
// optional and probed silently.
func NewExifToolWriter() (*ExifToolWriter, error) {
	exiftool, err := exec.LookPath("exiftool")
	if err != nil {
		return nil, &UnavailableError{
			Tool: "exiftool",
			Hint: "Install it first:\n" +
				"- macOS: brew install exiftool\n" +
				"- Ubuntu/Debian: sudo apt-get install libimage-exiftool-perl\n" +
				"- Windows: Download from https://exiftool.org",
		}
	}

	setFile, _ := exec.LookPath("SetFile")
	return &ExifToolWriter{exiftoolPath: exiftool, setFilePath: setFile}, nil
}

// WriteTimestamps implements TimestampWriter.
//
// All embedded date tags plus the filesystem create/modify dates are
// set to utcFormatted. When SetFile is present the Finder dates are
// additionally set to localFormatted; a SetFile failure is logged and
// ignored.
func (w *ExifToolWriter) WriteTimestamps(ctx context.Context, mediaPath, utcFormatted, localFormatted string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.exiftoolPath,
		"-overwrite_original",
		"-preserveModifyDate",
		"-P",
		"-AllDates="+utcFormatted,
		"-FileCreateDate="+utcFormatted,
		"-FileModifyDate="+utcFormatted,
		mediaPath,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExecError{Tool: "exiftool", Stderr: stderr.String(), Err: err}
	}

	if w.setFilePath != "" {
		setFileCmd := exec.CommandContext(ctx, w.setFilePath,
			"-d", localFormatted,
			"-m", localFormatted,
			mediaPath,
		)
		if err := setFileCmd.Run(); err != nil {
			logrus.WithError(err).WithField("path", mediaPath).
				Warn("SetFile command failed (non-critical)")
		}
	}

	// Portable fallback: set atime/mtime directly, in local wall-clock
	// time, in case exiftool could not reach the filesystem dates.
	if local, err := time.ParseInLocation("01/02/2006 15:04:05", localFormatted, time.Local); err == nil {
		if err := os.Chtimes(mediaPath, local, local); err != nil {
			logrus.WithError(err).WithField("path", mediaPath).
				Warn("setting file times failed (non-critical)")
		}
	}

	return nil
}
