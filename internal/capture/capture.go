package capture

import (
	"fmt"
	"strings"
	"time"
)

// captureLayout is the wire format of captured_at once the trailing UTC
// marker has been stripped.
const captureLayout = "2006-01-02T15:04:05"

// MetadataError reports a missing or unparsable metadata field.
//
// It names the offending field and the raw value so callers can log
// exactly what the sidecar contained.
type MetadataError struct {
	// Field is the metadata field that failed, e.g. "captured_at".
	Field string

	// Value is the raw string value that could not be interpreted.
	Value string

	// Err is the underlying cause, if any.
	Err error
}

func (e *MetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// CaptureTime is a parsed capture timestamp with the formatting outputs
// the reorganizer and the metadata writer need.
//
// Example:
//
//	ct, err := capture.ParseCaptureTime("2024-06-01T14:30:00Z")
//	ct.DateFolder() // "2024-06-01"
//	ct.ExifUTC()    // "2024:06:01 04:30:00+00:00" on a UTC+10 machine
type CaptureTime struct {
	local time.Time
}

// ParseCaptureTime parses a captured_at string from GoPro metadata.
//
// The cloud records capture times as local wall-clock time but appends
// a UTC "Z" marker anyway. The marker is therefore stripped and the
// naive timestamp is interpreted in the machine's local zone. This
// mirrors the upstream convention; do not "fix" it by honoring the Z,
// or every derived date shifts by the local UTC offset.
//
// Returns a *MetadataError naming the field and value on any parse
// failure.
func ParseCaptureTime(capturedAt string) (CaptureTime, error) {
	trimmed := strings.TrimSuffix(capturedAt, "Z")

	t, err := time.ParseInLocation(captureLayout, trimmed, time.Local)
	if err != nil {
		return CaptureTime{}, &MetadataError{Field: "captured_at", Value: capturedAt, Err: err}
	}

	return CaptureTime{local: t}, nil
}

// Local returns the capture time with the system's local zone attached.
func (c CaptureTime) Local() time.Time {
	return c.local
}

// ExifUTC returns the UTC-equivalent timestamp in the format exiftool
// expects for -AllDates and the file date tags: "YYYY:MM:DD HH:MM:SS+00:00".
func (c CaptureTime) ExifUTC() string {
	return c.local.UTC().Format("2006:01:02 15:04:05+00:00")
}

// MacOS returns the local wall-clock time formatted for the macOS
// SetFile tool: "MM/DD/YYYY HH:MM:SS".
func (c CaptureTime) MacOS() string {
	return c.local.Format("01/02/2006 15:04:05")
}

// DateFolder returns the destination folder name for date-based
// organization: "YYYY-MM-DD".
//
// Because the wall-clock value is parsed as local time, the date
// portion is stable across machines in different zones even though the
// UTC-equivalent clock time shifts.
func (c CaptureTime) DateFolder() string {
	return c.local.Format("2006-01-02")
}
