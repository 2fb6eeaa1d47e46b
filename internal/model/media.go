package model

import (
	"path/filepath"
	"strings"
	"time"
)

// MediaItem represents one record from the GoPro cloud media catalog.
//
// MediaItem is immutable once fetched: it is decoded from the catalog
// search response, persisted verbatim to a metadata sidecar, and never
// mutated afterwards. Items are identified by ID against the remote
// catalog and by derived base name against local files.
//
// Example:
//
//	item := model.MediaItem{
//	    ID:            "abc123",
//	    Filename:      "GX010042.MP4",
//	    FileExtension: "MP4",
//	    CapturedAt:    "2024-06-01T14:30:00Z",
//	    MomentsCount:  3,
//	}
//	item.BaseName()  // "GX010042"
//	item.Extension() // "mp4"
type MediaItem struct {
	// ID is the catalog-unique media identifier.
	ID string `json:"id"`

	// Filename is the camera-assigned file name. It may or may not
	// carry an extension; BaseName strips one if present.
	Filename string `json:"filename"`

	// FileExtension is the remote file extension, in whatever case the
	// API returns it. Extension lower-cases it.
	FileExtension string `json:"file_extension"`

	// CapturedAt is the capture timestamp string as recorded by the
	// camera, e.g. "2024-06-01T14:30:00Z". Despite the trailing Z the
	// value represents local wall-clock time; see the capture package.
	CapturedAt string `json:"captured_at"`

	// MomentsCount is the number of HiLight moments recorded for this
	// item. Zero means no highlights sidecar will be fetched.
	MomentsCount int `json:"moments_count"`

	// CameraModel is the camera that captured the item, if reported.
	CameraModel string `json:"camera_model,omitempty"`

	// ContentTitle is the user-assigned title, if any.
	ContentTitle string `json:"content_title,omitempty"`

	// Type is the media type, e.g. "Video", "TimeLapseVideo", "Photo".
	Type string `json:"type,omitempty"`

	// FileSize is the payload size in bytes, when the catalog reports it.
	FileSize int64 `json:"file_size,omitempty"`

	// SourceDuration is the clip duration as reported by the catalog,
	// typically milliseconds encoded as a string.
	SourceDuration string `json:"source_duration,omitempty"`

	// Resolution is the vertical resolution label, e.g. "1080", "4K".
	Resolution string `json:"resolution,omitempty"`

	// CreatedAt is when the item was uploaded to the cloud.
	CreatedAt string `json:"created_at,omitempty"`

	// CapturedAtTimezone is the timezone name the camera reported for
	// the capture, when available.
	CapturedAtTimezone string `json:"captured_at_timezone,omitempty"`
}

// BaseName returns the item's file name with any extension stripped.
//
// The catalog sometimes reports filenames with an extension
// ("GX010042.MP4") and sometimes without; local sidecars and payload
// paths are always derived from the stripped form.
func (m *MediaItem) BaseName() string {
	name := filepath.Base(m.Filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Extension returns the lower-cased file extension without a leading dot.
func (m *MediaItem) Extension() string {
	return strings.ToLower(m.FileExtension)
}

// HasMoments returns true if the camera recorded HiLight moments for
// this item, meaning a highlights sidecar should be fetched.
func (m *MediaItem) HasMoments() bool {
	return m.MomentsCount > 0
}

// HighlightMarker is one occurrence of a HiLight tag found in a GPMF
// telemetry stream.
//
// Only the byte offset of the tag within the raw stream is known;
// resolving the marker to a playback timestamp would require full GPMF
// container parsing, so Timestamp stays nil.
type HighlightMarker struct {
	// Offset is the byte position of the tag within the telemetry stream.
	Offset int `json:"offset"`

	// Timestamp is the playback time of the highlight. Always nil with
	// the current heuristic scan.
	Timestamp *time.Duration `json:"timestamp"`
}

// DownloadInfo holds the resolved download URLs for a single media item.
type DownloadInfo struct {
	// FileURL is the URL of the primary media payload.
	FileURL string

	// SidecarURLs maps sidecar labels to their download URLs. The GPMF
	// telemetry sidecar carries the label "gpmf".
	SidecarURLs map[string]string
}

// GPMFSidecarLabel identifies the telemetry sidecar among an item's
// sidecar files.
const GPMFSidecarLabel = "gpmf"

// GPMFURL returns the telemetry sidecar URL, or "" if the item has none.
func (d *DownloadInfo) GPMFURL() string {
	return d.SidecarURLs[GPMFSidecarLabel]
}
