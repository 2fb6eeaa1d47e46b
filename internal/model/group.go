package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Sidecar file name suffixes. Sidecars share the media file's base name.
const (
	MetadataSuffix   = "_metadata.json"
	HighlightsSuffix = "_highlights.json"
	GPMFSuffix       = "_gpmf"
)

// MediaGroup is the on-disk unit of acquisition and relocation: one
// media file plus its JSON sidecars, associated by shared base name.
//
// The metadata sidecar is required; a media file without one cannot be
// classified by capture date. The highlights sidecar and the GPMF
// telemetry sidecar are optional.
//
// Example:
//
//	group := model.NewMediaGroup("/downloads/GX010042.mp4")
//	group.MetadataPath   // "/downloads/GX010042_metadata.json"
//	group.HighlightsPath // "/downloads/GX010042_highlights.json"
type MediaGroup struct {
	// MediaPath is the path of the media file itself.
	MediaPath string

	// MetadataPath is the path of the required metadata sidecar.
	MetadataPath string

	// HighlightsPath is the path of the optional highlights sidecar.
	// The file may not exist; callers must check.
	HighlightsPath string

	// HasHighlights records whether the highlights sidecar was found
	// on disk when the group was resolved.
	HasHighlights bool
}

// NewMediaGroup derives the sidecar paths for a media file.
func NewMediaGroup(mediaPath string) *MediaGroup {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return &MediaGroup{
		MediaPath:      mediaPath,
		MetadataPath:   base + MetadataSuffix,
		HighlightsPath: base + HighlightsSuffix,
	}
}

// BaseName returns the group's shared base name without directory or
// extension.
func (g *MediaGroup) BaseName() string {
	name := filepath.Base(g.MediaPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Files returns the paths that make up the group, media file first,
// then the metadata sidecar, then the highlights sidecar if present.
// Relocation processes the group in this order.
func (g *MediaGroup) Files() []string {
	files := []string{g.MediaPath, g.MetadataPath}
	if g.HasHighlights {
		files = append(files, g.HighlightsPath)
	}
	return files
}

// MetadataSidecarPath returns the metadata sidecar path for a base name
// inside dir.
func MetadataSidecarPath(dir, baseName string) string {
	return filepath.Join(dir, baseName+MetadataSuffix)
}

// HighlightsSidecarPath returns the highlights sidecar path for a base
// name inside dir.
func HighlightsSidecarPath(dir, baseName string) string {
	return filepath.Join(dir, baseName+HighlightsSuffix)
}

// MediaFilePath returns the payload path for a base name and extension
// inside dir.
func MediaFilePath(dir, baseName, extension string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", baseName, extension))
}

// GPMFSidecarPath returns the telemetry sidecar path for a base name
// and extension inside dir, e.g. "GX010042_gpmf.mp4".
func GPMFSidecarPath(dir, baseName, extension string) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s.%s", baseName, GPMFSuffix, extension))
}
