package gpmf

import (
	"bytes"
	"context"

	"github.com/aricha/GoProcure/internal/model"
	"github.com/aricha/GoProcure/internal/tooling"
)

// CodecTag identifies the GPMF telemetry stream inside a GoPro MP4
// container.
const CodecTag = "gpmd"

// hilightTag is the 4-byte GPMF key marking a HiLight moment record.
var hilightTag = []byte("HLMT")

// ScanForHighlights finds HiLight tag occurrences in a raw GPMF
// telemetry buffer.
//
// This is a heuristic byte-window scan, not a GPMF container parse:
// every offset i in [0, len-4) is tested against the 4-byte tag. It can
// miss markers and report false positives where the byte pattern occurs
// outside an actual highlight record, so callers must treat the count
// as approximate. Markers come back in strictly increasing offset
// order; an empty or sub-4-byte buffer yields an empty slice.
//
// Example:
//
//	raw, _ := extractor.ExtractStream(ctx, "clip.mp4", gpmf.CodecTag)
//	markers := gpmf.ScanForHighlights(raw)
//	fmt.Printf("found %d HiLight tags\n", len(markers))
func ScanForHighlights(buf []byte) []model.HighlightMarker {
	var markers []model.HighlightMarker
	for i := 0; i < len(buf)-4; i++ {
		if bytes.Equal(buf[i:i+4], hilightTag) {
			// Resolving the playback timestamp would require full GPMF
			// parsing; the marker keeps a nil Timestamp.
			markers = append(markers, model.HighlightMarker{Offset: i})
		}
	}
	return markers
}

// Extractor pulls the telemetry stream out of a video file and scans it
// for HiLight markers.
//
// The heavy lifting, probing the container and copying the raw stream,
// is delegated to a tooling.StreamExtractor, so tests can supply a fake
// instead of a real ffmpeg installation.
type Extractor struct {
	streams tooling.StreamExtractor
}

// NewExtractor creates an Extractor on top of a stream-extraction
// capability.
func NewExtractor(streams tooling.StreamExtractor) *Extractor {
	return &Extractor{streams: streams}
}

// Highlights extracts the GPMF stream from the video at mediaPath and
// returns its HiLight markers.
//
// A video without a telemetry stream is an error from the underlying
// extractor (tooling.ErrStreamNotFound); a telemetry stream without
// HiLight tags yields an empty slice and no error.
func (e *Extractor) Highlights(ctx context.Context, mediaPath string) ([]model.HighlightMarker, error) {
	raw, err := e.streams.ExtractStream(ctx, mediaPath, CodecTag)
	if err != nil {
		return nil, err
	}
	return ScanForHighlights(raw), nil
}
