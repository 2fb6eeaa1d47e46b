// Package model defines the core data structures shared across the
// GoProcure pipeline.
//
// # MediaItem
//
// MediaItem is the typed record of one GoPro cloud catalog entry:
//
//	item.BaseName()   // filename with any extension stripped
//	item.Extension()  // lower-cased file extension
//	item.HasMoments() // whether a highlights sidecar should be fetched
//
// # MediaGroup
//
// MediaGroup is the on-disk unit: a media file plus its metadata and
// highlights sidecars, associated by shared base name. It is the atomic
// unit of relocation during reorganization:
//
//	group := model.NewMediaGroup("/downloads/GX010042.mp4")
//	for _, path := range group.Files() { ... }
//
// # HighlightMarker
//
// HighlightMarker records one HiLight tag occurrence found in a GPMF
// telemetry stream. Only the byte offset is known; Timestamp is nil
// until full GPMF parsing exists.
package model
