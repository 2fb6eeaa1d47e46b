// Package gpmf recovers HiLight moment markers from the GPMF telemetry
// stream embedded in GoPro video containers.
//
// The scan is deliberately shallow: ScanForHighlights slides a 4-byte
// window over the raw stream looking for the ASCII tag "HLMT" and
// records each match's byte offset. It does not parse GPMF structure,
// so marker counts are approximate. If higher fidelity is ever needed,
// a real container parser can replace the scan behind the same
// marker-sequence contract.
//
// Obtaining the raw stream is delegated to tooling.StreamExtractor: the
// container is probed for a stream with codec tag "gpmd" and that
// stream is copied out without re-encoding.
//
//	extractor := gpmf.NewExtractor(ffmpegExtractor)
//	markers, err := extractor.Highlights(ctx, "/downloads/GX010042.mp4")
package gpmf
