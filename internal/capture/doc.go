// Package capture converts GoPro captured_at timestamp strings into
// the local, UTC, and date-folder representations used by the
// reorganizer and the external metadata writer.
//
// # The stray UTC marker
//
// GoPro cloud metadata records capture times as local wall-clock time
// but still appends a "Z" suffix. ParseCaptureTime strips the marker
// and interprets the naive timestamp in the machine's local zone,
// matching the upstream convention. The resulting date folder is
// therefore stable across time zones while the UTC-equivalent clock
// time is not.
//
//	ct, err := capture.ParseCaptureTime("2024-06-01T14:30:00Z")
//	ct.DateFolder() // "2024-06-01" on every machine
//
// Parse failures surface as *MetadataError naming the field and value.
package capture
