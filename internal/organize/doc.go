// Package organize relocates downloaded media groups into
// capture-date folders.
//
// For each video file discovered in the source directory the organizer
// resolves its group (the required metadata sidecar plus an optional
// highlights sidecar), reads captured_at from the metadata, rewrites
// the file's embedded and filesystem timestamps through a
// TimestampWriter, and moves or copies the whole group into
// organized_videos/YYYY-MM-DD/ beneath the source directory.
//
// # Failure policy
//
// A video without a metadata sidecar is skipped with a warning; GPMF
// sidecars and stray clips land here. Malformed metadata, a
// missing captured_at, a failed timestamp rewrite, or a failed move
// fail that one group only; the run continues.
//
// # Dry run
//
// Dry-run mode makes the same classification decisions as a real run
// but leaves the filesystem byte-for-byte unchanged: no directories,
// no moves, no timestamp rewrites.
//
// # Timestamps only
//
// Timestamps-only mode rewrites each group's embedded and filesystem
// timestamps in place and skips relocation, for fixing up directories
// whose layout should not change.
//
// # Known limitation
//
// Relocation is file-by-file, not transactional: a crash partway
// through a group can leave it split between the source and destination
// directories. No recovery is attempted.
package organize
