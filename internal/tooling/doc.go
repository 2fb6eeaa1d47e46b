// Package tooling models the external media tools as narrow capability
// interfaces so the core pipeline stays testable without ffmpeg or
// exiftool installed.
//
// # StreamExtractor
//
// StreamExtractor finds a codec-tagged stream inside a container and
// returns its raw bytes. FFmpegExtractor implements it with ffprobe
// (stream discovery) and ffmpeg (bitstream copy to stdout).
//
// # TimestampWriter
//
// TimestampWriter rewrites a file's embedded date tags and filesystem
// timestamps. ExifToolWriter implements it with exiftool, plus an
// optional macOS SetFile pass.
//
// # Errors
//
// A missing executable is an *UnavailableError, raised by the
// constructors before any file is touched. A tool that runs but exits
// non-zero is an *ExecError carrying its stderr.
package tooling
