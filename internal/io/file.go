// Package ioutils provides file system utilities for GoProcure.
//
// This package contains functions for:
//   - Idempotent sidecar writing (create-if-absent)
//   - File copying and moving, including across filesystems
//   - Filename sanitization
//   - Directory creation
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"
)

// CopyFile copies a file from source to destination, preserving the
// source file's modification time on the copy.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
//
// Example:
//
//	err := CopyFile(ctx, "/downloads/clip.mp4", "/organized/2024-06-01/clip.mp4")
func CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(destFile, sourceFile)
	if closeErr := destFile.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	// Keep the copy's mtime in line with the source so a later
	// timestamp rewrite is the only thing that changes it.
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// MoveFile moves a file from source to destination.
//
// A plain rename is attempted first; when the destination is on a
// different filesystem the move degrades to copy-then-remove.
//
// Example:
//
//	err := MoveFile(ctx, "/downloads/clip.mp4", "/organized/2024-06-01/clip.mp4")
func MoveFile(ctx context.Context, src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := CopyFile(ctx, src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// WriteFileIfAbsent writes data to path only if no file exists there.
//
// The check and the create are a single operation (O_CREATE|O_EXCL),
// so two concurrent writers for the same path cannot both succeed and
// an existing file is never truncated. Returns (false, nil) when the
// file was already present.
//
// This is the idempotency primitive for metadata and highlights
// sidecars: once written, a sidecar is never rewritten.
//
// Example:
//
//	created, err := WriteFileIfAbsent(ctx, "/downloads/GX010042_metadata.json", data)
//	if !created {
//	    // sidecar already existed; nothing was fetched or written
//	}
func WriteFileIfAbsent(ctx context.Context, path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}

	_, err = f.Write(data)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err == nil, err
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// This function ensures filenames are valid across different operating systems,
// particularly Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Clip: Part 1/2")      // Returns "Clip_ Part 1_2"
//	SanitizeFileName("Clip...")             // Returns "Clip"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	// Replace invalid path/file characters with underscore
	// Characters: < > : " / \ | ? * and control characters (0x00-0x1f)
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots (Windows doesn't allow filenames ending with dots)
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space for cleaner names
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/downloads/organized_videos/2024-06-01")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
