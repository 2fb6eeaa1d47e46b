package organize

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// fakeWriter records timestamp-rewrite calls and can be told to fail.
type fakeWriter struct {
	calls []string
	utc   []string
	fail  bool

	// sourceExistedAtCall records whether the media file was still at
	// its source path when the rewrite ran, proving rewrite-before-move.
	sourceExistedAtCall []bool
}

func (f *fakeWriter) WriteTimestamps(_ context.Context, mediaPath, utcFormatted, _ string) error {
	f.calls = append(f.calls, mediaPath)
	f.utc = append(f.utc, utcFormatted)
	_, statErr := os.Stat(mediaPath)
	f.sourceExistedAtCall = append(f.sourceExistedAtCall, statErr == nil)
	if f.fail {
		return fmt.Errorf("simulated exiftool failure")
	}
	return nil
}

// writeGroup creates a video plus sidecars in dir and returns the video
// path.
func writeGroup(t *testing.T, dir, base, capturedAt string, withHighlights bool) string {
	t.Helper()
	videoPath := filepath.Join(dir, base+".mp4")
	if err := os.WriteFile(videoPath, []byte("video-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	meta := fmt.Sprintf(`{"id": "x", "captured_at": %q, "file_extension": "MP4"}`, capturedAt)
	if err := os.WriteFile(filepath.Join(dir, base+"_metadata.json"), []byte(meta), 0644); err != nil {
		t.Fatal(err)
	}
	if withHighlights {
		if err := os.WriteFile(filepath.Join(dir, base+"_highlights.json"), []byte(`{"moments":[]}`), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return videoPath
}

// snapshotTree lists every path under root with its size, for
// byte-for-byte dry-run comparison.
func snapshotTree(t *testing.T, root string) []string {
	t.Helper()
	var entries []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			entries = append(entries, rel+"/")
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, fmt.Sprintf("%s:%d:%d", rel, info.Size(), info.ModTime().UnixNano()))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(entries)
	return entries
}

func TestOrganizer_MoveMode(t *testing.T) {
	dir := t.TempDir()
	writeGroup(t, dir, "clip", "2023-01-02T10:00:00", true)

	writer := &fakeWriter{}
	organizer, err := New(dir, writer, Options{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 || result.Errors != 0 {
		t.Errorf("result = %+v, want 1 processed, 0 errors", result)
	}

	destDir := filepath.Join(dir, "organized_videos", "2023-01-02")
	for _, name := range []string{"clip.mp4", "clip_metadata.json", "clip_highlights.json"} {
		if _, err := os.Stat(filepath.Join(destDir, name)); err != nil {
			t.Errorf("%s missing from destination: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s still present in source after move", name)
		}
	}

	if len(writer.calls) != 1 {
		t.Fatalf("writer called %d times, want 1", len(writer.calls))
	}
	if !writer.sourceExistedAtCall[0] {
		t.Error("timestamp rewrite ran after the file was moved, want before")
	}
}

func TestOrganizer_CopyMode(t *testing.T) {
	dir := t.TempDir()
	writeGroup(t, dir, "clip", "2023-01-02T10:00:00", false)

	organizer, err := New(dir, &fakeWriter{}, Options{Copy: true})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := organizer.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	destDir := filepath.Join(dir, "organized_videos", "2023-01-02")
	for _, name := range []string{"clip.mp4", "clip_metadata.json"} {
		if _, err := os.Stat(filepath.Join(destDir, name)); err != nil {
			t.Errorf("%s missing from destination: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing from source after copy: %v", name, err)
		}
	}
}

func TestOrganizer_MissingMetadataIsWarning(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stray.mp4"), []byte("v"), 0644); err != nil {
		t.Fatal(err)
	}

	organizer, err := New(dir, &fakeWriter{}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.Errors != 0 {
		t.Errorf("Errors = %d, want 0: missing sidecar is a warning", result.Errors)
	}
	if _, err := os.Stat(filepath.Join(dir, "stray.mp4")); err != nil {
		t.Error("skipped video was relocated")
	}
}

func TestOrganizer_BadMetadataFailsGroupOnly(t *testing.T) {
	dir := t.TempDir()

	// Group 1: malformed JSON.
	if err := os.WriteFile(filepath.Join(dir, "bad.mp4"), []byte("v"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad_metadata.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	// Group 2: missing captured_at.
	if err := os.WriteFile(filepath.Join(dir, "nodate.mp4"), []byte("v"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nodate_metadata.json"), []byte(`{"id":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}
	// Group 3: fine.
	writeGroup(t, dir, "good", "2024-06-01T14:30:00Z", false)

	organizer, err := New(dir, &fakeWriter{}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Errors != 2 {
		t.Errorf("Errors = %d, want 2", result.Errors)
	}
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1: good group must still relocate", result.Processed)
	}
	if _, err := os.Stat(filepath.Join(dir, "organized_videos", "2024-06-01", "good.mp4")); err != nil {
		t.Errorf("good group not relocated: %v", err)
	}
}

func TestOrganizer_DryRunLeavesTreeUntouched(t *testing.T) {
	dir := t.TempDir()
	writeGroup(t, dir, "clip", "2023-01-02T10:00:00", true)

	before := snapshotTree(t, dir)

	writer := &fakeWriter{}
	organizer, err := New(dir, writer, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Same classification decision as a real run...
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
	// ...but zero mutation and zero rewrites.
	if len(writer.calls) != 0 {
		t.Errorf("writer called %d times in dry-run, want 0", len(writer.calls))
	}
	after := snapshotTree(t, dir)
	if len(before) != len(after) {
		t.Fatalf("tree changed in dry-run: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("tree entry changed in dry-run: %q -> %q", before[i], after[i])
		}
	}
}

func TestOrganizer_DryRunNeedsNoWriter(t *testing.T) {
	dir := t.TempDir()
	writeGroup(t, dir, "clip", "2023-01-02T10:00:00", false)

	organizer, err := New(dir, nil, Options{DryRun: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := organizer.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestOrganizer_NilWriterRejectedOutsideDryRun(t *testing.T) {
	if _, err := New(t.TempDir(), nil, Options{}); err == nil {
		t.Fatal("expected error for nil writer outside dry-run")
	}
}

func TestOrganizer_FailedRewriteBlocksRelocation(t *testing.T) {
	dir := t.TempDir()
	writeGroup(t, dir, "clip", "2023-01-02T10:00:00", false)

	organizer, err := New(dir, &fakeWriter{fail: true}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Errors != 1 || result.Processed != 0 {
		t.Errorf("result = %+v, want 1 error, 0 processed", result)
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.mp4")); err != nil {
		t.Error("group relocated despite failed timestamp rewrite")
	}
}

func TestOrganizer_TimestampsOnlyLeavesFilesInPlace(t *testing.T) {
	dir := t.TempDir()
	writeGroup(t, dir, "clip", "2023-01-02T10:00:00", true)

	writer := &fakeWriter{}
	organizer, err := New(dir, writer, Options{TimestampsOnly: true})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 || result.Errors != 0 {
		t.Errorf("result = %+v, want 1 processed, 0 errors", result)
	}

	if len(writer.calls) != 1 || filepath.Base(writer.calls[0]) != "clip.mp4" {
		t.Fatalf("writer calls = %v, want just clip.mp4", writer.calls)
	}

	// Everything stays where it was; no destination tree is created.
	for _, name := range []string{"clip.mp4", "clip_metadata.json", "clip_highlights.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s relocated in timestamps-only mode: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "organized_videos")); !os.IsNotExist(err) {
		t.Error("destination tree created in timestamps-only mode")
	}
}

func TestOrganizer_TimestampsOnlyDryRunRewritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeGroup(t, dir, "clip", "2023-01-02T10:00:00", false)

	writer := &fakeWriter{}
	organizer, err := New(dir, writer, Options{TimestampsOnly: true, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
	if len(writer.calls) != 0 {
		t.Errorf("writer called %d times in dry-run, want 0", len(writer.calls))
	}
}

func TestOrganizer_RecursiveSkipsOrganizedTree(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "batch1")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeGroup(t, sub, "nested", "2024-06-01T14:30:00Z", false)

	// Already-organized content must not be reprocessed.
	organized := filepath.Join(dir, "organized_videos", "2020-01-01")
	if err := os.MkdirAll(organized, 0755); err != nil {
		t.Fatal(err)
	}
	writeGroup(t, organized, "done", "2020-01-01T00:00:00Z", false)

	writer := &fakeWriter{}
	organizer, err := New(dir, writer, Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}

	result, err := organizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1 (nested only)", result.Processed)
	}
	if len(writer.calls) != 1 || filepath.Base(writer.calls[0]) != "nested.mp4" {
		t.Errorf("writer calls = %v, want just nested.mp4", writer.calls)
	}
	if _, err := os.Stat(filepath.Join(organized, "done.mp4")); err != nil {
		t.Error("already-organized file was moved")
	}
}
