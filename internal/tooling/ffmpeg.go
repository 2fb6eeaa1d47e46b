package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// ErrStreamNotFound is returned when a container has no stream with the
// requested codec tag.
var ErrStreamNotFound = errors.New("no matching stream found")

// FFmpegExtractor extracts raw data streams from media containers by
// shelling out to ffprobe and ffmpeg.
//
// Stream discovery uses ffprobe's JSON output; extraction maps the
// matching stream index and copies the codec bitstream to stdout
// without re-encoding.
type FFmpegExtractor struct {
	ffprobePath string
	ffmpegPath  string
}

// NewFFmpegExtractor locates ffprobe and ffmpeg on PATH.
//
// Returns an *UnavailableError if either tool is missing; callers that
// need telemetry extraction should fail before touching any file.
func NewFFmpegExtractor() (*FFmpegExtractor, error) {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, &UnavailableError{Tool: "ffprobe", Hint: "Install ffmpeg (which provides ffprobe) first."}
	}
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, &UnavailableError{Tool: "ffmpeg", Hint: "Install ffmpeg first."}
	}
	return &FFmpegExtractor{ffprobePath: ffprobe, ffmpegPath: ffmpeg}, nil
}

// probeStream is the subset of ffprobe's stream description we need.
type probeStream struct {
	Index          int    `json:"index"`
	CodecTagString string `json:"codec_tag_string"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

// ExtractStream implements StreamExtractor.
func (e *FFmpegExtractor) ExtractStream(ctx context.Context, mediaPath, codecTag string) ([]byte, error) {
	index, err := e.findStreamIndex(ctx, mediaPath, codecTag)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-i", mediaPath,
		"-map", fmt.Sprintf("0:%d", index),
		"-codec", "copy",
		"-f", "data",
		"-",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ExecError{Tool: "ffmpeg", Stderr: stderr.String(), Err: err}
	}

	return stdout.Bytes(), nil
}

// findStreamIndex probes the container and returns the index of the
// first stream whose codec tag matches.
func (e *FFmpegExtractor) findStreamIndex(ctx context.Context, mediaPath, codecTag string) (int, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		mediaPath,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, &ExecError{Tool: "ffprobe", Stderr: stderr.String(), Err: err}
	}

	var probe probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("parsing ffprobe output for %s: %w", mediaPath, err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecTagString == codecTag {
			return stream.Index, nil
		}
	}

	return 0, fmt.Errorf("%w: codec tag %q in %s", ErrStreamNotFound, codecTag, mediaPath)
}
