// Package extract produces a temporary audio artifact from a video file by
// shelling out to ffmpeg.
package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"video-transcriber/internal/domain"
	"video-transcriber/internal/toolrun"
)

var supportedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

// SupportedExtensions returns the accepted video container extensions sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extractor produces a temporary 16 kHz mono WAV from a video file.
type Extractor interface {
	Extract(ctx context.Context, inputPath string) (Artifact, error)
}

// Artifact is the temporary audio file for one job. The caller owns cleanup.
type Artifact struct {
	AudioPath string
	Log       domain.CommandLog
	cleanup   func() error
}

// NewArtifact builds an artifact with an explicit cleanup action. Used by
// the production extractor and by test doubles in other packages.
func NewArtifact(audioPath string, log domain.CommandLog, cleanup func() error) Artifact {
	return Artifact{
		AudioPath: audioPath,
		Log:       log,
		cleanup:   cleanup,
	}
}

// Cleanup removes the temporary audio artifact. Safe to call more than once.
func (a *Artifact) Cleanup() error {
	if a == nil || a.cleanup == nil {
		return nil
	}

	err := a.cleanup()
	a.cleanup = nil
	return err
}

// FFmpeg extracts audio with the ffmpeg binary on PATH.
type FFmpeg struct {
	binary    string
	runner    toolrun.Runner
	lookPath  func(string) (string, error)
	stat      func(string) (os.FileInfo, error)
	mkdirTemp func(dir, pattern string) (string, error)
	removeAll func(path string) error
}

// NewFFmpeg constructs the production extractor with OS dependencies.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{
		binary:    "ffmpeg",
		runner:    &toolrun.Exec{},
		lookPath:  exec.LookPath,
		stat:      os.Stat,
		mkdirTemp: os.MkdirTemp,
		removeAll: os.RemoveAll,
	}
}

// Extract validates the input and converts its audio track to mono 16 kHz
// PCM WAV, the layout the recognition engine consumes.
func (f *FFmpeg) Extract(ctx context.Context, inputPath string) (Artifact, error) {
	input := strings.TrimSpace(inputPath)
	if input == "" {
		return Artifact{}, &domain.JobError{
			Kind:    domain.ErrInputNotFound,
			Message: "input video path is required",
		}
	}

	info, err := f.stat(input)
	if err != nil {
		return Artifact{}, &domain.JobError{
			Kind:    domain.ErrInputNotFound,
			Message: fmt.Sprintf("file not found: %s", input),
			Err:     err,
		}
	}
	if info.IsDir() {
		return Artifact{}, &domain.JobError{
			Kind:    domain.ErrInputNotFound,
			Message: fmt.Sprintf("path is a directory, not a video file: %s", input),
		}
	}

	ext := strings.ToLower(filepath.Ext(input))
	if !supportedExtensions[ext] {
		return Artifact{}, &domain.JobError{
			Kind: domain.ErrUnsupportedFormat,
			Message: fmt.Sprintf(
				"unsupported format %q, supported: %s",
				ext,
				strings.Join(SupportedExtensions(), ", "),
			),
		}
	}

	if _, err := f.lookPath(f.binary); err != nil {
		return Artifact{}, &domain.JobError{
			Kind:    domain.ErrDependencyMissing,
			Message: fmt.Sprintf("%s not found in PATH", f.binary),
			Err:     err,
		}
	}

	tempDir, err := f.mkdirTemp("", "video-transcriber-*")
	if err != nil {
		return Artifact{}, &domain.JobError{
			Kind:    domain.ErrExtractionFailed,
			Message: "failed to create temporary workspace",
			Err:     err,
		}
	}

	outPath := filepath.Join(tempDir, "audio-16k-mono.wav")
	args := buildFFmpegArgs(input, outPath)

	result, runErr := f.runner.Run(ctx, f.binary, args...)
	log := domain.CommandLog{
		Command:  f.binary,
		Args:     args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
	if runErr != nil {
		_ = f.removeAll(tempDir)
		return Artifact{}, &domain.JobError{
			Kind:       domain.ErrExtractionFailed,
			Message:    "ffmpeg audio extraction failed",
			CommandLog: log,
			Err:        runErr,
		}
	}

	if _, err := f.stat(outPath); err != nil {
		_ = f.removeAll(tempDir)
		return Artifact{}, &domain.JobError{
			Kind:       domain.ErrExtractionFailed,
			Message:    "ffmpeg completed but audio file is missing",
			CommandLog: log,
			Err:        err,
		}
	}

	return NewArtifact(outPath, log, func() error {
		return f.removeAll(tempDir)
	}), nil
}

// buildFFmpegArgs builds CLI args for mono 16k PCM WAV output.
func buildFFmpegArgs(inputPath, outPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	}
}

// NewFFmpegForTests constructs an extractor with injectable dependencies.
func NewFFmpegForTests(
	binary string,
	runner toolrun.Runner,
	lookPath func(string) (string, error),
	stat func(string) (os.FileInfo, error),
	mkdirTemp func(dir, pattern string) (string, error),
	removeAll func(path string) error,
) *FFmpeg {
	return &FFmpeg{
		binary:    binary,
		runner:    runner,
		lookPath:  lookPath,
		stat:      stat,
		mkdirTemp: mkdirTemp,
		removeAll: removeAll,
	}
}
