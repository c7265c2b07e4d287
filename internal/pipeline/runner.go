// Package pipeline sequences extraction, transcription, and transcript
// writing for a single job.
package pipeline

import (
	"context"
	"strings"

	"video-transcriber/internal/domain"
	"video-transcriber/internal/extract"
	"video-transcriber/internal/transcribe"
	"video-transcriber/internal/writer"
)

// Callbacks receive coarse progress updates during one run. Either field may
// be nil.
type Callbacks struct {
	OnStage func(status domain.JobStatus)
	OnLog   func(log domain.CommandLog)
}

// JobRunner isolates the pipeline behind an interface for front ends.
type JobRunner interface {
	Run(ctx context.Context, job domain.Job, cb Callbacks) (string, error)
}

// Runner executes the three pipeline steps strictly in order. On any step's
// failure the remaining steps are skipped, the audio artifact is removed,
// and no transcript file is written.
type Runner struct {
	extractor   extract.Extractor
	transcriber transcribe.Transcriber
	writer      writer.Writer
}

// New constructs a runner from capability providers.
func New(extractor extract.Extractor, transcriber transcribe.Transcriber, w writer.Writer) *Runner {
	return &Runner{
		extractor:   extractor,
		transcriber: transcriber,
		writer:      w,
	}
}

// NewDefault constructs the production pipeline: ffmpeg extraction, whisper
// transcription, plain text output.
func NewDefault() *Runner {
	return New(extract.NewFFmpeg(), transcribe.NewWhisperCLI(), writer.NewTextWriter())
}

// Run executes one job and returns the transcript path. No retries are
// performed; transient failures surface to the caller for manual re-run.
func (r *Runner) Run(ctx context.Context, job domain.Job, cb Callbacks) (string, error) {
	input := NormalizePath(job.InputPath)

	emitStage(cb, domain.JobStatusExtracting)
	artifact, err := r.extractor.Extract(ctx, input)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = artifact.Cleanup()
	}()
	emitLog(cb, artifact.Log)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	emitStage(cb, domain.JobStatusTranscribing)
	settings := domain.Settings{Model: job.Model, Language: job.Language}
	transcript, log, err := r.transcriber.Transcribe(ctx, artifact.AudioPath, settings)
	if log.Command != "" {
		emitLog(cb, log)
	}
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	emitStage(cb, domain.JobStatusWriting)
	outPath, err := r.writer.Write(input, transcript)
	if err != nil {
		return "", err
	}

	return outPath, nil
}

// NormalizePath strips surrounding whitespace and quotes from user-provided
// paths, which drag-and-drop and shell copy-paste commonly add.
func NormalizePath(path string) string {
	trimmed := strings.TrimSpace(path)
	trimmed = strings.Trim(trimmed, `"`)
	trimmed = strings.Trim(trimmed, `'`)
	return trimmed
}

// emitStage forwards stage updates when the callback is configured.
func emitStage(cb Callbacks, status domain.JobStatus) {
	if cb.OnStage != nil {
		cb.OnStage(status)
	}
}

// emitLog forwards command logs when the callback is configured.
func emitLog(cb Callbacks, log domain.CommandLog) {
	if cb.OnLog != nil {
		cb.OnLog(log)
	}
}
