// Package transcribe adapts the external whisper speech-recognition engine.
// The engine is an opaque collaborator: it is invoked by model name and
// manages its own weight cache, this package only parses what it emits.
package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"video-transcriber/internal/domain"
	"video-transcriber/internal/toolrun"
)

// Transcriber converts an audio artifact into an ordered transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error)
}

// whisperResult mirrors the JSON document the whisper CLI writes.
type whisperResult struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []domain.Segment `json:"segments"`
}

// WhisperCLI invokes the whisper command-line front end.
type WhisperCLI struct {
	binary    string
	runner    toolrun.Runner
	lookPath  func(string) (string, error)
	mkdirTemp func(dir, pattern string) (string, error)
	removeAll func(path string) error
	readFile  func(name string) ([]byte, error)
}

// NewWhisperCLI constructs the production transcriber with OS dependencies.
func NewWhisperCLI() *WhisperCLI {
	return &WhisperCLI{
		binary:    "whisper",
		runner:    &toolrun.Exec{},
		lookPath:  exec.LookPath,
		mkdirTemp: os.MkdirTemp,
		removeAll: os.RemoveAll,
		readFile:  os.ReadFile,
	}
}

// Transcribe runs the engine against one audio artifact and parses the JSON
// result into ordered segments. Loading a model the engine has not fetched
// before may incur a one-time download inside the engine itself.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error) {
	model := strings.TrimSpace(settings.Model)
	if model == "" {
		model = domain.DefaultModel
	}
	if !domain.IsValidModel(model) {
		return domain.Transcript{}, domain.CommandLog{}, &domain.JobError{
			Kind: domain.ErrTranscriptionFailed,
			Message: fmt.Sprintf(
				"unknown model %q, valid models: %s",
				model,
				strings.Join(domain.ModelIDs(), ", "),
			),
		}
	}

	if _, err := w.lookPath(w.binary); err != nil {
		return domain.Transcript{}, domain.CommandLog{}, &domain.JobError{
			Kind:    domain.ErrDependencyMissing,
			Message: fmt.Sprintf("%s not found in PATH", w.binary),
			Err:     err,
		}
	}

	outDir, err := w.mkdirTemp("", "whisper-out-*")
	if err != nil {
		return domain.Transcript{}, domain.CommandLog{}, &domain.JobError{
			Kind:    domain.ErrTranscriptionFailed,
			Message: "failed to create engine output directory",
			Err:     err,
		}
	}
	defer func() {
		_ = w.removeAll(outDir)
	}()

	args := buildWhisperArgs(audioPath, model, outDir, settings.Language)
	result, runErr := w.runner.Run(ctx, w.binary, args...)
	log := domain.CommandLog{
		Command:  w.binary,
		Args:     args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
	if runErr != nil {
		return domain.Transcript{}, log, &domain.JobError{
			Kind:       domain.ErrTranscriptionFailed,
			Message:    "whisper transcription failed",
			CommandLog: log,
			Err:        runErr,
		}
	}

	resultPath := filepath.Join(outDir, resultFileName(audioPath))
	data, err := w.readFile(resultPath)
	if err != nil {
		return domain.Transcript{}, log, &domain.JobError{
			Kind:       domain.ErrTranscriptionFailed,
			Message:    "whisper completed but result file is missing",
			CommandLog: log,
			Err:        err,
		}
	}

	var parsed whisperResult
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.Transcript{}, log, &domain.JobError{
			Kind:       domain.ErrTranscriptionFailed,
			Message:    fmt.Sprintf("cannot parse engine result: %s", resultPath),
			CommandLog: log,
			Err:        err,
		}
	}

	transcript := domain.Transcript{
		Language: parsed.Language,
		Segments: parsed.Segments,
	}
	if len(transcript.Segments) == 0 && strings.TrimSpace(parsed.Text) != "" {
		transcript.Segments = []domain.Segment{{Text: strings.TrimSpace(parsed.Text)}}
	}

	return transcript, log, nil
}

// buildWhisperArgs builds engine args for JSON result export.
func buildWhisperArgs(audioPath, model, outDir, language string) []string {
	args := []string{
		audioPath,
		"--model", model,
		"--output_dir", outDir,
		"--output_format", "json",
	}

	if lang := normalizeLanguage(language); lang != "" {
		args = append(args, "--language", lang)
	}

	return args
}

// normalizeLanguage maps "auto" and empty language to no CLI override.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}

// resultFileName is the engine's naming scheme: <audio-basename>.json.
func resultFileName(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// NewWhisperCLIForTests constructs a transcriber with injectable dependencies.
func NewWhisperCLIForTests(
	binary string,
	runner toolrun.Runner,
	lookPath func(string) (string, error),
	mkdirTemp func(dir, pattern string) (string, error),
	removeAll func(path string) error,
	readFile func(name string) ([]byte, error),
) *WhisperCLI {
	return &WhisperCLI{
		binary:    binary,
		runner:    runner,
		lookPath:  lookPath,
		mkdirTemp: mkdirTemp,
		removeAll: removeAll,
		readFile:  readFile,
	}
}
