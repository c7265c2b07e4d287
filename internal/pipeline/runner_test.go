package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"video-transcriber/internal/domain"
	"video-transcriber/internal/extract"
	"video-transcriber/internal/writer"
)

// fakeExtractor returns a canned artifact or error.
type fakeExtractor struct {
	extract func(ctx context.Context, inputPath string) (extract.Artifact, error)
}

// Extract delegates to injected behavior.
func (f *fakeExtractor) Extract(ctx context.Context, inputPath string) (extract.Artifact, error) {
	return f.extract(ctx, inputPath)
}

// fakeTranscriber returns a canned transcript or error.
type fakeTranscriber struct {
	transcribe func(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error)
}

// Transcribe delegates to injected behavior.
func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error) {
	return f.transcribe(ctx, audioPath, settings)
}

func helloTranscript() domain.Transcript {
	return domain.Transcript{
		Language: "en",
		Segments: []domain.Segment{{ID: 0, Start: 0, End: 1.2, Text: " hello world"}},
	}
}

// TestRunWritesTranscriptBesideSource checks the end-to-end happy path:
// sample.mp4 with simulated engine output "hello world" yields sample.txt.
func TestRunWritesTranscriptBesideSource(t *testing.T) {
	root := t.TempDir()
	inputPath := filepath.Join(root, "sample.mp4")

	cleaned := false
	extractor := &fakeExtractor{
		extract: func(ctx context.Context, path string) (extract.Artifact, error) {
			if path != inputPath {
				t.Fatalf("extractor input = %q, want %q", path, inputPath)
			}
			return extract.NewArtifact("/tmp/audio.wav", domain.CommandLog{Command: "ffmpeg"}, func() error {
				cleaned = true
				return nil
			}), nil
		},
	}
	transcriber := &fakeTranscriber{
		transcribe: func(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error) {
			if audioPath != "/tmp/audio.wav" {
				t.Fatalf("audio path = %q", audioPath)
			}
			if settings.Model != "base" {
				t.Fatalf("model = %q, want base", settings.Model)
			}
			return helloTranscript(), domain.CommandLog{Command: "whisper"}, nil
		},
	}

	var stages []domain.JobStatus
	var commands []string
	runner := New(extractor, transcriber, writer.NewTextWriter())
	outPath, err := runner.Run(context.Background(), domain.Job{
		ID:        "job-1",
		InputPath: inputPath,
		Model:     "base",
		Language:  "auto",
	}, Callbacks{
		OnStage: func(status domain.JobStatus) { stages = append(stages, status) },
		OnLog:   func(log domain.CommandLog) { commands = append(commands, log.Command) },
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outPath != filepath.Join(root, "sample.txt") {
		t.Fatalf("output path = %q", outPath)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("transcript content = %q, want %q", string(data), "hello world")
	}

	wantStages := []domain.JobStatus{domain.JobStatusExtracting, domain.JobStatusTranscribing, domain.JobStatusWriting}
	if len(stages) != len(wantStages) {
		t.Fatalf("stages = %v, want %v", stages, wantStages)
	}
	for i := range wantStages {
		if stages[i] != wantStages[i] {
			t.Fatalf("stages = %v, want %v", stages, wantStages)
		}
	}
	if len(commands) != 2 || commands[0] != "ffmpeg" || commands[1] != "whisper" {
		t.Fatalf("command logs = %v", commands)
	}
	if !cleaned {
		t.Fatal("audio artifact must be cleaned up after success")
	}
}

// TestRunMissingInputWritesNothing checks the missing.mp4 scenario: the
// error kind surfaces and no .txt file appears.
func TestRunMissingInputWritesNothing(t *testing.T) {
	root := t.TempDir()
	inputPath := filepath.Join(root, "missing.mp4")

	extractor := &fakeExtractor{
		extract: func(ctx context.Context, path string) (extract.Artifact, error) {
			return extract.Artifact{}, &domain.JobError{
				Kind:    domain.ErrInputNotFound,
				Message: "file not found: " + path,
			}
		},
	}
	transcriber := &fakeTranscriber{
		transcribe: func(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error) {
			t.Fatal("transcriber must not run after extraction failure")
			return domain.Transcript{}, domain.CommandLog{}, nil
		},
	}

	runner := New(extractor, transcriber, writer.NewTextWriter())
	_, err := runner.Run(context.Background(), domain.Job{InputPath: inputPath}, Callbacks{})

	var jobErr *domain.JobError
	if !errors.As(err, &jobErr) || jobErr.Kind != domain.ErrInputNotFound {
		t.Fatalf("error = %v, want InputNotFound", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "missing.txt")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("no transcript may be written, stat err = %v", statErr)
	}
}

// TestRunTranscriptionFailureCleansArtifactAndWritesNothing checks the
// no-partial-output and cleanup invariants on a mid-pipeline failure.
func TestRunTranscriptionFailureCleansArtifactAndWritesNothing(t *testing.T) {
	root := t.TempDir()
	inputPath := filepath.Join(root, "talk.mov")

	cleaned := false
	extractor := &fakeExtractor{
		extract: func(ctx context.Context, path string) (extract.Artifact, error) {
			return extract.NewArtifact("/tmp/audio.wav", domain.CommandLog{Command: "ffmpeg"}, func() error {
				cleaned = true
				return nil
			}), nil
		},
	}
	transcriber := &fakeTranscriber{
		transcribe: func(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error) {
			log := domain.CommandLog{Command: "whisper", ExitCode: 1, Stderr: "bad model"}
			return domain.Transcript{}, log, &domain.JobError{
				Kind:       domain.ErrTranscriptionFailed,
				Message:    "whisper transcription failed",
				CommandLog: log,
				Err:        errors.New("exit status 1"),
			}
		},
	}

	runner := New(extractor, transcriber, writer.NewTextWriter())
	_, err := runner.Run(context.Background(), domain.Job{InputPath: inputPath}, Callbacks{})

	var jobErr *domain.JobError
	if !errors.As(err, &jobErr) || jobErr.Kind != domain.ErrTranscriptionFailed {
		t.Fatalf("error = %v, want TranscriptionFailed", err)
	}
	if !cleaned {
		t.Fatal("audio artifact must be cleaned up after failure")
	}
	if _, statErr := os.Stat(filepath.Join(root, "talk.txt")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("no partial transcript may be written, stat err = %v", statErr)
	}
}

// TestRunCancelledBetweenStages checks that cancellation stops the pipeline
// before transcription and still cleans up.
func TestRunCancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cleaned := false
	extractor := &fakeExtractor{
		extract: func(ctx context.Context, path string) (extract.Artifact, error) {
			cancel()
			return extract.NewArtifact("/tmp/audio.wav", domain.CommandLog{}, func() error {
				cleaned = true
				return nil
			}), nil
		},
	}
	transcriber := &fakeTranscriber{
		transcribe: func(ctx context.Context, audioPath string, settings domain.Settings) (domain.Transcript, domain.CommandLog, error) {
			t.Fatal("transcriber must not run after cancellation")
			return domain.Transcript{}, domain.CommandLog{}, nil
		},
	}

	runner := New(extractor, transcriber, writer.NewTextWriter())
	_, err := runner.Run(ctx, domain.Job{InputPath: "/videos/clip.mp4"}, Callbacks{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if !cleaned {
		t.Fatal("audio artifact must be cleaned up after cancellation")
	}
}

// TestRunRealExtractorValidation exercises the production extractor wiring
// through the pipeline for a nonexistent path.
func TestRunRealExtractorValidation(t *testing.T) {
	runner := NewDefault()
	_, err := runner.Run(context.Background(), domain.Job{
		InputPath: filepath.Join(t.TempDir(), "missing.mp4"),
		Model:     "base",
	}, Callbacks{})

	var jobErr *domain.JobError
	if !errors.As(err, &jobErr) || jobErr.Kind != domain.ErrInputNotFound {
		t.Fatalf("error = %v, want InputNotFound", err)
	}
}

// TestNormalizePath strips whitespace and shell quoting.
func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"  /videos/a.mp4  ":  "/videos/a.mp4",
		`"/videos/b.mp4"`:    "/videos/b.mp4",
		"'/videos/c d.mp4'":  "/videos/c d.mp4",
		"\t'/videos/e.mp4' ": "/videos/e.mp4",
		"/videos/plain.mp4":  "/videos/plain.mp4",
	}
	for input, want := range cases {
		if got := NormalizePath(input); got != want {
			t.Fatalf("NormalizePath(%q) = %q, want %q", input, got, want)
		}
	}
}
