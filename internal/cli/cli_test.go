package cli

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"
	"testing"

	"video-transcriber/internal/diagnostics"
	"video-transcriber/internal/domain"
	"video-transcriber/internal/pipeline"
	"video-transcriber/internal/writer"
)

// fakeJobRunner records jobs and fails for configured paths.
type fakeJobRunner struct {
	mu       sync.Mutex
	jobs     []domain.Job
	failures map[string]error
}

// Run records the job and returns a canned outcome.
func (f *fakeJobRunner) Run(ctx context.Context, job domain.Job, cb pipeline.Callbacks) (string, error) {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()

	if cb.OnStage != nil {
		cb.OnStage(domain.JobStatusExtracting)
		cb.OnStage(domain.JobStatusTranscribing)
		cb.OnStage(domain.JobStatusWriting)
	}

	if err, ok := f.failures[job.InputPath]; ok {
		return "", err
	}
	return writer.OutputPath(job.InputPath), nil
}

func allToolsPresent(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

type testEnv struct {
	runner *fakeJobRunner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	gui    *bool
}

func newTestCommand(failures map[string]error) (testEnv, func(args ...string) error) {
	runner := &fakeJobRunner{failures: failures}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	guiLaunched := false

	cmd := NewRootCommand(Options{
		Runner:  runner,
		Checker: diagnostics.NewCheckerForTests(allToolsPresent),
		Stdout:  stdout,
		Stderr:  stderr,
		LaunchGUI: func(fs.FS) error {
			guiLaunched = true
			return nil
		},
	})

	execute := func(args ...string) error {
		cmd.SetArgs(args)
		return cmd.ExecuteContext(context.Background())
	}

	return testEnv{runner: runner, stdout: stdout, stderr: stderr, gui: &guiLaunched}, execute
}

// TestBatchAllSucceed checks output paths are printed and exit is clean.
func TestBatchAllSucceed(t *testing.T) {
	t.Setenv(domain.ModelEnvVar, "")
	env, execute := newTestCommand(nil)

	if err := execute("/videos/a.mp4", "/videos/b.mov"); err != nil {
		t.Fatalf("execute error = %v", err)
	}

	if len(env.runner.jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(env.runner.jobs))
	}
	for _, job := range env.runner.jobs {
		if job.ID == "" {
			t.Fatal("expected generated job ID")
		}
		if job.Model != domain.DefaultModel {
			t.Fatalf("model = %q, want default", job.Model)
		}
	}

	out := env.stdout.String()
	if !strings.Contains(out, "/videos/a.txt") || !strings.Contains(out, "/videos/b.txt") {
		t.Fatalf("stdout = %q", out)
	}
	if *env.gui {
		t.Fatal("GUI must not launch for batch runs")
	}
}

// TestBatchFailureIsolation checks one bad path does not stop the rest and
// the final status reflects the failure.
func TestBatchFailureIsolation(t *testing.T) {
	t.Setenv(domain.ModelEnvVar, "")
	env, execute := newTestCommand(map[string]error{
		"/videos/missing.mp4": &domain.JobError{
			Kind:    domain.ErrInputNotFound,
			Message: "file not found: /videos/missing.mp4",
		},
	})

	err := execute("/videos/a.mp4", "/videos/missing.mp4", "/videos/c.mkv")
	if err == nil {
		t.Fatal("expected batch failure status")
	}
	if !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("error = %v", err)
	}

	if len(env.runner.jobs) != 3 {
		t.Fatalf("jobs = %d, want 3 (no early stop)", len(env.runner.jobs))
	}
	out := env.stdout.String()
	if !strings.Contains(out, "/videos/a.txt") || !strings.Contains(out, "/videos/c.txt") {
		t.Fatalf("stdout = %q", out)
	}
	if !strings.Contains(env.stderr.String(), "file not found") {
		t.Fatalf("stderr = %q", env.stderr.String())
	}
}

// TestGUIFlagLaunchesDesktop checks --gui hands off without running jobs.
func TestGUIFlagLaunchesDesktop(t *testing.T) {
	env, execute := newTestCommand(nil)

	if err := execute("--gui", "/videos/a.mp4"); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if !*env.gui {
		t.Fatal("expected GUI launch")
	}
	if len(env.runner.jobs) != 0 {
		t.Fatalf("jobs = %d, want 0", len(env.runner.jobs))
	}
}

// TestNoArgsLaunchesDesktop checks the zero-argument default.
func TestNoArgsLaunchesDesktop(t *testing.T) {
	env, execute := newTestCommand(nil)

	if err := execute(); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if !*env.gui {
		t.Fatal("expected GUI launch")
	}
}

// TestModelFlagOverridesEnvironment checks flag > env precedence.
func TestModelFlagOverridesEnvironment(t *testing.T) {
	t.Setenv(domain.ModelEnvVar, "small")
	env, execute := newTestCommand(nil)

	if err := execute("--model", "tiny", "/videos/a.mp4"); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if env.runner.jobs[0].Model != "tiny" {
		t.Fatalf("model = %q, want tiny", env.runner.jobs[0].Model)
	}
}

// TestEnvironmentModelSelection checks env default without a flag.
func TestEnvironmentModelSelection(t *testing.T) {
	t.Setenv(domain.ModelEnvVar, "medium")
	env, execute := newTestCommand(nil)

	if err := execute("/videos/a.mp4"); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if env.runner.jobs[0].Model != "medium" {
		t.Fatalf("model = %q, want medium", env.runner.jobs[0].Model)
	}
}

// TestInvalidModelFailsBeforeAnyJob checks early validation.
func TestInvalidModelFailsBeforeAnyJob(t *testing.T) {
	t.Setenv(domain.ModelEnvVar, "")
	env, execute := newTestCommand(nil)

	if err := execute("--model", "enormous", "/videos/a.mp4"); err == nil {
		t.Fatal("expected invalid model error")
	}
	if len(env.runner.jobs) != 0 {
		t.Fatalf("jobs = %d, want 0", len(env.runner.jobs))
	}
}

// TestMissingToolFailsBeforeAnyJob checks startup dependency detection.
func TestMissingToolFailsBeforeAnyJob(t *testing.T) {
	t.Setenv(domain.ModelEnvVar, "")
	runner := &fakeJobRunner{}
	stdout := &bytes.Buffer{}

	cmd := NewRootCommand(Options{
		Runner: runner,
		Checker: diagnostics.NewCheckerForTests(func(name string) (string, error) {
			return "", errors.New("executable file not found in $PATH")
		}),
		Stdout:    stdout,
		Stderr:    &bytes.Buffer{},
		LaunchGUI: func(fs.FS) error { return nil },
	})
	cmd.SetArgs([]string{"/videos/a.mp4"})

	err := cmd.ExecuteContext(context.Background())
	var jobErr *domain.JobError
	if !errors.As(err, &jobErr) || jobErr.Kind != domain.ErrDependencyMissing {
		t.Fatalf("error = %v, want DependencyMissing", err)
	}
	if len(runner.jobs) != 0 {
		t.Fatalf("jobs = %d, want 0", len(runner.jobs))
	}
}

// TestCheckCommandReportsStatus checks the diagnostics subcommand output.
func TestCheckCommandReportsStatus(t *testing.T) {
	t.Setenv(domain.ModelEnvVar, "")
	env, execute := newTestCommand(nil)

	if err := execute("check"); err != nil {
		t.Fatalf("check error = %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "ffmpeg") || !strings.Contains(out, "whisper") {
		t.Fatalf("check output = %q", out)
	}
}

// TestModelsCommandListsCatalog checks the models subcommand output.
func TestModelsCommandListsCatalog(t *testing.T) {
	env, execute := newTestCommand(nil)

	if err := execute("models"); err != nil {
		t.Fatalf("models error = %v", err)
	}
	out := env.stdout.String()
	for _, id := range domain.ModelIDs() {
		if !strings.Contains(out, id) {
			t.Fatalf("models output missing %q: %q", id, out)
		}
	}
}
