package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"video-transcriber/internal/domain"
	"video-transcriber/internal/pipeline"
)

// runBatch processes each path as an independent job. A failed path is
// reported and the loop moves on; the final error reflects whether every
// path succeeded. Jobs run sequentially because the recognition engine is
// resource-heavy and parallel runs would contend for the same hardware.
func runBatch(ctx context.Context, opts Options, paths []string, settings domain.Settings) error {
	failed := 0
	for _, path := range paths {
		job := domain.Job{
			ID:        uuid.NewString(),
			InputPath: path,
			Model:     settings.Model,
			Language:  settings.Language,
		}

		outPath, err := runOne(ctx, opts, job)
		if err != nil {
			failed++
			fmt.Fprintf(opts.Stderr, "%s: %v\n", path, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		fmt.Fprintln(opts.Stdout, outPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(paths))
	}
	return nil
}

// runOne executes a single job with stage feedback on stderr.
func runOne(ctx context.Context, opts Options, job domain.Job) (string, error) {
	if !opts.Interactive {
		cb := pipeline.Callbacks{
			OnStage: func(status domain.JobStatus) {
				fmt.Fprintf(opts.Stderr, "%s: %s\n", filepath.Base(job.InputPath), status)
			},
		}
		return opts.Runner.Run(ctx, job, cb)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(opts.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription(filepath.Base(job.InputPath)),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	cb := pipeline.Callbacks{
		OnStage: func(status domain.JobStatus) {
			bar.Describe(fmt.Sprintf("%s: %s", filepath.Base(job.InputPath), status))
		},
	}
	outPath, err := opts.Runner.Run(ctx, job, cb)

	close(done)
	_ = bar.Clear()
	return outPath, err
}
