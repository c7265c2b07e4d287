// Package cli implements the command-line front end: batch transcription of
// one or more video files, a diagnostics command, and a flag that hands off
// to the desktop GUI.
package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"video-transcriber/internal/config"
	"video-transcriber/internal/diagnostics"
	"video-transcriber/internal/domain"
	"video-transcriber/internal/pipeline"
)

// Options wires front-end dependencies into the command tree. Zero fields
// are replaced with production defaults.
type Options struct {
	Assets      fs.FS
	Runner      pipeline.JobRunner
	Checker     *diagnostics.Checker
	Stdout      io.Writer
	Stderr      io.Writer
	Interactive bool
	LaunchGUI   func(assets fs.FS) error
}

// NewRootCommand builds the cobra command tree.
func NewRootCommand(opts Options) *cobra.Command {
	opts = withDefaults(opts)

	var guiFlag bool
	var modelFlag string
	var languageFlag string

	rootCmd := &cobra.Command{
		Use:           "video-transcriber [video ...]",
		Short:         "Transcribe local video files to text",
		Long:          "Extracts audio from local video files with ffmpeg, runs the whisper speech-recognition engine, and writes a .txt transcript beside each source file.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFile()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if guiFlag || len(args) == 0 {
				return opts.LaunchGUI(opts.Assets)
			}

			settings, err := resolveSettings(modelFlag, languageFlag)
			if err != nil {
				return err
			}

			if err := checkDependencies(opts, settings); err != nil {
				return err
			}

			return runBatch(cmd.Context(), opts, args, settings)
		},
	}

	rootCmd.Flags().BoolVar(&guiFlag, "gui", false, "Launch the desktop interface instead of processing paths")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Whisper model size ("+strings.Join(domain.ModelIDs(), ", ")+"); defaults to $"+domain.ModelEnvVar+" or "+domain.DefaultModel)
	rootCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language hint; omit for auto-detection")

	rootCmd.AddCommand(newCheckCommand(opts, &modelFlag))
	rootCmd.AddCommand(newModelsCommand(opts))

	return rootCmd
}

// withDefaults fills unset options with production implementations.
func withDefaults(opts Options) Options {
	if opts.Runner == nil {
		opts.Runner = pipeline.NewDefault()
	}
	if opts.Checker == nil {
		opts.Checker = diagnostics.NewChecker()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
		opts.Interactive = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.LaunchGUI == nil {
		opts.LaunchGUI = func(fs.FS) error {
			return fmt.Errorf("desktop interface is not available in this build")
		}
	}
	return opts
}

// resolveSettings applies flag > environment > default precedence.
func resolveSettings(modelFlag, languageFlag string) (domain.Settings, error) {
	model := strings.TrimSpace(modelFlag)
	if model == "" {
		fromEnv, err := config.ModelFromEnv()
		if err != nil {
			return domain.Settings{}, err
		}
		model = fromEnv
	}
	if !domain.IsValidModel(model) {
		return domain.Settings{}, fmt.Errorf(
			"unknown model %q, valid models: %s",
			model,
			strings.Join(domain.ModelIDs(), ", "),
		)
	}

	language := strings.TrimSpace(languageFlag)
	if language == "" {
		language = "auto"
	}

	return domain.Settings{Model: model, Language: language}, nil
}

// checkDependencies fails fast when a required external tool is absent,
// before the first job starts.
func checkDependencies(opts Options, settings domain.Settings) error {
	report := opts.Checker.Run(settings)
	if !report.HasFailures {
		return nil
	}

	missing := make([]string, 0, len(report.Items))
	for _, item := range report.Items {
		if item.Status == domain.DiagnosticStatusFail {
			missing = append(missing, item.Message)
		}
	}
	return &domain.JobError{
		Kind:    domain.ErrDependencyMissing,
		Message: strings.Join(missing, "; "),
	}
}

// newCheckCommand prints the startup diagnostics report.
func newCheckCommand(opts Options, modelFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			if model := strings.TrimSpace(*modelFlag); model != "" {
				settings.Model = model
			}

			report := opts.Checker.Run(settings)
			for _, item := range report.Items {
				fmt.Fprintf(opts.Stdout, "[%s] %s: %s\n", item.Status, item.Name, item.Message)
				if item.Hint != "" && item.Status == domain.DiagnosticStatusFail {
					fmt.Fprintf(opts.Stdout, "       %s\n", item.Hint)
				}
			}

			if report.HasFailures {
				return fmt.Errorf("diagnostics reported failures")
			}
			return nil
		},
	}
}

// newModelsCommand lists the selectable model sizes.
func newModelsCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available whisper model sizes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, option := range domain.ModelOptions() {
				marker := " "
				if option.ID == domain.DefaultModel {
					marker = "*"
				}
				fmt.Fprintf(opts.Stdout, "%s %-8s %-8s %s\n", marker, option.ID, option.SizeLabel, option.Description)
			}
		},
	}
}
