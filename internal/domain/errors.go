package domain

import "fmt"

// ErrorKind classifies job failures for user-facing display and exit codes.
type ErrorKind string

const (
	ErrInputNotFound       ErrorKind = "input_not_found"
	ErrUnsupportedFormat   ErrorKind = "unsupported_format"
	ErrExtractionFailed    ErrorKind = "extraction_failed"
	ErrTranscriptionFailed ErrorKind = "transcription_failed"
	ErrWriteFailed         ErrorKind = "write_failed"
	ErrDependencyMissing   ErrorKind = "dependency_missing"
)

// CommandLog captures one external command invocation result.
type CommandLog struct {
	Command  string   `json:"command"`
	Args     []string `json:"args"`
	ExitCode int      `json:"exitCode"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// JobError is a kind-aware job failure with optional command context. Every
// failure that originates in an external tool carries the tool's diagnostic
// output so it can be shown to the user verbatim.
type JobError struct {
	Kind       ErrorKind  `json:"kind"`
	Message    string     `json:"message"`
	CommandLog CommandLog `json:"commandLog"`
	Err        error      `json:"-"`
}

// Error formats job failures for logs and UI.
func (e *JobError) Error() string {
	if e == nil {
		return ""
	}
	if e.CommandLog.Command == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf(
		"%s: %s (cmd=%s exit=%d)",
		e.Kind,
		e.Message,
		e.CommandLog.Command,
		e.CommandLog.ExitCode,
	)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *JobError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
