// Package writer serializes transcripts next to their source video.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-transcriber/internal/domain"
)

// Writer persists one transcript for one job.
type Writer interface {
	Write(inputPath string, transcript domain.Transcript) (string, error)
}

// OutputPath derives the transcript path: same directory as the source file,
// same base name, .txt extension.
func OutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" || name == "." {
		name = "transcript"
	}
	return filepath.Join(filepath.Dir(inputPath), name+".txt")
}

// TextWriter writes UTF-8 plain text transcript files. An existing file at
// the output path is overwritten without warning; callers relying on prior
// output must copy it away first.
type TextWriter struct {
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewTextWriter constructs the production writer.
func NewTextWriter() *TextWriter {
	return &TextWriter{writeFile: os.WriteFile}
}

// Write stores the transcript text and returns the output path.
func (w *TextWriter) Write(inputPath string, transcript domain.Transcript) (string, error) {
	outPath := OutputPath(inputPath)
	if err := w.writeFile(outPath, []byte(transcript.Text()), 0o644); err != nil {
		return "", &domain.JobError{
			Kind:    domain.ErrWriteFailed,
			Message: fmt.Sprintf("cannot write transcript: %s", outPath),
			Err:     err,
		}
	}
	return outPath, nil
}

// NewTextWriterForTests constructs a writer with an injectable file write.
func NewTextWriterForTests(writeFile func(name string, data []byte, perm os.FileMode) error) *TextWriter {
	return &TextWriter{writeFile: writeFile}
}
