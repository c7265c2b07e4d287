package domain

import "strings"

// JobStatus tracks each pipeline stage for a single transcription job.
type JobStatus string

const (
	JobStatusIdle         JobStatus = "idle"
	JobStatusCreated      JobStatus = "created"
	JobStatusExtracting   JobStatus = "extracting"
	JobStatusTranscribing JobStatus = "transcribing"
	JobStatusWriting      JobStatus = "writing"
	JobStatusDone         JobStatus = "done"
	JobStatusFailed       JobStatus = "failed"
	JobStatusCancelled    JobStatus = "cancelled"
)

// Settings contains user-selectable runtime configuration. Settings are read
// once when a job is created and stay fixed for that job's lifetime.
type Settings struct {
	Model    string `json:"model"`
	Language string `json:"language"`
}

// Job stores one end-to-end transcription request and its lifecycle status.
type Job struct {
	ID        string    `json:"id"`
	InputPath string    `json:"inputPath"`
	Model     string    `json:"model"`
	Language  string    `json:"language"`
	Status    JobStatus `json:"status"`
}

// Segment is one recognized text span. Segment order matches temporal order
// in the source audio.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the ordered sequence of recognized segments for one job.
type Transcript struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

// Text joins trimmed segment texts in temporal order, one per line.
func (t Transcript) Text() string {
	lines := make([]string, 0, len(t.Segments))
	for _, segment := range t.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}
