// Package diagnostics validates external tools and configuration before any
// job runs, so a missing dependency is a startup failure instead of a
// mid-job one.
package diagnostics

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"video-transcriber/internal/domain"
)

// RequiredTools are the external binaries every job shells out to.
var RequiredTools = []string{"ffmpeg", "whisper"}

// Checker validates external tools and the configured model.
type Checker struct {
	lookPath func(string) (string, error)
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	return &Checker{lookPath: exec.LookPath}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := make([]domain.DiagnosticItem, 0, len(RequiredTools)+1)
	for _, tool := range RequiredTools {
		items = append(items, c.checkTool(tool))
	}
	items = append(items, checkModel(settings.Model))

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkTool verifies a required CLI executable is on PATH.
func (c *Checker) checkTool(name string) domain.DiagnosticItem {
	path, err := c.lookPath(name)
	if err != nil {
		return domain.DiagnosticItem{
			ID:      "tool_" + name,
			Name:    name,
			Status:  domain.DiagnosticStatusFail,
			Message: fmt.Sprintf("Tool not found in PATH: %s", name),
			Hint:    "Install it and ensure the binary is available on PATH before starting a transcription job.",
		}
	}

	return domain.DiagnosticItem{
		ID:      "tool_" + name,
		Name:    name,
		Status:  domain.DiagnosticStatusPass,
		Message: fmt.Sprintf("Found at %s", path),
	}
}

// checkModel validates the configured model size against the known set.
func checkModel(model string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "model",
		Name: "Model",
	}

	trimmed := strings.TrimSpace(model)
	if trimmed == "" {
		trimmed = domain.DefaultModel
	}
	if !domain.IsValidModel(trimmed) {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Unknown model: %s", trimmed)
		item.Hint = fmt.Sprintf("Pick one of: %s.", strings.Join(domain.ModelIDs(), ", "))
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Model %q is valid", trimmed)
	return item
}

// NewCheckerForTests creates a checker with an injectable PATH lookup.
func NewCheckerForTests(lookPath func(string) (string, error)) *Checker {
	return &Checker{lookPath: lookPath}
}
