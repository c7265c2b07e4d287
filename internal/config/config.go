// Package config resolves runtime settings from the environment and persists
// GUI settings on disk.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"video-transcriber/internal/domain"
)

// LoadEnvFile loads a .env file from the working directory when present.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// ModelFromEnv returns the model size selected via WHISPER_MODEL, or the
// default when unset. An unknown value is a configuration error.
func ModelFromEnv() (string, error) {
	raw := strings.TrimSpace(os.Getenv(domain.ModelEnvVar))
	if raw == "" {
		return domain.DefaultModel, nil
	}
	if !domain.IsValidModel(raw) {
		return "", fmt.Errorf(
			"%s=%q is not a valid model, valid models: %s",
			domain.ModelEnvVar,
			raw,
			strings.Join(domain.ModelIDs(), ", "),
		)
	}
	return raw, nil
}

// DefaultSettings returns baseline configuration for first launch. An invalid
// environment value falls back to the default model here; the CLI rejects it
// loudly instead.
func DefaultSettings() domain.Settings {
	model, err := ModelFromEnv()
	if err != nil {
		model = domain.DefaultModel
	}

	return domain.Settings{
		Model:    model,
		Language: "auto",
	}
}

// Normalize trims user inputs and applies defaults for empty or invalid
// fields.
func Normalize(settings domain.Settings) domain.Settings {
	settings.Model = strings.TrimSpace(settings.Model)
	settings.Language = strings.TrimSpace(settings.Language)
	if !domain.IsValidModel(settings.Model) {
		settings.Model = domain.DefaultModel
	}
	if settings.Language == "" {
		settings.Language = "auto"
	}
	return settings
}
