package bootstrap

import (
	"os"
	"path/filepath"

	"video-transcriber/internal/domain"
)

// GetWhisperModels returns the selectable model sizes, marking the ones the
// engine has already cached. The cache belongs to the engine; we only look,
// never touch.
func (a *App) GetWhisperModels() []domain.ModelOption {
	return modelsWithCacheState(whisperCacheDir(), os.Stat)
}

// whisperCacheDir is where the whisper engine persists downloaded weights.
func whisperCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "whisper")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache", "whisper")
}

// modelsWithCacheState marks catalog entries whose weights exist in cacheDir.
func modelsWithCacheState(cacheDir string, stat func(string) (os.FileInfo, error)) []domain.ModelOption {
	models := domain.ModelOptions()
	if cacheDir == "" {
		return models
	}

	for i := range models {
		candidate := filepath.Join(cacheDir, models[i].CacheFile)
		info, err := stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		models[i].Downloaded = true
		models[i].CachePath = candidate
	}
	return models
}
