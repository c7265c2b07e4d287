package domain

// ModelEnvVar selects the default whisper model size when set.
const ModelEnvVar = "WHISPER_MODEL"

// DefaultModel is used when the environment variable is unset.
const DefaultModel = "base"

// ModelOption describes one selectable whisper model size. The engine owns
// the weight cache; Downloaded only reflects whether the weights are already
// present there.
type ModelOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CacheFile   string `json:"cacheFile"`
	SizeLabel   string `json:"sizeLabel,omitempty"`
	Description string `json:"description,omitempty"`
	Downloaded  bool   `json:"downloaded"`
	CachePath   string `json:"cachePath,omitempty"`
}

var modelCatalog = []ModelOption{
	{
		ID:          "tiny",
		Name:        "Tiny",
		CacheFile:   "tiny.pt",
		SizeLabel:   "~75 MB",
		Description: "Fastest model, lowest accuracy.",
	},
	{
		ID:          "base",
		Name:        "Base",
		CacheFile:   "base.pt",
		SizeLabel:   "~142 MB",
		Description: "Balanced speed and quality.",
	},
	{
		ID:          "small",
		Name:        "Small",
		CacheFile:   "small.pt",
		SizeLabel:   "~466 MB",
		Description: "Higher quality, slower.",
	},
	{
		ID:          "medium",
		Name:        "Medium",
		CacheFile:   "medium.pt",
		SizeLabel:   "~1.5 GB",
		Description: "High quality, needs a strong machine.",
	},
	{
		ID:          "large",
		Name:        "Large",
		CacheFile:   "large.pt",
		SizeLabel:   "~2.9 GB",
		Description: "Best quality, slowest.",
	},
}

// ModelOptions returns the model catalog ordered smallest to largest.
func ModelOptions() []ModelOption {
	options := make([]ModelOption, len(modelCatalog))
	copy(options, modelCatalog)
	return options
}

// ModelIDs returns valid model identifiers ordered smallest to largest.
func ModelIDs() []string {
	ids := make([]string, 0, len(modelCatalog))
	for _, option := range modelCatalog {
		ids = append(ids, option.ID)
	}
	return ids
}

// IsValidModel reports whether id names a known model size.
func IsValidModel(id string) bool {
	for _, option := range modelCatalog {
		if option.ID == id {
			return true
		}
	}
	return false
}
