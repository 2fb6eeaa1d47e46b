package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aricha/GoProcure/internal/gopro"
)

// Settings holds all configuration options.
//
// Every component receives its configuration explicitly at
// construction; there is no process-wide mutable state.
type Settings struct {
	// Download settings
	OutputDir              string `json:"output_dir"`
	IncludePhotos          bool   `json:"include_photos"`
	MaxItems               int    `json:"max_items"`
	PageSize               int    `json:"page_size"`
	DownloadGPMF           bool   `json:"download_gpmf"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`

	// Organize settings
	CopyFiles bool `json:"copy_files"`
	Recursive bool `json:"recursive"`

	// API settings
	BaseURL string `json:"base_url"`

	// CredentialsPath overrides the default credentials file location.
	CredentialsPath string `json:"credentials_path"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:              "gopro_downloads",
		IncludePhotos:          false,
		MaxItems:               1000,
		PageSize:               gopro.MaxPageSize,
		DownloadGPMF:           false,
		MaxConcurrentDownloads: 1,

		CopyFiles: false,
		Recursive: false,

		BaseURL: gopro.DefaultBaseURL,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so first runs
// work without any setup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
