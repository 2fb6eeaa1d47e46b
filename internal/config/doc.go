// Package config provides configuration and credential management for
// GoProcure.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - The GoPro cloud credentials file, including first-run bootstrap
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ./gopro_downloads
//	// Sequential downloads, GPMF sidecars off
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// Uses defaults if the file doesn't exist
//
// # Credentials
//
// The GoPro cloud is authenticated with two cookie values read from a
// JSON credentials file (default ~/.goprocure/credentials.json):
//
//	creds, err := config.LoadCredentials("")
//	if errors.Is(err, config.ErrCredentialsCreated) {
//	    // a placeholder template was written; tell the user to fill it
//	    // in and exit without any network call
//	}
package config
