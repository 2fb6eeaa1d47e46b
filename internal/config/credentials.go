package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// Placeholder values written to a freshly created credentials template.
const (
	placeholderToken  = "YOUR_GP_ACCESS_TOKEN"
	placeholderUserID = "YOUR_GP_USER_ID"
)

// ErrCredentialsCreated signals that no credentials file existed, so a
// placeholder template was written for the user to fill in. Callers
// must exit non-zero without performing any network operation.
var ErrCredentialsCreated = errors.New("credentials template created")

// Credentials holds the two cookie values the GoPro cloud API expects.
//
// Obtain them from a logged-in gopro.com browser session: the
// gp_access_token and gp_user_id cookies.
type Credentials struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
}

// DefaultCredentialsPath returns the default location of the
// credentials file, ~/.goprocure/credentials.json.
func DefaultCredentialsPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".goprocure", "credentials.json"), nil
}

// LoadCredentials reads the credentials file at path, or at the default
// location when path is empty.
//
// If the file does not exist, a placeholder template is written and
// ErrCredentialsCreated is returned (wrapped with the path). A file
// still holding placeholder values is rejected the same way login
// failures are: with an error, before any network call.
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		var err error
		path, err = DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := writeTemplate(path); err != nil {
				return nil, fmt.Errorf("creating credentials template at %s: %w", path, err)
			}
			return nil, fmt.Errorf("no credentials found; template written to %s, fill in your gopro.com cookies: %w", path, ErrCredentialsCreated)
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}

	if creds.AccessToken == "" || creds.UserID == "" ||
		creds.AccessToken == placeholderToken || creds.UserID == placeholderUserID {
		return nil, fmt.Errorf("credentials file %s is incomplete: fill in access_token and user_id", path)
	}

	return &creds, nil
}

// writeTemplate creates a placeholder credentials file for the user to
// fill in. The file is created with mode 0600 since it will hold a
// session token.
func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	template := Credentials{
		AccessToken: placeholderToken,
		UserID:      placeholderUserID,
	}
	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0600)
}
