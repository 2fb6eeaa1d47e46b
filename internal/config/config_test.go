package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.OutputDir != "gopro_downloads" {
		t.Errorf("OutputDir = %q, want default", settings.OutputDir)
	}
	if settings.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", settings.PageSize)
	}
}

func TestSettings_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	settings := DefaultSettings()
	settings.OutputDir = "/media/gopro"
	settings.DownloadGPMF = true
	settings.MaxItems = 25

	if err := settings.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputDir != "/media/gopro" {
		t.Errorf("OutputDir = %q", loaded.OutputDir)
	}
	if !loaded.DownloadGPMF {
		t.Error("DownloadGPMF = false, want true")
	}
	if loaded.MaxItems != 25 {
		t.Errorf("MaxItems = %d, want 25", loaded.MaxItems)
	}
}

func TestLoadCredentials_CreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".goprocure", "credentials.json")

	_, err := LoadCredentials(path)
	if !errors.Is(err, ErrCredentialsCreated) {
		t.Fatalf("err = %v, want ErrCredentialsCreated", err)
	}

	// The template must now exist with placeholder values.
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("template not written: %v", readErr)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		t.Fatalf("template is not valid JSON: %v", err)
	}
	if creds.AccessToken != placeholderToken {
		t.Errorf("AccessToken = %q, want placeholder", creds.AccessToken)
	}

	// A second load must reject the unfilled placeholder, not create
	// anything new.
	_, err = LoadCredentials(path)
	if err == nil {
		t.Fatal("expected error for placeholder credentials")
	}
	if errors.Is(err, ErrCredentialsCreated) {
		t.Error("placeholder file reported as newly created")
	}
}

func TestLoadCredentials_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	content := `{"access_token": "tok123", "user_id": "user456"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials failed: %v", err)
	}
	if creds.AccessToken != "tok123" || creds.UserID != "user456" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestLoadCredentials_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCredentials(path); err == nil {
		t.Fatal("expected error for malformed credentials")
	}
}
