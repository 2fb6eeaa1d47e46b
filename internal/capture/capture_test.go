package capture

import (
	"errors"
	"testing"
	"time"
)

func TestParseCaptureTime(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    bool
		wantFolder string
	}{
		{
			name:       "with trailing Z",
			input:      "2024-06-01T14:30:00Z",
			wantFolder: "2024-06-01",
		},
		{
			name:       "without trailing Z",
			input:      "2023-01-02T10:00:00",
			wantFolder: "2023-01-02",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "date only",
			input:   "2024-06-01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := ParseCaptureTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				var metaErr *MetadataError
				if !errors.As(err, &metaErr) {
					t.Fatalf("error type = %T, want *MetadataError", err)
				}
				if metaErr.Field != "captured_at" {
					t.Errorf("Field = %q, want %q", metaErr.Field, "captured_at")
				}
				if metaErr.Value != tt.input {
					t.Errorf("Value = %q, want %q", metaErr.Value, tt.input)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ct.DateFolder(); got != tt.wantFolder {
				t.Errorf("DateFolder() = %q, want %q", got, tt.wantFolder)
			}
		})
	}
}

func TestCaptureTime_TreatsMarkerAsLocal(t *testing.T) {
	// The Z suffix must be ignored: the wall-clock value is local time,
	// so the date folder never shifts with the machine's zone.
	ct, err := ParseCaptureTime("2024-06-01T14:30:00Z")
	if err != nil {
		t.Fatalf("ParseCaptureTime failed: %v", err)
	}

	local := ct.Local()
	if local.Hour() != 14 || local.Minute() != 30 {
		t.Errorf("Local() = %v, want wall clock 14:30", local)
	}
	if local.Location() != time.Local {
		t.Errorf("Local().Location() = %v, want time.Local", local.Location())
	}
	if got := ct.DateFolder(); got != "2024-06-01" {
		t.Errorf("DateFolder() = %q, want %q", got, "2024-06-01")
	}
}

func TestCaptureTime_ExifUTC(t *testing.T) {
	ct, err := ParseCaptureTime("2024-06-01T14:30:00Z")
	if err != nil {
		t.Fatalf("ParseCaptureTime failed: %v", err)
	}

	got := ct.ExifUTC()

	// The clock portion depends on the machine's zone, but the format
	// and the explicit +00:00 offset do not.
	want := ct.Local().UTC().Format("2006:01:02 15:04:05+00:00")
	if got != want {
		t.Errorf("ExifUTC() = %q, want %q", got, want)
	}
	if len(got) != len("2024:06:01 14:30:00+00:00") {
		t.Errorf("ExifUTC() = %q, unexpected length", got)
	}
}

func TestCaptureTime_MacOS(t *testing.T) {
	ct, err := ParseCaptureTime("2023-01-02T10:00:00Z")
	if err != nil {
		t.Fatalf("ParseCaptureTime failed: %v", err)
	}

	if got := ct.MacOS(); got != "01/02/2023 10:00:00" {
		t.Errorf("MacOS() = %q, want %q", got, "01/02/2023 10:00:00")
	}
}
