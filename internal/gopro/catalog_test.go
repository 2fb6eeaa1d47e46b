package gopro

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apihttp "github.com/aricha/GoProcure/internal/http"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := apihttp.NewClient("test-token", "test-user")
	return NewCatalog(client, server.URL)
}

func TestCatalog_ListPage(t *testing.T) {
	var gotQuery map[string]string
	var gotCookies []*http.Cookie

	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"processing_states": r.URL.Query().Get("processing_states"),
			"type":              r.URL.Query().Get("type"),
			"page":              r.URL.Query().Get("page"),
			"per_page":          r.URL.Query().Get("per_page"),
		}
		gotCookies = r.Cookies()
		fmt.Fprint(w, `{"_embedded":{"media":[
			{"id":"a1","filename":"GX010001.MP4","file_extension":"MP4","captured_at":"2024-06-01T14:30:00Z","moments_count":2},
			{"id":"a2","filename":"GX010002","file_extension":"MP4","captured_at":"2024-06-02T09:00:00Z","moments_count":0}
		]}}`)
	})

	items, err := catalog.ListPage(context.Background(), 1, 100, false)
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "a1" || items[0].BaseName() != "GX010001" {
		t.Errorf("items[0] = %+v, want id a1, base GX010001", items[0])
	}
	if items[1].Extension() != "mp4" {
		t.Errorf("Extension() = %q, want %q", items[1].Extension(), "mp4")
	}

	if gotQuery["page"] != "1" {
		t.Errorf("page = %q, want 1", gotQuery["page"])
	}
	// per_page must be clamped to the API bound.
	if gotQuery["per_page"] != "50" {
		t.Errorf("per_page = %q, want 50", gotQuery["per_page"])
	}
	if gotQuery["processing_states"] != processingStates {
		t.Errorf("processing_states = %q", gotQuery["processing_states"])
	}
	if gotQuery["type"] != videoTypes {
		t.Errorf("type = %q, want video allowlist without Photo", gotQuery["type"])
	}

	foundToken := false
	for _, c := range gotCookies {
		if c.Name == "gp_access_token" && c.Value == "test-token" {
			foundToken = true
		}
	}
	if !foundToken {
		t.Error("gp_access_token cookie not sent")
	}
}

func TestCatalog_ListPage_IncludePhotos(t *testing.T) {
	var gotType string
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		fmt.Fprint(w, `{"_embedded":{"media":[]}}`)
	})

	items, err := catalog.ListPage(context.Background(), 1, 10, true)
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
	if gotType != videoTypes+",Photo" {
		t.Errorf("type = %q, want allowlist with Photo appended", gotType)
	}
}

func TestCatalog_ListPage_RemoteError(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := catalog.ListPage(context.Background(), 1, 10, false)
	if err == nil {
		t.Fatal("expected error but got none")
	}

	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error type = %T, want *RemoteError", err)
	}
	if remoteErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", remoteErr.StatusCode)
	}
}

func TestCatalog_GetDownloadInfo(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/media/a1/download" {
			t.Errorf("path = %q, want /media/a1/download", r.URL.Path)
		}
		fmt.Fprint(w, `{"_embedded":{
			"files":[{"url":"https://cdn.example/primary.mp4"}],
			"sidecar_files":[
				{"label":"gpmf","url":"https://cdn.example/telemetry.mp4"},
				{"label":"lrv","url":"https://cdn.example/low.mp4"}
			]}}`)
	})

	info, err := catalog.GetDownloadInfo(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetDownloadInfo failed: %v", err)
	}
	if info.FileURL != "https://cdn.example/primary.mp4" {
		t.Errorf("FileURL = %q", info.FileURL)
	}
	if got := info.GPMFURL(); got != "https://cdn.example/telemetry.mp4" {
		t.Errorf("GPMFURL() = %q", got)
	}
}

func TestCatalog_GetDownloadInfo_NoFiles(t *testing.T) {
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"_embedded":{"files":[]}}`)
	})

	_, err := catalog.GetDownloadInfo(context.Background(), "a1")
	if err == nil {
		t.Fatal("expected error for response without files")
	}
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error type = %T, want *RemoteError", err)
	}
}

func TestCatalog_GetHighlights(t *testing.T) {
	payload := `{"moments":[{"time":1200},{"time":4500}]}`
	catalog := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/media/a1/moments" {
			t.Errorf("path = %q, want /media/a1/moments", r.URL.Path)
		}
		fmt.Fprint(w, payload)
	})

	raw, err := catalog.GetHighlights(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetHighlights failed: %v", err)
	}
	// The payload is opaque and must be passed through verbatim.
	if string(raw) != payload {
		t.Errorf("payload = %q, want %q", raw, payload)
	}
}
