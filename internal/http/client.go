package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client wraps HTTP operations with GoPro-cloud-specific configuration.
//
// Client provides:
//   - Cookie-based authentication (gp_access_token, gp_user_id)
//   - Browser-like request headers the API expects
//   - File download with progress tracking
//   - File size retrieval via HEAD requests
//
// Authenticated headers and cookies are attached only to API requests;
// payload downloads go to pre-signed URLs and are sent bare.
//
// Example usage:
//
//	client := NewClient("token", "user-id")
//
//	// Fetch a catalog page
//	var envelope dto.SearchResponse
//	err := client.GetJSON(ctx, searchURL, &envelope)
//
//	// Download payload with progress
//	err = client.DownloadFile(ctx, fileURL, "/path/GX010042.mp4", func(written, total int64) {
//	    percent := float64(written) / float64(total) * 100
//	    fmt.Printf("%.1f%%\n", percent)
//	})
type Client struct {
	httpClient  *http.Client
	accessToken string
	userID      string
}

// NewClient creates a new HTTP client authenticated for the GoPro cloud.
//
// The client is configured with:
//   - 60 second timeout
//   - gp_access_token / gp_user_id auth cookies on API requests
//   - the versioned media-search Accept header
func NewClient(accessToken, userID string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		accessToken: accessToken,
		userID:      userID,
	}
}

// setAPIHeaders attaches the auth cookies and the browser-like headers
// the GoPro API requires.
func (c *Client) setAPIHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.gopro.jk.media.search+json; version=2.0.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3 Safari/605.1.15")
	req.Header.Set("Origin", "https://gopro.com")
	req.Header.Set("Referer", "https://gopro.com/")
	req.AddCookie(&http.Cookie{Name: "gp_access_token", Value: c.accessToken})
	req.AddCookie(&http.Cookie{Name: "gp_user_id", Value: c.userID})
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// Zero when the remote omits a content length.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// StatusError reports a non-success HTTP status from an API request.
type StatusError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Body is the response body, kept for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// GetJSON performs an authenticated GET request and decodes the JSON
// response body into v.
//
// Returns a *StatusError if the response status is not 200 OK; the
// caller decides whether that is fatal. No automatic retry is
// performed.
//
// Example:
//
//	var envelope dto.SearchResponse
//	err := client.GetJSON(ctx, searchURL, &envelope)
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.GetAuthenticated(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// GetAuthenticated performs an authenticated GET request and returns
// the raw response body.
//
// Use this for payloads that must be persisted verbatim, like the
// highlight-moments response.
func (c *Client) GetAuthenticated(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setAPIHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// This is useful for pre-calculating total download size. Returns an
// error if the request fails or the server doesn't return a
// Content-Length header.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// DownloadFile downloads a file to the specified path with optional progress callback.
//
// The file is created (or truncated if it exists) and the content is
// streamed directly to disk, avoiding loading the entire payload into
// memory. When the remote omits a content length the total reported to
// onProgress is 0 and the stream is still written chunk by chunk.
//
// Pre-signed payload URLs carry their own auth, so no cookies or API
// headers are attached.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes).
//     Pass nil to disable progress tracking.
//
// Example:
//
//	err := client.DownloadFile(ctx, fileURL, "/downloads/GX010042.mp4", func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		total := resp.ContentLength
		if total < 0 {
			total = 0
		}
		writer = &ProgressWriter{
			Writer:   file,
			Total:    total,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}
