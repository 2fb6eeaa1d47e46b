// Package http provides an HTTP client configured for GoPro cloud API
// requests.
//
// The Client in this package handles:
//   - Cookie authentication (gp_access_token, gp_user_id)
//   - The versioned Accept header and browser-like request headers
//   - Streaming file downloads with progress tracking
//   - File size retrieval via HEAD requests
//
// # Basic Usage
//
//	client := http.NewClient(accessToken, userID)
//
//	// Fetch and decode an API response
//	var envelope dto.SearchResponse
//	err := client.GetJSON(ctx, searchURL, &envelope)
//
//	// Download a payload with a progress callback
//	client.DownloadFile(ctx, fileURL, "/downloads/GX010042.mp4", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
