package gopro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aricha/GoProcure/internal/gopro/dto"
	apihttp "github.com/aricha/GoProcure/internal/http"
	"github.com/aricha/GoProcure/internal/model"
)

// DefaultBaseURL is the GoPro cloud API endpoint.
const DefaultBaseURL = "https://api.gopro.com"

// MaxPageSize is the largest per_page value the media search endpoint
// accepts. ListPage clamps requests to this bound.
const MaxPageSize = 50

// processingStates is the fixed set of item states requested from the
// catalog. Items outside these states are still being ingested by the
// cloud and have no stable payload.
const processingStates = "rendering,pretranscoding,transcoding,stabilizing,ready,failure"

// searchFields is the field list requested from the media search
// endpoint. The full record is persisted to the metadata sidecar, so
// everything the web client asks for is requested here too.
const searchFields = "camera_model,captured_at,content_title,content_type,created_at," +
	"gopro_user_id,gopro_media,filename,file_extension,file_size,height,fov,id," +
	"item_count,mce_type,moments_count,on_public_profile,orientation,play_as," +
	"ready_to_edit,ready_to_view,resolution,source_duration,token,type,width," +
	"stabilized,submitted_at,thumbnail_available,captured_at_timezone,available_labels"

// videoTypes is the media-type allowlist for video-like items.
const videoTypes = "Burst,BurstVideo,Continuous,LoopedVideo,TimeLapse,TimeLapseVideo,Video"

// photoType is appended to the allowlist when photos are requested.
const photoType = "Photo"

// RemoteError reports a failed interaction with the GoPro cloud API.
//
// Catalog methods never retry; whether a RemoteError is fatal is the
// caller's decision (a page-fetch failure aborts an acquisition run, a
// per-item failure does not).
type RemoteError struct {
	// Op describes the failed operation, e.g. "list media page 3".
	Op string

	// StatusCode is the HTTP status, when the failure was a non-success
	// response. Zero for transport or decoding failures.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// remoteErr wraps an error from the HTTP layer, lifting the status code
// out of a StatusError when there is one.
func remoteErr(op string, err error) error {
	var statusErr *apihttp.StatusError
	if errors.As(err, &statusErr) {
		return &RemoteError{Op: op, StatusCode: statusErr.StatusCode, Err: err}
	}
	return &RemoteError{Op: op, Err: err}
}

// Catalog queries the GoPro cloud media catalog.
//
// Example usage:
//
//	client := apihttp.NewClient(accessToken, userID)
//	catalog := gopro.NewCatalog(client, gopro.DefaultBaseURL)
//
//	items, err := catalog.ListPage(ctx, 1, 50, false)
//	info, err := catalog.GetDownloadInfo(ctx, items[0].ID)
type Catalog struct {
	client  *apihttp.Client
	baseURL string
}

// NewCatalog creates a Catalog talking to the given base URL. Pass
// DefaultBaseURL outside of tests.
func NewCatalog(client *apihttp.Client, baseURL string) *Catalog {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Catalog{client: client, baseURL: baseURL}
}

// ListPage fetches one page of the media catalog.
//
// Only items in the fixed processing-state set and the video-type
// allowlist are requested; photos are included iff includePhotos is
// true. perPage is clamped to MaxPageSize. An exhausted catalog yields
// an empty slice, not an error.
//
// A non-success response surfaces as a *RemoteError; no retry is
// attempted here.
func (c *Catalog) ListPage(ctx context.Context, page, perPage int, includePhotos bool) ([]model.MediaItem, error) {
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	types := videoTypes
	if includePhotos {
		types += "," + photoType
	}

	params := url.Values{}
	params.Set("processing_states", processingStates)
	params.Set("fields", searchFields)
	params.Set("type", types)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	searchURL := fmt.Sprintf("%s/media/search?%s", c.baseURL, params.Encode())

	var envelope dto.SearchResponse
	if err := c.client.GetJSON(ctx, searchURL, &envelope); err != nil {
		return nil, remoteErr(fmt.Sprintf("list media page %d", page), err)
	}

	return envelope.Items(), nil
}

// GetDownloadInfo resolves the download URLs for a media item.
//
// The primary payload URL comes from _embedded.files[0]; sidecar
// downloads (including the GPMF telemetry stream, label "gpmf") come
// from _embedded.sidecar_files.
func (c *Catalog) GetDownloadInfo(ctx context.Context, itemID string) (*model.DownloadInfo, error) {
	downloadURL := fmt.Sprintf("%s/media/%s/download", c.baseURL, itemID)

	var envelope dto.DownloadResponse
	if err := c.client.GetJSON(ctx, downloadURL, &envelope); err != nil {
		return nil, remoteErr(fmt.Sprintf("get download info for %s", itemID), err)
	}

	info, err := envelope.ToDownloadInfo()
	if err != nil {
		return nil, &RemoteError{Op: fmt.Sprintf("get download info for %s", itemID), Err: err}
	}
	return info, nil
}

// GetHighlights fetches the highlight-moments payload for a media item.
//
// The payload is opaque: it is persisted verbatim to the highlights
// sidecar and never interpreted further.
func (c *Catalog) GetHighlights(ctx context.Context, itemID string) (json.RawMessage, error) {
	momentsURL := fmt.Sprintf("%s/media/%s/moments", c.baseURL, itemID)

	body, err := c.client.GetAuthenticated(ctx, momentsURL)
	if err != nil {
		return nil, remoteErr(fmt.Sprintf("get highlights for %s", itemID), err)
	}
	return json.RawMessage(body), nil
}
