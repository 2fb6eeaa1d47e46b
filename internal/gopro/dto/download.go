package dto

import (
	"fmt"

	"github.com/aricha/GoProcure/internal/model"
)

// DownloadResponse is the envelope of GET /media/{id}/download.
type DownloadResponse struct {
	Embedded struct {
		Files        []FileRecord    `json:"files"`
		SidecarFiles []SidecarRecord `json:"sidecar_files"`
	} `json:"_embedded"`
}

// FileRecord is one downloadable variant of the media payload. The
// first entry is the primary file.
type FileRecord struct {
	URL string `json:"url"`
}

// SidecarRecord is one auxiliary download, identified by label. The
// GPMF telemetry sidecar carries the label "gpmf".
type SidecarRecord struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ToDownloadInfo converts the envelope to the model type.
//
// A response without a usable primary file URL is an error rather than
// a zero value, so a malformed payload cannot be mistaken for "nothing
// to download".
func (r *DownloadResponse) ToDownloadInfo() (*model.DownloadInfo, error) {
	if len(r.Embedded.Files) == 0 || r.Embedded.Files[0].URL == "" {
		return nil, fmt.Errorf("download response contains no primary file URL")
	}

	sidecars := make(map[string]string, len(r.Embedded.SidecarFiles))
	for _, sc := range r.Embedded.SidecarFiles {
		if sc.Label != "" && sc.URL != "" {
			sidecars[sc.Label] = sc.URL
		}
	}

	return &model.DownloadInfo{
		FileURL:     r.Embedded.Files[0].URL,
		SidecarURLs: sidecars,
	}, nil
}
