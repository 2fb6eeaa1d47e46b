package dto

import "github.com/aricha/GoProcure/internal/model"

// SearchResponse is the envelope of GET /media/search.
//
// The API nests the page of records under _embedded.media; an exhausted
// catalog returns an empty (or absent) media array, never an error.
type SearchResponse struct {
	Embedded struct {
		Media []MediaRecord `json:"media"`
	} `json:"_embedded"`
}

// MediaRecord is the raw catalog record as the API returns it.
type MediaRecord struct {
	ID                 string `json:"id"`
	Filename           string `json:"filename"`
	FileExtension      string `json:"file_extension"`
	CapturedAt         string `json:"captured_at"`
	MomentsCount       int    `json:"moments_count"`
	CameraModel        string `json:"camera_model"`
	ContentTitle       string `json:"content_title"`
	Type               string `json:"type"`
	FileSize           int64  `json:"file_size"`
	SourceDuration     string `json:"source_duration"`
	Resolution         string `json:"resolution"`
	CreatedAt          string `json:"created_at"`
	CapturedAtTimezone string `json:"captured_at_timezone"`
}

// ToMediaItem converts the raw record to the model type.
func (r *MediaRecord) ToMediaItem() model.MediaItem {
	return model.MediaItem{
		ID:                 r.ID,
		Filename:           r.Filename,
		FileExtension:      r.FileExtension,
		CapturedAt:         r.CapturedAt,
		MomentsCount:       r.MomentsCount,
		CameraModel:        r.CameraModel,
		ContentTitle:       r.ContentTitle,
		Type:               r.Type,
		FileSize:           r.FileSize,
		SourceDuration:     r.SourceDuration,
		Resolution:         r.Resolution,
		CreatedAt:          r.CreatedAt,
		CapturedAtTimezone: r.CapturedAtTimezone,
	}
}

// Items converts the embedded records to model items, preserving
// catalog order.
func (s *SearchResponse) Items() []model.MediaItem {
	items := make([]model.MediaItem, 0, len(s.Embedded.Media))
	for i := range s.Embedded.Media {
		items = append(items, s.Embedded.Media[i].ToMediaItem())
	}
	return items
}
