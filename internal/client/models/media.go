package models

import "time"

// MediaType is the backend's media classification.
type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// MediaItem is one stored media object. The client holds a cached copy per
// fetch; the backend remains authoritative.
type MediaItem struct {
	ID         string    `json:"id"`
	Type       MediaType `json:"type"`
	Title      string    `json:"title"`
	IsFavorite bool      `json:"isFavorite"`
	IsDeleted  bool      `json:"isDeleted"`
	SizeBytes  int64     `json:"sizeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// StorageSummary is the last known usage/quota pair. usedBytes <= quotaBytes
// is a display assumption only; the backend is authoritative.
type StorageSummary struct {
	UsedBytes  int64 `json:"usedBytes"`
	QuotaBytes int64 `json:"quotaBytes"`
}
