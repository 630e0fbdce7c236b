// Package media implements the media view state: the sticky tab filter, the
// ad-hoc search projection, optimistic mutations with a per-item in-flight
// guard, and the quota refresh that follows storage-affecting operations.
package media

import (
	"fmt"
	"strings"

	"github.com/aleksmelnik/mediavault/internal/client/api"
	"github.com/aleksmelnik/mediavault/internal/client/models"
)

// Tab is one of the five mutually exclusive media groupings. Each tab
// defines both the server-side filter for fetching and the local membership
// predicate for the derived view.
type Tab string

const (
	TabPhotos    Tab = "photos"
	TabVideos    Tab = "videos"
	TabAudio     Tab = "audio"
	TabFavorites Tab = "favorites"
	TabTrash     Tab = "trash"
)

// ParseTab validates a user-supplied tab name.
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabPhotos:
		return TabPhotos, nil
	case TabVideos:
		return TabVideos, nil
	case TabAudio:
		return TabAudio, nil
	case TabFavorites:
		return TabFavorites, nil
	case TabTrash:
		return TabTrash, nil
	default:
		return "", fmt.Errorf("unknown tab %q", s)
	}
}

// Query maps the tab onto the backend list filter: type tabs request a type,
// favorites requests the favorite flag, trash requests the deleted flag.
// The non-trash tabs explicitly exclude trashed items.
func (t Tab) Query() api.ListQuery {
	boolPtr := func(b bool) *bool { return &b }
	typePtr := func(mt models.MediaType) *models.MediaType { return &mt }

	switch t {
	case TabPhotos:
		return api.ListQuery{Type: typePtr(models.MediaTypePhoto), Trash: boolPtr(false)}
	case TabVideos:
		return api.ListQuery{Type: typePtr(models.MediaTypeVideo), Trash: boolPtr(false)}
	case TabAudio:
		return api.ListQuery{Type: typePtr(models.MediaTypeAudio), Trash: boolPtr(false)}
	case TabFavorites:
		return api.ListQuery{Favorites: boolPtr(true), Trash: boolPtr(false)}
	case TabTrash:
		return api.ListQuery{Trash: boolPtr(true)}
	default:
		return api.ListQuery{}
	}
}

// Matches is the tab's membership predicate over a cached item. It is
// applied locally so optimistic mutations drop items from the view the
// moment they stop belonging (for example un-favoriting on the favorites
// tab), without waiting for a re-fetch.
func (t Tab) Matches(item models.MediaItem) bool {
	switch t {
	case TabPhotos:
		return item.Type == models.MediaTypePhoto && !item.IsDeleted
	case TabVideos:
		return item.Type == models.MediaTypeVideo && !item.IsDeleted
	case TabAudio:
		return item.Type == models.MediaTypeAudio && !item.IsDeleted
	case TabFavorites:
		return item.IsFavorite && !item.IsDeleted
	case TabTrash:
		return item.IsDeleted
	default:
		return false
	}
}

// ApplySearch derives the displayed subset by case-insensitive substring
// match of the trimmed query against item titles. An empty or whitespace
// query returns items unchanged. Pure projection; never fetches.
func ApplySearch(items []models.MediaItem, query string) []models.MediaItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), q) {
			out = append(out, item)
		}
	}
	return out
}
