package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aleksmelnik/mediavault/internal/client/api"
	"github.com/aleksmelnik/mediavault/internal/client/models"
	"github.com/aleksmelnik/mediavault/internal/client/storage"
	"github.com/aleksmelnik/mediavault/internal/common"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

// SessionInfo is the slice of the session store the controller needs: a
// snapshot of whether a user is still signed in. Completions that arrive
// after logout check it and leave the cache untouched.
type SessionInfo interface {
	Current() *models.User
}

// Controller coordinates the media view: the active tab, the search text,
// the last-fetched item set, and the per-item operation guard. The displayed
// view is always derived from the cached set through the tab predicate and
// the search projection, so optimistic mutations take effect immediately.
type Controller struct {
	api     api.Client
	session SessionInfo
	quota   *storage.Tracker
	guard   *OperationGuard
	log     logging.Logger

	mu    sync.Mutex
	tab   Tab
	query string
	items []models.MediaItem
}

func NewController(apiClient api.Client, sess SessionInfo, quota *storage.Tracker, log logging.Logger) *Controller {
	return &Controller{
		api:     apiClient,
		session: sess,
		quota:   quota,
		guard:   NewOperationGuard(),
		log:     log,
		tab:     TabPhotos,
	}
}

// SetTab switches the active tab and re-fetches its server-side filter. The
// stale local view is cleared synchronously, before the fetch resolves, so a
// slow request never shows the previous tab's items.
func (c *Controller) SetTab(ctx context.Context, tab Tab) error {
	c.mu.Lock()
	c.tab = tab
	c.items = nil
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh re-fetches the active tab's item set.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	tab := c.tab
	c.mu.Unlock()

	items, err := c.api.ListMedia(ctx, tab.Query())
	if err != nil {
		return err
	}
	if c.session.Current() == nil {
		// Logged out while the fetch was in flight; drop the result.
		return nil
	}

	c.mu.Lock()
	if c.tab == tab {
		c.items = items
	}
	c.mu.Unlock()
	return nil
}

// SetSearchQuery records the ad-hoc search text. The projection is applied
// in View; no fetch is triggered.
func (c *Controller) SetSearchQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// SearchQuery returns the current search text.
func (c *Controller) SearchQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Tab returns the active tab.
func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// View derives the displayed item set: cached items that still satisfy the
// active tab's predicate, narrowed by the search projection. Pure and
// synchronous over the last-fetched set.
func (c *Controller) View() []models.MediaItem {
	c.mu.Lock()
	tab := c.tab
	query := c.query
	cached := make([]models.MediaItem, len(c.items))
	copy(cached, c.items)
	c.mu.Unlock()

	matching := cached[:0]
	for _, item := range cached {
		if tab.Matches(item) {
			matching = append(matching, item)
		}
	}
	return ApplySearch(matching, query)
}

// IsOperationPending reports whether the item has a mutation in flight, so
// UI can disable its controls.
func (c *Controller) IsOperationPending(id string) bool {
	return c.guard.Pending(id)
}

// Upload validates the file locally, uploads it, merges the created item
// into the cached set, and brings the quota cache up to date — from the
// response summary when the backend included one, otherwise via an explicit
// quota fetch. Validation failures are returned before any request goes out.
func (c *Controller) Upload(ctx context.Context, content io.Reader, filename, title, contentType string, sizeBytes int64) (*models.MediaItem, error) {
	if sizeBytes > common.MaxUploadSizeBytes {
		return nil, fmt.Errorf("%w: maximum size is 100MB", common.ErrFileTooLarge)
	}
	if !allowedContentType(contentType) {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFileType, contentType)
	}
	if strings.TrimSpace(title) == "" {
		title = filename
	}

	resp, err := c.api.Upload(ctx, api.UploadRequest{
		Content:     content,
		Filename:    filename,
		Title:       title,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
	})
	if err != nil {
		return nil, err
	}
	if c.session.Current() == nil {
		return nil, nil
	}

	c.mu.Lock()
	c.items = append(c.items, resp.Item)
	c.mu.Unlock()

	c.syncQuota(ctx, resp.Storage)
	return &resp.Item, nil
}

// ToggleFavorite flips the favorite flag of the identified cached item. A
// second call while the first is in flight is a no-op. On success the local
// copy is updated optimistically; the derived view drops the item if it no
// longer belongs to the active tab.
func (c *Controller) ToggleFavorite(ctx context.Context, id string) error {
	item, ok := c.cachedItem(id)
	if !ok {
		return common.ErrNotFound
	}
	if !c.guard.TryAcquire(id) {
		return nil
	}
	defer c.guard.Release(id)

	target := !item.IsFavorite
	if err := c.api.SetFavorite(ctx, id, target); err != nil {
		return err
	}

	c.applyMutation(id, func(m *models.MediaItem) { m.IsFavorite = target })
	return nil
}

// ToggleTrash moves the item into or out of the trash. The backend attaches
// a storage summary to trash responses; it is applied when present (trash
// itself does not change used bytes, but the summary is authoritative).
func (c *Controller) ToggleTrash(ctx context.Context, id string) error {
	item, ok := c.cachedItem(id)
	if !ok {
		return common.ErrNotFound
	}
	if !c.guard.TryAcquire(id) {
		return nil
	}
	defer c.guard.Release(id)

	target := !item.IsDeleted
	summary, err := c.api.SetTrashed(ctx, id, target)
	if err != nil {
		return err
	}

	c.applyMutation(id, func(m *models.MediaItem) { m.IsDeleted = target })
	if summary != nil && c.session.Current() != nil {
		c.quota.Set(*summary)
	}
	return nil
}

// PermanentlyDelete removes the item for good: it leaves the cached set and
// the quota cache is refreshed since used bytes shrink.
func (c *Controller) PermanentlyDelete(ctx context.Context, id string) error {
	if _, ok := c.cachedItem(id); !ok {
		return common.ErrNotFound
	}
	if !c.guard.TryAcquire(id) {
		return nil
	}
	defer c.guard.Release(id)

	summary, err := c.api.DeleteMedia(ctx, id)
	if err != nil {
		return err
	}
	if c.session.Current() == nil {
		return nil
	}

	c.mu.Lock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mu.Unlock()

	c.syncQuota(ctx, summary)
	return nil
}

func (c *Controller) cachedItem(id string) (models.MediaItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.MediaItem{}, false
}

// applyMutation updates the cached copy of id in place. Results arriving
// after logout are dropped.
func (c *Controller) applyMutation(id string, fn func(*models.MediaItem)) {
	if c.session.Current() == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			fn(&c.items[i])
			return
		}
	}
}

// syncQuota applies a response-included summary, or falls back to an
// explicit fetch when the mutation changed storage but the response carried
// no summary.
func (c *Controller) syncQuota(ctx context.Context, summary *models.StorageSummary) {
	if summary != nil {
		c.quota.Set(*summary)
		return
	}
	if err := c.quota.Refresh(ctx); err != nil {
		c.log.Warn(ctx, "storage summary refresh failed", "error", err)
	}
}

func allowedContentType(contentType string) bool {
	for _, prefix := range []string{"image/", "video/", "audio/"} {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
