// Package storage holds the client's view of the user's storage quota. The
// tracker is a derived read cache: it never mutates anything server-side and
// is refreshed by the media controller after storage-affecting operations.
package storage

import (
	"context"
	"sync"

	"github.com/aleksmelnik/mediavault/internal/client/api"
	"github.com/aleksmelnik/mediavault/internal/client/models"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

// Tier names a plan bucket classified purely by quota size.
type Tier string

const (
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

// Tier thresholds. The backend's default 5GiB free plan lands in small.
const (
	tierSmallMaxBytes  = int64(16) << 30
	tierMediumMaxBytes = int64(256) << 30
)

// Tracker caches the last known usage/quota pair.
type Tracker struct {
	mu      sync.Mutex
	api     api.Client
	summary models.StorageSummary
	log     logging.Logger
}

func NewTracker(apiClient api.Client, log logging.Logger) *Tracker {
	return &Tracker{api: apiClient, log: log}
}

// Refresh fetches the summary from the backend and replaces the cache.
func (t *Tracker) Refresh(ctx context.Context) error {
	summary, err := t.api.GetStorageSummary(ctx)
	if err != nil {
		return err
	}
	t.Set(*summary)
	return nil
}

// Set replaces the cached summary, e.g. from a summary piggybacked on an
// upload or delete response.
func (t *Tracker) Set(summary models.StorageSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary = summary
}

// Summary returns the cached usage/quota pair.
func (t *Tracker) Summary() models.StorageSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}

// PercentageUsed returns used/quota as a percentage clamped to [0,100].
// A zero quota yields 0 rather than dividing by zero.
func (t *Tracker) PercentageUsed() float64 {
	s := t.Summary()
	if s.QuotaBytes <= 0 {
		return 0
	}
	pct := float64(s.UsedBytes) / float64(s.QuotaBytes) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// PlanTier classifies the plan by quota size.
func (t *Tracker) PlanTier() Tier {
	s := t.Summary()
	switch {
	case s.QuotaBytes <= tierSmallMaxBytes:
		return TierSmall
	case s.QuotaBytes <= tierMediumMaxBytes:
		return TierMedium
	default:
		return TierLarge
	}
}
