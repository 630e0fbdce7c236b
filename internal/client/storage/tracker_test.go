package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aleksmelnik/mediavault/internal/client/api"
	"github.com/aleksmelnik/mediavault/internal/client/models"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

// summaryOnlyClient stubs the single endpoint the tracker uses.
type summaryOnlyClient struct {
	api.Client
	ret   models.StorageSummary
	err   error
	calls int
}

func (c *summaryOnlyClient) GetStorageSummary(ctx context.Context) (*models.StorageSummary, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	s := c.ret
	return &s, nil
}

func TestTracker_RefreshReplacesSummary(t *testing.T) {
	client := &summaryOnlyClient{ret: models.StorageSummary{UsedBytes: 100, QuotaBytes: 1000}}
	tr := NewTracker(client, logging.NewNopLogger())

	require.NoError(t, tr.Refresh(context.Background()))
	require.Equal(t, int64(100), tr.Summary().UsedBytes)
	require.Equal(t, 1, client.calls)

	client.ret = models.StorageSummary{UsedBytes: 200, QuotaBytes: 1000}
	require.NoError(t, tr.Refresh(context.Background()))
	require.Equal(t, int64(200), tr.Summary().UsedBytes)
}

func TestTracker_RefreshErrorKeepsCache(t *testing.T) {
	client := &summaryOnlyClient{ret: models.StorageSummary{UsedBytes: 100, QuotaBytes: 1000}}
	tr := NewTracker(client, logging.NewNopLogger())
	require.NoError(t, tr.Refresh(context.Background()))

	client.err = &api.Error{Kind: api.KindServer, StatusCode: 500, Message: "boom"}
	require.Error(t, tr.Refresh(context.Background()))
	require.Equal(t, int64(100), tr.Summary().UsedBytes)
}

func TestTracker_PercentageUsed(t *testing.T) {
	tests := []struct {
		name  string
		used  int64
		quota int64
		want  float64
	}{
		{"half", 500, 1000, 50},
		{"empty", 0, 1000, 0},
		{"full", 1000, 1000, 100},
		{"over quota clamps to 100", 1500, 1000, 100},
		{"zero quota yields zero", 12345, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(nil, logging.NewNopLogger())
			tr.Set(models.StorageSummary{UsedBytes: tt.used, QuotaBytes: tt.quota})

			got := tr.PercentageUsed()
			require.Equal(t, tt.want, got)
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestTracker_PlanTier(t *testing.T) {
	tests := []struct {
		quota int64
		want  Tier
	}{
		{5 << 30, TierSmall},
		{16 << 30, TierSmall},
		{17 << 30, TierMedium},
		{256 << 30, TierMedium},
		{512 << 30, TierLarge},
	}

	for _, tt := range tests {
		tr := NewTracker(nil, logging.NewNopLogger())
		tr.Set(models.StorageSummary{QuotaBytes: tt.quota})
		require.Equal(t, tt.want, tr.PlanTier(), "quota %d", tt.quota)
	}
}
