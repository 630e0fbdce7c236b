package cli

import (
	"context"
	"fmt"
)

// Storage prints the current storage summary, refreshing it first.
func (a *App) Storage(ctx context.Context) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}
	if err := a.tracker.Refresh(ctx); err != nil {
		printAPIError(err)
		return err
	}

	s := a.tracker.Summary()
	printlnFn(fmt.Sprintf("Using %s of %s (%.1f%%), %s plan",
		formatBytes(s.UsedBytes), formatBytes(s.QuotaBytes),
		a.tracker.PercentageUsed(), a.tracker.PlanTier()))
	return nil
}
