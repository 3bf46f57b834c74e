package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// StartCampaignSweep deactivates date-expired campaigns on a fixed interval
// until ctx is done. Runs once immediately so a restart catches up.
func StartCampaignSweep(ctx context.Context, campaigns *models.CampaignModel, interval time.Duration) {
	sweep := func() {
		n, err := campaigns.DeactivateExpired(time.Now())
		if err != nil {
			zap.S().Warnw("campaign sweep failed", "error", err)
			return
		}
		if n > 0 {
			zap.S().Infow("expired campaigns deactivated", "count", n)
		}
	}

	go func() {
		sweep()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
