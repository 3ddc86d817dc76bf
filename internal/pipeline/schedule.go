package pipeline

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Schedule runs d.Run(path) on expr until ctx is done. Overlapping runs are skipped.
// It blocks and returns nil on cancellation.
func Schedule(ctx context.Context, d *Driver, path, expr string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(expr, func() {
		if _, err := d.Run(ctx, path); err != nil {
			d.log.WithError(err).Error("scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	d.log.WithField("schedule", expr).Info("scheduler started")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	d.log.Info("scheduler stopped")
	return nil
}
