package scheduler

import (
	"context"

	"github.com/nursultan-qb/docvault/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartRetentionCron schedules the daily retention sweep. The returned cron
// can be stopped by the caller on shutdown.
func StartRetentionCron(sweeper *jobs.RetentionSweeper) *cron.Cron {
	c := cron.New()

	// Daily at midnight
	c.AddFunc("0 0 * * *", func() {
		if err := sweeper.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Retention sweep failed")
		}
	})

	c.Start()
	return c
}
