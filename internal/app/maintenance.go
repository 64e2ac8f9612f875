package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/router-for-me/PrizeCheck/internal/session"
	internalsettings "github.com/router-for-me/PrizeCheck/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maintenanceIntervals controls how often background jobs run.
type maintenanceIntervals struct {
	sessionPurge    time.Duration
	settingsRefresh time.Duration
}

var defaultMaintenanceIntervals = maintenanceIntervals{
	sessionPurge:    5 * time.Minute,
	settingsRefresh: 30 * time.Second,
}

// startMaintenance schedules session purging (in-memory store only) and settings refresh.
func startMaintenance(ctx context.Context, conn *gorm.DB, mem *session.MemoryStore, every maintenanceIntervals) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	if mem != nil {
		if _, errJob := scheduler.NewJob(
			gocron.DurationJob(every.sessionPurge),
			gocron.NewTask(func() {
				if removed := mem.PurgeExpired(); removed > 0 {
					log.Debugf("purged %d expired admin sessions", removed)
				}
			}),
			gocron.WithName("purge-sessions"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); errJob != nil {
			_ = scheduler.Shutdown()
			return nil, fmt.Errorf("scheduler: purge job: %w", errJob)
		}
	}

	if _, errJob := scheduler.NewJob(
		gocron.DurationJob(every.settingsRefresh),
		gocron.NewTask(func() {
			if errRefresh := internalsettings.Refresh(ctx, conn); errRefresh != nil {
				log.WithError(errRefresh).Warn("settings refresh failed")
			}
		}),
		gocron.WithName("refresh-settings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); errJob != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("scheduler: settings job: %w", errJob)
	}

	scheduler.Start()
	log.Infof("maintenance scheduler started (session purge=%s, settings refresh=%s)", every.sessionPurge, every.settingsRefresh)
	return scheduler, nil
}
