package jobs

import (
	"mygamelist/config"
	"mygamelist/internal/events"
	"mygamelist/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	eventBus *events.EventBus,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	log.Info("Registering jobs")

	if err := schedulerService.AddJob(NewFacetWarmupJob(services.Facet, Hourly)); err != nil {
		return log.Err("failed to register facet warmup job", err)
	}
	log.Info("Registered facet warmup job", "schedule", "hourly")

	if err := schedulerService.AddJob(NewDuplicateSweepJob(services.Dedupe, eventBus, Daily)); err != nil {
		return log.Err("failed to register duplicate sweep job", err)
	}
	log.Info("Registered duplicate sweep job", "schedule", "daily")

	return nil
}
