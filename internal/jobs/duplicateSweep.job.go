package jobs

import (
	"context"

	"mygamelist/internal/events"
	"mygamelist/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// DuplicateSweepJob prunes games sharing an external catalog id and tells
// every instance the catalog changed.
type DuplicateSweepJob struct {
	dedupe   *services.DedupeService
	eventBus *events.EventBus
	log      logger.Logger
	schedule services.Schedule
}

func NewDuplicateSweepJob(
	dedupe *services.DedupeService,
	eventBus *events.EventBus,
	schedule services.Schedule,
) *DuplicateSweepJob {
	return &DuplicateSweepJob{
		dedupe:   dedupe,
		eventBus: eventBus,
		log:      logger.New("duplicateSweepJob"),
		schedule: schedule,
	}
}

func (j *DuplicateSweepJob) Name() string {
	return "DuplicateSweep"
}

func (j *DuplicateSweepJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	deleted, err := j.dedupe.RemoveDuplicates(ctx)
	if err != nil {
		return log.Err("duplicate sweep failed", err)
	}

	if deleted == 0 || j.eventBus == nil {
		return nil
	}

	if err := j.eventBus.PublishDedupe(deleted); err != nil {
		log.Warn("failed to announce duplicate sweep", "deleted", deleted, "error", err)
	}

	return nil
}

func (j *DuplicateSweepJob) Schedule() services.Schedule {
	return j.schedule
}
