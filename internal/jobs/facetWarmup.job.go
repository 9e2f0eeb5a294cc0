package jobs

import (
	"context"

	"mygamelist/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type FacetWarmupJob struct {
	facets   *services.FacetService
	log      logger.Logger
	schedule services.Schedule
}

func NewFacetWarmupJob(
	facets *services.FacetService,
	schedule services.Schedule,
) *FacetWarmupJob {
	log := logger.New("facetWarmupJob")
	log.Info("Creating new facet warmup job", "schedule", schedule)

	return &FacetWarmupJob{
		facets:   facets,
		log:      log,
		schedule: schedule,
	}
}

func (j *FacetWarmupJob) Name() string {
	return "FacetCacheWarmup"
}

func (j *FacetWarmupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Recomputing catalog facets")

	if err := j.facets.Warm(ctx); err != nil {
		return log.Err("facet warmup failed", err)
	}

	log.Info("Catalog facets cached")
	return nil
}

func (j *FacetWarmupJob) Schedule() services.Schedule {
	return j.schedule
}
