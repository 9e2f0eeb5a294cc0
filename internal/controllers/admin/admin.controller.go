package adminController

import (
	"context"
	"time"

	"mygamelist/config"
	"mygamelist/internal/events"
	"mygamelist/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Deduper interface {
	RemoveDuplicates(ctx context.Context) (int64, error)
}

type FacetWarmer interface {
	Warm(ctx context.Context) error
}

type SchedulerStatus interface {
	IsRunning() bool
	GetJobCount() int
}

type AdminControllerInterface interface {
	GetStatus(ctx context.Context) *MaintenanceStatus
	TriggerDedupe(ctx context.Context) (*DedupeResult, error)
	RefreshFacets(ctx context.Context) error
}

type AdminController struct {
	dedupe    Deduper
	facets    FacetWarmer
	scheduler SchedulerStatus
	eventBus  *events.EventBus
	timeout   time.Duration
	log       logger.Logger
}

type MaintenanceStatus struct {
	SchedulerRunning bool      `json:"schedulerRunning"`
	ScheduledJobs    int       `json:"scheduledJobs"`
	CheckedAt        time.Time `json:"checkedAt"`
}

type DedupeResult struct {
	Deleted int64 `json:"deleted"`
}

func New(
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
) AdminControllerInterface {
	return NewAdminController(
		services.Dedupe,
		services.Facet,
		services.Scheduler,
		eventBus,
		config.StoreTimeout(),
	)
}

func NewAdminController(
	dedupe Deduper,
	facets FacetWarmer,
	scheduler SchedulerStatus,
	eventBus *events.EventBus,
	timeout time.Duration,
) *AdminController {
	return &AdminController{
		dedupe:    dedupe,
		facets:    facets,
		scheduler: scheduler,
		eventBus:  eventBus,
		timeout:   timeout,
		log:       logger.New("adminController"),
	}
}

func (c *AdminController) GetStatus(ctx context.Context) *MaintenanceStatus {
	return &MaintenanceStatus{
		SchedulerRunning: c.scheduler.IsRunning(),
		ScheduledJobs:    c.scheduler.GetJobCount(),
		CheckedAt:        time.Now().UTC(),
	}
}

// TriggerDedupe runs the duplicate sweep on demand. Other instances hear
// about it through the catalog channel.
func (c *AdminController) TriggerDedupe(ctx context.Context) (*DedupeResult, error) {
	log := c.log.Function("TriggerDedupe")

	storeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	deleted, err := c.dedupe.RemoveDuplicates(storeCtx)
	if err != nil {
		return nil, log.Err("failed to remove duplicate games", err)
	}

	log.Info("Manual duplicate sweep complete", "deleted", deleted)

	if deleted > 0 && c.eventBus != nil {
		if err := c.eventBus.PublishDedupe(deleted); err != nil {
			log.Warn("failed to announce duplicate sweep", "deleted", deleted, "error", err)
		}
	}

	return &DedupeResult{Deleted: deleted}, nil
}

func (c *AdminController) RefreshFacets(ctx context.Context) error {
	if err := c.facets.Warm(ctx); err != nil {
		return c.log.Function("RefreshFacets").Err("failed to refresh facets", err)
	}
	return nil
}
