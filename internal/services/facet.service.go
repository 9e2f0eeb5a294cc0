package services

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"mygamelist/internal/constants"
	"mygamelist/internal/database"
	"mygamelist/internal/events"
	"mygamelist/internal/repositories"
	"mygamelist/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
	"golang.org/x/sync/errgroup"
)

// FacetService builds the filter vocabulary of the catalog and keeps a cached
// copy of it. generation advances on every invalidation; a set computed across
// an invalidation is returned but never cached.
type FacetService struct {
	games      repositories.GameRepository
	cache      valkey.Client
	timeout    time.Duration
	generation atomic.Uint64
	log        logger.Logger
}

func NewFacetService(
	games repositories.GameRepository,
	cache valkey.Client,
	timeout time.Duration,
) *FacetService {
	return &FacetService{
		games:   games,
		cache:   cache,
		timeout: timeout,
		log:     logger.New("FacetService"),
	}
}

// Get serves the cached facet set when present and otherwise computes and
// caches it. Cache trouble never fails the call.
func (s *FacetService) Get(ctx context.Context) (types.FacetSet, error) {
	log := s.log.Function("Get")

	facets := types.EmptyFacetSet()
	found, err := database.NewCacheBuilder(s.cache, constants.FacetCacheKey).
		WithContext(ctx).
		Get(&facets)
	if err == nil && found {
		return facets, nil
	}
	if err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		log.Warn("facet cache read failed", "error", err)
	}

	generation := s.generation.Load()
	facets, err = s.Compute(ctx)
	if err != nil {
		return types.FacetSet{}, err
	}

	s.storeIfCurrent(ctx, generation, facets)
	return facets, nil
}

// Compute runs every aggregation concurrently. The first failure cancels the
// others and fails the whole set.
func (s *FacetService) Compute(ctx context.Context) (types.FacetSet, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	facets := types.EmptyFacetSet()
	var releaseDates []time.Time

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		facets.Platforms, err = s.games.DistinctArrayValues(gctx, repositories.PlatformsColumn)
		return err
	})
	g.Go(func() (err error) {
		facets.Tags, err = s.games.DistinctArrayValues(gctx, repositories.TagsColumn)
		return err
	})
	g.Go(func() (err error) {
		facets.Stores, err = s.games.DistinctArrayValues(gctx, repositories.StoresColumn)
		return err
	})
	g.Go(func() (err error) {
		facets.ESRBRatings, err = s.games.DistinctESRBNames(gctx)
		return err
	})
	g.Go(func() (err error) {
		releaseDates, err = s.games.DistinctReleaseDates(gctx)
		return err
	})
	g.Go(func() (err error) {
		facets.UserRatings, err = s.games.DistinctRatings(gctx)
		return err
	})
	g.Go(func() (err error) {
		facets.MetacriticRatings, err = s.games.DistinctMetacritic(gctx)
		return err
	})
	g.Go(func() (err error) {
		facets.PlaytimeRanges, err = s.games.DistinctPlaytimes(gctx)
		return err
	})
	g.Go(func() (err error) {
		facets.AddedByStatus, err = s.games.SumAddedByStatus(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Function("Compute").Er("facet aggregation failed", err)
		if errors.Is(err, types.ErrStorage) {
			return types.FacetSet{}, err
		}
		return types.FacetSet{}, types.StorageError("aggregate facets", err)
	}

	facets.ReleaseYears = ReleaseYears(releaseDates)
	normalizeFacets(&facets)

	return facets, nil
}

// ReleaseYears collapses dates to their distinct years in ascending order.
func ReleaseYears(dates []time.Time) []int {
	seen := make(map[int]struct{}, len(dates))
	years := make([]int, 0, len(dates))
	for _, date := range dates {
		year := date.Year()
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

func normalizeFacets(facets *types.FacetSet) {
	if facets.Platforms == nil {
		facets.Platforms = []string{}
	}
	if facets.Tags == nil {
		facets.Tags = []string{}
	}
	if facets.Stores == nil {
		facets.Stores = []string{}
	}
	if facets.ESRBRatings == nil {
		facets.ESRBRatings = []string{}
	}
	if facets.UserRatings == nil {
		facets.UserRatings = []float64{}
	}
	if facets.MetacriticRatings == nil {
		facets.MetacriticRatings = []int{}
	}
	if facets.PlaytimeRanges == nil {
		facets.PlaytimeRanges = []int{}
	}
	sort.Float64s(facets.UserRatings)
	sort.Ints(facets.MetacriticRatings)
	sort.Ints(facets.PlaytimeRanges)
}

// Warm recomputes the set and replaces the cached copy.
func (s *FacetService) Warm(ctx context.Context) error {
	generation := s.generation.Load()
	facets, err := s.Compute(ctx)
	if err != nil {
		return err
	}
	s.storeIfCurrent(ctx, generation, facets)
	return nil
}

func (s *FacetService) Invalidate(ctx context.Context) error {
	s.generation.Add(1)

	err := database.NewCacheBuilder(s.cache, constants.FacetCacheKey).WithContext(ctx).Delete()
	if err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		return s.log.Function("Invalidate").Err("failed to invalidate facet cache", err)
	}
	return nil
}

// HandleCatalogEvent drops the cached set whenever the catalog changes.
func (s *FacetService) HandleCatalogEvent(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Invalidate(ctx)
}

// storeIfCurrent caches facets unless an invalidation happened after
// generation was read.
func (s *FacetService) storeIfCurrent(
	ctx context.Context,
	generation uint64,
	facets types.FacetSet,
) bool {
	if s.generation.Load() != generation {
		s.log.Function("storeIfCurrent").Info("Catalog changed during facet computation, skipping cache write")
		return false
	}

	err := database.NewCacheBuilder(s.cache, constants.FacetCacheKey).
		WithStruct(facets).
		WithTTL(constants.FacetCacheExpiry).
		WithContext(ctx).
		Set()
	if err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		s.log.Function("storeIfCurrent").Warn("failed to cache facets", "error", err)
	}
	return true
}
