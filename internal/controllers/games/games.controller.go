package gamesController

import (
	"context"
	"sort"
	"strings"

	"mygamelist/config"
	"mygamelist/internal/events"
	. "mygamelist/internal/models"
	"mygamelist/internal/repositories"
	"mygamelist/internal/services"
	"mygamelist/internal/types"
	"mygamelist/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// FacetProvider serves the catalog filter vocabulary.
type FacetProvider interface {
	Get(ctx context.Context) (types.FacetSet, error)
}

type GamesController struct {
	gameRepo repositories.GameRepository
	facets   FacetProvider
	eventBus *events.EventBus
	config   config.Config
	log      logger.Logger
}

type GamesControllerInterface interface {
	GetTopGames(ctx context.Context, params types.TopGamesParams) ([]Game, error)
	SearchGames(ctx context.Context, raw string) ([]Game, error)
	GetFilters(ctx context.Context) (types.FacetSet, error)
	ListGames(ctx context.Context) ([]Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (*Game, error)
	CreateGame(ctx context.Context, req GameRequest) (*Game, error)
	UpdateGame(ctx context.Context, id uuid.UUID, req GameRequest) (*Game, error)
	DeleteGame(ctx context.Context, id uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
) GamesControllerInterface {
	return NewWithFacets(repos.Game, services.Facet, eventBus, config)
}

func NewWithFacets(
	gameRepo repositories.GameRepository,
	facets FacetProvider,
	eventBus *events.EventBus,
	config config.Config,
) *GamesController {
	return &GamesController{
		gameRepo: gameRepo,
		facets:   facets,
		eventBus: eventBus,
		config:   config,
		log:      logger.New("gamesController"),
	}
}

// GetTopGames pulls twice the requested number of candidates by popularity
// under the filter, then re-ranks them by rating and keeps the first limit.
func (gc *GamesController) GetTopGames(
	ctx context.Context,
	params types.TopGamesParams,
) ([]Game, error) {
	log := gc.log.Function("GetTopGames")

	limit := types.ParseLimit(params.Limit, gc.config.TopGamesMaxLimit)

	ctx, cancel := gc.withTimeout(ctx)
	defer cancel()

	candidates, err := gc.gameRepo.FindTopByPopularity(ctx, params.Filter(), limit)
	if err != nil {
		return nil, log.Err("failed to load top game candidates", err, "limit", limit)
	}

	return RankByRating(candidates, limit), nil
}

// RankByRating stably orders games by rating, highest first, and truncates
// to limit. Equal ratings keep their incoming order.
func RankByRating(games []Game, limit int) []Game {
	ranked := make([]Game, len(games))
	copy(ranked, games)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (gc *GamesController) SearchGames(ctx context.Context, raw string) ([]Game, error) {
	log := gc.log.Function("SearchGames")

	ctx, cancel := gc.withTimeout(ctx)
	defer cancel()

	games, err := gc.gameRepo.SearchByName(ctx, utils.NormalizeSearch(strings.TrimSpace(raw)))
	if err != nil {
		return nil, log.Err("failed to search games", err)
	}
	return games, nil
}

func (gc *GamesController) GetFilters(ctx context.Context) (types.FacetSet, error) {
	return gc.facets.Get(ctx)
}

func (gc *GamesController) ListGames(ctx context.Context) ([]Game, error) {
	ctx, cancel := gc.withTimeout(ctx)
	defer cancel()

	return gc.gameRepo.List(ctx)
}

func (gc *GamesController) GetGame(ctx context.Context, id uuid.UUID) (*Game, error) {
	ctx, cancel := gc.withTimeout(ctx)
	defer cancel()

	return gc.gameRepo.GetByID(ctx, id)
}

func (gc *GamesController) CreateGame(ctx context.Context, req GameRequest) (*Game, error) {
	log := gc.log.Function("CreateGame")

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.IDGameBD <= 0 {
		return nil, types.NewFieldError("idGameBD", "must be a positive integer")
	}

	game := &Game{}
	if err := req.Apply(game); err != nil {
		return nil, err
	}
	game.IDGameBD = req.IDGameBD

	ctx, cancel := gc.withTimeout(ctx)
	defer cancel()

	if err := gc.gameRepo.Create(ctx, game); err != nil {
		return nil, log.Err("failed to create game", err, "idGameBD", req.IDGameBD)
	}

	gc.publish(events.GAME_CREATED, game)
	return game, nil
}

// UpdateGame replaces every mutable field. The external catalog id is fixed
// once a game exists.
func (gc *GamesController) UpdateGame(
	ctx context.Context,
	id uuid.UUID,
	req GameRequest,
) (*Game, error) {
	log := gc.log.Function("UpdateGame")

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := gc.withTimeout(ctx)
	defer cancel()

	game, err := gc.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IDGameBD != 0 && req.IDGameBD != game.IDGameBD {
		return nil, types.NewFieldError("idGameBD", "cannot be changed")
	}

	if err := req.Apply(game); err != nil {
		return nil, err
	}

	if err := gc.gameRepo.Update(ctx, game); err != nil {
		return nil, log.Err("failed to update game", err, "gameID", id)
	}

	gc.publish(events.GAME_UPDATED, game)
	return game, nil
}

func (gc *GamesController) DeleteGame(ctx context.Context, id uuid.UUID) error {
	log := gc.log.Function("DeleteGame")

	ctx, cancel := gc.withTimeout(ctx)
	defer cancel()

	if err := gc.gameRepo.Delete(ctx, id); err != nil {
		return log.Err("failed to delete game", err, "gameID", id)
	}

	gc.publish(events.GAME_DELETED, &Game{BaseUUIDModel: BaseUUIDModel{ID: id}})
	return nil
}

func (gc *GamesController) publish(eventType events.MessageType, game *Game) {
	if gc.eventBus == nil {
		return
	}
	if err := gc.eventBus.PublishGameEvent(eventType, game.ID, game.Name); err != nil {
		gc.log.Function("publish").Warn("catalog event not delivered", "type", eventType, "error", err)
	}
}

func (gc *GamesController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, gc.config.StoreTimeout())
}
