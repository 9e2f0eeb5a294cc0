package repositories

import (
	"context"
	"fmt"
	"time"

	"mygamelist/internal/database"
	. "mygamelist/internal/models"
	"mygamelist/internal/types"
	"mygamelist/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const gameEntity = "game"

// ArrayColumn names a text[] column of games that facets can be drawn from.
type ArrayColumn string

const (
	PlatformsColumn ArrayColumn = "platforms"
	TagsColumn      ArrayColumn = "tags"
	StoresColumn    ArrayColumn = "stores"
)

func (c ArrayColumn) valid() bool {
	switch c {
	case PlatformsColumn, TagsColumn, StoresColumn:
		return true
	}
	return false
}

type GameRepository interface {
	FindTopByPopularity(ctx context.Context, filter types.GameFilter, limit int) ([]Game, error)
	SearchByName(ctx context.Context, normalized string) ([]Game, error)
	List(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Game, error)
	Create(ctx context.Context, game *Game) error
	Update(ctx context.Context, game *Game) error
	Delete(ctx context.Context, id uuid.UUID) error

	DistinctArrayValues(ctx context.Context, column ArrayColumn) ([]string, error)
	DistinctESRBNames(ctx context.Context) ([]string, error)
	DistinctReleaseDates(ctx context.Context) ([]time.Time, error)
	DistinctRatings(ctx context.Context) ([]float64, error)
	DistinctMetacritic(ctx context.Context) ([]int, error)
	DistinctPlaytimes(ctx context.Context) ([]int, error)
	SumAddedByStatus(ctx context.Context) (AddedByStatus, error)

	RemoveDuplicates(ctx context.Context) (int64, error)
}

type gameRepository struct {
	db  database.DB
	log logger.Logger
}

func NewGameRepository(db database.DB) GameRepository {
	return &gameRepository{
		db:  db,
		log: logger.New("gameRepository"),
	}
}

// FindTopByPopularity returns up to limit*CandidateMultiplier games matching
// filter, most rated first with ties broken by catalog id.
func (r *gameRepository) FindTopByPopularity(
	ctx context.Context,
	filter types.GameFilter,
	limit int,
) ([]Game, error) {
	log := r.log.Function("FindTopByPopularity")

	query := getDB(ctx, r.db).Model(&Game{})
	for _, clause := range filter.Clauses() {
		query = applyClause(query, clause)
	}

	var games []Game
	if err := query.
		Order("ratings_count DESC").
		Order("id_game_bd ASC").
		Limit(limit * types.CandidateMultiplier).
		Find(&games).Error; err != nil {
		log.Er("failed to find top games", err, "limit", limit)
		return nil, translateError(gameEntity, "find top games", err)
	}

	return games, nil
}

// filterColumns lists the columns each clause kind may target.
var filterColumns = map[types.ClauseKind]map[types.FilterField]bool{
	types.ClauseContains: {types.FieldPlatforms: true, types.FieldTags: true},
	types.ClauseAtLeast:  {types.FieldRating: true, types.FieldReleased: true},
}

func applyClause(query *gorm.DB, clause types.GameClause) *gorm.DB {
	if !filterColumns[clause.Kind][clause.Field] {
		return query
	}

	column := string(clause.Field)
	switch clause.Kind {
	case types.ClauseContains:
		return query.Where("? = ANY("+column+")", clause.Text)
	case types.ClauseAtLeast:
		return query.Where(column+" >= ?", clause.Bound())
	default:
		return query
	}
}

// SearchByName expects an already normalized query. An empty query lists
// every game.
func (r *gameRepository) SearchByName(ctx context.Context, normalized string) ([]Game, error) {
	if normalized == "" {
		return r.List(ctx)
	}

	log := r.log.Function("SearchByName")

	var games []Game
	if err := getDB(ctx, r.db).
		Where("search_name LIKE ? ESCAPE '"+utils.LikeEscapeChar+"'", utils.ContainsPattern(normalized)).
		Order("name ASC").
		Find(&games).Error; err != nil {
		log.Er("failed to search games", err, "query", normalized)
		return nil, translateError(gameEntity, "search games", err)
	}

	return games, nil
}

func (r *gameRepository) List(ctx context.Context) ([]Game, error) {
	log := r.log.Function("List")

	var games []Game
	if err := getDB(ctx, r.db).Order("name ASC").Find(&games).Error; err != nil {
		log.Er("failed to list games", err)
		return nil, translateError(gameEntity, "list games", err)
	}

	return games, nil
}

func (r *gameRepository) GetByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	var game Game
	if err := getDB(ctx, r.db).First(&game, "id = ?", id).Error; err != nil {
		return nil, translateError(gameEntity, "get game", err)
	}

	return &game, nil
}

func (r *gameRepository) Create(ctx context.Context, game *Game) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(game).Error; err != nil {
		log.Er("failed to create game", err, "idGameBD", game.IDGameBD)
		return translateError(gameEntity, "create game", err)
	}

	return nil
}

func (r *gameRepository) Update(ctx context.Context, game *Game) error {
	log := r.log.Function("Update")

	result := getDB(ctx, r.db).Model(game).Select("*").Omit("id", "created_at").Updates(game)
	if result.Error != nil {
		log.Er("failed to update game", result.Error, "gameID", game.ID)
		return translateError(gameEntity, "update game", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(gameEntity)
	}

	return nil
}

func (r *gameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := getDB(ctx, r.db).Delete(&Game{}, "id = ?", id)
	if result.Error != nil {
		log.Er("failed to delete game", result.Error, "gameID", id)
		return translateError(gameEntity, "delete game", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(gameEntity)
	}

	return nil
}

func (r *gameRepository) DistinctArrayValues(ctx context.Context, column ArrayColumn) ([]string, error) {
	if !column.valid() {
		return nil, types.Wrap(types.ErrValidation, fmt.Sprintf("unknown array column %q", column))
	}

	query := fmt.Sprintf(
		"SELECT DISTINCT value FROM games, unnest(%s) AS value WHERE value IS NOT NULL ORDER BY value",
		column,
	)

	values := []string{}
	if err := getDB(ctx, r.db).Raw(query).Scan(&values).Error; err != nil {
		r.log.Function("DistinctArrayValues").Er("failed to read distinct values", err, "column", column)
		return nil, translateError(gameEntity, "distinct "+string(column), err)
	}

	return values, nil
}

func (r *gameRepository) DistinctESRBNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := getDB(ctx, r.db).Raw(
		`SELECT DISTINCT esrb_rating->>'name' AS name FROM games
		WHERE esrb_rating IS NOT NULL AND esrb_rating->>'name' IS NOT NULL
		ORDER BY name`,
	).Scan(&names).Error; err != nil {
		r.log.Function("DistinctESRBNames").Er("failed to read esrb names", err)
		return nil, translateError(gameEntity, "distinct esrb ratings", err)
	}

	return names, nil
}

type releaseDateRow struct {
	Released time.Time
}

func (r *gameRepository) DistinctReleaseDates(ctx context.Context) ([]time.Time, error) {
	var rows []releaseDateRow
	if err := getDB(ctx, r.db).Raw(
		"SELECT DISTINCT released FROM games WHERE released IS NOT NULL ORDER BY released",
	).Scan(&rows).Error; err != nil {
		r.log.Function("DistinctReleaseDates").Er("failed to read release dates", err)
		return nil, translateError(gameEntity, "distinct release dates", err)
	}

	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Released)
	}

	return dates, nil
}

func (r *gameRepository) DistinctRatings(ctx context.Context) ([]float64, error) {
	ratings := []float64{}
	if err := getDB(ctx, r.db).Raw(
		"SELECT DISTINCT rating FROM games ORDER BY rating",
	).Scan(&ratings).Error; err != nil {
		r.log.Function("DistinctRatings").Er("failed to read ratings", err)
		return nil, translateError(gameEntity, "distinct ratings", err)
	}

	return ratings, nil
}

func (r *gameRepository) DistinctMetacritic(ctx context.Context) ([]int, error) {
	scores := []int{}
	if err := getDB(ctx, r.db).Raw(
		"SELECT DISTINCT metacritic FROM games WHERE metacritic IS NOT NULL ORDER BY metacritic",
	).Scan(&scores).Error; err != nil {
		r.log.Function("DistinctMetacritic").Er("failed to read metacritic scores", err)
		return nil, translateError(gameEntity, "distinct metacritic", err)
	}

	return scores, nil
}

func (r *gameRepository) DistinctPlaytimes(ctx context.Context) ([]int, error) {
	playtimes := []int{}
	if err := getDB(ctx, r.db).Raw(
		"SELECT DISTINCT playtime FROM games ORDER BY playtime",
	).Scan(&playtimes).Error; err != nil {
		r.log.Function("DistinctPlaytimes").Er("failed to read playtimes", err)
		return nil, translateError(gameEntity, "distinct playtimes", err)
	}

	return playtimes, nil
}

func (r *gameRepository) SumAddedByStatus(ctx context.Context) (AddedByStatus, error) {
	var totals AddedByStatus
	if err := getDB(ctx, r.db).Raw(
		`SELECT
			COALESCE(SUM(added_by_status_yet), 0) AS yet,
			COALESCE(SUM(added_by_status_owned), 0) AS owned,
			COALESCE(SUM(added_by_status_beaten), 0) AS beaten,
			COALESCE(SUM(added_by_status_to_play), 0) AS to_play,
			COALESCE(SUM(added_by_status_dropped), 0) AS dropped,
			COALESCE(SUM(added_by_status_playing), 0) AS playing
		FROM games`,
	).Scan(&totals).Error; err != nil {
		r.log.Function("SumAddedByStatus").Er("failed to sum added by status", err)
		return AddedByStatus{}, translateError(gameEntity, "sum added by status", err)
	}

	return totals, nil
}

// RemoveDuplicates keeps the oldest row for every id_game_bd and deletes the
// rest, returning how many rows were removed.
func (r *gameRepository) RemoveDuplicates(ctx context.Context) (int64, error) {
	log := r.log.Function("RemoveDuplicates")

	result := getDB(ctx, r.db).Exec(
		`DELETE FROM games WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY id_game_bd ORDER BY created_at ASC, id ASC
				) AS rn
				FROM games
			) ranked
			WHERE ranked.rn > 1
		)`,
	)
	if result.Error != nil {
		log.Er("failed to remove duplicate games", result.Error)
		return 0, translateError(gameEntity, "remove duplicates", result.Error)
	}

	log.Info("Removed duplicate games", "deleted", result.RowsAffected)
	return result.RowsAffected, nil
}
