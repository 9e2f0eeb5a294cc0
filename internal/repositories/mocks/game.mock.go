package mocks

import (
	"context"
	"time"

	"mygamelist/internal/models"
	"mygamelist/internal/repositories"
	"mygamelist/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// GameRepository is a testify mock of repositories.GameRepository.
type GameRepository struct {
	mock.Mock
}

var _ repositories.GameRepository = (*GameRepository)(nil)

func (m *GameRepository) FindTopByPopularity(
	ctx context.Context,
	filter types.GameFilter,
	limit int,
) ([]models.Game, error) {
	args := m.Called(ctx, filter, limit)
	games, _ := args.Get(0).([]models.Game)
	return games, args.Error(1)
}

func (m *GameRepository) SearchByName(ctx context.Context, normalized string) ([]models.Game, error) {
	args := m.Called(ctx, normalized)
	games, _ := args.Get(0).([]models.Game)
	return games, args.Error(1)
}

func (m *GameRepository) List(ctx context.Context) ([]models.Game, error) {
	args := m.Called(ctx)
	games, _ := args.Get(0).([]models.Game)
	return games, args.Error(1)
}

func (m *GameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*models.Game)
	return game, args.Error(1)
}

func (m *GameRepository) Create(ctx context.Context, game *models.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *GameRepository) Update(ctx context.Context, game *models.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *GameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *GameRepository) DistinctArrayValues(
	ctx context.Context,
	column repositories.ArrayColumn,
) ([]string, error) {
	args := m.Called(ctx, column)
	values, _ := args.Get(0).([]string)
	return values, args.Error(1)
}

func (m *GameRepository) DistinctESRBNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).([]string)
	return values, args.Error(1)
}

func (m *GameRepository) DistinctReleaseDates(ctx context.Context) ([]time.Time, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).([]time.Time)
	return values, args.Error(1)
}

func (m *GameRepository) DistinctRatings(ctx context.Context) ([]float64, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).([]float64)
	return values, args.Error(1)
}

func (m *GameRepository) DistinctMetacritic(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).([]int)
	return values, args.Error(1)
}

func (m *GameRepository) DistinctPlaytimes(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).([]int)
	return values, args.Error(1)
}

func (m *GameRepository) SumAddedByStatus(ctx context.Context) (models.AddedByStatus, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).(models.AddedByStatus)
	return totals, args.Error(1)
}

func (m *GameRepository) RemoveDuplicates(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
