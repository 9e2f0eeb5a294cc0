package mocks

import (
	"context"

	"mygamelist/internal/models"
	"mygamelist/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type GameUserRepository struct {
	mock.Mock
}

var _ repositories.GameUserRepository = (*GameUserRepository)(nil)

func (m *GameUserRepository) Create(ctx context.Context, entry *models.GameUser) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *GameUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GameUser, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*models.GameUser)
	return entry, args.Error(1)
}

func (m *GameUserRepository) GetByUserAndGame(
	ctx context.Context,
	userID, gameID uuid.UUID,
) (*models.GameUser, error) {
	args := m.Called(ctx, userID, gameID)
	entry, _ := args.Get(0).(*models.GameUser)
	return entry, args.Error(1)
}

func (m *GameUserRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	withUser bool,
) ([]models.GameUser, error) {
	args := m.Called(ctx, userID, withUser)
	entries, _ := args.Get(0).([]models.GameUser)
	return entries, args.Error(1)
}

func (m *GameUserRepository) Update(ctx context.Context, entry *models.GameUser) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *GameUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
