package repositories

import (
	"context"

	"mygamelist/internal/database"
	. "mygamelist/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const libraryEntity = "library entry"

type GameUserRepository interface {
	Create(ctx context.Context, entry *GameUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*GameUser, error)
	GetByUserAndGame(ctx context.Context, userID, gameID uuid.UUID) (*GameUser, error)
	ListByUser(ctx context.Context, userID uuid.UUID, withUser bool) ([]GameUser, error)
	Update(ctx context.Context, entry *GameUser) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gameUserRepository struct {
	db  database.DB
	log logger.Logger
}

func NewGameUserRepository(db database.DB) GameUserRepository {
	return &gameUserRepository{
		db:  db,
		log: logger.New("gameUserRepository"),
	}
}

func (r *gameUserRepository) Create(ctx context.Context, entry *GameUser) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Omit("User", "Game").Create(entry).Error; err != nil {
		log.Er("failed to create library entry", err, "userID", entry.UserID, "gameID", entry.GameID)
		return translateError(libraryEntity, "create library entry", err)
	}

	return nil
}

func (r *gameUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*GameUser, error) {
	var entry GameUser
	if err := getDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translateError(libraryEntity, "get library entry", err)
	}

	return &entry, nil
}

func (r *gameUserRepository) GetByUserAndGame(
	ctx context.Context,
	userID, gameID uuid.UUID,
) (*GameUser, error) {
	var entry GameUser
	if err := getDB(ctx, r.db).
		Preload("Game").
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&entry).Error; err != nil {
		return nil, translateError(libraryEntity, "get library entry", err)
	}

	return &entry, nil
}

// ListByUser returns the user's entries newest first with the game attached.
func (r *gameUserRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	withUser bool,
) ([]GameUser, error) {
	log := r.log.Function("ListByUser")

	query := getDB(ctx, r.db).Preload("Game")
	if withUser {
		query = query.Preload("User")
	}

	entries := []GameUser{}
	if err := query.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		log.Er("failed to list library", err, "userID", userID)
		return nil, translateError(libraryEntity, "list library", err)
	}

	return entries, nil
}

func (r *gameUserRepository) Update(ctx context.Context, entry *GameUser) error {
	log := r.log.Function("Update")

	result := getDB(ctx, r.db).
		Model(entry).
		Select("hours", "status", "rating", "comment", "updated_at").
		Updates(entry)
	if result.Error != nil {
		log.Er("failed to update library entry", result.Error, "entryID", entry.ID)
		return translateError(libraryEntity, "update library entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(libraryEntity)
	}

	return nil
}

func (r *gameUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := getDB(ctx, r.db).Delete(&GameUser{}, "id = ?", id)
	if result.Error != nil {
		log.Er("failed to delete library entry", result.Error, "entryID", id)
		return translateError(libraryEntity, "delete library entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(libraryEntity)
	}

	return nil
}
