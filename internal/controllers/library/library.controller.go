package libraryController

import (
	"context"
	"math"
	"unicode/utf8"

	"mygamelist/config"
	. "mygamelist/internal/models"
	"mygamelist/internal/repositories"
	"mygamelist/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LibraryController struct {
	entryRepo repositories.GameUserRepository
	gameRepo  repositories.GameRepository
	config    config.Config
	log       logger.Logger
}

type LibraryControllerInterface interface {
	CreateEntry(ctx context.Context, caller *User, req CreateEntryRequest) (*GameUser, error)
	ListOwn(ctx context.Context, caller *User) ([]GameUser, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]GameUser, error)
	GetEntry(ctx context.Context, caller *User, userID *uuid.UUID, gameID uuid.UUID) (*GameUser, error)
	UpdateEntry(
		ctx context.Context,
		caller *User,
		userID *uuid.UUID,
		gameID uuid.UUID,
		req UpdateEntryRequest,
	) (*GameUser, error)
	DeleteEntry(ctx context.Context, caller *User, id uuid.UUID) error
}

type CreateEntryRequest struct {
	UserID  *uuid.UUID       `json:"userId"`
	GameID  uuid.UUID        `json:"gameId"`
	Hours   *decimal.Decimal `json:"hours"`
	Status  LibraryStatus    `json:"status"`
	Rating  *float64         `json:"rating"`
	Comment *string          `json:"comment"`
}

type UpdateEntryRequest struct {
	Hours   *decimal.Decimal `json:"hours"`
	Status  *LibraryStatus   `json:"status"`
	Rating  *float64         `json:"rating"`
	Comment *string          `json:"comment"`
}

func New(repos repositories.Repository, config config.Config) LibraryControllerInterface {
	return NewLibraryController(repos.GameUser, repos.Game, config)
}

func NewLibraryController(
	entryRepo repositories.GameUserRepository,
	gameRepo repositories.GameRepository,
	config config.Config,
) *LibraryController {
	return &LibraryController{
		entryRepo: entryRepo,
		gameRepo:  gameRepo,
		config:    config,
		log:       logger.New("libraryController"),
	}
}

// CreateEntry adds a game to a library. The entry belongs to the caller
// unless an admin names another user.
func (lc *LibraryController) CreateEntry(
	ctx context.Context,
	caller *User,
	req CreateEntryRequest,
) (*GameUser, error) {
	log := lc.log.Function("CreateEntry")

	if req.GameID == uuid.Nil {
		return nil, types.NewFieldError("gameId", "gameId is required")
	}
	if req.Hours == nil {
		return nil, types.NewFieldError("hours", "hours is required")
	}
	if req.Rating == nil {
		return nil, types.NewFieldError("rating", "rating is required")
	}
	if err := validateEntry(req.Hours, &req.Status, req.Rating, req.Comment); err != nil {
		return nil, err
	}

	owner, err := targetUser(caller, req.UserID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	if _, err := lc.gameRepo.GetByID(ctx, req.GameID); err != nil {
		return nil, err
	}

	entry := &GameUser{
		UserID:  owner,
		GameID:  req.GameID,
		Hours:   *req.Hours,
		Status:  req.Status,
		Rating:  *req.Rating,
		Comment: req.Comment,
	}

	if err := lc.entryRepo.Create(ctx, entry); err != nil {
		return nil, log.Err("failed to create library entry", err, "userID", owner, "gameID", req.GameID)
	}

	return entry, nil
}

func (lc *LibraryController) ListOwn(ctx context.Context, caller *User) ([]GameUser, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	return lc.entryRepo.ListByUser(ctx, caller.ID, true)
}

func (lc *LibraryController) ListForUser(ctx context.Context, userID uuid.UUID) ([]GameUser, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	return lc.entryRepo.ListByUser(ctx, userID, false)
}

func (lc *LibraryController) GetEntry(
	ctx context.Context,
	caller *User,
	userID *uuid.UUID,
	gameID uuid.UUID,
) (*GameUser, error) {
	owner := caller.ID
	if userID != nil {
		owner = *userID
	}

	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	return lc.entryRepo.GetByUserAndGame(ctx, owner, gameID)
}

func (lc *LibraryController) UpdateEntry(
	ctx context.Context,
	caller *User,
	userID *uuid.UUID,
	gameID uuid.UUID,
	req UpdateEntryRequest,
) (*GameUser, error) {
	log := lc.log.Function("UpdateEntry")

	if err := validateEntry(req.Hours, req.Status, req.Rating, req.Comment); err != nil {
		return nil, err
	}

	owner, err := targetUser(caller, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	entry, err := lc.entryRepo.GetByUserAndGame(ctx, owner, gameID)
	if err != nil {
		return nil, err
	}

	if req.Hours != nil {
		entry.Hours = *req.Hours
	}
	if req.Status != nil {
		entry.Status = *req.Status
	}
	if req.Rating != nil {
		entry.Rating = *req.Rating
	}
	if req.Comment != nil {
		entry.Comment = req.Comment
	}

	if err := lc.entryRepo.Update(ctx, entry); err != nil {
		return nil, log.Err("failed to update library entry", err, "entryID", entry.ID)
	}

	return entry, nil
}

func (lc *LibraryController) DeleteEntry(ctx context.Context, caller *User, id uuid.UUID) error {
	log := lc.log.Function("DeleteEntry")

	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	entry, err := lc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if entry.UserID != caller.ID && !caller.IsAdmin {
		return types.Wrap(types.ErrForbidden, "entry belongs to another user")
	}

	if err := lc.entryRepo.Delete(ctx, id); err != nil {
		return log.Err("failed to delete library entry", err, "entryID", id)
	}
	return nil
}

func (lc *LibraryController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, lc.config.StoreTimeout())
}

// targetUser resolves whose library is addressed. Only admins may act on
// somebody else's.
func targetUser(caller *User, requested *uuid.UUID) (uuid.UUID, error) {
	if requested == nil || *requested == uuid.Nil || *requested == caller.ID {
		return caller.ID, nil
	}
	if !caller.IsAdmin {
		return uuid.Nil, types.Wrap(types.ErrForbidden, "cannot modify another user's library")
	}
	return *requested, nil
}

func validateEntry(
	hours *decimal.Decimal,
	status *LibraryStatus,
	rating *float64,
	comment *string,
) error {
	if hours != nil && hours.IsNegative() {
		return types.NewFieldError("hours", "hours must not be negative")
	}
	if status != nil && !status.Valid() {
		return types.NewFieldError("status", "status must be between 0 and 3")
	}
	if rating != nil && (math.IsNaN(*rating) || *rating < 0 || *rating > MaxLibraryRating) {
		return types.NewFieldError("rating", "rating must be between 0 and 10")
	}
	if comment != nil && utf8.RuneCountInString(*comment) > MaxCommentLength {
		return types.NewFieldError("comment", "comment must be at most 1000 characters")
	}
	return nil
}
