package repositories

import (
	"context"
	"errors"
	"strings"

	"mygamelist/internal/constants"
	"mygamelist/internal/database"
	. "mygamelist/internal/models"
	"mygamelist/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

const userEntity = "user"

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByIDWithPassword(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	SearchByUsername(ctx context.Context, query string) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	Follow(ctx context.Context, followerID, followedID uuid.UUID) error
	FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

// GetByID reads through the user cache. The cached copy carries no password
// hash, so credential checks go through GetByIDWithPassword.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found, err := r.getCacheByID(ctx, id, &user); err == nil && found {
		return &user, nil
	}

	if err := getDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(userEntity, "get user", err)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Debug("user not cached", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByIDWithPassword(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := getDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(userEntity, "get user", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := getDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, translateError(userEntity, "get user by email", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := getDB(ctx, r.db).First(&user, "username = ?", username).Error; err != nil {
		return nil, translateError(userEntity, "get user by username", err)
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]User, error) {
	log := r.log.Function("List")

	var users []User
	if err := getDB(ctx, r.db).Order("username ASC").Find(&users).Error; err != nil {
		log.Er("failed to list users", err)
		return nil, translateError(userEntity, "list users", err)
	}

	return users, nil
}

// SearchByUsername is a case-insensitive substring match with LIKE
// metacharacters in query taken literally.
func (r *userRepository) SearchByUsername(ctx context.Context, query string) ([]User, error) {
	log := r.log.Function("SearchByUsername")

	pattern := utils.ContainsPattern(strings.ToLower(strings.TrimSpace(query)))

	var users []User
	if err := getDB(ctx, r.db).
		Where("LOWER(username) LIKE ? ESCAPE '"+utils.LikeEscapeChar+"'", pattern).
		Order("username ASC").
		Find(&users).Error; err != nil {
		log.Er("failed to search users", err, "query", query)
		return nil, translateError(userEntity, "search users", err)
	}

	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(user).Error; err != nil {
		log.Er("failed to create user", err, "username", user.Username)
		return translateError(userEntity, "create user", err)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	result := getDB(ctx, r.db).
		Model(user).
		Select("username", "email", "password", "is_admin", "updated_at").
		Updates(user)
	if result.Error != nil {
		log.Er("failed to update user", result.Error, "userID", user.ID)
		return translateError(userEntity, "update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(userEntity)
	}

	r.clearUserCache(ctx, user.ID)

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := getDB(ctx, r.db).Delete(&User{}, "id = ?", id)
	if result.Error != nil {
		log.Er("failed to delete user", result.Error, "userID", id)
		return translateError(userEntity, "delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(userEntity)
	}

	r.clearUserCache(ctx, id)

	return nil
}

// Follow records the edge once. Repeating it is a no-op.
func (r *userRepository) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	log := r.log.Function("Follow")

	follow := UserFollow{FollowerID: followerID, FollowedID: followedID}
	if err := getDB(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow).Error; err != nil {
		log.Er("failed to follow user", err, "followerID", followerID, "followedID", followedID)
		return translateError(userEntity, "follow user", err)
	}

	return nil
}

func (r *userRepository) FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.pluckFollowIDs(ctx, "follower_id", "followed_id", userID)
}

func (r *userRepository) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.pluckFollowIDs(ctx, "followed_id", "follower_id", userID)
}

func (r *userRepository) pluckFollowIDs(
	ctx context.Context,
	column, match string,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := getDB(ctx, r.db).
		Model(&UserFollow{}).
		Where(match+" = ?", userID).
		Order("created_at ASC").
		Pluck(column, &ids).Error; err != nil {
		r.log.Function("pluckFollowIDs").Er("failed to read follows", err, "userID", userID)
		return nil, translateError(userEntity, "read follows", err)
	}

	return ids, nil
}

func (r *userRepository) getCacheByID(ctx context.Context, id uuid.UUID, user *User) (bool, error) {
	return database.NewCacheBuilder(r.db.Cache.User, id).
		WithHash(constants.UserCachePrefix).
		WithContext(ctx).
		Get(user)
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	return database.NewCacheBuilder(r.db.Cache.User, user.ID).
		WithHash(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set()
}

func (r *userRepository) clearUserCache(ctx context.Context, id uuid.UUID) {
	if err := database.NewCacheBuilder(r.db.Cache.User, id).
		WithHash(constants.UserCachePrefix).
		WithContext(ctx).
		Delete(); err != nil && !errors.Is(err, database.ErrCacheUnavailable) {
		r.log.Function("clearUserCache").Warn("failed to clear user cache", "userID", id, "error", err)
	}
}
