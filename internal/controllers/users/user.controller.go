package userController

import (
	"context"
	"errors"
	"strings"

	"mygamelist/config"
	. "mygamelist/internal/models"
	"mygamelist/internal/repositories"
	"mygamelist/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type UserController struct {
	userRepo repositories.UserRepository
	config   config.Config
	log      logger.Logger
}

type UserControllerInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	ListUsers(ctx context.Context) ([]User, error)
	SearchUsers(ctx context.Context, query string) ([]UserSummary, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserSummary, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	Follow(ctx context.Context, followerID, followedID uuid.UUID) (*FollowResult, error)
}

type UpdateUserRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r UpdateUserRequest) changesPassword() bool {
	return r.OldPassword != "" || r.NewPassword != "" || r.ConfirmPassword != ""
}

type FollowResult struct {
	CurrentUser  UserProfile `json:"currentUser"`
	FollowedUser UserProfile `json:"followedUser"`
}

func New(repos repositories.Repository, config config.Config) UserControllerInterface {
	return NewUserController(repos.User, config)
}

func NewUserController(userRepo repositories.UserRepository, config config.Config) *UserController {
	return &UserController{
		userRepo: userRepo,
		config:   config,
		log:      logger.New("userController"),
	}
}

func (uc *UserController) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.profile(ctx, user)
}

func (uc *UserController) profile(ctx context.Context, user *User) (*UserProfile, error) {
	followers, err := uc.userRepo.FollowerIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := uc.userRepo.FollowingIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := user.ToProfile(followers, following)
	return &profile, nil
}

func (uc *UserController) ListUsers(ctx context.Context) ([]User, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	return uc.userRepo.List(ctx)
}

func (uc *UserController) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	users, err := uc.userRepo.SearchByUsername(ctx, query)
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].ToSummary())
	}
	return summaries, nil
}

func (uc *UserController) GetUser(ctx context.Context, id uuid.UUID) (*UserSummary, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := user.ToSummary()
	return &summary, nil
}

// UpdateUser applies a username/email edit and an optional password change.
// Password checks run in a fixed order: old password, new password rules,
// confirmation, then difference from the old one.
func (uc *UserController) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	req UpdateUserRequest,
) (*User, error) {
	log := uc.log.Function("UpdateUser")

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	user, err := uc.userRepo.GetByIDWithPassword(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := types.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := types.ValidateEmail(req.Email); err != nil {
		return nil, err
	}

	if err := uc.ensureAvailable(ctx, id, req.Username, req.Email); err != nil {
		return nil, err
	}

	if req.changesPassword() {
		if err := checkPasswordChange(user, req); err != nil {
			return nil, err
		}
	}

	if user.Username == req.Username && user.Email == req.Email && !req.changesPassword() {
		return nil, types.Wrap(types.ErrValidation, "no changes")
	}

	user.Username = req.Username
	user.Email = req.Email
	if req.changesPassword() {
		if err := user.SetPassword(req.NewPassword); err != nil {
			return nil, log.Err("failed to hash password", err, "userID", id)
		}
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, log.Err("failed to update user", err, "userID", id)
	}

	return user, nil
}

func checkPasswordChange(user *User, req UpdateUserRequest) error {
	if !user.CheckPassword(req.OldPassword) {
		return types.NewFieldError("oldPassword", "old password is incorrect")
	}
	if err := types.ValidatePassword("newPassword", req.NewPassword); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return types.NewFieldError("confirmPassword", "new password and confirmation do not match")
	}
	if req.NewPassword == req.OldPassword {
		return types.NewFieldError("newPassword", "new password must differ from the old one")
	}
	return nil
}

func (uc *UserController) ensureAvailable(
	ctx context.Context,
	id uuid.UUID,
	username, email string,
) error {
	if other, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		if other.ID != id {
			return types.NewFieldError("username", "username already taken")
		}
	} else if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	if other, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		if other.ID != id {
			return types.NewFieldError("email", "email already registered")
		}
	} else if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	return nil
}

func (uc *UserController) DeleteUser(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	return uc.userRepo.Delete(ctx, id)
}

// Follow adds followedID to the follower's following set. Repeating it
// changes nothing.
func (uc *UserController) Follow(
	ctx context.Context,
	followerID, followedID uuid.UUID,
) (*FollowResult, error) {
	log := uc.log.Function("Follow")

	if followerID == followedID {
		return nil, types.Wrap(types.ErrValidation, "you cannot follow yourself")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	follower, err := uc.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return nil, err
	}
	followed, err := uc.userRepo.GetByID(ctx, followedID)
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.Follow(ctx, followerID, followedID); err != nil {
		return nil, log.Err("failed to follow user", err, "followerID", followerID, "followedID", followedID)
	}

	current, err := uc.profile(ctx, follower)
	if err != nil {
		return nil, err
	}
	target, err := uc.profile(ctx, followed)
	if err != nil {
		return nil, err
	}

	return &FollowResult{CurrentUser: *current, FollowedUser: *target}, nil
}

func (uc *UserController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, uc.config.StoreTimeout())
}
