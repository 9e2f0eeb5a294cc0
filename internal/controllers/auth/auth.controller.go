package authController

import (
	"context"
	"errors"
	"strings"

	"mygamelist/config"
	. "mygamelist/internal/models"
	"mygamelist/internal/repositories"
	"mygamelist/internal/services"
	"mygamelist/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const invalidCredentials = "invalid email or password"

// AuthController handles account creation and session issue/revoke.
type AuthController struct {
	userRepo repositories.UserRepository
	tokens   *services.TokenService
	config   config.Config
	log      logger.Logger
}

type AuthControllerInterface interface {
	Signup(ctx context.Context, req SignupRequest, caller *User) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, claims *services.Claims) error
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  *bool  `json:"isAdmin"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token  string
	Claims *services.Claims
	User   *User
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
) AuthControllerInterface {
	return NewAuthController(repos.User, services.Token, config)
}

func NewAuthController(
	userRepo repositories.UserRepository,
	tokens *services.TokenService,
	config config.Config,
) *AuthController {
	return &AuthController{
		userRepo: userRepo,
		tokens:   tokens,
		config:   config,
		log:      logger.New("authController"),
	}
}

// Signup creates an account. Only an admin caller may grant the admin flag.
func (ac *AuthController) Signup(
	ctx context.Context,
	req SignupRequest,
	caller *User,
) (*User, error) {
	log := ac.log.Function("Signup")

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := types.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := types.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := types.ValidatePassword("password", req.Password); err != nil {
		return nil, err
	}

	ctx, cancel := ac.withTimeout(ctx)
	defer cancel()

	if err := ac.ensureAvailable(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	user := &User{
		Username: req.Username,
		Email:    req.Email,
		IsAdmin:  req.IsAdmin != nil && *req.IsAdmin && caller != nil && caller.IsAdmin,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	if err := ac.userRepo.Create(ctx, user); err != nil {
		return nil, log.Err("failed to create user", err, "username", user.Username)
	}

	log.Info("User created", "userID", user.ID, "isAdmin", user.IsAdmin)
	return user, nil
}

func (ac *AuthController) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := ac.userRepo.GetByUsername(ctx, username); err == nil {
		return types.NewFieldError("username", "username already taken")
	} else if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	if _, err := ac.userRepo.GetByEmail(ctx, email); err == nil {
		return types.NewFieldError("email", "email already registered")
	} else if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	return nil
}

// Login checks credentials and issues a session token. An unknown email and
// a wrong password are indistinguishable to the caller.
func (ac *AuthController) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	log := ac.log.Function("Login")

	ctx, cancel := ac.withTimeout(ctx)
	defer cancel()

	user, err := ac.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.Wrap(types.ErrValidation, invalidCredentials)
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		log.Info("Rejected login", "userID", user.ID)
		return nil, types.Wrap(types.ErrValidation, invalidCredentials)
	}

	token, claims, err := ac.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Claims: claims, User: user}, nil
}

func (ac *AuthController) Logout(ctx context.Context, claims *services.Claims) error {
	ctx, cancel := ac.withTimeout(ctx)
	defer cancel()

	return ac.tokens.Revoke(ctx, claims)
}

func (ac *AuthController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, ac.config.StoreTimeout())
}
