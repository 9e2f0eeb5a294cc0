package middleware

import (
	"mygamelist/config"
	"mygamelist/internal/repositories"
	"mygamelist/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	tokens       *services.TokenService
	userRepo     repositories.UserRepository
	Config       config.Config
	log          logger.Logger
	loginLimiter *ipLimiter
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
) Middleware {
	return NewMiddleware(services.Token, repos.User, config)
}

func NewMiddleware(
	tokens *services.TokenService,
	userRepo repositories.UserRepository,
	config config.Config,
) Middleware {
	return Middleware{
		tokens:       tokens,
		userRepo:     userRepo,
		Config:       config,
		log:          logger.New("middleware"),
		loginLimiter: newIPLimiter(config.LoginRatePerMinute),
	}
}
