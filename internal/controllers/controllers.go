package controllers

import (
	"mygamelist/config"
	"mygamelist/internal/events"
	"mygamelist/internal/repositories"
	"mygamelist/internal/services"

	adminController "mygamelist/internal/controllers/admin"
	authController "mygamelist/internal/controllers/auth"
	gamesController "mygamelist/internal/controllers/games"
	libraryController "mygamelist/internal/controllers/library"
	userController "mygamelist/internal/controllers/users"
)

type Controllers struct {
	Games   gamesController.GamesControllerInterface
	Auth    authController.AuthControllerInterface
	User    userController.UserControllerInterface
	Library libraryController.LibraryControllerInterface
	Admin   adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
) Controllers {
	return Controllers{
		Games:   gamesController.New(repos, services, eventBus, config),
		Auth:    authController.New(repos, services, config),
		User:    userController.New(repos, config),
		Library: libraryController.New(repos, config),
		Admin:   adminController.New(services, eventBus, config),
	}
}
