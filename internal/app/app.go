package app

import (
	"context"

	"mygamelist/config"
	"mygamelist/internal/controllers"
	"mygamelist/internal/database"
	"mygamelist/internal/events"
	"mygamelist/internal/handlers/middleware"
	"mygamelist/internal/jobs"
	"mygamelist/internal/repositories"
	"mygamelist/internal/services"
	"mygamelist/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Config      config.Config
	EventBus    *events.EventBus
	Websocket   *websockets.Manager
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
	Middleware  middleware.Middleware
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	repos := repositories.New(db)
	services := services.New(db, config, repos)
	eventBus := events.New(db.Cache.Events)

	// Every instance drops its cached facets when any instance edits the catalog.
	if err := eventBus.Subscribe(events.CATALOG_CHANNEL, services.Facet.HandleCatalogEvent); err != nil {
		return &App{}, log.Err("failed to subscribe facet cache to catalog events", err)
	}

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		EventBus:    eventBus,
		Websocket:   websocket,
		Services:    services,
		Repos:       repos,
		Controllers: controllers.New(services, repos, eventBus, config),
		Middleware:  middleware.New(services, repos, config),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services, eventBus); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	if err := services.Scheduler.Start(context.Background()); err != nil {
		return &App{}, log.Err("failed to start scheduler", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Token,
		a.Services.Facet,
		a.Services.Dedupe,
		a.Repos.Game,
		a.Repos.User,
		a.Repos.GameUser,
		a.Controllers.Games,
		a.Controllers.Auth,
		a.Controllers.User,
		a.Controllers.Library,
		a.Controllers.Admin,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
