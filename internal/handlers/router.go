package handlers

import (
	"mygamelist/internal/app"
	"mygamelist/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(router fiber.Router, mw middleware.Middleware, file string) Handler {
	return Handler{
		middleware: mw,
		log:        logger.New("handlers").File(file),
		router:     router,
	}
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	WebSocketHandler(router, app.Middleware, app.Websocket)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewGamesHandler(api, app.Middleware, app.Controllers.Games).Register()
	NewAuthHandler(api, app.Middleware, app.Controllers.Auth).Register()
	NewUserHandler(api, app.Middleware, app.Controllers.User).Register()
	NewLibraryHandler(api, app.Middleware, app.Controllers.Library).Register()
	NewAdminHandler(api, app.Middleware, app.Controllers.Admin).Register()

	return nil
}
