package router

import (
	"github.com/labstack/echo/v4"

	"unigo/internal/adapter/api/handler"
	"unigo/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	chatHandler *handler.ChatHandler,
	healthHandler *handler.HealthHandler,
	devHandler *handler.DevHandler,
	authMiddleware *middleware.AuthMiddleware,
	environment string,
) {
	SetupHealthRouter(e, healthHandler)
	SetupChatRouter(e, chatHandler, authMiddleware)
	SetupDevRouter(e, devHandler, environment)
}
