package router

import (
	"github.com/labstack/echo/v4"

	"unigo/internal/adapter/api/handler"
	"unigo/pkg/logger"
)

// SetupDevRouter registers maintenance endpoints in development only.
func SetupDevRouter(e *echo.Echo, devHandler *handler.DevHandler, environment string) {
	if environment != "development" {
		return
	}

	logger.Info("Registering development routes")

	devGroup := e.Group("/v1/dev")
	devGroup.POST("/sweep-orphans", devHandler.SweepOrphans)
}
