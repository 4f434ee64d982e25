package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nidhiknayak/MeetSpace/internal/application/config"
	"github.com/nidhiknayak/MeetSpace/internal/infra/ports/http/handlers"
)

func New(
	cfg *config.Config,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()

	e.HideBanner = true

	e.GET("/ws", wsHandler.Handle)

	// Frontend bundle; everything behind /ws is the event protocol.
	e.Static("/", cfg.StaticDir)

	return e
}
