// Package router registers the HTTP routes of the box office API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-boxoffice/internal/handler"
)

// RegisterRoutes registers the routes that need no staff token: the
// health check and the seat map.
func RegisterRoutes(e *echo.Echo, seats *handler.SeatHandler) {
	e.GET("/healthz", handler.Health)
	// The seat map is advisory, so ticket screens may poll it without a
	// token.
	e.GET("/v1/seats", seats.List)
}
