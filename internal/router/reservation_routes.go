package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-boxoffice/internal/handler"
	"github.com/iliyamo/cinema-boxoffice/internal/middleware"
)

// RegisterReservations registers the box office reservation routes. All of
// them require a staff token; limit guards the routes that change state.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.StaffAuth(jwtSecret))

	g.POST("/reservations", h.Create, limit)
	g.POST("/sales", h.Sell, limit)
	g.POST("/reservations/:id/confirm", h.Confirm, limit)
	g.POST("/reservations/:id/cancel", h.Cancel, limit)
	g.GET("/reservations/search", h.Search)
}
