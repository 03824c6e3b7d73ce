package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-boxoffice/internal/handler"
	"github.com/iliyamo/cinema-boxoffice/internal/middleware"
)

// RegisterAudit registers the read-only audit routes behind StaffAuth.
func RegisterAudit(e *echo.Echo, h *handler.AuditHandler, jwtSecret string) {
	g := e.Group("/v1/audit", middleware.StaffAuth(jwtSecret))

	g.GET("/cancellations", h.Cancellations)
	g.GET("/confirmations", h.Confirmations)
	g.GET("/active", h.Active)
	g.GET("/reservations/:id/release", h.Release)
}
