package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-boxoffice/internal/audit"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// AuditService is the read side the audit endpoints expose.
type AuditService interface {
	ListCancellations(ctx context.Context, f model.AuditFilter) ([]model.CancellationRecord, error)
	ListConfirmations(ctx context.Context, f model.AuditFilter) ([]model.ConfirmationRecord, error)
	ListActive(ctx context.Context, f model.AuditFilter) ([]model.Reservation, error)
	ReleaseReport(ctx context.Context, reservationID uint64) (*audit.ReleaseReport, error)
}

// AuditHandler serves the audit listings.
type AuditHandler struct {
	trail AuditService
	log   *slog.Logger
}

func NewAuditHandler(trail AuditService, log *slog.Logger) *AuditHandler {
	if trail == nil {
		panic("nil audit service passed to NewAuditHandler")
	}
	return &AuditHandler{trail: trail, log: log}
}

// filter reads screeningId, actorId, from and to.
func filter(c echo.Context) (model.AuditFilter, error) {
	var f model.AuditFilter
	var err error
	if f.ScreeningID, err = queryID(c, "screeningId"); err != nil {
		return f, err
	}
	if f.ActorID, err = queryID(c, "actorId"); err != nil {
		return f, err
	}
	if f.From, err = queryTime(c, "from", false); err != nil {
		return f, err
	}
	if f.To, err = queryTime(c, "to", true); err != nil {
		return f, err
	}
	return f, nil
}

// Cancellations handles GET /v1/audit/cancellations.
func (h *AuditHandler) Cancellations(c echo.Context) error {
	f, err := filter(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	items, err := h.trail.ListCancellations(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if items == nil {
		items = []model.CancellationRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Confirmations handles GET /v1/audit/confirmations.
func (h *AuditHandler) Confirmations(c echo.Context) error {
	f, err := filter(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	items, err := h.trail.ListConfirmations(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if items == nil {
		items = []model.ConfirmationRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Active handles GET /v1/audit/active: Pending and Confirmed reservations.
func (h *AuditHandler) Active(c echo.Context) error {
	f, err := filter(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	items, err := h.trail.ListActive(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if items == nil {
		items = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Release handles GET /v1/audit/reservations/:id/release.
func (h *AuditHandler) Release(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rep, err := h.trail.ReleaseReport(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rep)
}
