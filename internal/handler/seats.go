package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
)

// SeatMapService produces the seat map of a screening.
type SeatMapService interface {
	Snapshot(ctx context.Context, screeningID uint64) ([]seating.SeatView, error)
}

// SeatHandler serves seat availability.
type SeatHandler struct {
	seats SeatMapService
	log   *slog.Logger
}

func NewSeatHandler(seats SeatMapService, log *slog.Logger) *SeatHandler {
	if seats == nil {
		panic("nil seat map service passed to NewSeatHandler")
	}
	return &SeatHandler{seats: seats, log: log}
}

// List handles GET /v1/seats?screeningId=X and returns the 70 seats of the
// screening's room with their current state.
func (h *SeatHandler) List(c echo.Context) error {
	screeningID, err := queryID(c, "screeningId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if screeningID == 0 {
		return respondError(c, h.log, errs.Newf(errs.CodeInvalidRequest, "screeningId is required"))
	}
	items, err := h.seats.Snapshot(c.Request().Context(), screeningID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
