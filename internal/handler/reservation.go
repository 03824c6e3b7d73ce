package handler

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/ledger"
	"github.com/iliyamo/cinema-boxoffice/internal/middleware"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks github.com/iliyamo/cinema-boxoffice/internal/handler ReservationService,SeatMapService,AuditService

// ReservationService is the part of the ledger the HTTP layer drives.
type ReservationService interface {
	Create(ctx context.Context, req ledger.CreateRequest) (*model.Reservation, error)
	Sell(ctx context.Context, req ledger.CreateRequest, actor model.Actor) (*model.Receipt, error)
	Confirm(ctx context.Context, id uint64, actor model.Actor) (*model.Receipt, error)
	Cancel(ctx context.Context, id uint64, actor model.Actor, reason string) (*model.Reservation, error)
	FindByCode(ctx context.Context, code string) (*model.Reservation, error)
	FindByClientNamePrefix(ctx context.Context, text string) ([]model.Reservation, error)
}

// ReservationHandler serves the box office reservation endpoints. Every
// route sits behind StaffAuth; the acting employee comes from the token.
type ReservationHandler struct {
	svc ReservationService
	log *slog.Logger
}

func NewReservationHandler(svc ReservationService, log *slog.Logger) *ReservationHandler {
	if svc == nil {
		panic("nil reservation service passed to NewReservationHandler")
	}
	return &ReservationHandler{svc: svc, log: log}
}

type seatRequest struct {
	SeatID      uint64 `json:"seatId"`
	Row         string `json:"fila" validate:"omitempty,alpha,max=1"`
	Number      uint32 `json:"numero" validate:"omitempty,max=14"`
	EntryTypeID int    `json:"tipoEntradaId"`
}

type createRequest struct {
	ClientID    uint64        `json:"clienteId" validate:"required"`
	ScreeningID uint64        `json:"funcionId" validate:"required"`
	Seats       []seatRequest `json:"asientos" validate:"dive"`
}

func (r createRequest) toLedger(actor model.Actor) ledger.CreateRequest {
	seats := make([]ledger.SeatRequest, 0, len(r.Seats))
	for _, s := range r.Seats {
		seats = append(seats, ledger.SeatRequest{
			SeatID:      s.SeatID,
			Row:         strings.ToUpper(s.Row),
			Number:      s.Number,
			EntryTypeID: s.EntryTypeID,
		})
	}
	staff := actor.ID
	return ledger.CreateRequest{
		ClientID:    r.ClientID,
		ScreeningID: r.ScreeningID,
		StaffID:     &staff,
		Seats:       seats,
	}
}

type cancelRequest struct {
	Reason string `json:"motivo"`
}

type createResponse struct {
	ReservationID uint64                  `json:"reservationId"`
	Code          string                  `json:"codigoReserva"`
	ExpiresAt     time.Time               `json:"expiresAt"`
	TotalPrice    string                  `json:"precioTotal"`
	Status        model.ReservationStatus `json:"estado"`
}

// receiptView is the receipt plus a QR code of its ticket code.
type receiptView struct {
	*model.Receipt
	QRPng string `json:"qrPng,omitempty"`
}

func (h *ReservationHandler) receipt(rc *model.Receipt) receiptView {
	png, err := qrcode.Encode(rc.TicketCode, qrcode.Medium, 256)
	if err != nil {
		h.log.Warn("receipt qr encode failed", "ticket", rc.TicketCode, "err", err)
		return receiptView{Receipt: rc}
	}
	return receiptView{Receipt: rc, QRPng: base64.StdEncoding.EncodeToString(png)}
}

func (h *ReservationHandler) actor(c echo.Context) (model.Actor, error) {
	a, ok := middleware.Staff(c)
	if !ok {
		return model.Actor{}, errs.Newf(errs.CodeInvalidRequest, "missing staff identity")
	}
	return a, nil
}

// Create handles POST /v1/reservations. The seats are held for the hold
// window and the reservation stays Pending until confirmed.
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := h.actor(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var body createRequest
	if err := bindAndValidate(c, &body); err != nil {
		return respondError(c, h.log, err)
	}
	r, err := h.svc.Create(c.Request().Context(), body.toLedger(actor))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, createResponse{
		ReservationID: r.ID,
		Code:          r.Code,
		ExpiresAt:     r.ExpiresAt,
		TotalPrice:    r.TotalPrice.StringFixed(2),
		Status:        r.Status,
	})
}

// Sell handles POST /v1/sales: a walk-up sale confirmed in one step.
func (h *ReservationHandler) Sell(c echo.Context) error {
	actor, err := h.actor(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var body createRequest
	if err := bindAndValidate(c, &body); err != nil {
		return respondError(c, h.log, err)
	}
	rc, err := h.svc.Sell(c.Request().Context(), body.toLedger(actor), actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, h.receipt(rc))
}

// Confirm handles POST /v1/reservations/:id/confirm after payment.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	actor, err := h.actor(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rc, err := h.svc.Confirm(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.receipt(rc))
}

// Cancel handles POST /v1/reservations/:id/cancel with body {"motivo": ...}.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, err := h.actor(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var body cancelRequest
	if err := bindAndValidate(c, &body); err != nil {
		return respondError(c, h.log, err)
	}
	r, err := h.svc.Cancel(c.Request().Context(), id, actor, body.Reason)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Search handles GET /v1/reservations/search with either ?codigo= for an
// exact code or ?cliente= for a client name prefix.
func (h *ReservationHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	code := strings.TrimSpace(c.QueryParam("codigo"))
	name := c.QueryParam("cliente")
	switch {
	case code != "":
		r, err := h.svc.FindByCode(ctx, code)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": []model.Reservation{*r}})
	case name != "":
		rs, err := h.svc.FindByClientNamePrefix(ctx, name)
		if err != nil {
			return respondError(c, h.log, err)
		}
		if rs == nil {
			rs = []model.Reservation{}
		}
		return c.JSON(http.StatusOK, echo.Map{"items": rs})
	default:
		return respondError(c, h.log, errs.Newf(errs.CodeInvalidSearch, "codigo or cliente is required"))
	}
}
