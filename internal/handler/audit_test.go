package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iliyamo/cinema-boxoffice/internal/audit"
	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/handler"
	"github.com/iliyamo/cinema-boxoffice/internal/handler/mocks"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
)

func auditServer(t *testing.T) (*echo.Echo, *mocks.MockAuditService) {
	ctrl := gomock.NewController(t)
	trail := mocks.NewMockAuditService(ctrl)
	h := handler.NewAuditHandler(trail, quietLogger())
	e := echo.New()
	e.GET("/v1/audit/cancellations", h.Cancellations)
	e.GET("/v1/audit/confirmations", h.Confirmations)
	e.GET("/v1/audit/active", h.Active)
	e.GET("/v1/audit/reservations/:id/release", h.Release)
	return e, trail
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestAuditHandler_CancellationsFilter(t *testing.T) {
	e, trail := auditServer(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	trail.EXPECT().ListCancellations(gomock.Any(), model.AuditFilter{
		ScreeningID: 9, ActorID: 7, From: &from, To: &to,
	}).Return([]model.CancellationRecord{{ID: 1, ReservationCode: "RES-00001", Reason: "cliente no vino"}}, nil)

	rec := get(e, "/v1/audit/cancellations?screeningId=9&actorId=7&from=2026-03-01&to=2026-03-01")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "RES-00001")
}

func TestAuditHandler_BadFilter(t *testing.T) {
	e, _ := auditServer(t)

	rec := get(e, "/v1/audit/confirmations?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(e, "/v1/audit/active?screeningId=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditHandler_ActiveEmpty(t *testing.T) {
	e, trail := auditServer(t)
	trail.EXPECT().ListActive(gomock.Any(), model.AuditFilter{}).Return(nil, nil)

	rec := get(e, "/v1/audit/active")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestAuditHandler_Release(t *testing.T) {
	e, trail := auditServer(t)
	trail.EXPECT().ReleaseReport(gomock.Any(), uint64(5)).Return(&audit.ReleaseReport{
		ReservationID: 5, ReservationCode: "RES-00005", Status: model.StatusCancelled,
		Released: 2, AllReleased: true,
	}, nil)
	trail.EXPECT().ReleaseReport(gomock.Any(), uint64(6)).Return(nil, errs.Newf(errs.CodeNotFound, "reservation 6 not found"))

	rec := get(e, "/v1/audit/reservations/5/release")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"todosLiberados":true`)

	rec = get(e, "/v1/audit/reservations/6/release")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeatHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	seats := mocks.NewMockSeatMapService(ctrl)
	h := handler.NewSeatHandler(seats, quietLogger())
	e := echo.New()
	e.GET("/v1/seats", h.List)

	layout, err := seating.Overlay(1, map[uint64]model.SeatStatus{3: model.SeatHeld})
	require.NoError(t, err)
	seats.EXPECT().Snapshot(gomock.Any(), uint64(9)).Return(layout, nil)

	rec := get(e, "/v1/seats?screeningId=9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"estado":"Held"`)

	rec = get(e, "/v1/seats")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
