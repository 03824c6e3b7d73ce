package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/handler"
	"github.com/iliyamo/cinema-boxoffice/internal/handler/mocks"
	"github.com/iliyamo/cinema-boxoffice/internal/ledger"
	"github.com/iliyamo/cinema-boxoffice/internal/middleware"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

const testSecret = "test-secret"

func staffToken(t *testing.T, sub any) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": "cajero",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	e        *echo.Echo
	mockCtrl *gomock.Controller
	svc      *mocks.MockReservationService
	token    string
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockReservationService(s.mockCtrl)
	s.token = staffToken(s.T(), 7)

	h := handler.NewReservationHandler(s.svc, quietLogger())
	s.e = echo.New()
	s.e.Validator = handler.NewRequestValidator()
	g := s.e.Group("/v1", middleware.StaffAuth(testSecret))
	g.POST("/reservations", h.Create)
	g.POST("/sales", h.Sell)
	g.POST("/reservations/:id/confirm", h.Confirm)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.GET("/reservations/search", h.Search)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) do(method, target, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(s *suite.Suite, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sampleReceipt() *model.Receipt {
	return &model.Receipt{
		ReservationID:   42,
		ReservationCode: "RES-00042",
		TicketCode:      "BOL-0042",
		ClientName:      "Ana Torres",
		Title:           "Dune",
		Room:            "Sala 1",
		Seats:           []string{"A1 (Normal)"},
		TotalPrice:      decimal.RequireFromString("12.50"),
	}
}

func (s *ReservationHandlerTestSuite) TestCreate() {
	body := `{"clienteId":3,"funcionId":9,"asientos":[{"fila":"a","numero":1,"tipoEntradaId":1},{"seatId":2,"tipoEntradaId":2}]}`

	s.Run("success: 201 with code and expiry", func() {
		expires := time.Date(2026, 3, 1, 18, 15, 0, 0, time.UTC)
		s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req ledger.CreateRequest) (*model.Reservation, error) {
				s.Equal(uint64(3), req.ClientID)
				s.Equal(uint64(9), req.ScreeningID)
				s.Require().NotNil(req.StaffID)
				s.Equal(uint64(7), *req.StaffID)
				s.Require().Len(req.Seats, 2)
				s.Equal("A", req.Seats[0].Row)
				s.Equal(uint64(2), req.Seats[1].SeatID)
				return &model.Reservation{
					ID: 42, Code: "RES-00042", ExpiresAt: expires,
					Status: model.StatusPending, TotalPrice: decimal.RequireFromString("20.5"),
				}, nil
			})
		rec := s.do(http.MethodPost, "/v1/reservations", body, s.token)
		s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
		out := decodeBody(&s.Suite, rec)
		s.Equal("RES-00042", out["codigoReserva"])
		s.Equal("20.50", out["precioTotal"])
		s.Equal("Pending", out["estado"])
		s.Equal(float64(42), out["reservationId"])
	})

	s.Run("error: 401 without token", func() {
		rec := s.do(http.MethodPost, "/v1/reservations", body, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: 400 when funcionId is missing", func() {
		rec := s.do(http.MethodPost, "/v1/reservations", `{"clienteId":3,"asientos":[]}`, s.token)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("InvalidRequest", decodeBody(&s.Suite, rec)["error"])
	})

	s.Run("error: 400 on malformed json", func() {
		rec := s.do(http.MethodPost, "/v1/reservations", `{"clienteId":`, s.token)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty selection", errs.Newf(errs.CodeEmptySelection, "no seats"), http.StatusBadRequest, "EmptySelection"},
		{"seat taken", errs.Newf(errs.CodeSeatUnavailable, "seat 1 is Held"), http.StatusConflict, "SeatUnavailable"},
		{"unknown screening", errs.Newf(errs.CodeUnknownScreening, "screening 9 does not exist"), http.StatusBadRequest, "UnknownScreening"},
		{"integrity fault", errs.Integrity(nil, "seat 1 should be Held"), http.StatusInternalServerError, "IntegrityFault"},
		{"uncoded failure", errs.New("db down"), http.StatusInternalServerError, "Internal"},
	}
	for _, tc := range cases {
		s.Run("error: "+tc.name, func() {
			s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, tc.err)
			rec := s.do(http.MethodPost, "/v1/reservations", body, s.token)
			s.Equal(tc.status, rec.Code)
			s.Equal(tc.code, decodeBody(&s.Suite, rec)["error"])
		})
	}
}

func (s *ReservationHandlerTestSuite) TestSell() {
	s.svc.EXPECT().Sell(gomock.Any(), gomock.Any(), model.Actor{ID: 7, Role: "cajero"}).Return(sampleReceipt(), nil)
	rec := s.do(http.MethodPost, "/v1/sales", `{"clienteId":3,"funcionId":9,"asientos":[{"seatId":1,"tipoEntradaId":1}]}`, s.token)
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
	out := decodeBody(&s.Suite, rec)
	s.Equal("BOL-0042", out["codigoBoleto"])
	s.NotEmpty(out["qrPng"])
}

func (s *ReservationHandlerTestSuite) TestConfirm() {
	s.Run("success: receipt with qr", func() {
		s.svc.EXPECT().Confirm(gomock.Any(), uint64(42), model.Actor{ID: 7, Role: "cajero"}).Return(sampleReceipt(), nil)
		rec := s.do(http.MethodPost, "/v1/reservations/42/confirm", "", s.token)
		s.Equal(http.StatusOK, rec.Code)
		out := decodeBody(&s.Suite, rec)
		s.Equal("RES-00042", out["codigoReserva"])
		s.NotEmpty(out["qrPng"])
	})

	s.Run("error: 410 when the hold expired", func() {
		s.svc.EXPECT().Confirm(gomock.Any(), uint64(42), gomock.Any()).
			Return(nil, errs.Newf(errs.CodeReservationExpired, "reservation RES-00042 expired"))
		rec := s.do(http.MethodPost, "/v1/reservations/42/confirm", "", s.token)
		s.Equal(http.StatusGone, rec.Code)
		s.Equal("ReservationExpired", decodeBody(&s.Suite, rec)["error"])
	})

	s.Run("error: 400 on a bad id", func() {
		rec := s.do(http.MethodPost, "/v1/reservations/abc/confirm", "", s.token)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 when missing", func() {
		s.svc.EXPECT().Confirm(gomock.Any(), uint64(99), gomock.Any()).
			Return(nil, errs.Newf(errs.CodeNotFound, "reservation 99 not found"))
		rec := s.do(http.MethodPost, "/v1/reservations/99/confirm", "", s.token)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestCancel() {
	s.Run("success: passes the reason through", func() {
		s.svc.EXPECT().Cancel(gomock.Any(), uint64(42), gomock.Any(), "cliente no se presentó").
			Return(&model.Reservation{ID: 42, Code: "RES-00042", Status: model.StatusCancelled}, nil)
		rec := s.do(http.MethodPost, "/v1/reservations/42/cancel", `{"motivo":"cliente no se presentó"}`, s.token)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("Cancelled", decodeBody(&s.Suite, rec)["estado"])
	})

	s.Run("error: 409 when already cancelled", func() {
		s.svc.EXPECT().Cancel(gomock.Any(), uint64(42), gomock.Any(), gomock.Any()).
			Return(nil, errs.Newf(errs.CodeAlreadyCancelled, "reservation RES-00042 is Cancelled"))
		rec := s.do(http.MethodPost, "/v1/reservations/42/cancel", `{"motivo":"duplicado por error"}`, s.token)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("AlreadyCancelled", decodeBody(&s.Suite, rec)["error"])
	})
}

func (s *ReservationHandlerTestSuite) TestSearch() {
	s.Run("by code", func() {
		s.svc.EXPECT().FindByCode(gomock.Any(), "RES-00042").Return(&model.Reservation{ID: 42, Code: "RES-00042"}, nil)
		rec := s.do(http.MethodGet, "/v1/reservations/search?codigo=RES-00042", "", s.token)
		s.Equal(http.StatusOK, rec.Code)
		s.Len(decodeBody(&s.Suite, rec)["items"], 1)
	})

	s.Run("by client name returns an empty list", func() {
		s.svc.EXPECT().FindByClientNamePrefix(gomock.Any(), "tor").Return(nil, nil)
		rec := s.do(http.MethodGet, "/v1/reservations/search?cliente=tor", "", s.token)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal([]any{}, decodeBody(&s.Suite, rec)["items"])
	})

	s.Run("short name is rejected", func() {
		s.svc.EXPECT().FindByClientNamePrefix(gomock.Any(), "to").
			Return(nil, errs.Newf(errs.CodeInvalidSearch, "search text needs at least 3 characters"))
		rec := s.do(http.MethodGet, "/v1/reservations/search?cliente=to", "", s.token)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("no criteria", func() {
		rec := s.do(http.MethodGet, "/v1/reservations/search", "", s.token)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("InvalidSearch", decodeBody(&s.Suite, rec)["error"])
	})
}
