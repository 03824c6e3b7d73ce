package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-boxoffice/internal/config"
	"github.com/iliyamo/cinema-boxoffice/internal/middleware"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

const secret = "s3cret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func whoAmI(c echo.Context) error {
	a, ok := middleware.Staff(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, a)
}

func TestStaffAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoAmI, middleware.StaffAuth(secret))

	exp := time.Now().Add(time.Hour).Unix()
	cases := []struct {
		name   string
		header string
		status int
		want   model.Actor
	}{
		{"numeric subject", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 12, "role": "gerente", "exp": exp}), http.StatusOK, model.Actor{ID: 12, Role: "gerente"}},
		{"string subject without role", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "5", "exp": exp}), http.StatusOK, model.Actor{ID: 5}},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": 1, "exp": exp}), http.StatusUnauthorized, model.Actor{}},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 1, "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized, model.Actor{}},
		{"non numeric subject", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "ana", "exp": exp}), http.StatusUnauthorized, model.Actor{}},
		{"missing header", "", http.StatusUnauthorized, model.Actor{}},
		{"basic scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, model.Actor{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"empleadoId":`)
				a := model.Actor{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
				assert.Equal(t, tc.want, a)
			}
		})
	}
}

func TestTokenBucket_LocalFallback(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		Prefix:         "rl",
	}
	e := echo.New()
	e.POST("/v1/reservations", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		middleware.NewTokenBucket(cfg, nil, slog.Default()))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/reservations", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusCreated, hit("10.0.0.1").Code)
	rec := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "TooManyRequests")

	// Other callers have their own bucket.
	assert.Equal(t, http.StatusCreated, hit("10.0.0.2").Code)
}

func TestTokenBucket_Disabled(t *testing.T) {
	e := echo.New()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		middleware.NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, slog.Default()))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(middleware.RequestLogger(log))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-1")
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(middleware.HeaderRequestID))
	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), "level=INFO")

	buf.Reset()
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=404")
}
