package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/screenings/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":5,"salaId":2,"sala":"Sala 2","titulo":"Dune","fechaHora":"2026-05-01T20:00:00Z","precioBase":"29.00","estado":"Programada"}`))
	})
	mux.HandleFunc("/clients/9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":9,"nombre":"Ana","apellido":"Torres"}`))
	})
	mux.HandleFunc("/screenings/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"roomId":1,"priceBase":"29.00","titleInfo":"Dune","startsAt":"2026-05-01T20:00:00Z"}`))
	})
	mux.HandleFunc("/screenings/8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":8,"roomId":3,"priceBase":18.5,"titleInfo":{"title":"Alien"},"startsAt":"2026-05-02T18:30:00Z","status":"Cancelada"}`))
	})
	mux.HandleFunc("/screenings/6", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_Screening(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewHTTPClient(srv.URL, srv.URL, time.Second)

	scr, err := c.Screening(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), scr.RoomID)
	assert.Equal(t, "Dune", scr.Title)
	assert.True(t, decimal.RequireFromString("29").Equal(scr.PriceBase))
	assert.True(t, scr.OnSale())
	assert.Equal(t, time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC), scr.StartsAt.UTC())
}

func TestHTTPClient_ScreeningCatalogShape(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewHTTPClient(srv.URL, srv.URL, time.Second)

	scr, err := c.Screening(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), scr.ID)
	assert.Equal(t, uint64(1), scr.RoomID)
	assert.Equal(t, "Dune", scr.Title)
	assert.True(t, decimal.RequireFromString("29").Equal(scr.PriceBase))
	assert.Equal(t, time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC), scr.StartsAt.UTC())
	assert.True(t, scr.OnSale(), "a screening without status is on sale")

	scr, err = c.Screening(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), scr.RoomID)
	assert.Equal(t, "Alien", scr.Title)
	assert.True(t, decimal.RequireFromString("18.5").Equal(scr.PriceBase))
	assert.False(t, scr.OnSale())
}

func TestHTTPClient_Client(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewHTTPClient(srv.URL, srv.URL, time.Second)

	cl, err := c.Client(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", cl.FullName())
}

func TestHTTPClient_Errors(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewHTTPClient(srv.URL, srv.URL, time.Second)

	_, err := c.Screening(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	_, err = c.Screening(context.Background(), 6)
	require.Error(t, err)
	assert.False(t, errs.Is(err, errs.ErrNotFound))
}

func TestStatic(t *testing.T) {
	s := NewStatic()
	s.AddClient(model.Client{ID: 1, FirstName: "Luis", LastName: "Paz"})

	cl, err := s.Client(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Luis Paz", cl.FullName())

	_, err = s.Screening(context.Background(), 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
