// Package catalog resolves screenings and clients, which the box office
// reads but does not own. Implementations fail with errs.ErrNotFound for
// unknown ids.
package catalog

import (
	"context"
	"sync"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// Catalog is the read-only source of screenings and clients.
type Catalog interface {
	Screening(ctx context.Context, id uint64) (model.Screening, error)
	Client(ctx context.Context, id uint64) (model.Client, error)
}

// Static is an in-process catalog filled by its owner. It is used when no
// catalog service is configured.
type Static struct {
	mu         sync.RWMutex
	screenings map[uint64]model.Screening
	clients    map[uint64]model.Client
}

func NewStatic() *Static {
	return &Static{
		screenings: make(map[uint64]model.Screening),
		clients:    make(map[uint64]model.Client),
	}
}

func (s *Static) AddScreening(scr model.Screening) {
	s.mu.Lock()
	s.screenings[scr.ID] = scr
	s.mu.Unlock()
}

func (s *Static) AddClient(c model.Client) {
	s.mu.Lock()
	s.clients[c.ID] = c
	s.mu.Unlock()
}

func (s *Static) Screening(_ context.Context, id uint64) (model.Screening, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scr, ok := s.screenings[id]
	if !ok {
		return model.Screening{}, errs.Newf(errs.CodeNotFound, "screening %d not found", id)
	}
	return scr, nil
}

func (s *Static) Client(_ context.Context, id uint64) (model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return model.Client{}, errs.Newf(errs.CodeNotFound, "client %d not found", id)
	}
	return c, nil
}
