package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/iliyamo/cinema-boxoffice/internal/audit"
	"github.com/iliyamo/cinema-boxoffice/internal/catalog"
	"github.com/iliyamo/cinema-boxoffice/internal/clock"
	"github.com/iliyamo/cinema-boxoffice/internal/config"
	"github.com/iliyamo/cinema-boxoffice/internal/database"
	"github.com/iliyamo/cinema-boxoffice/internal/handler"
	"github.com/iliyamo/cinema-boxoffice/internal/ledger"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/pricing"
	"github.com/iliyamo/cinema-boxoffice/internal/queue"
	"github.com/iliyamo/cinema-boxoffice/internal/repository"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
)

// Module provides every component of the box office.
var Module = fx.Options(
	fx.Provide(
		config.Load,
		newLogger,
		newRedis,
		newStore,
		newCatalog,
		newLocker,
		newPublisher,
		pricing.NewTable,
		clock.NewRealClock,
		newLedger,
		fx.Annotate(
			func(l *ledger.Ledger) *ledger.Ledger { return l },
			fx.As(new(handler.ReservationService)),
		),
		fx.Annotate(
			newSeatView,
			fx.As(new(handler.SeatMapService)),
		),
		fx.Annotate(
			audit.NewTrail,
			fx.As(new(handler.AuditService)),
		),
		handler.NewSeatHandler,
		handler.NewReservationHandler,
		handler.NewAuditHandler,
		newEcho,
	),
)

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// makes it the slog default.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.Log.Format, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(h).With("env", cfg.App.Env)
	slog.SetDefault(logger)
	return logger
}

// newRedis returns nil when Redis is disabled or down.
func newRedis(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) *redis.Client {
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		if cfg.Redis.Enabled {
			log.Warn("redis unreachable, using in-process locks, cache and rate limits")
		}
		return nil
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return rdb.Close() },
	})
	return rdb
}

// storeOut exposes the store under both interfaces it serves.
type storeOut struct {
	fx.Out

	Ledger ledger.Store
	Audit  audit.Source
	Seats  seating.StateReader
}

func newStore(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) (storeOut, error) {
	if cfg.DB.Driver == "memory" {
		log.Info("using in-memory store")
		s := repository.NewMemoryStore()
		return storeOut{Ledger: s, Audit: s, Seats: s}, nil
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return storeOut{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return db.Close() },
	})
	if cfg.DB.Migrate {
		if err := migrate(db); err != nil {
			return storeOut{}, err
		}
	}
	log.Info("using mysql store", "host", cfg.DB.Host, "db", cfg.DB.Name)
	s := repository.NewMySQLStore(db)
	return storeOut{Ledger: s, Audit: s, Seats: s}, nil
}

func migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return database.Migrate(ctx, db)
}

type catalogOut struct {
	fx.Out

	Ledger ledger.Catalog
	Seats  seating.ScreeningSource
}

func newCatalog(cfg config.Config, rdb *redis.Client, log *slog.Logger) catalogOut {
	var base catalog.Catalog
	if cfg.Catalog.Remote() {
		base = catalog.NewHTTPClient(cfg.Catalog.ScreeningsURL, cfg.Catalog.ClientsURL, cfg.Catalog.Timeout)
	} else {
		log.Warn("no catalog service configured, serving demo screenings and clients")
		base = demoCatalog(time.Now().UTC())
	}
	c := catalog.NewCached(base, rdb, cfg.Catalog.CacheTTL, cfg.Catalog.CachePrefix, log)
	return catalogOut{Ledger: c, Seats: c}
}

// demoCatalog seeds two rooms and a few clients for local runs.
func demoCatalog(now time.Time) *catalog.Static {
	s := catalog.NewStatic()
	day := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	s.AddScreening(model.Screening{ID: 1, RoomID: 1, RoomName: "Sala 1", Title: "Dune: Parte Dos", StartsAt: day.Add(18 * time.Hour), PriceBase: decimal.RequireFromString("12.50"), Status: model.ScreeningScheduled})
	s.AddScreening(model.Screening{ID: 2, RoomID: 2, RoomName: "Sala 2", Title: "Intensa-Mente 2", StartsAt: day.Add(16 * time.Hour), PriceBase: decimal.RequireFromString("10.00"), Status: model.ScreeningScheduled})
	s.AddScreening(model.Screening{ID: 3, RoomID: 1, RoomName: "Sala 1", Title: "Oppenheimer", StartsAt: day.Add(-48 * time.Hour), PriceBase: decimal.RequireFromString("12.50"), Status: "Finalizada"})
	s.AddClient(model.Client{ID: 1, FirstName: "Ana", LastName: "Torres", Email: "ana.torres@example.com"})
	s.AddClient(model.Client{ID: 2, FirstName: "Luis", LastName: "Fernández", Email: "luis.fernandez@example.com"})
	s.AddClient(model.Client{ID: 3, FirstName: "María José", LastName: "Quispe"})
	return s
}

func newLocker(cfg config.Config, rdb *redis.Client, log *slog.Logger) ledger.Locker {
	if cfg.Ledger.LockBackend == "redis" {
		if rdb != nil {
			return ledger.NewRedisLocker(rdb, "lock:screening", cfg.Ledger.LockTimeout, cfg.Ledger.LockTTL)
		}
		log.Warn("LOCK_BACKEND=redis but redis is unavailable, using local locks")
	}
	return ledger.NewLocalLocker(cfg.Ledger.LockTimeout)
}

// newPublisher returns a nil Publisher when no broker is configured so
// the ledger skips events entirely.
func newPublisher(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) ledger.Publisher {
	if cfg.RabbitMQ.URL == "" {
		log.Info("RABBITMQ_URL not set, lifecycle events disabled")
		return nil
	}
	p := queue.NewPublisher(cfg.RabbitMQ.URL, log)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return p.Close() },
	})
	return p
}

func newLedger(store ledger.Store, locks ledger.Locker, cat ledger.Catalog, prices *pricing.Table, events ledger.Publisher, clk clock.Clock, log *slog.Logger, cfg config.Config) *ledger.Ledger {
	return ledger.New(store, locks, cat, prices, events, clk, log, ledger.Options{
		HoldTTL:    cfg.Ledger.HoldTTL,
		SweepBatch: cfg.Ledger.SweepBatch,
	})
}

func newSeatView(states seating.StateReader, screenings seating.ScreeningSource) *seating.View {
	return seating.NewView(states, screenings)
}
