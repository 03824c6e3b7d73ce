package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/iliyamo/cinema-boxoffice/internal/config"
	"github.com/iliyamo/cinema-boxoffice/internal/handler"
	"github.com/iliyamo/cinema-boxoffice/internal/ledger"
	"github.com/iliyamo/cinema-boxoffice/internal/middleware"
	"github.com/iliyamo/cinema-boxoffice/internal/queue"
	"github.com/iliyamo/cinema-boxoffice/internal/router"
)

func newEcho(cfg config.Config, log *slog.Logger, rdb *redis.Client, seats *handler.SeatHandler, reservations *handler.ReservationHandler, audits *handler.AuditHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	limit := middleware.NewTokenBucket(cfg.RateLimit, rdb, log)
	router.RegisterRoutes(e, seats)
	router.RegisterReservations(e, reservations, cfg.JWT.Secret, limit)
	router.RegisterAudit(e, audits, cfg.JWT.Secret)
	return e
}

func startServer(lc fx.Lifecycle, e *echo.Echo, cfg config.Config, log *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			addr := ":" + cfg.App.Port
			log.Info("listening", "address", addr, "store", cfg.DB.Driver)
			go func() {
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return e.Shutdown(ctx)
		},
	})
}

// startSweeper runs the expiry sweeper for the life of the process.
func startSweeper(lc fx.Lifecycle, l *ledger.Ledger, cfg config.Config, log *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ledger.NewSweeper(l, cfg.Ledger.SweepInterval, log).Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

// startAuditConsumer appends every lifecycle event to the audit log file
// when a broker is configured.
func startAuditConsumer(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) {
	if cfg.RabbitMQ.URL == "" || !cfg.RabbitMQ.Consume {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	consumer := queue.NewAuditConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.AuditLogPath, log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go consumer.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
