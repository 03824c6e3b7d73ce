package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestLogger logs one line per request with a request id, the caller
// and the outcome. 5xx responses log at error level, 4xx at warn.
func RequestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			id := req.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(HeaderRequestID, id)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []slog.Attr{
				slog.String("request_id", id),
				slog.String("method", req.Method),
				slog.String("path", c.Path()),
				slog.String("client_ip", c.RealIP()),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			}
			if a, ok := Staff(c); ok {
				attrs = append(attrs, slog.Uint64("staff_id", a.ID))
			}
			if err != nil {
				attrs = append(attrs, slog.String("err", err.Error()))
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}
			log.LogAttrs(req.Context(), level, "request", attrs...)
			return nil
		}
	}
}
