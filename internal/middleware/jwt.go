package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by StaffAuth.
const (
	ctxStaffID   = "staff_id"
	ctxStaffRole = "staff_role"
)

// StaffAuth returns an Echo middleware that validates an HS256 Bearer token
// issued to a box office employee. The "sub" claim must hold the numeric
// employee id; the optional "role" claim is recorded for the audit trail.
// Tokens are issued by the staff directory, not by this service.
func StaffAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}
			id, ok := staffID(claims["sub"])
			if !ok {
				return unauthorized(c, "token subject is not an employee id")
			}
			role, _ := claims["role"].(string)

			c.Set(ctxStaffID, id)
			c.Set(ctxStaffRole, role)
			return next(c)
		}
	}
}

// staffID accepts the subject as a JSON number or a numeric string.
func staffID(v any) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t >= 1 && t == float64(uint64(t)) {
			return uint64(t), true
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized", "message": msg})
}
