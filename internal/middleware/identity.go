package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// Staff returns the employee authenticated by StaffAuth. ok is false on
// routes that are not behind StaffAuth.
func Staff(c echo.Context) (model.Actor, bool) {
	id, ok := c.Get(ctxStaffID).(uint64)
	if !ok || id == 0 {
		return model.Actor{}, false
	}
	role, _ := c.Get(ctxStaffRole).(string)
	return model.Actor{ID: id, Role: role}, true
}

// identity names the caller for rate limiting: the employee id when
// authenticated, "anon" otherwise.
func identity(c echo.Context) string {
	if a, ok := Staff(c); ok {
		return strconv.FormatUint(a.ID, 10)
	}
	return "anon"
}
