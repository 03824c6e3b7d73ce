package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New()}
}

// Validate checks the struct tags of i. Failures are reported as
// InvalidRequest naming the offending fields.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Newf(errs.CodeInvalidRequest, "%v", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return errs.Newf(errs.CodeInvalidRequest, "invalid fields: %s", strings.Join(fields, ", "))
}

// bindAndValidate decodes the JSON body into dst and validates it.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return errs.Newf(errs.CodeInvalidRequest, "invalid request body")
	}
	return c.Validate(dst)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(k errs.Kind) int {
	switch k {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindExpiry:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": code, "message": text}. Integrity
// and internal failures are logged with their stack and their details are
// not sent to the caller.
func respondError(c echo.Context, log *slog.Logger, err error) error {
	kind := errs.KindOf(err)
	code := errs.CodeOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			"path", c.Path(),
			"code", code,
			"err", err,
			"stack", errs.ExtractStackLines(err, 12),
		)
		msg := "internal error"
		if kind == errs.KindIntegrity {
			msg = "stored state is inconsistent"
		}
		return c.JSON(status, echo.Map{"error": code, "message": msg})
	}
	msg := string(code)
	if e, ok := errs.As(err); ok && e.Message != "" {
		msg = e.Message
	}
	return c.JSON(status, echo.Map{"error": code, "message": msg})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Newf(errs.CodeInvalidRequest, "invalid %s", name)
	}
	return id, nil
}

// queryID reads an optional positive integer query parameter. Missing
// parameters yield 0.
func queryID(c echo.Context, name string) (uint64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Newf(errs.CodeInvalidRequest, "invalid %s", name)
	}
	return id, nil
}

// queryTime reads an optional RFC 3339 timestamp or YYYY-MM-DD date.
// A bare date used as an upper bound covers the whole day.
func queryTime(c echo.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errs.Newf(errs.CodeInvalidRequest, "invalid %s, want RFC 3339 or YYYY-MM-DD", name)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}
