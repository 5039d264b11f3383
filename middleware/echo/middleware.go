package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	skema "github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON parses request JSON via schema s, stores the validated value in
// the request context on success, or returns 400 with issues when validation fails.
func ValidateJSON(s skema.Schema, opt ...skema.ParseOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := middleware.Parse(c.Request(), s, opt...)
			if !res.Success {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(res.Error))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), res.Data)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the validated body from echo.Context.
func GetValue(c echo.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}
