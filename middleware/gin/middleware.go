package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	skema "github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON parses the incoming JSON using schema s with opt (or
// middleware.DefaultParseOpt when omitted), stores the validated value in the
// request context, and on failure aborts with 400 and the issues payload.
func ValidateJSON(s skema.Schema, opt ...skema.ParseOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := middleware.Parse(c.Request, s, opt...)
		if !res.Success {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(res.Error))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), res.Data))
		c.Next()
	}
}

// GetValue fetches the validated body from gin.Context.
func GetValue(c *gin.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}
