package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/invoicer/backend/internal/infrastructure/telemetry"
)

// Profiling attaches pprof labels (route, method, company) to each request so
// continuous profiles can be filtered per endpoint. Unmatched routes and the
// skip paths run unlabelled.
func Profiling(enabled bool, skipPaths ...string) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skip[route] {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.ProfilingLabelRoute:     route,
			telemetry.ProfilingLabelMethod:    c.Request.Method,
			telemetry.ProfilingLabelCompanyID: c.Param("id"),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
