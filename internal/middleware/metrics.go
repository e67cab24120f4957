package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-grid-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records every request under its route template, so /units/u1/grid and
// /units/u2/grid share one series. Requests that hit no route are grouped as "unmatched".
// Unit-scoped requests that passed authorization and found their unit are also counted per unit.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if metrics == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()
		metrics.ObserveHTTPRequest(c.Request.Method, route, status, time.Since(start))

		switch status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		default:
			metrics.RecordUnitRequest(c.Param(UnitParam), c.Request.Method)
		}
	}
}
