// Package endpoint holds the probe handlers served next to the webhook.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/version"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

// ProbeResponse is the body of /health, /ready and /alive.
type ProbeResponse struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Uptime     string             `json:"uptime,omitempty"`
	Failing    []string           `json:"failing,omitempty"`
	Components []component.Health `json:"components,omitempty"`
}

var startTime = time.Now()

func probe(service, status string) ProbeResponse {
	return ProbeResponse{
		Status:    status,
		Service:   service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func check(ctx context.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(ctx)
}

// Health reports every component. Only an unhealthy component turns the
// answer into a 503; a degraded one, such as an unreachable report sink,
// still answers 200.
func Health(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := check(c.Request.Context(), checker)
		overall := component.Overall(components)

		resp := probe(service, string(overall))
		resp.Components = components
		code := http.StatusOK
		if overall == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}

// Readiness answers 503 while any component is unhealthy and names them.
func Readiness(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := probe(service, "ready")
		for _, h := range check(c.Request.Context(), checker) {
			if h.Status == component.StatusUnhealthy {
				resp.Failing = append(resp.Failing, h.Name)
			}
		}
		if len(resp.Failing) > 0 {
			resp.Status = "not_ready"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Liveness only confirms the process serves HTTP.
func Liveness(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := probe(service, "alive")
		resp.Uptime = time.Since(startTime).Round(time.Second).String()
		c.JSON(http.StatusOK, resp)
	}
}

// Version reports build information.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	}
}
