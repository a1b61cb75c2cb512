package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

type StatusHandler struct {
	checks map[string]HealthCheck
}

func NewStatusHandler(checks map[string]HealthCheck) *StatusHandler {
	return &StatusHandler{checks: checks}
}

// Status answers 200 when every dependency responds and 503 otherwise,
// listing the state of each one.
func (h *StatusHandler) Status(c *gin.Context) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "Available"
	code := http.StatusOK
	deps := make(gin.H, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			deps[name] = "down"
			status = "Degraded"
			code = http.StatusServiceUnavailable
			_ = c.Error(err)
			continue
		}
		deps[name] = "up"
	}
	c.JSON(code, gin.H{"status": status, "dependencies": deps})
}
