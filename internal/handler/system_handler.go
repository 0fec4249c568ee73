package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/bonafide-backend/internal/response"
)

// QueueLength reports the depth of the certificate render queue.
type QueueLength interface {
	Len(ctx context.Context) (int64, error)
}

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// SystemHandler reports runtime and backend state to admins.
type SystemHandler struct {
	queue     QueueLength
	checks    map[string]HealthCheck
	backends  map[string]string
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a SystemHandler. backends names the selected
// implementation per concern and checks pings the external ones.
func NewSystemHandler(queue QueueLength, backends map[string]string, checks map[string]HealthCheck, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		queue:     queue,
		checks:    checks,
		backends:  backends,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type systemStatus struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	Backends map[string]string `json:"backends"`
	Health   map[string]string `json:"health"`

	// Go Application
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
	NumCPU     int    `json:"num_cpu"`

	// Worker Queue
	QueueCertificates int64 `json:"queue_certificates"`
}

// Status godoc
// GET /api/v1/admin/system/status
func (h *SystemHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, h.collect(c.Request.Context()))
}

func (h *SystemHandler) collect(ctx context.Context) systemStatus {
	s := systemStatus{
		Timestamp: time.Now().Unix(),
		Uptime:    formatDuration(time.Since(h.startTime)),
		Backends:  h.backends,
		Health:    make(map[string]string, len(h.checks)),
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
	}

	for name, check := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := check(checkCtx)
		cancel()
		if err != nil {
			h.log.Warn().Err(err).Str("backend", name).Msg("Health check failed")
			s.Health[name] = "down"
			continue
		}
		s.Health[name] = "up"
	}

	// ── Go Runtime ──
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.Goroutines = runtime.NumGoroutine()
	s.HeapAlloc = ms.HeapAlloc
	s.HeapSys = ms.Sys
	s.NumGC = ms.NumGC

	if h.queue != nil {
		n, err := h.queue.Len(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("Queue length unavailable")
		}
		s.QueueCertificates = n
	}

	return s
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
