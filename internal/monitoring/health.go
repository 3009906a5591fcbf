package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports liveness of the trading session over HTTP.
type HealthChecker struct {
	mu        sync.RWMutex
	lastTick  time.Time
	lastPrice float64
	errors    []string
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LastTick  time.Time `json:"last_tick"`
	LastPrice float64   `json:"last_price"`
	Uptime    string    `json:"uptime"`
	Errors    []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RecordTick marks the session alive with the latest observed price.
func (h *HealthChecker) RecordTick(price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastTick = time.Now()
	h.lastPrice = price
}

// RecordError appends an error to the health report.
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.lastTick.IsZero() || time.Since(h.lastTick) > time.Hour {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		LastTick:  h.lastTick,
		LastPrice: h.lastPrice,
		Uptime:    time.Since(startTime).String(),
		Errors:    h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
