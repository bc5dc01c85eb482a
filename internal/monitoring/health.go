package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthChecker tracks liveness signals from the agent loop and serves
// them as a health endpoint.
type HealthChecker struct {
	mu           sync.RWMutex
	startTime    time.Time
	lastAnalysis time.Time
	lastPrice    float64
	isConnected  bool
	errors       []string
}

// HealthStatus is the JSON shape of the health endpoint.
type HealthStatus struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	LastAnalysis time.Time `json:"last_analysis"`
	LastPrice    float64   `json:"last_price"`
	IsConnected  bool      `json:"is_connected"`
	Uptime       string    `json:"uptime"`
	Errors       []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates a health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		errors:    make([]string, 0),
	}
}

// SetConnected records whether the market data source is reachable.
func (h *HealthChecker) SetConnected(connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isConnected = connected
}

// RecordAnalysis records a completed analysis cycle and its price.
func (h *HealthChecker) RecordAnalysis(price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastAnalysis = time.Now()
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
	if !h.isConnected {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:       status,
		Timestamp:    time.Now(),
		LastAnalysis: h.lastAnalysis,
		LastPrice:    h.lastPrice,
		IsConnected:  h.isConnected,
		Uptime:       time.Since(h.startTime).String(),
		Errors:       h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
