package tracker

import (
	"sync"
	"time"
)

const consecutiveFailureThreshold = 5

// HealthMonitor tracks fetch outcomes per carrier so a flaky tracking page
// can be flagged without affecting the others
type HealthMonitor struct {
	mu       sync.RWMutex
	carriers map[string]*carrierStats
}

type carrierStats struct {
	totalRequests       int64
	failedRequests      int64
	consecutiveFailures int64
	lastFailureTime     time.Time
	lastSuccessTime     time.Time
	lastError           string
	lastURL             string
}

// CarrierHealth is a snapshot of one carrier's fetch record
type CarrierHealth struct {
	Healthy             bool       `json:"healthy"`
	TotalRequests       int64      `json:"total_requests"`
	FailedRequests      int64      `json:"failed_requests"`
	ConsecutiveFailures int64      `json:"consecutive_failures"`
	LastFailureTime     *time.Time `json:"last_failure_time,omitempty"`
	LastSuccessTime     *time.Time `json:"last_success_time,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{
		carriers: make(map[string]*carrierStats),
	}
}

// RecordSuccess records a successful tracking page fetch
func (h *HealthMonitor) RecordSuccess(carrierCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := h.stats(carrierCode)
	stats.totalRequests++
	stats.consecutiveFailures = 0
	stats.lastSuccessTime = time.Now()
}

// RecordFailure records a failed tracking page fetch
func (h *HealthMonitor) RecordFailure(carrierCode, errorMsg, url string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := h.stats(carrierCode)
	stats.totalRequests++
	stats.failedRequests++
	stats.consecutiveFailures++
	stats.lastFailureTime = time.Now()
	stats.lastError = errorMsg
	stats.lastURL = url
}

// IsHealthy reports whether a carrier's tracking page is below the
// consecutive failure threshold
func (h *HealthMonitor) IsHealthy(carrierCode string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats, ok := h.carriers[carrierCode]
	if !ok {
		return true
	}
	return stats.consecutiveFailures < consecutiveFailureThreshold
}

// Snapshot returns the health of every carrier seen so far
func (h *HealthMonitor) Snapshot() map[string]CarrierHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot := make(map[string]CarrierHealth, len(h.carriers))
	for code, stats := range h.carriers {
		health := CarrierHealth{
			Healthy:             stats.consecutiveFailures < consecutiveFailureThreshold,
			TotalRequests:       stats.totalRequests,
			FailedRequests:      stats.failedRequests,
			ConsecutiveFailures: stats.consecutiveFailures,
			LastError:           stats.lastError,
		}
		if !stats.lastFailureTime.IsZero() {
			t := stats.lastFailureTime
			health.LastFailureTime = &t
		}
		if !stats.lastSuccessTime.IsZero() {
			t := stats.lastSuccessTime
			health.LastSuccessTime = &t
		}
		snapshot[code] = health
	}
	return snapshot
}

// Reset clears all recorded outcomes
func (h *HealthMonitor) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.carriers = make(map[string]*carrierStats)
}

func (h *HealthMonitor) stats(carrierCode string) *carrierStats {
	stats, ok := h.carriers[carrierCode]
	if !ok {
		stats = &carrierStats{}
		h.carriers[carrierCode] = stats
	}
	return stats
}
