package tracker

import (
	"testing"
)

func TestHealthMonitorStartsHealthy(t *testing.T) {
	monitor := NewHealthMonitor()

	if !monitor.IsHealthy("ECOSP") {
		t.Error("Expected unseen carrier to be healthy")
	}
}

func TestHealthMonitorTripsAfterConsecutiveFailures(t *testing.T) {
	monitor := NewHealthMonitor()

	for i := 0; i < consecutiveFailureThreshold-1; i++ {
		monitor.RecordFailure("GRFRT", "timeout", "https://example.com/track")
	}
	if !monitor.IsHealthy("GRFRT") {
		t.Errorf("Expected healthy below %d consecutive failures", consecutiveFailureThreshold)
	}

	monitor.RecordFailure("GRFRT", "timeout", "https://example.com/track")
	if monitor.IsHealthy("GRFRT") {
		t.Errorf("Expected unhealthy at %d consecutive failures", consecutiveFailureThreshold)
	}
}

func TestHealthMonitorSuccessResetsStreak(t *testing.T) {
	monitor := NewHealthMonitor()

	for i := 0; i < consecutiveFailureThreshold; i++ {
		monitor.RecordFailure("SUSSH", "status 500", "https://example.com/track")
	}
	monitor.RecordSuccess("SUSSH")

	if !monitor.IsHealthy("SUSSH") {
		t.Error("Expected a success to reset the failure streak")
	}
}

func TestHealthMonitorTracksCarriersIndependently(t *testing.T) {
	monitor := NewHealthMonitor()

	for i := 0; i < consecutiveFailureThreshold; i++ {
		monitor.RecordFailure("OCGRN", "dns error", "https://example.com/track")
	}
	monitor.RecordSuccess("ECOSP")

	if monitor.IsHealthy("OCGRN") {
		t.Error("Expected OCGRN to be unhealthy")
	}
	if !monitor.IsHealthy("ECOSP") {
		t.Error("Expected ECOSP to remain healthy")
	}
}

func TestHealthMonitorSnapshot(t *testing.T) {
	monitor := NewHealthMonitor()

	monitor.RecordSuccess("ECOSP")
	monitor.RecordFailure("ECOSP", "status 503", "https://example.com/track")

	snapshot := monitor.Snapshot()
	health, ok := snapshot["ECOSP"]
	if !ok {
		t.Fatal("Expected ECOSP in snapshot")
	}
	if health.TotalRequests != 2 || health.FailedRequests != 1 {
		t.Errorf("Snapshot counts = %d total / %d failed, want 2 / 1", health.TotalRequests, health.FailedRequests)
	}
	if health.LastError != "status 503" {
		t.Errorf("LastError = %q, want status 503", health.LastError)
	}
	if !health.Healthy {
		t.Error("Expected ECOSP healthy with a single failure")
	}
}
