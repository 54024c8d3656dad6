package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// getTestMetrics builds a Metrics set on a throwaway registry so tests never
// collide on the default registerer
func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

// TestMetricsInitialization tests that all metrics are properly initialized
func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal should not be nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration should not be nil")
	}
	if m.DBConnectionsOpen == nil {
		t.Error("DBConnectionsOpen should not be nil")
	}
	if m.DBConnectionsInUse == nil {
		t.Error("DBConnectionsInUse should not be nil")
	}
	if m.DBConnectionsIdle == nil {
		t.Error("DBConnectionsIdle should not be nil")
	}
	if m.DBConnectionsMax == nil {
		t.Error("DBConnectionsMax should not be nil")
	}
	if m.DBConnectionWaitTotal == nil {
		t.Error("DBConnectionWaitTotal should not be nil")
	}
	if m.DBConnectionWaitDuration == nil {
		t.Error("DBConnectionWaitDuration should not be nil")
	}
	if m.DBQueryDuration == nil {
		t.Error("DBQueryDuration should not be nil")
	}
	if m.DBQueryErrors == nil {
		t.Error("DBQueryErrors should not be nil")
	}
	if m.ExternalAPIRequestDuration == nil {
		t.Error("ExternalAPIRequestDuration should not be nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal should not be nil")
	}
	if m.ExternalAPIErrors == nil {
		t.Error("ExternalAPIErrors should not be nil")
	}
	if m.BoardsTotal == nil {
		t.Error("BoardsTotal should not be nil")
	}
	if m.MembershipsTotal == nil {
		t.Error("MembershipsTotal should not be nil")
	}
	if m.BoardCreatedTotal == nil {
		t.Error("BoardCreatedTotal should not be nil")
	}
	if m.BoardDeletedTotal == nil {
		t.Error("BoardDeletedTotal should not be nil")
	}
	if m.MemberJoinedTotal == nil {
		t.Error("MemberJoinedTotal should not be nil")
	}
	if m.MemberLeftTotal == nil {
		t.Error("MemberLeftTotal should not be nil")
	}
	if m.JoinRejectedTotal == nil {
		t.Error("JoinRejectedTotal should not be nil")
	}
}

// TestMetricHelpDescriptions verifies every registered metric carries help text
func TestMetricHelpDescriptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, zap.NewNop())

	// Touch the vectors so they surface in Gather
	m.RecordHTTPRequest("GET", "/api/boards", 200, 0)
	m.IncrementJoinRejected("board_full")

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metricFamilies) == 0 {
		t.Fatal("no metric families gathered")
	}

	for _, mf := range metricFamilies {
		if mf.GetHelp() == "" {
			t.Errorf("Metric %q has an empty help description", mf.GetName())
		}
	}
}

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{422, "4xx"},
		{500, "5xx"},
		{99, "unknown"},
	}
	for _, tt := range tests {
		if got := categorizeStatus(tt.code); got != tt.want {
			t.Errorf("categorizeStatus(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestShouldSkipEndpoint(t *testing.T) {
	for _, path := range []string{"/metrics", "/health", "/ready"} {
		if !ShouldSkipEndpoint(path) {
			t.Errorf("ShouldSkipEndpoint(%q) = false, want true", path)
		}
	}
	if ShouldSkipEndpoint("/api/boards") {
		t.Error("ShouldSkipEndpoint(/api/boards) = true, want false")
	}
}
