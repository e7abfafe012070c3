package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("/health", http.MethodGet, "200"))
	RecordRequest("/health", http.MethodGet, http.StatusOK, 3*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("/health", http.MethodGet, "200"))

	if after != before+1 {
		t.Errorf("requests_total = %v, want %v", after, before+1)
	}
}

func TestRecordDataUpdated(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	RecordDataUpdated("activities", ts)
	if got := testutil.ToFloat64(dataUpdatedGauge.WithLabelValues("activities")); got != float64(ts.Unix()) {
		t.Errorf("last_update_timestamp_seconds = %v, want %v", got, ts.Unix())
	}

	// Zero timestamps are ignored
	RecordDataUpdated("activities", time.Time{})
	if got := testutil.ToFloat64(dataUpdatedGauge.WithLabelValues("activities")); got != float64(ts.Unix()) {
		t.Errorf("zero timestamp overwrote gauge: %v", got)
	}
}

func TestRecordCompute(t *testing.T) {
	RecordCompute(2*time.Millisecond, 17)
	if got := testutil.ToFloat64(activitiesAnalysed); got != 17 {
		t.Errorf("activities_in_last_report = %v, want 17", got)
	}
}
