package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fricu",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status code.",
	}, []string{"route", "method", "code"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fricu",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	dataUpdatedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fricu",
		Subsystem: "store",
		Name:      "last_update_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful write, by data key.",
	}, []string{"key"})
	computeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fricu",
		Subsystem: "engine",
		Name:      "compute_duration_seconds",
		Help:      "Time spent computing a training load report.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})
	activitiesAnalysed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fricu",
		Subsystem: "engine",
		Name:      "activities_in_last_report",
		Help:      "Activities inside the window of the most recent report.",
	})
	publishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fricu",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Change events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, dataUpdatedGauge, computeDuration, activitiesAnalysed, publishFailures)
}

// RecordRequest counts a served request and observes its latency
func RecordRequest(route, method string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordDataUpdated updates the write watermark for a key
func RecordDataUpdated(key string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	dataUpdatedGauge.WithLabelValues(key).Set(float64(ts.Unix()))
}

// RecordCompute observes one engine report
func RecordCompute(elapsed time.Duration, activities int) {
	computeDuration.Observe(elapsed.Seconds())
	activitiesAnalysed.Set(float64(activities))
}

// RecordPublishFailure counts an event that was dropped
func RecordPublishFailure() {
	publishFailures.Inc()
}
