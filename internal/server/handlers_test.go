package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fricu/internal/analysis"
	"fricu/internal/auth"
	"fricu/internal/service"
	"fricu/internal/store"
)

func newTestHandler(t *testing.T, authCfg auth.Config) (http.Handler, *store.Store) {
	t.Helper()

	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	query := service.NewQueryService(s, store.Profile{DefaultFTPWatts: 250, DefaultThresholdHeartRate: 170, WeightKg: 70}, analysis.DefaultOptions())
	handler := NewHandler(Deps{
		Sync:          service.NewSyncService(s, nil),
		Query:         query,
		Auth:          authCfg,
		DefaultWindow: analysis.Window90,
	})
	return handler, s
}

func do(t *testing.T, h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, auth.Config{})

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestHandler(t, auth.Config{})

	rec := do(t, h, http.MethodGet, "/health", "", http.Header{RequestIDHeader: []string{"abc-123"}})
	require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/health", "", http.Header{"x-request-id": []string{"lower-7"}})
	require.Equal(t, "lower-7", rec.Header().Get(RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/health", "", nil)
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestDataRoutes(t *testing.T) {
	h, _ := newTestHandler(t, auth.Config{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{"default profile", http.MethodGet, "/v1/data/profile", "", http.StatusOK, `{}`},
		{"default list", http.MethodGet, "/v1/data/meal_plans", "", http.StatusOK, `[]`},
		{"unknown key", http.MethodGet, "/v1/data/passwords", "", http.StatusNotFound, `{"error":"unknown key"}`},
		{"unknown route", http.MethodGet, "/v2/anything", "", http.StatusNotFound, `{"error":"not found"}`},
		{"bad method", http.MethodDelete, "/v1/data/profile", "", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
		{"invalid json", http.MethodPut, "/v1/data/workouts", `{"oops"`, http.StatusBadRequest, `{"error":"invalid json payload"}`},
		{"oversized body", http.MethodPut, "/v1/data/workouts", `"` + strings.Repeat("x", MaxBodyBytes) + `"`, http.StatusBadRequest, `{"error":"invalid content length"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body, nil)
			require.Equal(t, tt.status, rec.Code)
			require.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestPutThenGet(t *testing.T) {
	h, _ := newTestHandler(t, auth.Config{})

	rec := do(t, h, http.MethodPut, "/v1/data/custom_foods", `[{"name":"oats","kcal":389}]`, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/data/custom_foods", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `[{"name":"oats","kcal":389}]`, rec.Body.String())
}

func TestPutRequiresTokenWhenConfigured(t *testing.T) {
	cfg := auth.Config{Secret: "s3cret", Issuer: "fricu"}
	h, _ := newTestHandler(t, cfg)

	rec := do(t, h, http.MethodPut, "/v1/data/events", `[]`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())

	// Reads stay open
	rec = do(t, h, http.MethodGet, "/v1/data/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	token, err := auth.Issue(cfg, "athlete-1", time.Hour)
	require.NoError(t, err)
	rec = do(t, h, http.MethodPut, "/v1/data/events", `[{"title":"race"}]`, http.Header{"Authorization": []string{"Bearer " + token}})
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func seedServerActivities(t *testing.T, s *store.Store) {
	t.Helper()
	np := 230
	hr := 150
	activities := []store.Activity{
		{ID: "1", Date: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), Sport: store.SportCycling, DurationSec: 3600, DistanceKm: 32, TSS: 85, NormalizedPower: &np},
		{ID: "2", Date: time.Date(2024, 3, 3, 7, 0, 0, 0, time.UTC), Sport: store.SportRunning, DurationSec: 2700, DistanceKm: 9, TSS: 50, AvgHeartRate: &hr},
		{ID: "3", Date: time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC), Sport: store.SportStrength, DurationSec: 2400, TSS: 20},
	}
	require.NoError(t, s.SaveActivities(context.Background(), activities))
}

func TestAnalysisRoutes(t *testing.T) {
	h, s := newTestHandler(t, auth.Config{})
	seedServerActivities(t, s)

	t.Run("pmc", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/analysis/pmc?window=30&as_of=2024-03-10", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var view PMCView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.Equal(t, "30", view.Window)
		require.Len(t, view.Load, 30)
		require.Equal(t, "2024-03-10", view.Current.Date.Format("2006-01-02"))
		require.InDelta(t, view.Current.CTL-view.Current.ATL, view.Current.TSB, 1e-9)
	})

	t.Run("zones", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/analysis/zones?window=all", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var breakdown analysis.IntensityBreakdown
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
		require.Len(t, breakdown.Power, 8)
		require.Len(t, breakdown.HeartRate, 7)
		require.Equal(t, 3600+2700+2400, breakdown.TotalDurationSec)
		require.InDelta(t, 100, breakdown.Mix.Total(), 1e-9)
	})

	t.Run("distribution", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/analysis/distribution?window=all", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var view DistributionView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.Len(t, view.Matches, len(analysis.Templates()))
		require.True(t, view.Matches[0].Best)
	})

	t.Run("summary by sport", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/analysis/summary?window=all&sport=running", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary analysis.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		require.Equal(t, 1, summary.Count)
		require.Equal(t, 1, summary.Paths.HeartRate)
	})

	t.Run("report", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/analysis/report?window=all", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"form"`)
	})
}

func TestAnalysisBadRequests(t *testing.T) {
	h, _ := newTestHandler(t, auth.Config{})

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"bad window", http.MethodGet, "/v1/analysis/pmc?window=fortnight", http.StatusBadRequest},
		{"window beyond limit", http.MethodGet, "/v1/analysis/pmc?window=999999999", http.StatusBadRequest},
		{"bad sport", http.MethodGet, "/v1/analysis/pmc?sport=curling", http.StatusBadRequest},
		{"bad as_of", http.MethodGet, "/v1/analysis/pmc?as_of=03/10/2024", http.StatusBadRequest},
		{"unknown view", http.MethodGet, "/v1/analysis/vo2max", http.StatusNotFound},
		{"post not allowed", http.MethodPost, "/v1/analysis/pmc", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, "", nil)
			require.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAnalysisMalformedDocuments(t *testing.T) {
	t.Run("bad record is skipped", func(t *testing.T) {
		h, _ := newTestHandler(t, auth.Config{})
		body := `[{"id":"ok","date":"2024-03-01T07:00:00Z","sport":"cycling","durationSec":3600,"tss":60},{"id":"bad","tss":12.5}]`
		require.Equal(t, http.StatusNoContent, do(t, h, http.MethodPut, "/v1/data/activities", body, nil).Code)

		rec := do(t, h, http.MethodGet, "/v1/analysis/summary?window=all", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary analysis.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		require.Equal(t, 1, summary.Count)
	})

	tests := []struct {
		name string
		key  string
		body string
	}{
		{"activities not an array", "activities", `{"id":"a"}`},
		{"profile not an object", "profile", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, auth.Config{})
			require.Equal(t, http.StatusNoContent, do(t, h, http.MethodPut, "/v1/data/"+tt.key, tt.body, nil).Code)

			rec := do(t, h, http.MethodGet, "/v1/analysis/report", "", nil)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Contains(t, rec.Body.String(), "malformed document")
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t, auth.Config{})
	do(t, h, http.MethodGet, "/health", "", nil)

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "fricu_http_requests_total")
}
