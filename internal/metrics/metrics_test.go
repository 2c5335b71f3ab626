package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	reg := New("test")
	r := chi.NewRouter()
	r.Use(reg.Middleware)
	r.Get("/pewarnaan/progress/{taskID}/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/pewarnaan/progress/abc/", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	families, err := reg.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "pewarnaan_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["path"] == "/pewarnaan/progress/{taskID}" && labels["code"] == "404" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("request counter with route pattern not found")
	}
}

func TestHandlerExposesJobMetrics(t *testing.T) {
	reg := New("test")
	reg.JobQueued()
	reg.JobStarted()
	reg.JobFinished(false, 2*time.Second)
	reg.RecommenderFallback("http_500")

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`pewarnaan_coloring_jobs_total{event="failed",service="test"} 1`,
		`pewarnaan_recommender_fallbacks_total{reason="http_500",service="test"} 1`,
		"pewarnaan_coloring_job_duration_seconds_count",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilRegistryIsSafe(t *testing.T) {
	var reg *Registry
	reg.JobStarted()
	reg.JobFinished(true, time.Second)
	reg.RateLimited()
	h := reg.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}
