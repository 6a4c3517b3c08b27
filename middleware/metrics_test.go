package middleware_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/app"
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/middleware"
)

func family(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func labels(m *dto.Metric) map[string]string {
	out := make(map[string]string, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		out[l.GetName()] = l.GetValue()
	}
	return out
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := app.New()
	a.Use(middleware.MetricsWithConfig(middleware.MetricsConfig{Registerer: reg}))
	a.Get("/ping", handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
		return res.SendString("pong")
	}))

	get(a, "/ping")
	get(a, "/ping")
	get(a, "/missing")

	requests := family(t, reg, "http_requests_total")
	counts := map[string]float64{}
	for _, m := range requests.GetMetric() {
		l := labels(m)
		assert.Equal(t, http.MethodGet, l["method"])
		counts[l["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"200": 2, "404": 1}, counts)

	duration := family(t, reg, "http_request_duration_seconds")
	var observed uint64
	for _, m := range duration.GetMetric() {
		observed += m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), observed)

	inFlight := family(t, reg, "http_requests_in_flight")
	assert.Zero(t, inFlight.GetMetric()[0].GetGauge().GetValue())
}

func TestMetricsOptions(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	cfg := middleware.MetricsConfig{
		Registerer: reg,
		Namespace:  "api",
		PathLabel:  func(req *request.Request) string { return req.Path() },
		Skip:       func(req *request.Request) bool { return req.Path() == "/health" },
	}
	a := app.New()
	a.Use(middleware.MetricsWithConfig(cfg))
	a.Get("/health", handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
		return res.SendString("ok")
	}))
	get(a, "/health")
	get(a, "/users")

	requests := family(t, reg, "api_requests_total")
	require.Len(t, requests.GetMetric(), 1)
	assert.Equal(t, "/users", labels(requests.GetMetric()[0])["path"])

	assert.NotPanics(t, func() { middleware.MetricsWithConfig(cfg) }, "collectors are reused")
}

func TestMetricsHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := app.New()
	a.Use(middleware.MetricsWithConfig(middleware.MetricsConfig{Registerer: reg}))
	a.Get("/metrics", middleware.MetricsHandler(reg))

	get(a, "/metrics")
	rec := get(a, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{code="200",method="GET"} 1`))
}
