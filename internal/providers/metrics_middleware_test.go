package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type middlewareTestMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
}

func (m *middlewareTestMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *middlewareTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.durationCalls++
}
func (m *middlewareTestMetrics) IncCacheHits()                        {}
func (m *middlewareTestMetrics) IncCacheMisses()                      {}
func (m *middlewareTestMetrics) IncFetchPages(_ int)                  {}
func (m *middlewareTestMetrics) ObserveFetchDuration(_ time.Duration) {}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &middlewareTestMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodGet, "/stats?creator=alice", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, "/stats", metrics.requestEndpoint, "query string stays out of the label")
	assert.Equal(t, http.StatusNotFound, metrics.requestStatus)
	assert.Equal(t, 1, metrics.durationCalls)
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	metrics := &middlewareTestMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
}

func TestStatusRecorder_KeepsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}

	rec.WriteHeader(http.StatusBadGateway)
	rec.WriteHeader(http.StatusOK) // net/http logs and ignores the second call

	assert.Equal(t, http.StatusBadGateway, rec.status)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestStatusRecorder_Unwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}
	assert.Equal(t, http.ResponseWriter(rr), rec.Unwrap())
}
