package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/posts", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/posts", http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/posts", http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/posts", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/api/posts", "400")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodDelete, "/api/categories/{id}", http.StatusNoContent, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inkwell_http_requests_total{method="DELETE",route="/api/categories/{id}",status="204"} 1`)
	assert.Contains(t, string(body), "inkwell_http_request_duration_seconds_bucket")
	assert.Contains(t, string(body), "go_goroutines")
}
