package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveRefresh("ok")
	r.ObserveRefresh("ok")
	r.ObserveRefresh("failed")
	r.ObserveCall("GET", "ok", 20*time.Millisecond)
	r.ObserveCall("POST", "error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.refreshes.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.refreshes.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.calls.WithLabelValues("GET", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.calls.WithLabelValues("POST", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.latency))
}

func TestHandler_Exposes(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg).ObserveRefresh("ok")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `leadsession_refresh_exchanges_total{outcome="ok"} 1`)
}
