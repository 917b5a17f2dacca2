package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/statement_dashboard/internal/platform/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveParse(t *testing.T) {
	m := observability.NewMetrics()

	m.ObserveParse("bancasella", 10, 2, nil)
	m.ObserveParse("bancasella", 5, 0, nil)
	m.ObserveParse("revolut", 0, 0, errors.New("missing columns"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatementsParsed.WithLabelValues("bancasella")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.RowsParsed.WithLabelValues("bancasella")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues("bancasella")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParseFailures.WithLabelValues("revolut")))
}

func TestObserveCache(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.ObserveParse("x", 1, 1, nil)
		m.ObserveCache(true)
		m.ObserveBuild("Month", time.Second)
	})
}

func TestHandler(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveBuild("Month", 20*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "statement_dashboard_dashboard_build_seconds")
	assert.Contains(t, string(body), "go_goroutines")
}
