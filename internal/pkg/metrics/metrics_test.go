package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := New()
	m.AdsCreated.WithLabelValues("true").Inc()
	m.MediaDeletes.WithLabelValues(Outcome(errors.New("boom"))).Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdsCreated.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MediaDeletes.WithLabelValues("error")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "adboard_ads_created_total")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "error", Outcome(errors.New("x")))
}
