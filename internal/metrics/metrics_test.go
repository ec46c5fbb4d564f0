package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CustomerChurnPrediction/internal/metrics"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()
	m.ObservePrediction("api", "churned", 3*time.Millisecond)
	m.ObservePrediction("api", "churned", time.Millisecond)
	m.ObserveFailure("form", metrics.OutcomeInvalidInput)

	n, err := testutil.GatherAndCount(m.Registry(), "churn_predictions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `churn_predictions_total{channel="api",label="churned"} 2`)
	assert.Contains(t, string(body), `churn_prediction_failures_total{channel="form",outcome="invalid_input"} 1`)
}
