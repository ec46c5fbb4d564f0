package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CustomerChurnPrediction/internal/features"
	"CustomerChurnPrediction/internal/handler"
	"CustomerChurnPrediction/internal/inference"
	"CustomerChurnPrediction/internal/metrics"
	"CustomerChurnPrediction/internal/middleware"
	"CustomerChurnPrediction/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// churn probability is sigmoid(2 - Contract - 0.5*SatisfactionScore)
const testModel = `{
	"kind": "logistic",
	"feature_names": ["Contract", "SatisfactionScore"],
	"intercept": 2,
	"coefficients": [-1.0, -0.5]
}`

func newRouter(t *testing.T, schema features.Schema) *gin.Engine {
	t.Helper()
	model, err := inference.ParseModel([]byte(testModel))
	require.NoError(t, err)
	svc, err := inference.NewService(model, schema, zap.NewNop())
	require.NoError(t, err)
	return newRouterWith(svc, nil)
}

func newRouterWith(p handler.Predictor, limiter gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handler.New(p, metrics.New(), zap.NewNop()).Register(r, limiter)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func highRiskJSON() map[string]any {
	return map[string]any{
		"gender":             "Male",
		"senior_citizen":     "No",
		"married":            "No",
		"dependents":         "No",
		"tenure_in_months":   1,
		"contract":           "Month-to-month",
		"internet_service":   "Fiber Optic",
		"monthly_charge":     95.0,
		"satisfaction_score": 1,
	}
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPredictJSON(t *testing.T) {
	r := newRouter(t, features.Schema{"Contract", "SatisfactionScore"})

	rec := serve(r, postJSON(t, "/api/v1/predict", highRiskJSON()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.Churned, resp.Prediction.Label)
	assert.Equal(t, "churned", resp.Label)
	assert.InDelta(t, 0.8176, resp.Prediction.Probability, 1e-4)
	assert.Equal(t, "81.76%", resp.Percent)
	assert.Equal(t, "High Churn Risk Detected", resp.Advice.Headline)
	assert.Equal(t, "Churn Probability: 81.76%", resp.Advice.Summary)
	assert.Equal(t, []string{"Contract", "SatisfactionScore"}, resp.Prediction.Columns)
	assert.True(t, resp.Prediction.Aligned)

	low := highRiskJSON()
	low["contract"] = "Two year"
	low["satisfaction_score"] = 5
	rec = serve(r, postJSON(t, "/api/v1/predict", low))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.Retained, resp.Prediction.Label)
	assert.Equal(t, "Low Churn Risk", resp.Advice.Headline)
	assert.Less(t, resp.Prediction.Probability, 0.5)

	body := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Body.String()
	assert.Contains(t, body, `churn_predictions_total{channel="api",label="churned"} 1`)
	assert.Contains(t, body, `churn_predictions_total{channel="api",label="retained"} 1`)
}

func TestPredictJSON_Rejections(t *testing.T) {
	r := newRouter(t, features.Schema{"Contract", "SatisfactionScore"})

	badContract := highRiskJSON()
	badContract["contract"] = "Three year"
	badTenure := highRiskJSON()
	badTenure["tenure_in_months"] = 73
	negativeCharge := highRiskJSON()
	negativeCharge["monthly_charge"] = -1

	tests := []struct {
		name  string
		body  map[string]any
		field string
		value string
	}{
		{"unknown contract", badContract, "Contract", "Three year"},
		{"tenure above range", badTenure, "TenureinMonths", "73"},
		{"negative monthly charge", negativeCharge, "MonthlyCharge", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, postJSON(t, "/api/v1/predict", tt.body))
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp handler.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.field, resp.Field)
			assert.Equal(t, tt.value, resp.Value)
			assert.NotEmpty(t, resp.Error)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)

	body := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Body.String()
	assert.Contains(t, body, `churn_prediction_failures_total{channel="api",outcome="invalid_input"} 3`)
	assert.Contains(t, body, `churn_prediction_failures_total{channel="api",outcome="malformed"} 1`)
}

// failing is a Predictor whose classifier is broken.
type failing struct{}

func (failing) Predict(context.Context, models.CustomerProfile) (models.Prediction, error) {
	return models.Prediction{}, errors.New("model server unreachable")
}
func (failing) Aligned() bool           { return false }
func (failing) Schema() features.Schema { return nil }

func TestPredictJSON_ClassifierFailure(t *testing.T) {
	r := newRouterWith(failing{}, nil)

	rec := serve(r, postJSON(t, "/api/v1/predict", highRiskJSON()))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Prediction failed", resp.Error)
	assert.NotContains(t, rec.Body.String(), "unreachable")
}

func TestPredictJSON_UnalignedWithTotalCharges(t *testing.T) {
	r := newRouter(t, nil)

	body := highRiskJSON()
	body["total_charges"] = 100.0
	rec := serve(r, postJSON(t, "/api/v1/predict", body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Prediction.Aligned)
	assert.Equal(t, []string{"Contract", "SatisfactionScore"}, resp.Prediction.Columns)
	assert.Equal(t, "81.76%", resp.Percent)
}

func TestSchema(t *testing.T) {
	t.Run("aligned", func(t *testing.T) {
		r := newRouter(t, features.Schema{"Contract", "SatisfactionScore"})
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/schema", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.SchemaResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Aligned)
		assert.Equal(t, []string{"Contract", "SatisfactionScore"}, resp.Columns)
		assert.Empty(t, resp.Defaulted)
		assert.Contains(t, resp.Dropped, "Gender")
	})

	t.Run("unaligned", func(t *testing.T) {
		r := newRouterWith(failing{}, nil)
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/schema", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.SchemaResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Aligned)
		assert.Equal(t, features.CanonicalOrder, resp.Columns)
	})
}

func TestHealth(t *testing.T) {
	r := newRouter(t, features.Schema{"Contract", "SatisfactionScore"})
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","aligned":true,"columns":2}`, rec.Body.String())
}

func TestIndex(t *testing.T) {
	r := newRouter(t, features.Schema{"Contract", "SatisfactionScore"})
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Customer Churn Prediction")
	assert.Contains(t, body, `<option selected>Male</option>`)
	assert.Contains(t, body, `<option selected>Month-to-month</option>`)
	assert.Contains(t, body, `name="tenure_in_months" min="0" max="72" value="12"`)
	assert.Contains(t, body, `value="70"`)
	assert.Contains(t, body, "Offer loyalty discounts")
	assert.NotContains(t, body, "Churn Probability:")
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func highRiskForm() url.Values {
	return url.Values{
		"gender":             {"Male"},
		"senior_citizen":     {"No"},
		"married":            {"No"},
		"dependents":         {"No"},
		"tenure_in_months":   {"1"},
		"contract":           {"Month-to-month"},
		"internet_service":   {"Fiber Optic"},
		"monthly_charge":     {"95"},
		"satisfaction_score": {"1"},
	}
}

func TestSubmitForm(t *testing.T) {
	r := newRouter(t, features.Schema{"Contract", "SatisfactionScore"})

	rec := serve(r, formRequest(highRiskForm()))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "High Churn Risk Detected")
	assert.Contains(t, body, "<code>81.76%</code>")
	assert.Contains(t, body, "Immediate retention action recommended.")
	assert.Contains(t, body, `<option selected>Fiber Optic</option>`)

	form := highRiskForm()
	form.Set("contract", "Forever")
	rec = serve(r, formRequest(form))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Request rejected")
	assert.Contains(t, body, "Contract")
	assert.NotContains(t, body, "Churn Probability:")

	form = highRiskForm()
	form.Set("satisfaction_score", "not-a-number")
	rec = serve(r, formRequest(form))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimitedRoutes(t *testing.T) {
	model, err := inference.ParseModel([]byte(testModel))
	require.NoError(t, err)
	svc, err := inference.NewService(model, features.Schema{"Contract", "SatisfactionScore"}, zap.NewNop())
	require.NoError(t, err)
	r := newRouterWith(svc, middleware.RateLimit(0.001, 1))

	assert.Equal(t, http.StatusOK, serve(r, postJSON(t, "/api/v1/predict", highRiskJSON())).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, postJSON(t, "/api/v1/predict", highRiskJSON())).Code)
	// read-only routes are not limited
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(newRouter(t, features.Schema{"Contract", "SatisfactionScore"}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/predict"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg handler.StreamMessage

	require.NoError(t, conn.WriteJSON(highRiskJSON()))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "prediction", msg.Type)
	require.NotNil(t, msg.Result)
	assert.Equal(t, models.Churned, msg.Result.Prediction.Label)
	assert.Equal(t, "81.76%", msg.Result.Percent)

	// invalid input is answered and the connection stays usable
	bad := highRiskJSON()
	bad["gender"] = "Robot"
	msg = handler.StreamMessage{}
	require.NoError(t, conn.WriteJSON(bad))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	require.NotNil(t, msg.Error)
	assert.Equal(t, "Gender", msg.Error.Field)
	assert.Equal(t, "Robot", msg.Error.Value)

	msg = handler.StreamMessage{}
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{broken")))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)

	msg = handler.StreamMessage{}
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)

	msg = handler.StreamMessage{}
	require.NoError(t, conn.WriteJSON(highRiskJSON()))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "prediction", msg.Type)
}
