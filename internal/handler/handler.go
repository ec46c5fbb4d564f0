package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"CustomerChurnPrediction/internal/advice"
	"CustomerChurnPrediction/internal/features"
	"CustomerChurnPrediction/internal/metrics"
	"CustomerChurnPrediction/internal/models"
)

// Channels label where a prediction request came from.
const (
	ChannelForm      = "form"
	ChannelAPI       = "api"
	ChannelWebSocket = "websocket"
)

// Predictor scores customer profiles. *inference.Service implements it.
type Predictor interface {
	Predict(ctx context.Context, p models.CustomerProfile) (models.Prediction, error)
	Aligned() bool
	Schema() features.Schema
}

// Handler serves the form, the JSON API and the websocket stream.
type Handler struct {
	predictor Predictor
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func New(predictor Predictor, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{predictor: predictor, metrics: m, logger: logger}
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid value \"Maybe\" for field Contract"`
	Field string `json:"field,omitempty" example:"Contract"`
	Value string `json:"value,omitempty" example:"Maybe"`
}

// PredictResponse is one scored profile with the advice shown for it.
type PredictResponse struct {
	Prediction models.Prediction `json:"prediction"`
	Label      string            `json:"label" example:"churned"`
	Percent    string            `json:"churn_percent" example:"78.12%"`
	Advice     advice.Advice     `json:"advice"`
}

type SchemaResponse struct {
	Aligned   bool     `json:"aligned"`
	Columns   []string `json:"columns"`
	Defaulted []string `json:"defaulted,omitempty"`
	Dropped   []string `json:"dropped,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Aligned bool   `json:"aligned"`
	Columns int    `json:"columns" example:"8"`
}

// predict scores p and records the outcome under channel.
func (h *Handler) predict(ctx context.Context, channel string, p models.CustomerProfile) (PredictResponse, error) {
	start := time.Now()
	pred, err := h.predictor.Predict(ctx, p)
	if err != nil {
		status, _ := describeError(err)
		if status == http.StatusUnprocessableEntity {
			h.metrics.ObserveFailure(channel, metrics.OutcomeInvalidInput)
		} else {
			h.metrics.ObserveFailure(channel, metrics.OutcomeModelError)
			h.logger.Error("prediction failed", zap.String("channel", channel), zap.Error(err))
		}
		return PredictResponse{}, err
	}
	h.metrics.ObservePrediction(channel, pred.Label.String(), time.Since(start))

	resp := PredictResponse{
		Prediction: pred,
		Label:      pred.Label.String(),
		Percent:    pred.Percent(),
	}
	if a, ok := advice.For(pred); ok {
		resp.Advice = a
	}
	return resp, nil
}

// describeError maps a prediction error to an HTTP status and a client-safe body.
func describeError(err error) (int, ErrorResponse) {
	var category *features.InvalidCategoryError
	if errors.As(err, &category) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error: category.Error(),
			Field: category.Field,
			Value: category.Value,
		}
	}
	var outOfRange *features.OutOfRangeError
	if errors.As(err, &outOfRange) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error: outOfRange.Error(),
			Field: outOfRange.Field,
			Value: fmt.Sprint(outOfRange.Value),
		}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "Prediction failed"}
}

// Schema godoc
// @Summary      Active feature schema
// @Description  Returns the columns the model is scored with and whether rows are aligned to a schema artifact.
// @Tags         Prediction
// @Produce      json
// @Success      200  {object}  handler.SchemaResponse
// @Router       /api/v1/schema [get]
func (h *Handler) Schema(c *gin.Context) {
	schema := h.predictor.Schema()
	if schema == nil {
		c.JSON(http.StatusOK, SchemaResponse{Aligned: false, Columns: features.CanonicalOrder})
		return
	}
	cov := features.Coverage(schema)
	c.JSON(http.StatusOK, SchemaResponse{
		Aligned:   true,
		Columns:   schema,
		Defaulted: cov.Defaulted,
		Dropped:   cov.Dropped,
	})
}

// Health godoc
// @Summary      Liveness check
// @Tags         Operations
// @Produce      json
// @Success      200  {object}  handler.HealthResponse
// @Router       /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	columns := len(features.CanonicalOrder)
	if schema := h.predictor.Schema(); schema != nil {
		columns = len(schema)
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Aligned: h.predictor.Aligned(), Columns: columns})
}
