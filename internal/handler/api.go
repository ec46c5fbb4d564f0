package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"CustomerChurnPrediction/internal/metrics"
	"CustomerChurnPrediction/internal/models"
)

// PredictJSON godoc
// @Summary      Score a customer profile
// @Description  Encodes the profile, aligns it to the active feature schema and returns the churn label, probability and advice.
// @Tags         Prediction
// @Accept       json
// @Produce      json
// @Param        profile  body      models.CustomerProfile  true  "Customer profile"
// @Success      200      {object}  handler.PredictResponse
// @Failure      400      {object}  handler.ErrorResponse "Malformed JSON"
// @Failure      422      {object}  handler.ErrorResponse "Invalid category or out of range value"
// @Failure      429      {object}  handler.ErrorResponse "Rate limited"
// @Failure      500      {object}  handler.ErrorResponse "Classifier failure"
// @Router       /api/v1/predict [post]
func (h *Handler) PredictJSON(c *gin.Context) {
	var profile models.CustomerProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.metrics.ObserveFailure(ChannelAPI, metrics.OutcomeMalformed)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	resp, err := h.predict(c.Request.Context(), ChannelAPI, profile)
	if err != nil {
		status, body := describeError(err)
		_ = c.Error(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}
