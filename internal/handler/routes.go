package handler

import (
	"github.com/gin-gonic/gin"
)

// Register mounts every route on r. limiter guards the prediction routes and
// may be nil.
func (h *Handler) Register(r *gin.Engine, limiter gin.HandlerFunc) {
	r.SetHTMLTemplate(Templates())

	r.GET("/", h.Index)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	r.GET("/api/v1/schema", h.Schema)

	scoring := r.Group("/")
	if limiter != nil {
		scoring.Use(limiter)
	}
	{
		scoring.POST("/predict", h.SubmitForm)
		scoring.POST("/api/v1/predict", h.PredictJSON)
		scoring.GET("/ws/predict", h.Stream)
	}
}
