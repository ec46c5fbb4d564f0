package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"CustomerChurnPrediction/internal/metrics"
	"CustomerChurnPrediction/internal/models"
)

const (
	maxMessageSize = 16 << 10
	writeWait      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is one reply on the prediction stream. Exactly one of
// Result and Error is set.
type StreamMessage struct {
	Type   string           `json:"type" example:"prediction"`
	Result *PredictResponse `json:"result,omitempty"`
	Error  *ErrorResponse   `json:"error,omitempty"`
}

// Stream godoc
// @Summary      Live scoring over WebSocket
// @Description  Upgrades to a WebSocket. Every text message must be a JSON customer profile and is answered with a StreamMessage.
// @Description  Invalid profiles are answered with an error message and the connection stays open.
// @Tags         WebSocket
// @Success      101  {string}  string  "101 Switching Protocols"
// @Router       /ws/predict [get]
func (h *Handler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.serveStream(c, conn)
}

func (h *Handler) serveStream(c *gin.Context, conn *websocket.Conn) {
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	client := c.ClientIP()
	h.logger.Info("prediction stream opened", zap.String("client_ip", client))
	defer h.logger.Info("prediction stream closed", zap.String("client_ip", client))

	ctx := c.Request.Context()
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("prediction stream read failed", zap.String("client_ip", client), zap.Error(err))
			}
			return
		}

		reply := h.streamReply(ctx, messageType, message)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("prediction stream write failed", zap.String("client_ip", client), zap.Error(err))
			return
		}
	}
}

func (h *Handler) streamReply(ctx context.Context, messageType int, message []byte) StreamMessage {
	if messageType != websocket.TextMessage {
		return StreamMessage{Type: "error", Error: &ErrorResponse{Error: "only text messages are supported"}}
	}

	var profile models.CustomerProfile
	if err := json.Unmarshal(message, &profile); err != nil {
		h.metrics.ObserveFailure(ChannelWebSocket, metrics.OutcomeMalformed)
		return StreamMessage{Type: "error", Error: &ErrorResponse{Error: "Invalid request"}}
	}

	resp, err := h.predict(ctx, ChannelWebSocket, profile)
	if err != nil {
		_, body := describeError(err)
		return StreamMessage{Type: "error", Error: &body}
	}
	return StreamMessage{Type: "prediction", Result: &resp}
}
