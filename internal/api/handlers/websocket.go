package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/pkg/logger"
)

const (
	wsWriteWait = 30 * time.Second
	wsPongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 64 << 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketHandler serves the gallery over a WebSocket.
// Each text message is a selection; each reply is a full plot response.
type WebSocketHandler struct {
	service GalleryProcessor
	logger  *logger.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(service GalleryProcessor, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
		logger:  log.WithField("module", "ws"),
	}
}

// Serve upgrades the connection and answers selections until the peer leaves
// GET /ws
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxSelectionBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	h.logger.WithField("remote", r.RemoteAddr).Debug("WebSocket connected")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Warn("WebSocket read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		if msgType != websocket.TextMessage {
			continue
		}

		var reply interface{}
		var sel contracts.Selection
		if err := json.Unmarshal(data, &sel); err != nil {
			reply = map[string]string{"error": "invalid selection"}
		} else {
			reply = toPlotResponse(h.service.Process(r.Context(), sel))
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.WithError(err).Warn("WebSocket write failed")
			return
		}
	}
}
