package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"GoIK/internal/analysis"
)

const (
	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 10 * time.Second
	streamMaxMessage   = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// StreamMessage is sent for every text frame received on a stream.
type StreamMessage struct {
	Seq        int              `json:"seq"`
	Generation uint64           `json:"generation"`
	Tokens     []analysis.Token `json:"tokens,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.profile(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.Warn("websocket upgrade failed", "profile", inst.Spec.Name, "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(streamMaxMessage)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	})

	logger := h.logger.With("profile", inst.Spec.Name, "remote", r.RemoteAddr)
	logger.Debug("stream opened")

	for seq := 0; ; seq++ {
		_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("stream closed unexpectedly", "error", err)
			}
			logger.Debug("stream closed", "messages", seq)
			return
		}

		msg := StreamMessage{Seq: seq}
		if kind != websocket.TextMessage {
			msg.Error = "only text messages are segmented"
			msg.Generation = h.dict.Generation()
		} else {
			msg.Tokens, msg.Generation, _ = h.analyze(inst.ID, inst.Analyzer, string(data))
		}

		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Warn("stream write failed", "error", err)
			return
		}
	}
}
