package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/auth"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/monitor"
)

// Monitoring serves the telemetry status endpoint and the live WebSocket
// stream.
type Monitoring struct {
	hub       *monitor.Hub
	jwtSecret string
	logger    zerolog.Logger
}

func NewMonitoring(hub *monitor.Hub, jwtSecret string, logger zerolog.Logger) *Monitoring {
	return &Monitoring{hub: hub, jwtSecret: jwtSecret, logger: logger}
}

func (h *Monitoring) Status(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.hub.Status())
}

// Stream upgrades to WebSocket and pushes telemetry samples until the client
// disconnects.
func (h *Monitoring) Stream(w http.ResponseWriter, r *http.Request) {
	// Auth via query param (WebSocket API doesn't support custom headers).
	token := r.URL.Query().Get("token")
	if token == "" {
		response.AuthenticationError(w, "No authorization header provided")
		return
	}
	if _, err := auth.ValidateToken(h.jwtSecret, token); err != nil {
		response.AuthenticationError(w, "Invalid token")
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Origin differs from Host behind the frontend proxy.
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.CloseNow()

	samples, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain client frames so pings and the close handshake are processed.
	go func() {
		for {
			if _, _, err := ws.Read(ctx); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			ws.Close(websocket.StatusNormalClosure, "")
			return
		case s := <-samples:
			data, err := json.Marshal(s)
			if err != nil {
				continue
			}
			if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}
