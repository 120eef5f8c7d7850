package handler

import (
	"net/http"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
)

// Connection serves the stored provider connections.
type Connection struct {
	svc *core.ConnectionService
}

func NewConnection(svc *core.ConnectionService) *Connection {
	return &Connection{svc: svc}
}

func (h *Connection) List(w http.ResponseWriter, _ *http.Request) {
	conns := h.svc.List()
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"connections": conns,
		"count":       len(conns),
	})
}
