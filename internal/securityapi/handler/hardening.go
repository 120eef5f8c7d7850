package handler

import (
	"net/http"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
)

// Hardening serves the hardening recommendation list.
type Hardening struct {
	svc        *core.HardeningService
	production bool
}

func NewHardening(svc *core.HardeningService, production bool) *Hardening {
	return &Hardening{svc: svc, production: production}
}

func (h *Hardening) Recommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.Recommendations(r.Context())
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"recommendations": recs,
		"count":           len(recs),
	})
}
