package handler

import (
	"net/http"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
)

// Overview serves the aggregate security posture.
type Overview struct {
	svc        *core.OverviewService
	production bool
}

func NewOverview(svc *core.OverviewService, production bool) *Overview {
	return &Overview{svc: svc, production: production}
}

func (h *Overview) Get(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, overview)
}
