package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/request"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
)

// Threat serves threat detection and the detected threat inventory.
type Threat struct {
	svc        *core.ThreatService
	production bool
}

func NewThreat(svc *core.ThreatService, production bool) *Threat {
	return &Threat{svc: svc, production: production}
}

// Detect analyzes a batch of events and returns the persisted detections.
func (h *Threat) Detect(w http.ResponseWriter, r *http.Request) {
	var req request.ThreatDetection
	if err := request.Decode(r, &req); err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	threats, err := h.svc.Detect(r.Context(), req.Source, req.Events)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"threats":        threats,
		"count":          len(threats),
		"eventsAnalyzed": len(req.Events),
	})
}

func (h *Threat) List(w http.ResponseWriter, r *http.Request) {
	pg, err := request.ParsePagination(r)
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	filter := core.ThreatFilter{
		Severity: r.URL.Query().Get("severity"),
		Status:   r.URL.Query().Get("status"),
	}
	threats, hasMore, err := h.svc.List(r.Context(), filter, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}

	var nextCursor string
	if hasMore && len(threats) > 0 {
		nextCursor = threats[len(threats)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, threats, nextCursor, hasMore)
}

func (h *Threat) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	threat, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, threat)
}

// Resolve closes an active threat.
func (h *Threat) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	var req request.ResolveThreat
	if err := request.Decode(r, &req); err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	threat, err := h.svc.Resolve(r.Context(), id, req.Resolution)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, threat)
}
