package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/request"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
)

// Vulnerability serves stored findings.
type Vulnerability struct {
	svc        *core.VulnerabilityService
	production bool
}

func NewVulnerability(svc *core.VulnerabilityService, production bool) *Vulnerability {
	return &Vulnerability{svc: svc, production: production}
}

func (h *Vulnerability) List(w http.ResponseWriter, r *http.Request) {
	pg, err := request.ParsePagination(r)
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	filter := core.VulnerabilityFilter{
		Severity: r.URL.Query().Get("severity"),
		Status:   r.URL.Query().Get("status"),
	}
	vulns, hasMore, err := h.svc.List(r.Context(), filter, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}

	var nextCursor string
	if hasMore && len(vulns) > 0 {
		nextCursor = vulns[len(vulns)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, vulns, nextCursor, hasMore)
}

func (h *Vulnerability) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, v)
}

// UpdateStatus transitions a finding through its workflow.
func (h *Vulnerability) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	var req request.UpdateVulnerability
	if err := request.Decode(r, &req); err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	v, err := h.svc.UpdateStatus(r.Context(), id, req.Status, req.Resolution)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, v)
}
