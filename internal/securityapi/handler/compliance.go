package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/request"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/report"
)

// Compliance serves compliance checks and stored reports.
type Compliance struct {
	svc        *core.ComplianceService
	production bool
}

func NewCompliance(svc *core.ComplianceService, production bool) *Compliance {
	return &Compliance{svc: svc, production: production}
}

// Check runs the standard against the target and stores the report.
func (h *Compliance) Check(w http.ResponseWriter, r *http.Request) {
	var req request.ComplianceCheck
	if err := request.Decode(r, &req); err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	rep, err := h.svc.Check(r.Context(), req.Standard, req.Target)
	if err != nil {
		if strings.Contains(err.Error(), "unknown standard") {
			response.ValidationError(w, err.Error())
			return
		}
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, rep)
}

// Standards returns the supported standards catalog.
func (h *Compliance) Standards(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"standards": h.svc.Standards(),
	})
}

func (h *Compliance) ListReports(w http.ResponseWriter, r *http.Request) {
	pg, err := request.ParsePagination(r)
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	reports, hasMore, err := h.svc.ListReports(r.Context(), r.URL.Query().Get("standard"), pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}

	var nextCursor string
	if hasMore && len(reports) > 0 {
		nextCursor = reports[len(reports)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, reports, nextCursor, hasMore)
}

func (h *Compliance) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	rep, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, rep)
}

// GetReportPDF streams the report as a PDF attachment.
func (h *Compliance) GetReportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	rep, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="compliance-%s-%s.pdf"`, rep.Standard, rep.ID))
	if err := report.CompliancePDF(w, rep); err != nil {
		// Headers are already sent; nothing sensible left to write.
		return
	}
}
