package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/request"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/scanner"
)

// Scan serves vulnerability scan runs and lookups.
type Scan struct {
	svc        *core.ScanService
	production bool
}

func NewScan(svc *core.ScanService, production bool) *Scan {
	return &Scan{svc: svc, production: production}
}

// Run executes a scan synchronously and returns the completed scan summary.
func (h *Scan) Run(w http.ResponseWriter, r *http.Request) {
	var req request.RunScan
	if err := request.Decode(r, &req); err != nil {
		response.ValidationError(w, err.Error())
		return
	}
	if !scanner.ValidScanType(req.ScanType) {
		response.ValidationError(w, fmt.Sprintf("unknown scan type %q, expected one of %v", req.ScanType, scanner.ScanTypes))
		return
	}

	scan, err := h.svc.Run(r.Context(), req.Target, req.ScanType)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, scan)
}

func (h *Scan) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	scan, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.production)
		return
	}
	response.WriteJSON(w, http.StatusOK, scan)
}
