package handler

import (
	"net/http"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/request"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
)

// MultiCloud serves the aggregated cross-provider routes.
type MultiCloud struct {
	svc *core.MultiCloudService
}

func NewMultiCloud(svc *core.MultiCloudService) *MultiCloud {
	return &MultiCloud{svc: svc}
}

func (h *MultiCloud) Resources(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.AllResources(r.Context()))
}

func (h *MultiCloud) Costs(w http.ResponseWriter, r *http.Request) {
	dr, err := request.ParseDateRange(r)
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, h.svc.AllCosts(r.Context(), dr.Start, dr.End))
}
