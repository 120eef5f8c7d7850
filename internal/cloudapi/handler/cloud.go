package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/request"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/provider"
)

// Cloud serves the per-provider connect, resources, and costs routes.
type Cloud struct {
	services   *core.CloudServices
	production bool
}

func NewCloud(services *core.CloudServices, production bool) *Cloud {
	return &Cloud{services: services, production: production}
}

// resolve looks up the provider from the URL, or writes a 404.
func (h *Cloud) resolve(w http.ResponseWriter, r *http.Request) (provider.Provider, bool) {
	name := chi.URLParam(r, "provider")
	p, err := h.services.Registry.Get(name)
	if err != nil {
		response.NotFoundError(w, "Unknown provider "+name)
		return nil, false
	}
	return p, true
}

// writeProviderError maps provider failures to 502 and everything else to 500.
func (h *Cloud) writeProviderError(w http.ResponseWriter, err error) {
	var pErr *provider.Error
	if errors.As(err, &pErr) {
		response.CloudProviderError(w, pErr.Error())
		return
	}
	response.InternalError(w, err, h.production)
}

// Connect validates credentials against the provider and records the
// connection.
func (h *Cloud) Connect(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	creds, err := decodeCredentials(r, p.Name())
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	conn, err := h.services.Connection.Connect(r.Context(), p, creds)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, conn)
}

// decodeCredentials parses the provider-specific connect body.
func decodeCredentials(r *http.Request, providerName string) (provider.Credentials, error) {
	switch providerName {
	case model.ProviderAWS:
		var req request.ConnectAWS
		if err := request.Decode(r, &req); err != nil {
			return provider.Credentials{}, err
		}
		return provider.Credentials{
			AccessKeyID:     req.AccessKeyID,
			SecretAccessKey: req.SecretAccessKey,
			Region:          req.Region,
		}, nil
	case model.ProviderAzure:
		var req request.ConnectAzure
		if err := request.Decode(r, &req); err != nil {
			return provider.Credentials{}, err
		}
		return provider.Credentials{
			ClientID:       req.ClientID,
			ClientSecret:   req.ClientSecret,
			TenantID:       req.TenantID,
			SubscriptionID: req.SubscriptionID,
		}, nil
	default:
		var req request.ConnectGCP
		if err := request.Decode(r, &req); err != nil {
			return provider.Credentials{}, err
		}
		return provider.Credentials{
			ProjectID:         req.ProjectID,
			ServiceAccountKey: req.ServiceAccountKey,
		}, nil
	}
}

// Resources returns the provider's inventory.
func (h *Cloud) Resources(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	resources, err := p.Resources(r.Context())
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"provider":  p.Name(),
		"resources": resources,
		"count":     len(resources),
	})
}

// Costs returns the provider's cost series over the requested window.
func (h *Cloud) Costs(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	dr, err := request.ParseDateRange(r)
	if err != nil {
		response.ValidationError(w, err.Error())
		return
	}

	costs, err := p.Costs(r.Context(), dr.Start, dr.End)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}

	var total float64
	for _, c := range costs {
		total += c.Amount
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"provider":  p.Name(),
		"costs":     costs,
		"total":     total,
		"currency":  "USD",
		"startDate": dr.StartString(),
		"endDate":   dr.EndString(),
	})
}
