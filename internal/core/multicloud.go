package core

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/provider"
)

// MultiCloudService fans queries out to every configured provider. Provider
// failures are isolated: one failing vendor never hides the others' data.
type MultiCloudService struct {
	registry *provider.Registry
}

func NewMultiCloudService(registry *provider.Registry) *MultiCloudService {
	return &MultiCloudService{registry: registry}
}

// MultiCloudResources is the aggregated inventory across providers.
type MultiCloudResources struct {
	Resources []model.CloudResource `json:"resources"`
	Count     int                   `json:"count"`
	Providers []string              `json:"providers"`
	Errors    map[string]string     `json:"errors,omitempty"`
}

// AllResources queries every provider concurrently and concatenates the
// results in provider registration order.
func (s *MultiCloudService) AllResources(ctx context.Context) *MultiCloudResources {
	providers := s.registry.All()
	results := make([][]model.CloudResource, len(providers))

	var mu sync.Mutex
	errs := map[string]string{}

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			resources, err := p.Resources(ctx)
			if err != nil {
				mu.Lock()
				errs[p.Name()] = err.Error()
				mu.Unlock()
				return nil
			}
			results[i] = resources
			return nil
		})
	}
	g.Wait()

	out := &MultiCloudResources{Errors: errs}
	if len(errs) == 0 {
		out.Errors = nil
	}
	for i, p := range providers {
		if _, failed := errs[p.Name()]; failed {
			continue
		}
		out.Providers = append(out.Providers, p.Name())
		out.Resources = append(out.Resources, results[i]...)
	}
	out.Count = len(out.Resources)
	return out
}

// MultiCloudCosts is the aggregated cost report across providers.
type MultiCloudCosts struct {
	Costs      []model.CloudCost  `json:"costs"`
	ByProvider map[string]float64 `json:"byProvider"`
	Total      float64            `json:"total"`
	Currency   string             `json:"currency"`
	StartDate  string             `json:"startDate"`
	EndDate    string             `json:"endDate"`
	Errors     map[string]string  `json:"errors,omitempty"`
}

// AllCosts aggregates per-provider cost series over the window.
func (s *MultiCloudService) AllCosts(ctx context.Context, start, end time.Time) *MultiCloudCosts {
	providers := s.registry.All()
	results := make([][]model.CloudCost, len(providers))

	var mu sync.Mutex
	errs := map[string]string{}

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			costs, err := p.Costs(ctx, start, end)
			if err != nil {
				mu.Lock()
				errs[p.Name()] = err.Error()
				mu.Unlock()
				return nil
			}
			results[i] = costs
			return nil
		})
	}
	g.Wait()

	out := &MultiCloudCosts{
		ByProvider: map[string]float64{},
		Currency:   "USD",
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Errors:     errs,
	}
	if len(errs) == 0 {
		out.Errors = nil
	}
	for i, p := range providers {
		if _, failed := errs[p.Name()]; failed {
			continue
		}
		for _, c := range results[i] {
			out.ByProvider[c.Provider] += c.Amount
			out.Total += c.Amount
		}
		out.Costs = append(out.Costs, results[i]...)
	}
	return out
}
