package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

// Credentials carries the connect payload for any provider. Only the fields
// for the provider being connected are set.
type Credentials struct {
	// AWS
	AccessKeyID     string
	SecretAccessKey string
	Region          string

	// Azure
	ClientID       string
	ClientSecret   string
	TenantID       string
	SubscriptionID string

	// GCP
	ProjectID         string
	ServiceAccountKey string
}

// Provider is one cloud vendor integration.
type Provider interface {
	Name() string
	Connect(ctx context.Context, creds Credentials) (*model.CloudConnection, error)
	Resources(ctx context.Context) ([]model.CloudResource, error)
	Costs(ctx context.Context, start, end time.Time) ([]model.CloudCost, error)
}

// Error marks a failure inside a provider integration. Handlers map it to a
// 502 Cloud Provider error.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Registry holds the configured providers in a fixed aws, azure, gcp order.
type Registry struct {
	providers map[string]Provider
	order     []string
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.Name()] = p
		r.order = append(r.order, p.Name())
	}
	return r
}

// Get returns the provider by name, or an error for unknown names.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}

// All returns providers in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}
