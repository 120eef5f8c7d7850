package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

// fixtureProvider serves a deterministic inventory and cost series for one
// provider. It stands in for the vendor API in development and test
// environments; amounts are derived from a stable hash so repeated calls
// return identical data.
type fixtureProvider struct {
	name      string
	regions   []string
	resources []model.CloudResource
	services  []string
}

func (p *fixtureProvider) Name() string { return p.name }

func (p *fixtureProvider) Connect(_ context.Context, creds Credentials) (*model.CloudConnection, error) {
	regions := p.regions
	// The caller's region leads the list when it is not already present.
	if creds.Region != "" && !contains(regions, creds.Region) {
		regions = append([]string{creds.Region}, regions...)
	}

	now := time.Now().UTC()
	return &model.CloudConnection{
		Provider:    p.name,
		Status:      model.ConnectionConnected,
		Regions:     regions,
		ConnectedAt: now,
		UpdatedAt:   now,
	}, nil
}

func (p *fixtureProvider) Resources(_ context.Context) ([]model.CloudResource, error) {
	out := make([]model.CloudResource, len(p.resources))
	copy(out, p.resources)
	return out, nil
}

func (p *fixtureProvider) Costs(_ context.Context, start, end time.Time) ([]model.CloudCost, error) {
	var costs []model.CloudCost
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		for _, svc := range p.services {
			costs = append(costs, model.CloudCost{
				Provider: p.name,
				Service:  svc,
				Amount:   fixtureAmount(p.name, svc, date),
				Currency: "USD",
				Date:     date,
			})
		}
	}
	return costs, nil
}

// fixtureAmount maps provider+service+date onto a stable amount between
// 1.00 and 101.00 USD.
func fixtureAmount(provider, service, date string) float64 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s/%s/%s", provider, service, date)
	return 1.0 + float64(h.Sum32()%10000)/100.0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// NewAWSFixture returns the fixture-backed AWS provider.
func NewAWSFixture() Provider {
	return &fixtureProvider{
		name:    model.ProviderAWS,
		regions: []string{"us-east-1", "us-west-2", "eu-west-1"},
		resources: []model.CloudResource{
			{ID: "i-0a1b2c3d4e5f6a7b8", Name: "web-server-prod", Type: "EC2 Instance", Provider: model.ProviderAWS, Region: "us-east-1", Status: model.ResourceRunning, Cost: 245.50, Tags: map[string]string{"env": "production", "team": "platform"}},
			{ID: "db-prod-primary", Name: "orders-db", Type: "RDS Instance", Provider: model.ProviderAWS, Region: "us-east-1", Status: model.ResourceRunning, Cost: 412.00, Tags: map[string]string{"env": "production", "engine": "postgres"}},
			{ID: "assets-cdn-origin", Name: "assets-bucket", Type: "S3 Bucket", Provider: model.ProviderAWS, Region: "us-west-2", Status: model.ResourceRunning, Cost: 38.20, Tags: map[string]string{"env": "production"}},
		},
		services: []string{"EC2", "RDS", "S3"},
	}
}

// NewAzureFixture returns the fixture-backed Azure provider.
func NewAzureFixture() Provider {
	return &fixtureProvider{
		name:    model.ProviderAzure,
		regions: []string{"eastus", "westus2", "westeurope"},
		resources: []model.CloudResource{
			{ID: "vm-api-01", Name: "api-server", Type: "Virtual Machine", Provider: model.ProviderAzure, Region: "eastus", Status: model.ResourceRunning, Cost: 198.75, Tags: map[string]string{"env": "production"}},
			{ID: "sqldb-reporting", Name: "reporting-db", Type: "SQL Database", Provider: model.ProviderAzure, Region: "eastus", Status: model.ResourceRunning, Cost: 305.10, Tags: map[string]string{"env": "production"}},
			{ID: "stbackups001", Name: "backups-storage", Type: "Storage Account", Provider: model.ProviderAzure, Region: "westus2", Status: model.ResourceRunning, Cost: 52.40, Tags: map[string]string{"env": "production"}},
		},
		services: []string{"Virtual Machines", "SQL Database", "Storage"},
	}
}

// NewGCPFixture returns the fixture-backed GCP provider.
func NewGCPFixture() Provider {
	return &fixtureProvider{
		name:    model.ProviderGCP,
		regions: []string{"us-central1", "us-east1", "europe-west1"},
		resources: []model.CloudResource{
			{ID: "gce-worker-pool-1", Name: "worker-pool", Type: "Compute Engine", Provider: model.ProviderGCP, Region: "us-central1", Status: model.ResourceRunning, Cost: 167.30, Tags: map[string]string{"env": "production"}},
			{ID: "cloudsql-analytics", Name: "analytics-db", Type: "Cloud SQL", Provider: model.ProviderGCP, Region: "us-central1", Status: model.ResourceRunning, Cost: 288.90, Tags: map[string]string{"env": "production"}},
			{ID: "gcs-data-lake", Name: "data-lake", Type: "Cloud Storage", Provider: model.ProviderGCP, Region: "us-east1", Status: model.ResourceRunning, Cost: 71.60, Tags: map[string]string{"env": "production"}},
		},
		services: []string{"Compute Engine", "Cloud SQL", "Cloud Storage"},
	}
}
