package model

import "time"

// Cloud providers.
const (
	ProviderAWS   = "aws"
	ProviderAzure = "azure"
	ProviderGCP   = "gcp"
)

// Connection statuses.
const (
	ConnectionConnected    = "connected"
	ConnectionDisconnected = "disconnected"
	ConnectionError        = "error"
)

// Resource statuses.
const (
	ResourceRunning    = "running"
	ResourceStopped    = "stopped"
	ResourceTerminated = "terminated"
)

// CloudResource is a single inventoried resource from one provider.
type CloudResource struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Provider string            `json:"provider"`
	Region   string            `json:"region"`
	Status   string            `json:"status"`
	Cost     float64           `json:"cost"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// CloudCost is one cost entry for a provider service on a given day.
type CloudCost struct {
	Provider string  `json:"provider"`
	Service  string  `json:"service"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Date     string  `json:"date"`
}

// CloudConnection records a provider account linked to the dashboard.
// Credential material is held only long enough to validate the connection
// and is never stored or serialized.
type CloudConnection struct {
	ID          string    `json:"id" db:"id"`
	Provider    string    `json:"provider" db:"provider"`
	AccountID   string    `json:"account_id,omitempty" db:"account_id"`
	Status      string    `json:"status" db:"status"`
	Regions     []string  `json:"regions" db:"regions"`
	ConnectedAt time.Time `json:"connected_at" db:"connected_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
