package request

// ConnectAWS is the POST /api/aws/connect body.
type ConnectAWS struct {
	AccessKeyID     string `json:"accessKeyId" validate:"required"`
	SecretAccessKey string `json:"secretAccessKey" validate:"required"`
	Region          string `json:"region" validate:"required"`
}

// ConnectAzure is the POST /api/azure/connect body.
type ConnectAzure struct {
	ClientID       string `json:"clientId" validate:"required"`
	ClientSecret   string `json:"clientSecret" validate:"required"`
	TenantID       string `json:"tenantId" validate:"required"`
	SubscriptionID string `json:"subscriptionId" validate:"required"`
}

// ConnectGCP is the POST /api/gcp/connect body.
type ConnectGCP struct {
	ProjectID         string `json:"projectId" validate:"required"`
	ServiceAccountKey string `json:"serviceAccountKey" validate:"required"`
}
