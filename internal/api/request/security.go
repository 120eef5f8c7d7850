package request

import "github.com/reachskumar/ai-ops-guardian-angel/internal/model"

// RunScan is the POST /api/security/vulnerability-scan body.
type RunScan struct {
	Target   string `json:"target" validate:"required"`
	ScanType string `json:"scanType" validate:"required"`
}

// UpdateVulnerability is the PUT /api/security/vulnerabilities/{id} body.
type UpdateVulnerability struct {
	Status     string  `json:"status" validate:"required"`
	Resolution *string `json:"resolution,omitempty"`
}

// ComplianceCheck is the POST /api/security/compliance-check body.
type ComplianceCheck struct {
	Standard string `json:"standard" validate:"required"`
	Target   string `json:"target" validate:"required"`
}

// ThreatDetection is the POST /api/security/threat-detection body.
type ThreatDetection struct {
	Source string                `json:"source" validate:"required"`
	Events []model.SecurityEvent `json:"events" validate:"required,min=1,dive"`
}

// ResolveThreat is the POST /api/security/threats/{id}/resolve body.
type ResolveThreat struct {
	Resolution string `json:"resolution" validate:"required"`
}
