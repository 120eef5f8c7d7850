package core

import (
	"github.com/reachskumar/ai-ops-guardian-angel/internal/compliance"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/provider"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/scanner"
)

// CloudServices bundles the services behind the cloud integrations API.
type CloudServices struct {
	Connection *ConnectionService
	MultiCloud *MultiCloudService
	Registry   *provider.Registry
}

func NewCloudServices(db DB, registry *provider.Registry) *CloudServices {
	return &CloudServices{
		Connection: NewConnectionService(db),
		MultiCloud: NewMultiCloudService(registry),
		Registry:   registry,
	}
}

// SecurityServices bundles the services behind the security API.
type SecurityServices struct {
	Scan          *ScanService
	Vulnerability *VulnerabilityService
	Compliance    *ComplianceService
	Threat        *ThreatService
	Overview      *OverviewService
	Hardening     *HardeningService
}

func NewSecurityServices(db DB, engine *scanner.Engine, checker *compliance.Checker) *SecurityServices {
	return &SecurityServices{
		Scan:          NewScanService(db, engine),
		Vulnerability: NewVulnerabilityService(db),
		Compliance:    NewComplianceService(db, checker),
		Threat:        NewThreatService(db),
		Overview:      NewOverviewService(db),
		Hardening:     NewHardeningService(db),
	}
}
